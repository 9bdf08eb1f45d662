package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tunereel/models"
	"tunereel/utils"
)

// CreateVideoPayload is the video-creation request body. Both paths
// must reference artifacts already in the store.
type CreateVideoPayload struct {
	ImagePath string `json:"imagePath" validate:"required"`
	AudioPath string `json:"audioPath" validate:"required"`
}

// CreateVideo handles POST /api/video/create: animate the image to the
// audio clip through the talking-head vendor.
func (h *ApplicationHandler) CreateVideo(c *fiber.Ctx) error {
	payload := new(CreateVideoPayload)
	if err := h.bind(c, payload); err != nil {
		return utils.RespondWithAppError(c, err)
	}

	h.Logger.WithFields(map[string]interface{}{
		"image": payload.ImagePath,
		"audio": payload.AudioPath,
	}).Info("Video creation requested")

	art, err := h.Pipeline.CreateVideo(c.UserContext(), payload.ImagePath, payload.AudioPath)
	if err != nil {
		h.Logger.WithError(err).Error("Video creation failed")
		return utils.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"videoPath": art.Path,
		"filename":  art.ID,
		"videoUrl":  art.URL,
		"duration":  models.ChorusDurationSec,
	})
}

// DownloadArtifact handles GET /api/video/download/:filename, streaming
// a stored artifact as an attachment.
func (h *ApplicationHandler) DownloadArtifact(c *fiber.Ctx) error {
	filename := c.Params("filename")
	path, err := h.Store.Resolve(filename)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return c.Download(path)
}
