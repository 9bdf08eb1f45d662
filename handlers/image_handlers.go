package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tunereel/internal/pipeline"
	"tunereel/utils"
)

// GenerateImagePayload is the image-generation request body.
type GenerateImagePayload struct {
	Prompt      string `json:"prompt" validate:"required"`
	Artist      string `json:"artist"`
	Instrument  string `json:"instrument"`
	AspectRatio string `json:"aspectRatio"`
}

// GenerateImage handles POST /api/image/generate.
func (h *ApplicationHandler) GenerateImage(c *fiber.Ctx) error {
	payload := new(GenerateImagePayload)
	if err := h.bind(c, payload); err != nil {
		return utils.RespondWithAppError(c, err)
	}

	h.Logger.WithField("prompt", payload.Prompt).Info("Image generation requested")

	res, err := h.Pipeline.GenerateImage(c.UserContext(), pipeline.ImageInput{
		Prompt:      payload.Prompt,
		Artist:      payload.Artist,
		Instrument:  payload.Instrument,
		AspectRatio: payload.AspectRatio,
	})
	if err != nil {
		h.Logger.WithError(err).Error("Image generation failed")
		return utils.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"imagePath": res.Artifact.Path,
		"filename":  res.Artifact.ID,
		"imageUrl":  res.Artifact.URL,
		"prompt":    res.Prompt,
	})
}
