package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tunereel/utils"
)

// ExtractChorusPayload is the chorus-extraction request body. AudioPath
// may be an absolute path, a bare filename or an uploads URL.
type ExtractChorusPayload struct {
	AudioPath string `json:"audioPath" validate:"required"`
}

// ExtractChorus handles POST /api/chorus/extract: locate the chorus
// window in the referenced track, then trim the clip.
func (h *ApplicationHandler) ExtractChorus(c *fiber.Ctx) error {
	payload := new(ExtractChorusPayload)
	if err := h.bind(c, payload); err != nil {
		return utils.RespondWithAppError(c, err)
	}

	audioPath, err := h.Store.Resolve(payload.AudioPath)
	if err != nil {
		h.Logger.WithError(err).Warn("Chorus extraction referenced a missing file")
		return utils.RespondWithAppError(c, err)
	}

	res, err := h.Pipeline.LocateChorus(c.UserContext(), audioPath)
	if err != nil {
		h.Logger.WithError(err).Error("Chorus location failed")
		return utils.RespondWithAppError(c, err)
	}

	art, err := h.Pipeline.ExtractClip(c.UserContext(), audioPath, res.Window)
	if err != nil {
		h.Logger.WithError(err).Error("Chorus clip extraction failed")
		return utils.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"chorusPath": art.Path,
		"filename":   art.ID,
		"chorusUrl":  art.URL,
		"startTime":  res.Window.StartSec,
		"endTime":    res.Window.EndSec,
		"duration":   res.Window.Duration(),
	})
}
