package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tunereel/utils"
)

// GenerateLyricsPayload is the lyrics-generation request body.
type GenerateLyricsPayload struct {
	SongDescription string `json:"songDescription" validate:"required"`
	Style           string `json:"style"`
}

// GenerateLyrics handles POST /api/lyrics/generate.
func (h *ApplicationHandler) GenerateLyrics(c *fiber.Ctx) error {
	payload := new(GenerateLyricsPayload)
	if err := h.bind(c, payload); err != nil {
		return utils.RespondWithAppError(c, err)
	}

	h.Logger.WithField("description", payload.SongDescription).Info("Lyrics generation requested")

	lyrics, err := h.Pipeline.GenerateLyrics(c.UserContext(), payload.SongDescription, payload.Style)
	if err != nil {
		h.Logger.WithError(err).Error("Lyrics generation failed")
		return utils.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"lyrics":          lyrics,
		"songDescription": payload.SongDescription,
	})
}
