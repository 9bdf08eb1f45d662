package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tunereel/internal/pipeline"
	"tunereel/utils"
)

// GenerateSongPayload is the music-generation request body.
type GenerateSongPayload struct {
	Lyrics string `json:"lyrics" validate:"required"`
	Title  string `json:"title"`
	Style  string `json:"style"`
	Vocals string `json:"vocals"`
}

// GenerateSong handles POST /api/music/generate. Song generation may
// block for minutes while the remote task is polled to completion.
func (h *ApplicationHandler) GenerateSong(c *fiber.Ctx) error {
	payload := new(GenerateSongPayload)
	if err := h.bind(c, payload); err != nil {
		return utils.RespondWithAppError(c, err)
	}

	h.Logger.WithField("title", payload.Title).Info("Song generation requested")

	art, err := h.Pipeline.GenerateSong(c.UserContext(), pipeline.SongInput{
		Lyrics: payload.Lyrics,
		Title:  payload.Title,
		Style:  payload.Style,
		Vocals: payload.Vocals,
	})
	if err != nil {
		h.Logger.WithError(err).Error("Song generation failed")
		return utils.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"audioPath": art.Path,
		"filename":  art.ID,
		"audioUrl":  art.URL,
	})
}
