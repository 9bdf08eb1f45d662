package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tunereel/internal/pipeline"
	"tunereel/utils"
)

// RunPipelinePayload is the one-shot end-to-end request body.
type RunPipelinePayload struct {
	Prompt          string `json:"prompt" validate:"required"`
	SongDescription string `json:"songDescription" validate:"required"`
	Artist          string `json:"artist"`
	Instrument      string `json:"instrument"`
	AspectRatio     string `json:"aspectRatio"`
	Style           string `json:"style"`
	Vocals          string `json:"vocals"`
	Title           string `json:"title"`
}

// RunPipeline handles POST /api/pipeline/run, driving every stage in
// sequence. The call blocks until the final video is on disk or a
// stage fails; artifacts from completed stages stay on disk either
// way.
func (h *ApplicationHandler) RunPipeline(c *fiber.Ctx) error {
	payload := new(RunPipelinePayload)
	if err := h.bind(c, payload); err != nil {
		return utils.RespondWithAppError(c, err)
	}

	run := h.Pipeline.NewRun()
	err := run.Execute(c.UserContext(), pipeline.RunInput{
		Prompt:          payload.Prompt,
		Artist:          payload.Artist,
		Instrument:      payload.Instrument,
		AspectRatio:     payload.AspectRatio,
		SongDescription: payload.SongDescription,
		Style:           payload.Style,
		Vocals:          payload.Vocals,
		Title:           payload.Title,
	})
	if err != nil {
		h.Logger.WithError(err).WithField("stage", string(run.Stage)).Error("Pipeline run failed")
		return utils.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"stage":    string(run.Stage),
		"imageUrl": run.Image.URL,
		"lyrics":   run.Lyrics,
		"audioUrl": run.Song.URL,
		"chorus": fiber.Map{
			"startTime": run.Chorus.Window.StartSec,
			"endTime":   run.Chorus.Window.EndSec,
		},
		"chorusUrl": run.Clip.URL,
		"videoUrl":  run.Video.URL,
		"filename":  run.Video.ID,
	})
}
