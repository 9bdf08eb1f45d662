package pipeline

import (
	"context"

	"tunereel/models"
)

// Stage names the checkpoints of a pipeline run. A run only ever moves
// forward; any failure parks it at StageFailed and nothing downstream
// executes.
type Stage string

const (
	StageImagePending Stage = "image-pending"
	StageImageReady   Stage = "image-ready"
	StageLyricsReady  Stage = "lyrics-ready"
	StageSongReady    Stage = "song-ready"
	StageChorusReady  Stage = "chorus-ready"
	StageClipReady    Stage = "clip-ready"
	StageVideoReady   Stage = "video-ready"
	StageFailed       Stage = "failed"
)

// RunInput is everything a full end-to-end run needs up front.
type RunInput struct {
	Prompt          string
	Artist          string
	Instrument      string
	AspectRatio     string
	SongDescription string
	Style           string
	Vocals          string
	Title           string
}

// Run holds one pipeline execution's state: the current stage plus the
// artifact references each completed stage produced. Runs live for a
// single invocation; nothing is persisted across restarts.
type Run struct {
	orc *Orchestrator

	Stage       Stage
	Image       models.Artifact
	ImagePrompt string
	Lyrics      string
	Song        models.Artifact
	Chorus      *ChorusResult
	Clip        models.Artifact
	Video       models.Artifact
	Err         error
}

// NewRun starts a run at StageImagePending.
func (o *Orchestrator) NewRun() *Run {
	return &Run{orc: o, Stage: StageImagePending}
}

// step guards a transition: the run must sit at from, and a stage
// error parks the run at StageFailed for good.
func (r *Run) step(from, to Stage, fn func() error) error {
	if r.Stage == StageFailed {
		return models.NewValidationError("pipeline run already failed: %v", r.Err)
	}
	if r.Stage != from {
		return models.NewValidationError("pipeline is at stage %q, expected %q", r.Stage, from)
	}
	if err := fn(); err != nil {
		r.Stage = StageFailed
		r.Err = err
		return err
	}
	r.Stage = to
	return nil
}

// GenerateImage advances image-pending -> image-ready.
func (r *Run) GenerateImage(ctx context.Context, in ImageInput) error {
	return r.step(StageImagePending, StageImageReady, func() error {
		res, err := r.orc.GenerateImage(ctx, in)
		if err != nil {
			return err
		}
		r.Image = res.Artifact
		r.ImagePrompt = res.Prompt
		return nil
	})
}

// GenerateLyrics advances image-ready -> lyrics-ready.
func (r *Run) GenerateLyrics(ctx context.Context, songDescription, style string) error {
	return r.step(StageImageReady, StageLyricsReady, func() error {
		lyrics, err := r.orc.GenerateLyrics(ctx, songDescription, style)
		if err != nil {
			return err
		}
		r.Lyrics = lyrics
		return nil
	})
}

// GenerateSong advances lyrics-ready -> song-ready.
func (r *Run) GenerateSong(ctx context.Context, title, style, vocals string) error {
	return r.step(StageLyricsReady, StageSongReady, func() error {
		if r.Lyrics == "" {
			return models.NewValidationError("no lyrics available for song generation")
		}
		art, err := r.orc.GenerateSong(ctx, SongInput{Lyrics: r.Lyrics, Title: title, Style: style, Vocals: vocals})
		if err != nil {
			return err
		}
		r.Song = art
		return nil
	})
}

// LocateChorus advances song-ready -> chorus-ready.
func (r *Run) LocateChorus(ctx context.Context) error {
	return r.step(StageSongReady, StageChorusReady, func() error {
		if r.Song.Path == "" {
			return models.NewValidationError("no song artifact available for chorus selection")
		}
		res, err := r.orc.LocateChorus(ctx, r.Song.Path)
		if err != nil {
			return err
		}
		r.Chorus = res
		return nil
	})
}

// ExtractClip advances chorus-ready -> clip-ready.
func (r *Run) ExtractClip(ctx context.Context) error {
	return r.step(StageChorusReady, StageClipReady, func() error {
		if r.Chorus == nil {
			return models.NewValidationError("no chorus window available for clip extraction")
		}
		art, err := r.orc.ExtractClip(ctx, r.Song.Path, r.Chorus.Window)
		if err != nil {
			return err
		}
		r.Clip = art
		return nil
	})
}

// CreateVideo advances clip-ready -> video-ready.
func (r *Run) CreateVideo(ctx context.Context) error {
	return r.step(StageClipReady, StageVideoReady, func() error {
		if r.Image.ID == "" || r.Clip.ID == "" {
			return models.NewValidationError("image and clip artifacts are required for video creation")
		}
		art, err := r.orc.CreateVideo(ctx, r.Image.ID, r.Clip.ID)
		if err != nil {
			return err
		}
		r.Video = art
		return nil
	})
}

// Execute drives the whole chain in order. The first failing stage
// halts the run; partial artifacts stay on disk for reuse.
func (r *Run) Execute(ctx context.Context, in RunInput) error {
	if err := r.GenerateImage(ctx, ImageInput{
		Prompt:      in.Prompt,
		Artist:      in.Artist,
		Instrument:  in.Instrument,
		AspectRatio: in.AspectRatio,
	}); err != nil {
		return err
	}
	if err := r.GenerateLyrics(ctx, in.SongDescription, in.Style); err != nil {
		return err
	}
	if err := r.GenerateSong(ctx, in.Title, in.Style, in.Vocals); err != nil {
		return err
	}
	if err := r.LocateChorus(ctx); err != nil {
		return err
	}
	if err := r.ExtractClip(ctx); err != nil {
		return err
	}
	return r.CreateVideo(ctx)
}
