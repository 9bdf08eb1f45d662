// Package pipeline sequences the generation stages: image, lyrics,
// song, chorus window, clip, talking-head video. Each stage hands the
// next one an artifact on disk, never an in-memory value, so a run can
// be driven stage-by-stage from the wizard or end-to-end in one call.
package pipeline

import (
	"context"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"tunereel/internal/chorus"
	"tunereel/internal/remotejob"
	"tunereel/internal/store"
	"tunereel/models"
)

// ImageVideoProvider is the fal.ai surface the orchestrator needs.
type ImageVideoProvider interface {
	ImageJob(prompt, aspectRatio string) remotejob.Provider
	VideoJob(imageURL, audioURL string) remotejob.Provider
}

// SongProvider is the KIE/Suno surface the orchestrator needs.
type SongProvider interface {
	SongJob(lyrics, title, style, vocals string) remotejob.Provider
}

// LyricsProvider is the Gemini surface the orchestrator needs.
type LyricsProvider interface {
	GenerateLyrics(ctx context.Context, songDescription, style string) (string, error)
}

// Transcriber is the optional transcription collaborator.
type Transcriber interface {
	Configured() bool
	Transcribe(ctx context.Context, audioPath string) ([]models.TranscriptSegment, error)
}

// JobRunner drives a remote job to a terminal state.
type JobRunner interface {
	Run(ctx context.Context, p remotejob.Provider) (*remotejob.Job, error)
}

// Deps carries the orchestrator's collaborators. Download, Probe and
// Extract default to the real implementations; tests swap them.
type Deps struct {
	Log     *logrus.Logger
	Store   *store.Store
	Jobs    JobRunner
	Images  ImageVideoProvider
	Songs   SongProvider
	Lyrics  LyricsProvider
	Whisper Transcriber

	// PublicURL is the serving origin remote vendors resolve our
	// artifact URLs against.
	PublicURL string

	Download func(ctx context.Context, url string) (io.ReadCloser, error)
	Probe    func(ctx context.Context, path string) (float64, error)
	Extract  func(ctx context.Context, input, output string, startSec, durationSec float64) error
}

// Orchestrator executes individual pipeline stages. It owns persisting
// each completed job's output into the artifact store.
type Orchestrator struct {
	deps Deps
}

// New builds an Orchestrator. Deps.Log, Store and Jobs are required;
// provider fields may be nil only if the corresponding stage is never
// invoked.
func New(deps Deps) *Orchestrator {
	return &Orchestrator{deps: deps}
}

// ImageInput is the image stage request.
type ImageInput struct {
	Prompt      string
	Artist      string
	Instrument  string
	AspectRatio string
}

// ImageResult carries the persisted image artifact and the assembled
// prompt that produced it.
type ImageResult struct {
	Artifact models.Artifact
	Prompt   string
}

// GenerateImage runs the image-generation job and persists the result.
func (o *Orchestrator) GenerateImage(ctx context.Context, in ImageInput) (*ImageResult, error) {
	if in.Prompt == "" {
		return nil, models.NewValidationError("Prompt is required")
	}

	finalPrompt := buildImagePrompt(in.Prompt, in.Artist, in.Instrument)
	job, err := o.deps.Jobs.Run(ctx, o.deps.Images.ImageJob(finalPrompt, in.AspectRatio))
	if err != nil {
		return nil, err
	}

	art, err := o.persist(ctx, models.ArtifactImage, "png", job.Result)
	if err != nil {
		return nil, err
	}

	o.stageLog("image", art).Info("Image generated")
	return &ImageResult{Artifact: art, Prompt: finalPrompt}, nil
}

// GenerateLyrics calls the synchronous lyrics collaborator and archives
// the text alongside the media artifacts.
func (o *Orchestrator) GenerateLyrics(ctx context.Context, songDescription, style string) (string, error) {
	if songDescription == "" {
		return "", models.NewValidationError("Song description is required")
	}

	lyrics, err := o.deps.Lyrics.GenerateLyrics(ctx, songDescription, style)
	if err != nil {
		return "", err
	}
	if lyrics == "" {
		return "", &models.ProviderError{Provider: "gemini", Message: "empty lyrics"}
	}

	if art, err := o.deps.Store.SaveBytes(models.ArtifactLyrics, "txt", []byte(lyrics)); err == nil {
		o.stageLog("lyrics", art).Info("Lyrics generated")
	}
	return lyrics, nil
}

// SongInput is the song stage request.
type SongInput struct {
	Lyrics string
	Title  string
	Style  string
	Vocals string
}

// GenerateSong runs the music-generation job (synchronous or polled)
// and persists the audio artifact.
func (o *Orchestrator) GenerateSong(ctx context.Context, in SongInput) (models.Artifact, error) {
	if in.Lyrics == "" {
		return models.Artifact{}, models.NewValidationError("Lyrics are required")
	}

	job, err := o.deps.Jobs.Run(ctx, o.deps.Songs.SongJob(in.Lyrics, in.Title, in.Style, in.Vocals))
	if err != nil {
		return models.Artifact{}, err
	}

	art, err := o.persist(ctx, models.ArtifactSong, "mp3", job.Result)
	if err != nil {
		return models.Artifact{}, err
	}

	o.stageLog("song", art).Info("Song generated")
	return art, nil
}

// ChorusResult reports the selected window together with the track
// duration it was derived from.
type ChorusResult struct {
	Window      models.ChorusWindow
	DurationSec float64
	Segments    []models.TranscriptSegment
}

// LocateChorus probes the track duration and, when the transcription
// collaborator is configured, fetches time-aligned segments; the two
// run concurrently since neither depends on the other. Transcription
// failure degrades to the duration-only heuristic rather than failing
// the stage.
func (o *Orchestrator) LocateChorus(ctx context.Context, audioPath string) (*ChorusResult, error) {
	if audioPath == "" {
		return nil, models.NewValidationError("Audio path is required")
	}

	var (
		duration float64
		segments []models.TranscriptSegment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := o.deps.Probe(gctx, audioPath)
		if err != nil {
			return err
		}
		duration = d
		return nil
	})
	if o.deps.Whisper != nil && o.deps.Whisper.Configured() {
		g.Go(func() error {
			segs, err := o.deps.Whisper.Transcribe(gctx, audioPath)
			if err != nil {
				o.deps.Log.WithError(err).Warn("Transcription failed, falling back to duration heuristic")
				return nil
			}
			segments = segs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	window := chorus.Locate(duration, segments)
	o.deps.Log.WithFields(logrus.Fields{
		"start":    window.StartSec,
		"end":      window.EndSec,
		"duration": duration,
		"segments": len(segments),
	}).Info("Chorus window selected")

	return &ChorusResult{Window: window, DurationSec: duration, Segments: segments}, nil
}

// ExtractClip trims the chorus clip out of the source track. The trim
// is always start plus the fixed clip duration; the window's end bound
// is reporting metadata, so an upstream span that drifted from the
// fixed length cannot change what gets cut.
func (o *Orchestrator) ExtractClip(ctx context.Context, audioPath string, window models.ChorusWindow) (models.Artifact, error) {
	if audioPath == "" {
		return models.Artifact{}, models.NewValidationError("Audio path is required")
	}
	if window.EndSec <= window.StartSec {
		return models.Artifact{}, models.NewValidationError("Chorus window is not resolved")
	}

	name := o.deps.Store.NewFilename(models.ArtifactChorus, "mp3")
	output := filepath.Join(o.deps.Store.Dir(), name)
	if err := o.deps.Extract(ctx, audioPath, output, window.StartSec, models.ChorusDurationSec); err != nil {
		return models.Artifact{}, err
	}

	art, err := o.deps.Store.Adopt(models.ArtifactChorus, name)
	if err != nil {
		return models.Artifact{}, err
	}

	o.stageLog("clip", art).Info("Chorus clip extracted")
	return art, nil
}

// CreateVideo runs the talking-head job against the image and clip
// artifacts, referenced by resolvable URLs, and persists the video.
func (o *Orchestrator) CreateVideo(ctx context.Context, imageRef, audioRef string) (models.Artifact, error) {
	if imageRef == "" || audioRef == "" {
		return models.Artifact{}, models.NewValidationError("Both imagePath and audioPath are required")
	}

	imagePath, err := o.deps.Store.Resolve(imageRef)
	if err != nil {
		return models.Artifact{}, err
	}
	audioPath, err := o.deps.Store.Resolve(audioRef)
	if err != nil {
		return models.Artifact{}, err
	}

	imageURL := o.deps.PublicURL + o.deps.Store.PublicURL(imagePath)
	audioURL := o.deps.PublicURL + o.deps.Store.PublicURL(audioPath)

	job, err := o.deps.Jobs.Run(ctx, o.deps.Images.VideoJob(imageURL, audioURL))
	if err != nil {
		return models.Artifact{}, err
	}

	art, err := o.persist(ctx, models.ArtifactVideo, "mp4", job.Result)
	if err != nil {
		return models.Artifact{}, err
	}

	o.stageLog("video", art).Info("Video created")
	return art, nil
}

// persist downloads a completed job's media URL into the store.
func (o *Orchestrator) persist(ctx context.Context, kind models.ArtifactKind, ext, url string) (models.Artifact, error) {
	body, err := o.deps.Download(ctx, url)
	if err != nil {
		return models.Artifact{}, err
	}
	defer body.Close()
	return o.deps.Store.Save(kind, ext, body)
}

func (o *Orchestrator) stageLog(stage string, art models.Artifact) *logrus.Entry {
	return o.deps.Log.WithFields(logrus.Fields{
		"stage":    stage,
		"artifact": art.ID,
	})
}
