package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunereel/internal/remotejob"
	"tunereel/internal/store"
	"tunereel/models"
)

// fakeRemote is a provider that answers synchronously.
type fakeRemote struct {
	name   string
	result string
	err    error
}

func (f *fakeRemote) Name() string { return f.name }

func (f *fakeRemote) Submit(ctx context.Context) (*remotejob.Submission, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &remotejob.Submission{Result: f.result}, nil
}

func (f *fakeRemote) Poll(ctx context.Context, taskID string) (*remotejob.Status, error) {
	return &remotejob.Status{State: remotejob.StatusProcessing}, nil
}

type fakeImages struct {
	imageURL   string
	videoURL   string
	imageErr   error
	videoErr   error
	lastPrompt string
	lastImgURL string
	lastAudURL string
}

func (f *fakeImages) ImageJob(prompt, aspectRatio string) remotejob.Provider {
	f.lastPrompt = prompt
	return &fakeRemote{name: "fal-image", result: f.imageURL, err: f.imageErr}
}

func (f *fakeImages) VideoJob(imageURL, audioURL string) remotejob.Provider {
	f.lastImgURL = imageURL
	f.lastAudURL = audioURL
	return &fakeRemote{name: "fal-video", result: f.videoURL, err: f.videoErr}
}

type fakeSongs struct {
	url string
	err error
}

func (f *fakeSongs) SongJob(lyrics, title, style, vocals string) remotejob.Provider {
	return &fakeRemote{name: "kie-suno", result: f.url, err: f.err}
}

type fakeLyrics struct {
	text string
	err  error
}

func (f *fakeLyrics) GenerateLyrics(ctx context.Context, songDescription, style string) (string, error) {
	return f.text, f.err
}

type fakeWhisper struct {
	segments []models.TranscriptSegment
	err      error
	enabled  bool
}

func (f *fakeWhisper) Configured() bool { return f.enabled }

func (f *fakeWhisper) Transcribe(ctx context.Context, audioPath string) ([]models.TranscriptSegment, error) {
	return f.segments, f.err
}

type fixture struct {
	orc     *Orchestrator
	store   *store.Store
	images  *fakeImages
	songs   *fakeSongs
	lyrics  *fakeLyrics
	whisper *fakeWhisper
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	st, err := store.New(t.TempDir(), "/uploads")
	require.NoError(t, err)

	images := &fakeImages{imageURL: "https://cdn/img.png", videoURL: "https://cdn/video.mp4"}
	songs := &fakeSongs{url: "https://cdn/song.mp3"}
	lyr := &fakeLyrics{text: "la la la\nchorus line"}
	whisper := &fakeWhisper{}

	orc := New(Deps{
		Log:       log,
		Store:     st,
		Jobs:      remotejob.New(log, remotejob.Options{PollInterval: time.Millisecond, MaxAttempts: 3}),
		Images:    images,
		Songs:     songs,
		Lyrics:    lyr,
		Whisper:   whisper,
		PublicURL: "http://localhost:5000",
		Download: func(ctx context.Context, url string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("media:" + url)), nil
		},
		Probe: func(ctx context.Context, path string) (float64, error) {
			return 180, nil
		},
		Extract: func(ctx context.Context, input, output string, startSec, durationSec float64) error {
			return os.WriteFile(output, []byte("clip"), 0o644)
		},
	})

	return &fixture{orc: orc, store: st, images: images, songs: songs, lyrics: lyr, whisper: whisper}
}

func TestRunExecutesFullPipeline(t *testing.T) {
	f := newFixture(t)
	run := f.orc.NewRun()

	err := run.Execute(context.Background(), RunInput{
		Prompt:          "singer on a rooftop at dusk",
		SongDescription: "piano ballad about love",
		Style:           "ballad",
	})
	require.NoError(t, err)
	assert.Equal(t, StageVideoReady, run.Stage)

	// Every stage left its artifact on disk.
	for _, art := range []models.Artifact{run.Image, run.Song, run.Clip, run.Video} {
		_, statErr := os.Stat(art.Path)
		assert.NoError(t, statErr, "artifact %s missing", art.ID)
	}

	// 180 second track, no transcript: centered window.
	assert.Equal(t, 85.0, run.Chorus.Window.StartSec)
	assert.Equal(t, 95.0, run.Chorus.Window.EndSec)

	// The video stage references both artifacts by resolvable URL.
	assert.Contains(t, f.images.lastImgURL, "http://localhost:5000/uploads/image-")
	assert.Contains(t, f.images.lastAudURL, "http://localhost:5000/uploads/chorus-")

	data, err := os.ReadFile(run.Video.Path)
	require.NoError(t, err)
	assert.Equal(t, "media:https://cdn/video.mp4", string(data))
}

func TestRunHaltsAtFailedStage(t *testing.T) {
	f := newFixture(t)
	f.lyrics.err = &models.ProviderError{Provider: "gemini", Message: "quota exceeded"}

	run := f.orc.NewRun()
	err := run.Execute(context.Background(), RunInput{
		Prompt:          "singer",
		SongDescription: "ballad",
	})
	require.Error(t, err)
	assert.Equal(t, StageFailed, run.Stage)

	// The image artifact from the completed stage survives the failure.
	_, statErr := os.Stat(run.Image.Path)
	assert.NoError(t, statErr)

	// A failed run refuses further stages.
	var verr *models.ValidationError
	assert.ErrorAs(t, run.GenerateSong(context.Background(), "", "", ""), &verr)
}

func TestRunEnforcesStageOrder(t *testing.T) {
	f := newFixture(t)
	run := f.orc.NewRun()

	var verr *models.ValidationError
	assert.ErrorAs(t, run.LocateChorus(context.Background()), &verr)
	assert.ErrorAs(t, run.CreateVideo(context.Background()), &verr)
	assert.Equal(t, StageImagePending, run.Stage, "failed precondition must not advance the run")
}

func TestGenerateImageAssemblesPrompt(t *testing.T) {
	f := newFixture(t)

	_, err := f.orc.GenerateImage(context.Background(), ImageInput{
		Prompt:     "sunset stage",
		Artist:     "Adele",
		Instrument: "piano",
	})
	require.NoError(t, err)
	assert.Equal(t, "Adele sunset stage, playing piano", f.images.lastPrompt)

	_, err = f.orc.GenerateImage(context.Background(), ImageInput{
		Prompt:     "sunset stage",
		Instrument: "guitar",
	})
	require.NoError(t, err)
	assert.Equal(t, "sunset stage, holding a guitar", f.images.lastPrompt)
}

func TestGenerateImageRequiresPrompt(t *testing.T) {
	f := newFixture(t)
	_, err := f.orc.GenerateImage(context.Background(), ImageInput{})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestLocateChorusPrefersTranscript(t *testing.T) {
	f := newFixture(t)
	f.whisper.enabled = true
	f.whisper.segments = []models.TranscriptSegment{
		{Start: 40, End: 44},
		{Start: 90, End: 96},
		{Start: 140, End: 144},
	}

	res, err := f.orc.LocateChorus(context.Background(), "/tmp/song.mp3")
	require.NoError(t, err)
	assert.Equal(t, 89.0, res.Window.StartSec)
	assert.Equal(t, 99.0, res.Window.EndSec)
	assert.Len(t, res.Segments, 3)
}

func TestLocateChorusDegradesWhenTranscriptionFails(t *testing.T) {
	f := newFixture(t)
	f.whisper.enabled = true
	f.whisper.err = errors.New("whisper down")

	res, err := f.orc.LocateChorus(context.Background(), "/tmp/song.mp3")
	require.NoError(t, err)
	assert.Empty(t, res.Segments)
	assert.Equal(t, 85.0, res.Window.StartSec)
}

func TestExtractClipProducesDistinctArtifacts(t *testing.T) {
	f := newFixture(t)
	window := models.ChorusWindow{StartSec: 85, EndSec: 95}

	first, err := f.orc.ExtractClip(context.Background(), "/tmp/song.mp3", window)
	require.NoError(t, err)
	second, err := f.orc.ExtractClip(context.Background(), "/tmp/song.mp3", window)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	for _, art := range []models.Artifact{first, second} {
		_, statErr := os.Stat(art.Path)
		assert.NoError(t, statErr)
	}
}

func TestExtractClipRequiresResolvedWindow(t *testing.T) {
	f := newFixture(t)
	_, err := f.orc.ExtractClip(context.Background(), "/tmp/song.mp3", models.ChorusWindow{})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCreateVideoMissingArtifactIsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.orc.CreateVideo(context.Background(), "image-1-abc.png", "chorus-1-abc.mp3")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGenerateSongTimeoutSurfaces(t *testing.T) {
	f := newFixture(t)
	f.songs.err = &models.JobTimeoutError{Provider: "kie-suno", Attempts: 60}

	_, err := f.orc.GenerateSong(context.Background(), SongInput{Lyrics: "la"})
	var terr *models.JobTimeoutError
	assert.ErrorAs(t, err, &terr)
}
