package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tunereel/config"
	"tunereel/models"
)

// Whisper is the transcription collaborator. It is optional: the chorus
// stage degrades to the duration-only heuristic when no key is set.
type Whisper struct {
	key  string
	base string
	http *http.Client
}

// NewWhisper builds the transcription client from explicit configuration.
func NewWhisper(cfg config.ProvidersConfig) *Whisper {
	// Transcribing a full song takes a while; give uploads room.
	return &Whisper{
		key:  cfg.OpenAIAPIKey,
		base: strings.TrimSuffix(cfg.OpenAIBaseURL, "/"),
		http: &http.Client{Timeout: 3 * time.Minute},
	}
}

// Configured reports whether a credential is present.
func (w *Whisper) Configured() bool { return w.key != "" }

// Transcribe uploads the audio file and returns its time-aligned
// segments (verbose_json with segment granularity).
func (w *Whisper) Transcribe(ctx context.Context, audioPath string) ([]models.TranscriptSegment, error) {
	if !w.Configured() {
		return nil, models.NewConfigurationError("OpenAI API key not configured. Please set OPENAI_API_KEY in your .env file")
	}

	f, err := os.Open(audioPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, err
	}
	_ = mw.WriteField("model", "whisper-1")
	_ = mw.WriteField("response_format", "verbose_json")
	_ = mw.WriteField("timestamp_granularities[]", "segment")
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.base+"/audio/transcriptions", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+w.key)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	raw, err := doRead(w.http, "whisper", req)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Segments []models.TranscriptSegment `json:"segments"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &models.ProviderError{Provider: "whisper", Message: "undecodable response", Raw: string(raw), Err: err}
	}
	return resp.Segments, nil
}
