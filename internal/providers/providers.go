// Package providers holds the HTTP clients for the four generation
// vendors (fal.ai image/video, KIE Suno audio, Gemini lyrics) and the
// Whisper transcription collaborator. Every client is an explicit
// struct built from config; nothing here reads the process environment.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tunereel/models"
)

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}

// postJSON sends body as JSON and returns the raw response bytes.
// Non-2xx statuses surface as ProviderError with the vendor payload.
func postJSON(ctx context.Context, c *http.Client, provider, url string, headers map[string]string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &models.ProviderError{Provider: provider, Message: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &models.ProviderError{Provider: provider, Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return doRead(c, provider, req)
}

// getJSON fetches url and returns the raw response bytes with the same
// error translation as postJSON.
func getJSON(ctx context.Context, c *http.Client, provider, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &models.ProviderError{Provider: provider, Message: "build request", Err: err}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return doRead(c, provider, req)
}

func doRead(c *http.Client, provider string, req *http.Request) ([]byte, error) {
	resp, err := c.Do(req)
	if err != nil {
		return nil, &models.ProviderError{Provider: provider, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.ProviderError{Provider: provider, Message: "read response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.ProviderError{
			Provider: provider,
			Message:  fmt.Sprintf("unexpected status %d", resp.StatusCode),
			Raw:      string(raw),
		}
	}
	return raw, nil
}

// Download streams a result media file from the URL a completed job
// resolved to. The caller owns closing the reader.
func Download(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &models.ProviderError{Provider: "download", Message: "build request", Err: err}
	}

	c := &http.Client{Timeout: 5 * time.Minute}
	resp, err := c.Do(req)
	if err != nil {
		return nil, &models.ProviderError{Provider: "download", Message: "fetch media", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &models.ProviderError{
			Provider: "download",
			Message:  fmt.Sprintf("media fetch returned status %d", resp.StatusCode),
		}
	}
	return resp.Body, nil
}
