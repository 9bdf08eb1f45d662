package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"tunereel/config"
	"tunereel/models"
)

const geminiModel = "gemini-1.5-pro"

// Gemini generates song lyrics. Single-shot synchronous call, no task
// polling involved.
type Gemini struct {
	key  string
	base string
	http *http.Client
}

// NewGemini builds the Gemini client from explicit configuration.
func NewGemini(cfg config.ProvidersConfig) *Gemini {
	return &Gemini{key: cfg.GeminiAPIKey, base: strings.TrimSuffix(cfg.GeminiBaseURL, "/"), http: newHTTPClient()}
}

// Configured reports whether a credential is present.
func (g *Gemini) Configured() bool { return g.key != "" }

// GenerateLyrics asks Gemini for lyrics matching the description and
// optional style. Returns the lyrics text verbatim.
func (g *Gemini) GenerateLyrics(ctx context.Context, songDescription, style string) (string, error) {
	if !g.Configured() {
		return "", models.NewConfigurationError("Gemini API key not configured. Please set GEMINI_API_KEY in your .env file")
	}

	prompt := fmt.Sprintf("Create engaging song lyrics for a %s.\n", songDescription)
	if style != "" {
		prompt += fmt.Sprintf("Style: %s\n", style)
	}
	prompt += "\nGenerate creative, catchy lyrics that would work well for a music video. " +
		"Include verses, a chorus, and make it suitable for a modern song. " +
		"Format the lyrics clearly with line breaks. Make sure the chorus is memorable and repeatable."

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.base, geminiModel, g.key)
	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	raw, err := postJSON(ctx, g.http, "gemini", url, nil, body)
	if err != nil {
		return "", err
	}

	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", &models.ProviderError{Provider: "gemini", Message: "undecodable response", Raw: string(raw), Err: err}
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &models.ProviderError{Provider: "gemini", Message: "response contained no lyrics", Raw: string(raw)}
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}
