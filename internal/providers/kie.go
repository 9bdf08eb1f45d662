package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"tunereel/config"
	"tunereel/internal/remotejob"
	"tunereel/models"
)

// Kie talks to the KIE-hosted Suno API for song generation. Generation
// usually comes back as a task id that has to be polled.
type Kie struct {
	key  string
	base string
	http *http.Client
}

// NewKie builds the KIE client from explicit configuration.
func NewKie(cfg config.ProvidersConfig) *Kie {
	return &Kie{key: cfg.KieAPIKey, base: strings.TrimSuffix(cfg.KieBaseURL, "/"), http: newHTTPClient()}
}

// Configured reports whether a credential is present.
func (k *Kie) Configured() bool { return k.key != "" }

// SongJob returns a remote job generating a full song from lyrics.
// Tags combine style (default pop) and the optional vocals hint; the
// prompt is capped at 500 characters, which is all Suno accepts.
func (k *Kie) SongJob(lyrics, title, style, vocals string) remotejob.Provider {
	if style == "" {
		style = "pop"
	}
	tags := []string{style}
	if vocals != "" {
		tags = append(tags, vocals)
	}
	if title == "" {
		title = "Generated Song"
	}
	prompt := lyrics
	if len(prompt) > 500 {
		prompt = prompt[:500]
	}

	return &kieJob{
		kie: k,
		input: map[string]interface{}{
			"prompt":            prompt,
			"title":             title,
			"tags":              strings.Join(tags, ", "),
			"make_instrumental": false,
			"wait_audio":        true,
		},
	}
}

type kieJob struct {
	kie   *Kie
	input map[string]interface{}
}

func (j *kieJob) Name() string { return "kie-suno" }

func (j *kieJob) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + j.kie.key}
}

func (j *kieJob) Submit(ctx context.Context) (*remotejob.Submission, error) {
	if !j.kie.Configured() {
		return nil, models.NewConfigurationError("KIE API key not configured. Please set KIE_API_KEY in your .env file")
	}

	raw, err := postJSON(ctx, j.kie.http, j.Name(), j.kie.base+"/generate", j.headers(), j.input)
	if err != nil {
		return nil, err
	}

	var body struct {
		TaskID   string `json:"task_id"`
		AudioURL string `json:"audio_url"`
		URL      string `json:"url"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &models.ProviderError{Provider: j.Name(), Message: "undecodable response", Raw: string(raw), Err: err}
	}

	sub := &remotejob.Submission{Raw: string(raw)}
	if body.TaskID != "" {
		sub.TaskID = body.TaskID
		return sub, nil
	}
	sub.Result = body.AudioURL
	if sub.Result == "" {
		sub.Result = body.URL
	}
	return sub, nil
}

func (j *kieJob) Poll(ctx context.Context, taskID string) (*remotejob.Status, error) {
	raw, err := getJSON(ctx, j.kie.http, j.Name(), j.kie.base+"/task/"+taskID, j.headers())
	if err != nil {
		return nil, err
	}

	var body struct {
		Status   string `json:"status"`
		AudioURL string `json:"audio_url"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &models.ProviderError{Provider: j.Name(), Message: "undecodable status", Raw: string(raw), Err: err}
	}

	switch body.Status {
	case "completed":
		return &remotejob.Status{State: remotejob.StatusCompleted, Result: body.AudioURL, Raw: string(raw)}, nil
	case "failed", "error":
		return &remotejob.Status{State: remotejob.StatusFailed, Raw: string(raw)}, nil
	default:
		return &remotejob.Status{State: remotejob.StatusProcessing, Raw: string(raw)}, nil
	}
}
