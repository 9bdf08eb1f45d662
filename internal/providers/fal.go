package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"tunereel/config"
	"tunereel/internal/remotejob"
	"tunereel/models"
)

const (
	falImageModel = "fal-ai/nano-banana-pro"
	falVideoModel = "fal-ai/bytedance/omnihuman/v1.5"
)

// Fal talks to fal.ai's queue API, which backs both the image stage
// (nano-banana-pro) and the talking-head video stage (omnihuman).
type Fal struct {
	key  string
	base string
	http *http.Client
}

// NewFal builds the fal.ai client from explicit configuration.
func NewFal(cfg config.ProvidersConfig) *Fal {
	return &Fal{key: cfg.FalAPIKey, base: strings.TrimSuffix(cfg.FalBaseURL, "/"), http: newHTTPClient()}
}

// Configured reports whether a credential is present. Checked before
// any network call so a missing key short-circuits the stage.
func (f *Fal) Configured() bool { return f.key != "" }

// ImageJob returns a remote job that generates one image for the given
// prompt and aspect ratio.
func (f *Fal) ImageJob(prompt, aspectRatio string) remotejob.Provider {
	if aspectRatio == "" {
		aspectRatio = "9:16"
	}
	return &falJob{
		fal:   f,
		name:  "fal-image",
		model: falImageModel,
		input: map[string]interface{}{
			"prompt":       prompt,
			"aspect_ratio": aspectRatio,
			"num_images":   1,
		},
		resolve: resolveImageURL,
	}
}

// VideoJob returns a remote job that animates the image to the audio.
// Both inputs are passed by URL; fal fetches them from our static
// mount.
func (f *Fal) VideoJob(imageURL, audioURL string) remotejob.Provider {
	return &falJob{
		fal:   f,
		name:  "fal-video",
		model: falVideoModel,
		input: map[string]interface{}{
			"image_url": imageURL,
			"audio_url": audioURL,
		},
		resolve: resolveVideoURL,
	}
}

// falJob adapts one queued fal.ai request to the remotejob.Provider
// contract.
type falJob struct {
	fal     *Fal
	name    string
	model   string
	input   map[string]interface{}
	resolve func(map[string]interface{}) string
}

func (j *falJob) Name() string { return j.name }

func (j *falJob) headers() map[string]string {
	return map[string]string{"Authorization": "Key " + j.fal.key}
}

func (j *falJob) Submit(ctx context.Context) (*remotejob.Submission, error) {
	if !j.fal.Configured() {
		return nil, models.NewConfigurationError("FAL API key not configured. Please set FAL_API_KEY in your .env file")
	}

	raw, err := postJSON(ctx, j.fal.http, j.name, j.fal.base+"/"+j.model, j.headers(), j.input)
	if err != nil {
		return nil, err
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &models.ProviderError{Provider: j.name, Message: "undecodable response", Raw: string(raw), Err: err}
	}

	sub := &remotejob.Submission{Raw: string(raw)}
	if id, ok := body["request_id"].(string); ok && id != "" {
		// Queued: the result has to be polled.
		if status, _ := body["status"].(string); status == "" || strings.HasPrefix(status, "IN_") {
			sub.TaskID = id
			return sub, nil
		}
	}
	sub.Result = j.resolve(body)
	return sub, nil
}

func (j *falJob) Poll(ctx context.Context, taskID string) (*remotejob.Status, error) {
	statusURL := fmt.Sprintf("%s/%s/requests/%s/status", j.fal.base, j.model, taskID)
	raw, err := getJSON(ctx, j.fal.http, j.name, statusURL, j.headers())
	if err != nil {
		return nil, err
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &models.ProviderError{Provider: j.name, Message: "undecodable status", Raw: string(raw), Err: err}
	}

	switch body.Status {
	case "COMPLETED":
		resultURL := fmt.Sprintf("%s/%s/requests/%s", j.fal.base, j.model, taskID)
		resultRaw, err := getJSON(ctx, j.fal.http, j.name, resultURL, j.headers())
		if err != nil {
			return nil, err
		}
		var result map[string]interface{}
		if err := json.Unmarshal(resultRaw, &result); err != nil {
			return nil, &models.ProviderError{Provider: j.name, Message: "undecodable result", Raw: string(resultRaw), Err: err}
		}
		return &remotejob.Status{
			State:  remotejob.StatusCompleted,
			Result: j.resolve(result),
			Raw:    string(resultRaw),
		}, nil
	case "ERROR", "FAILED":
		return &remotejob.Status{State: remotejob.StatusFailed, Raw: string(raw)}, nil
	default:
		return &remotejob.Status{State: remotejob.StatusProcessing, Raw: string(raw)}, nil
	}
}

func resolveImageURL(body map[string]interface{}) string {
	if images, ok := body["images"].([]interface{}); ok && len(images) > 0 {
		if first, ok := images[0].(map[string]interface{}); ok {
			if url, ok := first["url"].(string); ok {
				return url
			}
		}
	}
	if image, ok := body["image"].(map[string]interface{}); ok {
		if url, ok := image["url"].(string); ok {
			return url
		}
	}
	return ""
}

func resolveVideoURL(body map[string]interface{}) string {
	if video, ok := body["video"].(map[string]interface{}); ok {
		if url, ok := video["url"].(string); ok {
			return url
		}
	}
	if url, ok := body["url"].(string); ok {
		return url
	}
	return ""
}
