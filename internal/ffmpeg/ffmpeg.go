// Package ffmpeg shells out to ffprobe/ffmpeg for the local audio
// processing steps: measuring track duration and trimming the chorus
// clip.
package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"tunereel/models"
)

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeDuration returns the duration of a media file in seconds, read
// from ffprobe's format metadata.
func ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, &models.ExtractionError{
			Message: fmt.Sprintf("ffprobe failed for %s", path),
			Detail:  fmt.Sprintf("%v: %s", err, stderr.String()),
		}
	}

	var out probeOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return 0, &models.ExtractionError{
			Message: "unreadable ffprobe output",
			Detail:  err.Error(),
		}
	}
	if out.Format.Duration == "" {
		return 0, &models.ExtractionError{
			Message: fmt.Sprintf("no duration in ffprobe output for %s", path),
			Detail:  stdout.String(),
		}
	}

	dur, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil {
		return 0, &models.ExtractionError{
			Message: fmt.Sprintf("bad ffprobe duration %q", out.Format.Duration),
			Detail:  err.Error(),
		}
	}
	return dur, nil
}

// ClipArgs builds the ffmpeg argument list for a bounded re-encode trim.
// Split out so the command line is testable without running ffmpeg.
func ClipArgs(input, output string, startSec, durationSec float64) []string {
	return []string{
		"-y",
		"-i", input,
		"-ss", fmt.Sprintf("%.3f", startSec),
		"-t", fmt.Sprintf("%.3f", durationSec),
		output,
	}
}

// ExtractClip re-encodes durationSec seconds of input starting at
// startSec into output. Re-encoding (no -c copy) keeps the cut
// frame-accurate at the cost of speed. Process errors surface as
// ExtractionError with ffmpeg's stderr attached; retries are the
// caller's decision.
func ExtractClip(ctx context.Context, input, output string, startSec, durationSec float64) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", ClipArgs(input, output, startSec, durationSec)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &models.ExtractionError{
			Message: fmt.Sprintf("ffmpeg trim failed for %s", input),
			Detail:  fmt.Sprintf("%v: %s", err, stderr.String()),
		}
	}
	return nil
}
