// Package chorus picks the clip window the video stage animates to.
//
// The selection is a midpoint heuristic, not real chorus detection: it
// never compares lyrical content for repetition even when a transcript
// is available. Kept as-is for output compatibility with the rest of
// the pipeline; changing it changes which ten seconds every downstream
// stage sees.
package chorus

import (
	"math"

	"tunereel/models"
)

// Locate selects a window of models.ChorusDurationSec seconds believed
// to contain the chorus of a track lasting durationSec seconds.
//
// With no transcript the window is centered on the track middle. With
// transcript segments, the segment whose start lies closest to half the
// transcript's end time wins (first segment in order wins ties), padded
// by one second on both sides and then normalized back to the fixed
// duration. Tracks shorter than the fixed duration yield a window
// covering the whole track.
func Locate(durationSec float64, segments []models.TranscriptSegment) models.ChorusWindow {
	if len(segments) == 0 {
		start := math.Max(0, durationSec/2-models.ChorusDurationSec/2)
		end := math.Min(durationSec, start+models.ChorusDurationSec)
		return models.ChorusWindow{StartSec: start, EndSec: end}
	}

	midpoint := segments[len(segments)-1].End / 2

	closest := segments[0]
	for _, seg := range segments[1:] {
		if math.Abs(seg.Start-midpoint) < math.Abs(closest.Start-midpoint) {
			closest = seg
		}
	}

	start := math.Max(0, closest.Start-1)
	end := math.Min(durationSec, closest.End+1)

	// Normalize the padded span back to the fixed clip length.
	if end-start < models.ChorusDurationSec {
		end = start + models.ChorusDurationSec
	}
	if end-start > models.ChorusDurationSec {
		end = start + models.ChorusDurationSec
	}

	// The original never handled tracks shorter than the clip length;
	// clamp so the window stays inside the source.
	if end > durationSec && durationSec >= models.ChorusDurationSec {
		end = durationSec
		start = end - models.ChorusDurationSec
	}
	if durationSec < models.ChorusDurationSec {
		start = 0
		end = durationSec
	}

	return models.ChorusWindow{StartSec: start, EndSec: end}
}
