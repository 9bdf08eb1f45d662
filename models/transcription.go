package models

// TranscriptSegment is a time-aligned span of transcribed text, as
// returned by the transcription collaborator (Whisper verbose_json
// segments). Read-only input to the chorus locator.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// ChorusDurationSec is the fixed clip length the pipeline extracts.
const ChorusDurationSec = 10.0

// ChorusWindow is the selected time range believed to contain a song's
// chorus. The locator normalizes it to exactly ChorusDurationSec unless
// the source track itself is shorter.
type ChorusWindow struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
}

// Duration returns the window span in seconds.
func (w ChorusWindow) Duration() float64 {
	return w.EndSec - w.StartSec
}
