package pipeline

import (
	"fmt"
	"strings"
)

// buildImagePrompt assembles the final image prompt from the caller's
// prompt plus optional artist and instrument hints. Piano gets the
// "playing" phrasing, everything else the "holding" phrasing.
func buildImagePrompt(prompt, artist, instrument string) string {
	final := prompt
	if instrument != "" {
		if strings.EqualFold(instrument, "piano") {
			final = fmt.Sprintf("%s, playing piano", prompt)
		} else {
			final = fmt.Sprintf("%s, holding a %s", prompt, instrument)
		}
	}
	if artist != "" {
		final = artist + " " + final
	}
	return final
}
