// Package narration turns an article into audio: it builds the narration
// script, calls a speech backend, caches the result per article and drives
// the single playback session on the host's output device.
package narration

import (
	"context"
	"errors"
)

// ErrSynthesisFailed is returned when the speech backend yields no audio.
var ErrSynthesisFailed = errors.New("synthesis failed")

// Asset is base64-encoded mono 16-bit little-endian PCM.
type Asset struct {
	Data       string
	SampleRate int
}

// Synthesizer converts narration text into an Asset.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (Asset, error)
}

// SpeechSettings configures the remote synthesizers.
type SpeechSettings struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Voice    string
}
