package narration

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"math"
	"strings"

	"editorial_ai/audio"
)

// ToneSynthesizer is an offline stand-in: one short beep per word, capped,
// so local runs exercise playback and export without a speech backend.
type ToneSynthesizer struct {
	Frequency float64
	MaxWords  int
}

func (t ToneSynthesizer) Synthesize(_ context.Context, text string) (Asset, error) {
	words := len(strings.Fields(text))
	if words == 0 {
		return Asset{}, ErrSynthesisFailed
	}
	limit := t.MaxWords
	if limit <= 0 {
		limit = 20
	}
	if words > limit {
		words = limit
	}
	freq := t.Frequency
	if freq <= 0 {
		freq = 440
	}

	rate := audio.NarrationSampleRate
	beep := rate / 8
	gap := rate / 16
	pcm := make([]byte, 0, words*(beep+gap)*audio.BytesPerSample)
	var sample [2]byte
	for w := 0; w < words; w++ {
		for i := 0; i < beep; i++ {
			v := 0.3 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
			binary.LittleEndian.PutUint16(sample[:], uint16(int16(v*32767)))
			pcm = append(pcm, sample[:]...)
		}
		pcm = append(pcm, make([]byte, gap*audio.BytesPerSample)...)
	}
	return Asset{Data: base64.StdEncoding.EncodeToString(pcm), SampleRate: rate}, nil
}
