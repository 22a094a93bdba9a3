package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"
)

// Narration audio is mono 16-bit PCM at 24 kHz.
const (
	NarrationSampleRate = 24000
	BytesPerSample      = 2
)

// Buffer is a decoded mono buffer ready for an output device.
type Buffer struct {
	SampleRate int
	Samples    []float32
}

// Duration returns the playback length of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(b.Samples)) * time.Second / time.Duration(b.SampleRate)
}

// DecodePCM16 reinterprets little-endian int16 samples as floats in [-1, 1].
// A trailing odd byte is ignored.
func DecodePCM16(pcm []byte) []float32 {
	n := len(pcm) / BytesPerSample
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		out[i] = float32(s) / 32768.0
	}
	return out
}

// DecodeBase64PCM decodes a base64 PCM payload into a playable buffer.
func DecodeBase64PCM(data string, sampleRate int) (*Buffer, []byte, error) {
	pcm, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid base64 audio: %w", err)
	}
	return &Buffer{SampleRate: sampleRate, Samples: DecodePCM16(pcm)}, pcm, nil
}
