package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func TestEncodeWAV(t *testing.T) {
	// 0.1 seconds of a 440Hz sine wave at the narration rate
	sampleRate := NarrationSampleRate
	numSamples := sampleRate / 10
	pcm := make([]byte, numSamples*2)
	for i := 0; i < numSamples; i++ {
		v := 16383.0 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate))
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(v)))
	}

	wavData, err := EncodeWAV(pcm, sampleRate)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	expectedSize := WAVHeaderSize + len(pcm)
	if len(wavData) != expectedSize {
		t.Errorf("Expected WAV size %d, got %d", expectedSize, len(wavData))
	}
	if err := ValidateWAV(wavData); err != nil {
		t.Errorf("Generated WAV is invalid: %v", err)
	}

	info, err := GetWAVInfo(wavData)
	if err != nil {
		t.Fatalf("Failed to get WAV info: %v", err)
	}
	if info.SampleRate != uint32(sampleRate) {
		t.Errorf("Expected sample rate %d, got %d", sampleRate, info.SampleRate)
	}
	if info.Channels != 1 {
		t.Errorf("Expected 1 channel, got %d", info.Channels)
	}
	if info.BitsPerSample != 16 {
		t.Errorf("Expected 16 bits per sample, got %d", info.BitsPerSample)
	}
	if info.ByteRate != 48000 {
		t.Errorf("Expected byte rate 48000, got %d", info.ByteRate)
	}
	if info.BlockAlign != 2 {
		t.Errorf("Expected block align 2, got %d", info.BlockAlign)
	}
	if math.Abs(info.Duration-0.1) > 0.001 {
		t.Errorf("Expected duration 0.100, got %.3f", info.Duration)
	}
	if !bytes.Equal(wavData[WAVHeaderSize:], pcm) {
		t.Error("PCM payload was not copied verbatim after the header")
	}
}

func TestEncodeWAVHeaderOffsets(t *testing.T) {
	pcm := make([]byte, 1000)
	wavData, err := EncodeWAV(pcm, 24000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	checks := []struct {
		name   string
		offset int
		want   uint32
		size   int
	}{
		{"riff size", 4, 1036, 4},
		{"fmt size", 16, 16, 4},
		{"audio format", 20, 1, 2},
		{"channels", 22, 1, 2},
		{"sample rate", 24, 24000, 4},
		{"byte rate", 28, 48000, 4},
		{"block align", 32, 2, 2},
		{"bits per sample", 34, 16, 2},
		{"data size", 40, 1000, 4},
	}
	for _, c := range checks {
		var got uint32
		if c.size == 2 {
			got = uint32(binary.LittleEndian.Uint16(wavData[c.offset:]))
		} else {
			got = binary.LittleEndian.Uint32(wavData[c.offset:])
		}
		if got != c.want {
			t.Errorf("%s at offset %d: expected %d, got %d", c.name, c.offset, c.want, got)
		}
	}

	for offset, tag := range map[int]string{0: "RIFF", 8: "WAVE", 12: "fmt ", 36: "data"} {
		if string(wavData[offset:offset+4]) != tag {
			t.Errorf("Expected %q at offset %d, got %q", tag, offset, wavData[offset:offset+4])
		}
	}
}

func TestEncodeWAVOddLength(t *testing.T) {
	pcm := []byte{1, 2, 3}
	wavData, err := EncodeWAV(pcm, 24000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	if len(wavData) != WAVHeaderSize+3 {
		t.Errorf("Expected %d bytes, got %d", WAVHeaderSize+3, len(wavData))
	}
	if binary.LittleEndian.Uint32(wavData[40:]) != 3 {
		t.Errorf("data size should equal the raw payload length")
	}
}

func TestEncodeWAVEmptyPayload(t *testing.T) {
	wavData, err := EncodeWAV(nil, 24000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	if len(wavData) != WAVHeaderSize {
		t.Errorf("Expected header only, got %d bytes", len(wavData))
	}
}

func TestEncodeWAVRejectsBadRate(t *testing.T) {
	if _, err := EncodeWAV([]byte{0, 0}, 0); err == nil {
		t.Error("Expected error for zero sample rate")
	}
}

func TestValidateWAV(t *testing.T) {
	if err := ValidateWAV([]byte{1, 2, 3}); err == nil {
		t.Error("Expected error for short data")
	}

	invalid := make([]byte, WAVHeaderSize)
	copy(invalid[0:4], "RIFX")
	if err := ValidateWAV(invalid); err == nil {
		t.Error("Expected error for bad RIFF tag")
	}
}
