package narration

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"editorial_ai/audio"
)

// OpenAISynthesizer uses the audio/speech endpoint with raw PCM output,
// which is 24 kHz mono 16-bit little-endian.
type OpenAISynthesizer struct {
	model string
	voice string
	opts  []option.RequestOption
}

func NewOpenAISynthesizer(cfg SpeechSettings) (*OpenAISynthesizer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if cfg.Model == "" || cfg.Voice == "" {
		return nil, errors.New("speech model and voice are required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAISynthesizer{model: cfg.Model, voice: cfg.Voice, opts: opts}, nil
}

func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) (Asset, error) {
	client := openai.NewClient(s.opts...)
	resp, err := client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(s.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatPCM,
	})
	if err != nil {
		return Asset{}, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Body.Close()

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return Asset{}, fmt.Errorf("openai speech: read body: %w", err)
	}
	if len(pcm) == 0 {
		return Asset{}, fmt.Errorf("%w: no audio data returned", ErrSynthesisFailed)
	}
	return Asset{Data: base64.StdEncoding.EncodeToString(pcm), SampleRate: audio.NarrationSampleRate}, nil
}
