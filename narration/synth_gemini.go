package narration

import (
	"context"
	"errors"
	"fmt"

	"editorial_ai/audio"
	"editorial_ai/gemini"
)

// GeminiSynthesizer requests audio modality from a TTS-capable Gemini model.
type GeminiSynthesizer struct {
	model  string
	voice  string
	client *gemini.Client
}

func NewGeminiSynthesizer(cfg SpeechSettings) (*GeminiSynthesizer, error) {
	if cfg.Model == "" || cfg.Voice == "" {
		return nil, errors.New("speech model and voice are required")
	}
	client, err := gemini.NewClient(cfg.APIKey, cfg.BaseURL, nil)
	if err != nil {
		return nil, err
	}
	return &GeminiSynthesizer{model: cfg.Model, voice: cfg.Voice, client: client}, nil
}

func (s *GeminiSynthesizer) Synthesize(ctx context.Context, text string) (Asset, error) {
	req := gemini.TextRequest(text)
	req.GenerationConfig = gemini.GenerationConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &gemini.SpeechConfig{
			VoiceConfig: gemini.VoiceConfig{
				PrebuiltVoiceConfig: gemini.PrebuiltVoiceConfig{VoiceName: s.voice},
			},
		},
	}

	body, err := s.client.GenerateContent(ctx, s.model, req)
	if err != nil {
		return Asset{}, fmt.Errorf("gemini tts: %w", err)
	}
	data := gemini.InlineData(body)
	if data == "" {
		return Asset{}, fmt.Errorf("%w: no audio data returned", ErrSynthesisFailed)
	}
	return Asset{Data: data, SampleRate: audio.NarrationSampleRate}, nil
}
