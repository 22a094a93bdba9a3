// Package gemini is a minimal REST client for the generateContent endpoint,
// shared by the article generator and the narration synthesizer.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, baseURL string, hc *http.Client) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: 120 * time.Second}
	}
	return &Client{apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/"), http: hc}, nil
}

type Part struct {
	Text string `json:"text,omitempty"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Tool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

// SearchTool enables grounded retrieval of external content.
func SearchTool() Tool {
	return Tool{GoogleSearch: &struct{}{}}
}

type PrebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type VoiceConfig struct {
	PrebuiltVoiceConfig PrebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type SpeechConfig struct {
	VoiceConfig VoiceConfig `json:"voiceConfig"`
}

type GenerationConfig struct {
	ResponseMimeType   string         `json:"responseMimeType,omitempty"`
	ResponseSchema     map[string]any `json:"responseSchema,omitempty"`
	ResponseModalities []string       `json:"responseModalities,omitempty"`
	SpeechConfig       *SpeechConfig  `json:"speechConfig,omitempty"`
}

type Request struct {
	SystemInstruction *Content         `json:"systemInstruction,omitempty"`
	Contents          []Content        `json:"contents"`
	Tools             []Tool           `json:"tools,omitempty"`
	GenerationConfig  GenerationConfig `json:"generationConfig"`
}

// TextRequest wraps a single user turn.
func TextRequest(text string) Request {
	return Request{Contents: []Content{{Role: "user", Parts: []Part{{Text: text}}}}}
}

// GenerateContent performs one call and returns the raw response body.
func (c *Client) GenerateContent(ctx context.Context, model string, req Request) ([]byte, error) {
	if model == "" {
		return nil, errors.New("gemini model required")
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return nil, fmt.Errorf("gemini API returned %d: %s", resp.StatusCode, msg)
	}
	return body, nil
}

// Text concatenates every text part of the first candidate.
// Grounded answers may be split across several parts.
func Text(body []byte) string {
	var sb strings.Builder
	for _, p := range gjson.GetBytes(body, "candidates.0.content.parts").Array() {
		if t := p.Get("text"); t.Exists() {
			sb.WriteString(t.String())
		}
	}
	return sb.String()
}

// InlineData returns the base64 payload of the first inline data part.
func InlineData(body []byte) string {
	for _, p := range gjson.GetBytes(body, "candidates.0.content.parts").Array() {
		if d := p.Get("inlineData.data"); d.Exists() {
			return d.String()
		}
	}
	return ""
}
