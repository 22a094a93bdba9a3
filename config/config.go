package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration.
// JSON files are accepted too, JSON being a subset of YAML.
type Config struct {
	Product        string        `yaml:"product"`
	ServerAddr     string        `yaml:"server_addr"`
	OutputDir      string        `yaml:"output_dir"`
	RequestTimeout int           `yaml:"request_timeout"` // seconds
	LLM            LLMConfig     `yaml:"llm"`
	Speech         SpeechConfig  `yaml:"speech"`
	Logging        LoggingConfig `yaml:"logging"`
}

// LLMConfig selects the rewriting backend.
type LLMConfig struct {
	Provider  string `yaml:"provider"`
	TextModel string `yaml:"text_model"`
	URLModel  string `yaml:"url_model"`
	APIKey    string `yaml:"api_key"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
}

// SpeechConfig selects the narration backend and the output device.
type SpeechConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	Voice     string `yaml:"voice"`
	APIKey    string `yaml:"api_key"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
	Player    string `yaml:"player"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderMock     = "mock"

	PlayerMalgo  = "malgo"
	PlayerSilent = "silent"
)

type providerDefaults struct {
	textModel, urlModel, keyEnv string
	speechModel, voice          string
}

var defaultsByProvider = map[string]providerDefaults{
	ProviderGemini: {
		textModel: "gemini-2.5-flash", urlModel: "gemini-3-pro-preview", keyEnv: "GEMINI_API_KEY",
		speechModel: "gemini-2.5-flash-preview-tts", voice: "Kore",
	},
	ProviderOpenAI: {
		textModel: "gpt-4o-mini", urlModel: "gpt-4o-search-preview", keyEnv: "OPENAI_API_KEY",
		speechModel: "gpt-4o-mini-tts", voice: "alloy",
	},
	ProviderDeepSeek: {
		textModel: "deepseek-chat", urlModel: "deepseek-chat", keyEnv: "DEEPSEEK_API_KEY",
	},
	ProviderMock: {},
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{
		Product:        "editorial-ai",
		ServerAddr:     ":8080",
		OutputDir:      "downloads",
		RequestTimeout: 60,
		LLM:            LLMConfig{Provider: ProviderGemini},
		Speech:         SpeechConfig{Player: PlayerMalgo},
		Logging:        LoggingConfig{Level: "info", Format: "text", Output: "stderr"},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.fillBlank(DefaultConfig())
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadWithFallback attempts to load configuration from multiple locations.
// Priority: explicit path > ./config.yaml > ~/.editorial-ai.yaml > defaults
func LoadWithFallback(explicitPath string) (*Config, error) {
	if explicitPath != "" {
		return Load(explicitPath)
	}

	candidates := []string{"config.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".editorial-ai.yaml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv seeds the process environment from .env files. Missing files are ignored;
// variables already set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

// fillBlank copies top-level scalars from def where the file left them empty.
func (c *Config) fillBlank(def *Config) {
	if c.Product == "" {
		c.Product = def.Product
	}
	if c.ServerAddr == "" {
		c.ServerAddr = def.ServerAddr
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = def.LLM.Provider
	}
	if c.Speech.Player == "" {
		c.Speech.Player = def.Speech.Player
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	if c.Logging.Output == "" {
		c.Logging.Output = def.Logging.Output
	}
}

// applyDefaults fills model names and key variables for the chosen providers.
func (c *Config) applyDefaults() {
	if d, ok := defaultsByProvider[c.LLM.Provider]; ok {
		if c.LLM.TextModel == "" {
			c.LLM.TextModel = d.textModel
		}
		if c.LLM.URLModel == "" {
			c.LLM.URLModel = d.urlModel
		}
		if c.LLM.APIKeyEnv == "" {
			c.LLM.APIKeyEnv = d.keyEnv
		}
	}

	if c.Speech.Provider == "" {
		switch c.LLM.Provider {
		case ProviderGemini, ProviderOpenAI, ProviderMock:
			c.Speech.Provider = c.LLM.Provider
		default:
			// DeepSeek 没有语音接口，朗读默认走 Gemini。
			c.Speech.Provider = ProviderGemini
		}
	}
	if d, ok := defaultsByProvider[c.Speech.Provider]; ok {
		if c.Speech.Model == "" {
			c.Speech.Model = d.speechModel
		}
		if c.Speech.Voice == "" {
			c.Speech.Voice = d.voice
		}
		if c.Speech.APIKeyEnv == "" {
			c.Speech.APIKeyEnv = d.keyEnv
		}
	}
}

// Validate performs validation of the configuration
func (c *Config) Validate() error {
	if c.Product == "" {
		return errors.New("product cannot be empty")
	}
	if c.RequestTimeout < 1 {
		return fmt.Errorf("request_timeout must be at least 1 second, got %d", c.RequestTimeout)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm config: %w", err)
	}
	if err := c.Speech.Validate(); err != nil {
		return fmt.Errorf("speech config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

// Validate validates the rewriting backend configuration
func (l *LLMConfig) Validate() error {
	switch l.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderMock:
	case ProviderDeepSeek:
		// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url。
		if l.BaseURL == "" {
			return errors.New("provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
	default:
		return fmt.Errorf("provider %q not supported", l.Provider)
	}
	if l.Provider != ProviderMock && l.TextModel == "" {
		return errors.New("text_model cannot be empty")
	}
	return nil
}

// Validate validates the narration configuration
func (s *SpeechConfig) Validate() error {
	switch s.Provider {
	case ProviderGemini, ProviderOpenAI:
		if s.Model == "" || s.Voice == "" {
			return errors.New("model and voice cannot be empty")
		}
	case ProviderMock:
	default:
		return fmt.Errorf("provider %q not supported", s.Provider)
	}
	switch s.Player {
	case PlayerMalgo, PlayerSilent:
	default:
		return fmt.Errorf("player must be 'malgo' or 'silent', got '%s'", s.Player)
	}
	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}
	return nil
}

// ResolveAPIKey returns the inline key or the one from its environment variable.
func (l *LLMConfig) ResolveAPIKey() string {
	if l.APIKey != "" {
		return l.APIKey
	}
	if l.APIKeyEnv != "" {
		return os.Getenv(l.APIKeyEnv)
	}
	return ""
}

// ResolveAPIKey returns the inline key or the one from its environment variable.
func (s *SpeechConfig) ResolveAPIKey() string {
	if s.APIKey != "" {
		return s.APIKey
	}
	if s.APIKeyEnv != "" {
		return os.Getenv(s.APIKeyEnv)
	}
	return ""
}

// GetRequestTimeout returns the backend call timeout as a time.Duration
func (c *Config) GetRequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}
