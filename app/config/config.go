package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log     Log     `yaml:"log"`
	Server  Server  `yaml:"server"`
	OpenAI  OpenAI  `yaml:"openai"`
	Discord Discord `yaml:"discord"`
	Context Context `yaml:"context"`
}

type OpenAI struct {
	// OpenAI base url
	BaseURL string `yaml:"base_url" example:"https://api.openai.com/v1" validate:"required"`
	// OpenAI token, env override OPENAI_API_KEY
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// Chat completion model
	Model string `yaml:"model" example:"gpt-4o-mini" validate:"required"`
	// Completion token limit
	MaxTokens int `yaml:"max_tokens" example:"500" validate:"required"`
}

type Discord struct {
	// Bot token, env override DISCORD_BOT_TOKEN
	BotToken string `yaml:"bot_token" example:"MTAxMjM0NTY3ODkwMTIzNDU2.GaBcDe.fGhIjKlMnOpQrStUvWxYz0123456789AbCdEf" validate:"required"`
	// Hex-encoded ed25519 public key for interaction verification,
	// env override DISCORD_PUBLIC_KEY. Unset means every interaction
	// signature is rejected.
	PublicKey string `yaml:"public_key" example:"6ff7029d2bb12e32fcbb0e4ad06ce190a7897da3b51c64a0b4f51b4a18bbe518"`
}

type Context struct {
	// Path to the static context document
	Path string `yaml:"path" example:"combined.md"`
	// Maximum number of characters of context injected per conversation,
	// 0 means no cap
	MaxInjectChars int `yaml:"max_inject_chars" example:"0"`
}

type Server struct {
	// HTTP listen port
	Port int `yaml:"port" example:"3000"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	applyDefaults(&result)
	applyEnvOverrides(&result)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.OpenAI.MaxTokens == 0 {
		cfg.OpenAI.MaxTokens = 500
	}
	if cfg.Context.Path == "" {
		cfg.Context.Path = "combined.md"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.Token = v
	}
	if v := os.Getenv("DISCORD_BOT_TOKEN"); v != "" {
		cfg.Discord.BotToken = v
	}
	if v := os.Getenv("DISCORD_PUBLIC_KEY"); v != "" {
		cfg.Discord.PublicKey = v
	}
}
