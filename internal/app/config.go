package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/graphenelabs/graphbot/core/config"
	coredatabase "github.com/graphenelabs/graphbot/core/database"
)

// BotConfig holds settings specific to the incentive program bot.
type BotConfig struct {
	// Channel the join_channel task verifies membership of.
	Channel string `yaml:"channel" envconfig:"AIRDROP_CHANNEL"`
	// QuizTTLMinutes bounds how long an unanswered quiz session lives.
	QuizTTLMinutes int `yaml:"quiz_ttl_minutes" envconfig:"QUIZ_TTL_MINUTES"`
	// NotifyQueue sizes the async notification queue.
	NotifyQueue int `yaml:"notify_queue" envconfig:"NOTIFY_QUEUE"`
}

// Config aggregates core, database, and bot-specific configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Bot      BotConfig           `yaml:"bot"`
}

// LoadConfig reads YAML then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := normalizeBot(&cfg.Bot); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalizeBot(cfg *BotConfig) error {
	cfg.Channel = strings.TrimSpace(cfg.Channel)
	if cfg.Channel == "" {
		return fmt.Errorf("bot.channel is required")
	}
	if !strings.HasPrefix(cfg.Channel, "@") {
		cfg.Channel = "@" + cfg.Channel
	}
	if cfg.QuizTTLMinutes < 0 {
		return fmt.Errorf("bot.quiz_ttl_minutes must be >= 0")
	}
	if cfg.NotifyQueue < 0 {
		return fmt.Errorf("bot.notify_queue must be >= 0")
	}
	return nil
}
