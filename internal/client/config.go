package client

import (
	"errors"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

var ErrEmptyUsername = errors.New("username must not be blank")

// Config is read from CHAT_* environment variables.
type Config struct {
	URL            string        `envconfig:"URL" default:"ws://localhost:8000/"`
	Username       string        `envconfig:"USERNAME" required:"true"`
	ReconnectDelay time.Duration `envconfig:"RECONNECT_DELAY" default:"3s"`
	// CHAT_COLOURS enables colorized output
	Colours  bool   `envconfig:"COLOURS" default:"true"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"WARN"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("chat", &cfg); err != nil {
		return Config{}, err
	}
	cfg.Username = strings.TrimSpace(cfg.Username)
	if cfg.Username == "" {
		return Config{}, ErrEmptyUsername
	}
	return cfg, nil
}
