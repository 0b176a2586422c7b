// Package server provides configuration helpers that define runtime defaults,
// validation, and environment loading for the chat relay.
package server

import (
	"fmt"
	"net"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config holds the server settings. Every field can be overridden through the
// environment variable named in its env tag.
type Config struct {
	Host             string        `env:"HOST,default=0.0.0.0"`
	Port             string        `env:"PORT,default=8000" validate:"required,numeric"`
	AllowedOrigins   string        `env:"ALLOWED_ORIGINS,default=*"`
	MaxMessageSize   int           `env:"MAX_MESSAGE_SIZE,default=4096" validate:"gt=0"`
	SendBufferSize   int           `env:"SEND_BUFFER_SIZE,default=256" validate:"gt=0"`
	ReplyDelay       time.Duration `env:"REPLY_DELAY,default=1s" validate:"gte=0"`
	BotName          string        `env:"BOT_NAME,default=AI助手" validate:"required"`
	BindChatIdentity bool          `env:"BIND_CHAT_IDENTITY,default=false"`
	StaticDir        string        `env:"STATIC_DIR"`
	LogLevel         string        `env:"LOG_LEVEL,default=INFO" validate:"required"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s" validate:"gt=0"`
}

// DefaultConfig returns the configuration used when no environment override
// is present.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            "8000",
		AllowedOrigins:  "*",
		MaxMessageSize:  4096,
		SendBufferSize:  256,
		ReplyDelay:      time.Second,
		BotName:         "AI助手",
		LogLevel:        "INFO",
		ShutdownTimeout: 5 * time.Second,
	}
}

// LoadConfig reads the configuration from the process environment, applying
// the defaults declared in the struct tags, and validates the result.
func LoadConfig() (Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the field constraints declared on Config.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Address returns the host:port pair the HTTP server listens on.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Origins returns the configured allowed origins as a trimmed list.
func (c Config) Origins() []string {
	return parseOrigins(c.AllowedOrigins)
}

func parseOrigins(origins string) []string {
	if strings.TrimSpace(origins) == "" {
		return nil
	}
	parts := strings.Split(origins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
