package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

/* Configuration surface of the gateway
 * Loaded once at process start from .env (TOML) plus the environment;
 * every knob has a safe default so a bare binary still boots.
 */

type Config struct {
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// AuthToken is the carrier account's shared signing secret
	AuthToken string `mapstructure:"AUTH_TOKEN"`

	// SignatureExempt is a comma-separated list of path substrings that
	// skip signature verification
	SignatureExempt string `mapstructure:"SIGNATURE_EXEMPT"`

	// TimeoutMs is the hard response budget; the carrier gives up at
	// roughly 15 seconds
	TimeoutMs int `mapstructure:"TIMEOUT_MS"`

	// MaxBodyBytes is the webhook payload ceiling
	MaxBodyBytes int64 `mapstructure:"MAX_BODY_BYTES"`

	// SensitiveFields is a comma-separated redaction list override
	SensitiveFields string `mapstructure:"SENSITIVE_FIELDS"`

	LogDir       string `mapstructure:"LOG_DIR"`
	LogToConsole bool   `mapstructure:"LOG_TO_CONSOLE"`
	LogToFile    bool   `mapstructure:"LOG_TO_FILE"`

	// AuditSink selects the durable store: "file" or "redis"
	AuditSink string `mapstructure:"AUDIT_SINK"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	RoutesFile string `mapstructure:"ROUTES_FILE"`
}

func GetConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("TIMEOUT_MS", 14000)
	viper.SetDefault("MAX_BODY_BYTES", 10240)
	viper.SetDefault("LOG_DIR", "logs")
	viper.SetDefault("LOG_TO_CONSOLE", true)
	viper.SetDefault("LOG_TO_FILE", true)
	viper.SetDefault("AUDIT_SINK", "file")
	viper.SetDefault("ROUTES_FILE", "routes.yaml")

	err := viper.ReadInConfig()
	if err != nil {
		// Running purely on environment variables is fine
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	var config Config
	err = viper.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	return &config, nil
}

// IsProduction reports whether strict signature enforcement and the
// protocol-redirect guard apply
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Timeout returns the response budget as a duration
func (c *Config) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 14000 * time.Millisecond
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// GetSensitiveFields returns the redaction list, or nil for the default
func (c *Config) GetSensitiveFields() []string {
	return splitList(c.SensitiveFields)
}

// GetSignatureExempt returns the exempt path substrings
func (c *Config) GetSignatureExempt() []string {
	return splitList(c.SignatureExempt)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
