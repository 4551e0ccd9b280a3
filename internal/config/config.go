package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type WSConfig struct {
	ReadLimit  int64         `mapstructure:"read_limit"`
	SendBuffer int           `mapstructure:"send_buffer"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	// Backpressure is what happens to a connection whose queue is full:
	// "kick" closes it, "drop" only loses the frame.
	Backpressure string `mapstructure:"backpressure"`
}

type AuthConfig struct {
	JWTSecret    string `mapstructure:"jwt_secret"`
	RequireToken bool   `mapstructure:"require_token"`
}

type PresenceConfig struct {
	Backend      string        `mapstructure:"backend"`
	DatabaseURL  string        `mapstructure:"database_url"`
	SQLitePath   string        `mapstructure:"sqlite_path"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RequestsConfig struct {
	Limit    int           `mapstructure:"limit"`
	Interval time.Duration `mapstructure:"interval"`
}

type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

type Config struct {
	Mode           string         `mapstructure:"mode"`
	Port           int            `mapstructure:"port"`
	LogLevel       string         `mapstructure:"log_level"`
	Secret         string         `mapstructure:"secret"`
	AllowedOrigins []string       `mapstructure:"allowed_origins"`
	WS             WSConfig       `mapstructure:"ws"`
	Auth           AuthConfig     `mapstructure:"auth"`
	Presence       PresenceConfig `mapstructure:"presence"`
	Requests       RequestsConfig `mapstructure:"requests"`
	ICEServers     []ICEServer    `mapstructure:"ice_servers"`
}

// Load reads config/config.<CONFIG_ENV>.yaml (CONFIG_ENV defaults to dev).
// A missing file is not an error: defaults and INTERVIEW_* env vars apply.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	v.SetEnvPrefix("INTERVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("presence", cfg.Presence.Backend).
		Bool("require_token", cfg.Auth.RequireToken).
		Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("secret", "change-me")
	v.SetDefault("allowed_origins", []string{})

	v.SetDefault("ws.read_limit", 262144)
	v.SetDefault("ws.send_buffer", 64)
	v.SetDefault("ws.ping_period", "54s")
	v.SetDefault("ws.pong_wait", "60s")
	v.SetDefault("ws.write_wait", "5s")
	v.SetDefault("ws.backpressure", "kick")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.require_token", false)

	v.SetDefault("presence.backend", "memory")
	v.SetDefault("presence.database_url", "")
	v.SetDefault("presence.sqlite_path", "interview.db")
	v.SetDefault("presence.write_timeout", "3s")

	v.SetDefault("requests.limit", 5)
	v.SetDefault("requests.interval", "10s")

	v.SetDefault("ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
	})
}

func (c *Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("invalid port %d", c.Port)
	case c.WS.SendBuffer <= 0:
		return fmt.Errorf("ws.send_buffer must be positive")
	case c.WS.PingPeriod >= c.WS.PongWait:
		return fmt.Errorf("ws.ping_period (%s) must be shorter than ws.pong_wait (%s)", c.WS.PingPeriod, c.WS.PongWait)
	case c.WS.Backpressure != "kick" && c.WS.Backpressure != "drop":
		return fmt.Errorf("ws.backpressure must be kick or drop, got %q", c.WS.Backpressure)
	case c.Auth.RequireToken && c.Auth.JWTSecret == "":
		return fmt.Errorf("auth.require_token needs auth.jwt_secret")
	case c.Requests.Limit <= 0 || c.Requests.Interval <= 0:
		return fmt.Errorf("requests.limit and requests.interval must be positive")
	}
	switch c.Presence.Backend {
	case "memory", "sqlite":
	case "postgres":
		if c.Presence.DatabaseURL == "" {
			return fmt.Errorf("presence.backend=postgres needs presence.database_url")
		}
	default:
		return fmt.Errorf("unknown presence.backend %q", c.Presence.Backend)
	}
	return nil
}
