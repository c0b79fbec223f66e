// Package config loads board configuration from an optional YAML file and
// the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/baiirun/board/internal/action"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix         = "BOARD_"
	maxConfigFileSize = 1024 * 1024
)

// Config is the full board configuration.
type Config struct {
	DB     DBConfig     `koanf:"db"`
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
	NATS   NATSConfig   `koanf:"nats"`
	Social SocialConfig `koanf:"social"`
}

type DBConfig struct {
	Path string `koanf:"path"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// NATSConfig enables change notifications when URL is set.
type NATSConfig struct {
	URL           string `koanf:"url"`
	SubjectPrefix string `koanf:"subject_prefix"`
}

// SocialConfig holds the provider credentials checked by the post action.
type SocialConfig struct {
	XAPIKey         string `koanf:"x_api_key"`
	XAPISecret      string `koanf:"x_api_secret"`
	XAccessToken    string `koanf:"x_access_token"`
	XAccessSecret   string `koanf:"x_access_secret"`
	BlueskyHandle   string `koanf:"bluesky_handle"`
	BlueskyPassword string `koanf:"bluesky_password"`
}

// Credentials converts the social section for the action router.
func (s SocialConfig) Credentials() action.Credentials {
	return action.Credentials{
		XAPIKey:         s.XAPIKey,
		XAPISecret:      s.XAPISecret,
		XAccessToken:    s.XAccessToken,
		XAccessSecret:   s.XAccessSecret,
		BlueskyHandle:   s.BlueskyHandle,
		BlueskyPassword: s.BlueskyPassword,
	}
}

// DefaultPath returns ~/.board/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".board", "config.yaml"), nil
}

// Load reads configPath (when it exists), then the environment, then fills
// defaults. Precedence, highest first:
//
//  1. BOARD_SECTION_FIELD variables (BOARD_SERVER_ADDR -> server.addr)
//  2. X_* and BLUESKY_* credential variables (X_API_KEY -> social.x_api_key)
//  3. the YAML file
//  4. defaults
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if content != nil {
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider("", ".", socialKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load credential variables: %w", err)
	}
	if err := k.Load(env.Provider(envPrefix, ".", boardKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// readConfigFile returns nil content when the file does not exist.
func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// boardKey maps BOARD_SERVER_READ_TIMEOUT to server.read_timeout. The prefix
// is already filtered by the provider.
func boardKey(s string) string {
	parts := strings.SplitN(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", 2)
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + "." + parts[1]
}

// socialKey picks up the provider credential variables; everything else is
// skipped.
func socialKey(s string) string {
	if strings.HasPrefix(s, "X_") || strings.HasPrefix(s, "BLUESKY_") {
		return "social." + strings.ToLower(s)
	}
	return ""
}

func applyDefaults(cfg *Config) error {
	if cfg.DB.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.DB.Path = filepath.Join(home, ".board", "board.db")
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "localhost:8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.NATS.SubjectPrefix == "" {
		cfg.NATS.SubjectPrefix = "board.cards"
	}
	return nil
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q (use json or console)", c.Log.Format)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	return nil
}
