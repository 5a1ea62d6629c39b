// ABOUTME: Configuration loading and parsing for picbot
// ABOUTME: Supports YAML or TOML files with environment variable expansion, defaults and duration parsing

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Defaults applied when a field is left empty.
const (
	DefaultHTTPAddr        = "127.0.0.1:3978"
	DefaultHistoryLimit    = 200
	DefaultServiceTimeout  = 10 * time.Second
	DefaultTurnTimeout     = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultDedupeTTL       = 5 * time.Minute
	DefaultDedupeEntries   = 10000
)

// Config represents the complete picbot configuration
type Config struct {
	Server       ServerConfig       `yaml:"server" toml:"server"`
	Database     DatabaseConfig     `yaml:"database" toml:"database"`
	Auth         AuthConfig         `yaml:"auth" toml:"auth"`
	Bot          BotConfig          `yaml:"bot" toml:"bot"`
	Conversation ConversationConfig `yaml:"conversation" toml:"conversation"`
	Cognitive    CognitiveConfig    `yaml:"cognitive" toml:"cognitive"`
	Dedupe       DedupeConfig       `yaml:"dedupe" toml:"dedupe"`
	Matrix       MatrixConfig       `yaml:"matrix" toml:"matrix"`
	Logging      LoggingConfig      `yaml:"logging" toml:"logging"`
}

// ServerConfig holds the HTTP listener configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" toml:"http_addr"`

	TurnTimeout     time.Duration `yaml:"-" toml:"-"`
	ShutdownTimeout time.Duration `yaml:"-" toml:"-"`

	// Raw string values for unmarshaling
	TurnTimeoutRaw     string `yaml:"turn_timeout" toml:"turn_timeout"`
	ShutdownTimeoutRaw string `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// AuthConfig holds channel authentication configuration.
// An empty JWTSecret disables bearer token checks.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" toml:"jwt_secret"`
}

// BotConfig holds turn routing options
type BotConfig struct {
	ShowIntentScores bool `yaml:"show_intent_scores" toml:"show_intent_scores"`
	MaxDialogDepth   int  `yaml:"max_dialog_depth" toml:"max_dialog_depth"`
}

// ConversationConfig holds state retention options
type ConversationConfig struct {
	// HistoryLimit caps stored utterances per user. Unset means DefaultHistoryLimit, 0 means unbounded.
	HistoryLimit *int `yaml:"history_limit" toml:"history_limit"`
}

// Limit returns the effective history limit.
func (c ConversationConfig) Limit() int {
	if c.HistoryLimit == nil {
		return DefaultHistoryLimit
	}
	return *c.HistoryLimit
}

// CognitiveConfig holds the external language service endpoints.
// A service with no endpoint runs offline.
type CognitiveConfig struct {
	Classifier ClassifierConfig `yaml:"classifier" toml:"classifier"`
	Translator TranslatorConfig `yaml:"translator" toml:"translator"`
	Sentiment  SentimentConfig  `yaml:"sentiment" toml:"sentiment"`
}

// ClassifierConfig configures the intent prediction endpoint
type ClassifierConfig struct {
	Endpoint string `yaml:"endpoint" toml:"endpoint"`
	AppID    string `yaml:"app_id" toml:"app_id"`
	Key      string `yaml:"key" toml:"key"`
	Slot     string `yaml:"slot" toml:"slot"`

	Timeout    time.Duration `yaml:"-" toml:"-"`
	TimeoutRaw string        `yaml:"timeout" toml:"timeout"`
}

// TranslatorConfig configures the translation endpoint
type TranslatorConfig struct {
	Endpoint      string `yaml:"endpoint" toml:"endpoint"`
	TokenEndpoint string `yaml:"token_endpoint" toml:"token_endpoint"`
	Key           string `yaml:"key" toml:"key"`

	Timeout    time.Duration `yaml:"-" toml:"-"`
	TimeoutRaw string        `yaml:"timeout" toml:"timeout"`
}

// SentimentConfig configures the sentiment endpoint
type SentimentConfig struct {
	Endpoint string `yaml:"endpoint" toml:"endpoint"`
	Key      string `yaml:"key" toml:"key"`

	Timeout    time.Duration `yaml:"-" toml:"-"`
	TimeoutRaw string        `yaml:"timeout" toml:"timeout"`
}

// DedupeConfig holds inbound activity deduplication settings
type DedupeConfig struct {
	MaxEntries int `yaml:"max_entries" toml:"max_entries"`

	TTL    time.Duration `yaml:"-" toml:"-"`
	TTLRaw string        `yaml:"ttl" toml:"ttl"`
}

// MatrixConfig holds Matrix channel configuration
type MatrixConfig struct {
	Enabled      bool     `yaml:"enabled" toml:"enabled"`
	Homeserver   string   `yaml:"homeserver" toml:"homeserver"`
	UserID       string   `yaml:"user_id" toml:"user_id"`
	AccessToken  string   `yaml:"access_token" toml:"access_token"`
	AllowedUsers []string `yaml:"allowed_users" toml:"allowed_users"`
	AllowedRooms []string `yaml:"allowed_rooms" toml:"allowed_rooms"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are parsed as TOML, everything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration that runs entirely offline with an on-disk database at dbPath.
func Default(dbPath string) *Config {
	cfg := &Config{Database: DatabaseConfig{Path: dbPath}}
	cfg.ApplyDefaults()
	return cfg
}

// DefaultPath returns the config path to use when none is given on the command line:
// $PICBOT_CONFIG, then $XDG_CONFIG_HOME/picbot/picbot.yaml, then ~/.config/picbot/picbot.yaml.
func DefaultPath() string {
	if p := os.Getenv("PICBOT_CONFIG"); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "picbot", "picbot.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "picbot.yaml"
	}
	return filepath.Join(home, ".config", "picbot", "picbot.yaml")
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// ApplyDefaults fills empty fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = DefaultHTTPAddr
	}
	if c.Server.TurnTimeout == 0 {
		c.Server.TurnTimeout = DefaultTurnTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Cognitive.Classifier.Timeout == 0 {
		c.Cognitive.Classifier.Timeout = DefaultServiceTimeout
	}
	if c.Cognitive.Translator.Timeout == 0 {
		c.Cognitive.Translator.Timeout = DefaultServiceTimeout
	}
	if c.Cognitive.Sentiment.Timeout == 0 {
		c.Cognitive.Sentiment.Timeout = DefaultServiceTimeout
	}
	if c.Dedupe.TTL == 0 {
		c.Dedupe.TTL = DefaultDedupeTTL
	}
	if c.Dedupe.MaxEntries == 0 {
		c.Dedupe.MaxEntries = DefaultDedupeEntries
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Conversation.Limit() < 0 {
		return fmt.Errorf("conversation.history_limit must not be negative")
	}

	if c.Bot.MaxDialogDepth < 0 {
		return fmt.Errorf("bot.max_dialog_depth must not be negative")
	}

	if c.Cognitive.Classifier.Endpoint != "" && c.Cognitive.Classifier.AppID == "" {
		return fmt.Errorf("cognitive.classifier.app_id is required when an endpoint is set")
	}

	if c.Cognitive.Translator.Endpoint != "" && c.Cognitive.Translator.TokenEndpoint == "" {
		return fmt.Errorf("cognitive.translator.token_endpoint is required when an endpoint is set")
	}

	if c.Matrix.Enabled {
		if c.Matrix.Homeserver == "" {
			return fmt.Errorf("matrix.homeserver is required when matrix is enabled")
		}
		if c.Matrix.UserID == "" {
			return fmt.Errorf("matrix.user_id is required when matrix is enabled")
		}
		if c.Matrix.AccessToken == "" {
			return fmt.Errorf("matrix.access_token is required when matrix is enabled")
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not text or json", c.Logging.Format)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"server.turn_timeout", cfg.Server.TurnTimeoutRaw, &cfg.Server.TurnTimeout},
		{"server.shutdown_timeout", cfg.Server.ShutdownTimeoutRaw, &cfg.Server.ShutdownTimeout},
		{"cognitive.classifier.timeout", cfg.Cognitive.Classifier.TimeoutRaw, &cfg.Cognitive.Classifier.Timeout},
		{"cognitive.translator.timeout", cfg.Cognitive.Translator.TimeoutRaw, &cfg.Cognitive.Translator.Timeout},
		{"cognitive.sentiment.timeout", cfg.Cognitive.Sentiment.TimeoutRaw, &cfg.Cognitive.Sentiment.Timeout},
		{"dedupe.ttl", cfg.Dedupe.TTLRaw, &cfg.Dedupe.TTL},
	}

	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		if d < 0 {
			return fmt.Errorf("parsing %s %q: must not be negative", f.name, f.raw)
		}
		*f.dst = d
	}

	return nil
}
