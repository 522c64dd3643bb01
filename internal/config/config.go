package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/sosodev/duration"

	"github.com/five82/thermo/internal/analysis"
	"github.com/five82/thermo/internal/connection"
	"github.com/five82/thermo/internal/retry"
	"github.com/five82/thermo/internal/validate"
)

// Config holds every externally tunable setting of the sync engine.
type Config struct {
	APIURL        string
	FetchPeriod   time.Duration
	DisplayPeriod time.Duration
	StaleAfter    time.Duration
	RetryTimeouts []time.Duration
	BackoffBase   time.Duration
	HistoryWindow time.Duration
	HistoryDB     string
	LogPath       string
	LogLevel      string
	InitialState  connection.State
	Trend         analysis.TrendConfig
	Difference    analysis.DifferenceConfig
	Rules         validate.Rules
	MQTT          MQTTConfig
}

// MQTTConfig configures the optional event republisher.
type MQTTConfig struct {
	Broker   string
	Topic    string
	ClientID string
}

// Enabled reports whether a broker is configured.
func (m MQTTConfig) Enabled() bool {
	return strings.TrimSpace(m.Broker) != ""
}

const (
	defaultConfigPath = "~/.config/thermo/config.toml"
	defaultLogPath    = "~/.local/share/thermo/thermo.log"
	defaultAPIURL     = "127.0.0.1:5000"
	defaultMQTTTopic  = "thermo/events"
	defaultClientID   = "thermo"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:        defaultAPIURL,
		FetchPeriod:   10 * time.Second,
		DisplayPeriod: time.Second,
		StaleAfter:    30 * time.Second,
		RetryTimeouts: append([]time.Duration(nil), retry.DefaultTimeouts...),
		BackoffBase:   retry.DefaultBaseBackoff,
		HistoryWindow: 5 * time.Minute,
		LogPath:       mustExpand(defaultLogPath),
		LogLevel:      "info",
		InitialState:  connection.Offline,
		Trend:         analysis.DefaultTrendConfig(),
		Difference:    analysis.DefaultDifferenceConfig(),
		Rules:         validate.DefaultRules(),
		MQTT:          MQTTConfig{Topic: defaultMQTTTopic, ClientID: defaultClientID},
	}
}

// RetryPolicy builds the fetch retry policy.
func (c Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		Timeouts:    append([]time.Duration(nil), c.RetryTimeouts...),
		BaseBackoff: c.BackoffBase,
	}
}

type rawConfig struct {
	APIURL        string   `toml:"api_url"`
	FetchPeriod   string   `toml:"fetch_period"`
	DisplayPeriod string   `toml:"display_period"`
	StaleAfter    string   `toml:"stale_after"`
	RetryTimeouts []string `toml:"retry_timeouts"`
	BackoffBase   string   `toml:"backoff_base"`
	HistoryWindow string   `toml:"history_window"`
	HistoryDB     string   `toml:"history_db"`
	LogPath       string   `toml:"log_path"`
	LogLevel      string   `toml:"log_level"`
	InitialState  string   `toml:"initial_state"`
	Trend         struct {
		MinSamples         *int     `toml:"min_samples"`
		DirectionThreshold *float64 `toml:"direction_threshold"`
		ApproachTolerance  *float64 `toml:"approach_tolerance"`
	} `toml:"trend"`
	Difference struct {
		Deadband *float64 `toml:"deadband"`
		MaxDelta *float64 `toml:"max_delta"`
	} `toml:"difference"`
	Rules map[string]validate.FieldRule `toml:"rules"`
	MQTT  struct {
		Broker   string `toml:"broker"`
		Topic    string `toml:"topic"`
		ClientID string `toml:"client_id"`
	} `toml:"mqtt"`
}

// Load locates and parses the thermo config, falling back to defaults when
// the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.apply(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) apply(raw rawConfig) error {
	if v := strings.TrimSpace(raw.APIURL); v != "" {
		c.APIURL = v
	}

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"fetch_period", raw.FetchPeriod, &c.FetchPeriod},
		{"display_period", raw.DisplayPeriod, &c.DisplayPeriod},
		{"stale_after", raw.StaleAfter, &c.StaleAfter},
		{"history_window", raw.HistoryWindow, &c.HistoryWindow},
	}
	for _, d := range durations {
		if strings.TrimSpace(d.raw) == "" {
			continue
		}
		parsed, err := ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		if parsed <= 0 {
			return fmt.Errorf("%s: must be positive", d.key)
		}
		*d.dst = parsed
	}

	if v := strings.TrimSpace(raw.BackoffBase); v != "" {
		parsed, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("backoff_base: %w", err)
		}
		if parsed < 0 {
			return fmt.Errorf("backoff_base: must not be negative")
		}
		c.BackoffBase = parsed
	}

	if len(raw.RetryTimeouts) > 0 {
		timeouts := make([]time.Duration, 0, len(raw.RetryTimeouts))
		for i, v := range raw.RetryTimeouts {
			parsed, err := ParseDuration(v)
			if err != nil {
				return fmt.Errorf("retry_timeouts[%d]: %w", i, err)
			}
			if parsed <= 0 {
				return fmt.Errorf("retry_timeouts[%d]: must be positive", i)
			}
			timeouts = append(timeouts, parsed)
		}
		c.RetryTimeouts = timeouts
	}

	if v := strings.TrimSpace(raw.HistoryDB); v != "" {
		c.HistoryDB = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		c.LogPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.InitialState); v != "" {
		state, err := connection.ParseState(strings.ToLower(v))
		if err != nil {
			return fmt.Errorf("initial_state: %w", err)
		}
		c.InitialState = state
	}

	if v := raw.Trend.MinSamples; v != nil {
		if *v < 2 {
			return fmt.Errorf("trend.min_samples: must be at least 2")
		}
		c.Trend.MinSamples = *v
	}
	if v := raw.Trend.DirectionThreshold; v != nil {
		c.Trend.DirectionThreshold = *v
	}
	if v := raw.Trend.ApproachTolerance; v != nil {
		c.Trend.ApproachTolerance = *v
	}
	if v := raw.Difference.Deadband; v != nil {
		c.Difference.Deadband = *v
	}
	if v := raw.Difference.MaxDelta; v != nil {
		if *v <= 0 {
			return fmt.Errorf("difference.max_delta: must be positive")
		}
		c.Difference.MaxDelta = *v
	}

	for field, rule := range raw.Rules {
		if err := rule.Check(); err != nil {
			return fmt.Errorf("rules.%s: %w", field, err)
		}
		c.Rules[field] = rule
	}

	c.MQTT.Broker = strings.TrimSpace(raw.MQTT.Broker)
	if v := strings.TrimSpace(raw.MQTT.Topic); v != "" {
		c.MQTT.Topic = v
	}
	if v := strings.TrimSpace(raw.MQTT.ClientID); v != "" {
		c.MQTT.ClientID = v
	}
	return nil
}

// ParseDuration accepts Go duration syntax ("10s") or ISO-8601 ("PT10S").
func ParseDuration(value string) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if d, err := time.ParseDuration(trimmed); err == nil {
		return d, nil
	}
	iso, err := duration.Parse(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", value, err)
	}
	return iso.ToTimeDuration(), nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
