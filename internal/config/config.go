// Package config assembles the service configuration from defaults, an
// optional YAML file and environment variables, in that order of precedence
// (environment wins).
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Matching      MatchingConfig      `yaml:"matching"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Dataset       DatasetConfig       `yaml:"dataset"`
}

type ServerConfig struct {
	Port        string        `yaml:"port"`
	LogLevel    string        `yaml:"log_level"`
	MaxSessions int           `yaml:"max_sessions"`
	SessionIdle time.Duration `yaml:"session_idle"`
}

type TranscriptionConfig struct {
	URL     string        `yaml:"url"`
	Mock    bool          `yaml:"mock"`
	Timeout time.Duration `yaml:"timeout"`
}

type MatchingConfig struct {
	OverlapThreshold  float64 `yaml:"overlap_threshold"`
	PhoneticThreshold float64 `yaml:"phonetic_threshold"`
}

type PipelineConfig struct {
	Workers        int           `yaml:"workers"`
	SessionTimeout time.Duration `yaml:"session_timeout"`
}

type DatasetConfig struct {
	Path       string `yaml:"path"`
	ExportPath string `yaml:"export_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:        ServerConfig{Port: "8080", LogLevel: "info", MaxSessions: 1000, SessionIdle: 30 * time.Minute},
		Transcription: TranscriptionConfig{Timeout: 12 * time.Second},
		Matching:      MatchingConfig{OverlapThreshold: 0.70, PhoneticThreshold: 0.90},
		Pipeline:      PipelineConfig{Workers: 4, SessionTimeout: 60 * time.Second},
		Dataset:       DatasetConfig{Path: "data/journal.xlsx"},
	}
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load builds the configuration. When CONFIG_FILE is set its YAML is applied
// over the defaults before environment overrides.
func Load(lookup LookupFunc) (Config, error) {
	cfg := Default()
	if path, ok := lookup("CONFIG_FILE"); ok && path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("config: open %q: %w", path, err)
		}
		defer f.Close()
		if err := Overlay(&cfg, f); err != nil {
			return cfg, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return cfg, err
	}
	return cfg, Validate(cfg)
}

// Overlay decodes YAML from r on top of cfg. Unknown keys are rejected.
func Overlay(cfg *Config, r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup LookupFunc) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &cfg.Server.Port)
	str("LOG_LEVEL", &cfg.Server.LogLevel)
	str("TRANSCRIBE_URL", &cfg.Transcription.URL)
	str("DATASET_PATH", &cfg.Dataset.Path)
	str("EXPORT_PATH", &cfg.Dataset.ExportPath)

	if v, ok := lookup("USE_MOCK_TRANSCRIBE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("USE_MOCK_TRANSCRIBE %q: %w", v, err))
		}
		cfg.Transcription.Mock = b
	}
	if v, ok := lookup("MATCH_THRESHOLD"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("MATCH_THRESHOLD %q: %w", v, err))
		}
		cfg.Matching.OverlapThreshold = f
	}
	if v, ok := lookup("PIPELINE_WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("PIPELINE_WORKERS %q: %w", v, err))
		}
		cfg.Pipeline.Workers = n
	}
	if v, ok := lookup("SESSION_TIMEOUT_SEC"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SESSION_TIMEOUT_SEC %q: %w", v, err))
		}
		cfg.Pipeline.SessionTimeout = time.Duration(n) * time.Second
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate returns every problem found in cfg joined into one error.
func Validate(cfg Config) error {
	var errs []error
	if cfg.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if !contains(validLogLevels, strings.ToLower(cfg.Server.LogLevel)) {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: %s",
			cfg.Server.LogLevel, strings.Join(validLogLevels, ", ")))
	}
	if cfg.Server.MaxSessions < 1 {
		errs = append(errs, fmt.Errorf("server.max_sessions %d must be at least 1", cfg.Server.MaxSessions))
	}
	if cfg.Server.SessionIdle <= 0 {
		errs = append(errs, fmt.Errorf("server.session_idle %s must be positive", cfg.Server.SessionIdle))
	}
	if cfg.Matching.OverlapThreshold <= 0 || cfg.Matching.OverlapThreshold > 1 {
		errs = append(errs, fmt.Errorf("matching.overlap_threshold %v must be in (0, 1]", cfg.Matching.OverlapThreshold))
	}
	if cfg.Matching.PhoneticThreshold <= 0 || cfg.Matching.PhoneticThreshold > 1 {
		errs = append(errs, fmt.Errorf("matching.phonetic_threshold %v must be in (0, 1]", cfg.Matching.PhoneticThreshold))
	}
	if cfg.Pipeline.Workers < 1 {
		errs = append(errs, fmt.Errorf("pipeline.workers %d must be at least 1", cfg.Pipeline.Workers))
	}
	if cfg.Pipeline.SessionTimeout <= 0 {
		errs = append(errs, fmt.Errorf("pipeline.session_timeout %s must be positive", cfg.Pipeline.SessionTimeout))
	}
	if cfg.Transcription.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("transcription.timeout %s must be positive", cfg.Transcription.Timeout))
	}
	if !cfg.Transcription.Mock && cfg.Transcription.URL != "" &&
		!strings.HasPrefix(cfg.Transcription.URL, "http://") && !strings.HasPrefix(cfg.Transcription.URL, "https://") {
		errs = append(errs, fmt.Errorf("transcription.url %q must be an http(s) URL", cfg.Transcription.URL))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
