package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"memory-companion-go/internal/config"
)

func env(vars map[string]string) config.LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := config.Load(env(nil))
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, 0.70, cfg.Matching.OverlapThreshold)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Parallel()
	cfg, err := config.Load(env(map[string]string{
		"PORT":                "9000",
		"TRANSCRIBE_URL":      "https://stt.example.com",
		"USE_MOCK_TRANSCRIBE": "true",
		"MATCH_THRESHOLD":     "0.8",
		"PIPELINE_WORKERS":    "2",
		"SESSION_TIMEOUT_SEC": "5",
		"DATASET_PATH":        "/tmp/journal.xlsx",
	}))
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Server.Port)
	require.Equal(t, "https://stt.example.com", cfg.Transcription.URL)
	require.True(t, cfg.Transcription.Mock)
	require.Equal(t, 0.8, cfg.Matching.OverlapThreshold)
	require.Equal(t, 2, cfg.Pipeline.Workers)
	require.Equal(t, 5*time.Second, cfg.Pipeline.SessionTimeout)
	require.Equal(t, "/tmp/journal.xlsx", cfg.Dataset.Path)
}

func TestLoad_BadEnvValuesAreJoined(t *testing.T) {
	t.Parallel()
	_, err := config.Load(env(map[string]string{
		"USE_MOCK_TRANSCRIBE": "maybe",
		"PIPELINE_WORKERS":    "many",
	}))
	require.Error(t, err)
	require.Contains(t, err.Error(), "USE_MOCK_TRANSCRIBE")
	require.Contains(t, err.Error(), "PIPELINE_WORKERS")
}

func TestLoad_FileThenEnv(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "companion.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "7000"
  log_level: debug
  max_sessions: 50
  session_idle: 5m
matching:
  overlap_threshold: 0.6
pipeline:
  workers: 8
  session_timeout: 30s
`), 0o600))

	cfg, err := config.Load(env(map[string]string{"CONFIG_FILE": path, "PORT": "7100"}))
	require.NoError(t, err)
	require.Equal(t, "7100", cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, 50, cfg.Server.MaxSessions)
	require.Equal(t, 5*time.Minute, cfg.Server.SessionIdle)
	require.Equal(t, 0.6, cfg.Matching.OverlapThreshold)
	require.Equal(t, 0.90, cfg.Matching.PhoneticThreshold)
	require.Equal(t, 8, cfg.Pipeline.Workers)
	require.Equal(t, 30*time.Second, cfg.Pipeline.SessionTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := config.Load(env(map[string]string{"CONFIG_FILE": "/does/not/exist.yaml"}))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOverlay_UnknownField(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	err := config.Overlay(&cfg, strings.NewReader("server:\n  prot: \"1\"\n"))
	require.Error(t, err)
}

func TestOverlay_EmptyDocument(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	require.NoError(t, config.Overlay(&cfg, strings.NewReader("")))
	require.Equal(t, config.Default(), cfg)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Server.LogLevel = "loud"
	cfg.Matching.OverlapThreshold = 1.5
	cfg.Pipeline.Workers = 0
	cfg.Transcription.URL = "ftp://nope"
	cfg.Server.MaxSessions = 0

	err := config.Validate(cfg)
	require.Error(t, err)
	for _, want := range []string{"log_level", "overlap_threshold", "workers", "transcription.url", "max_sessions"} {
		require.Contains(t, err.Error(), want)
	}
}
