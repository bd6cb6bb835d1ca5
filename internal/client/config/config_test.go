package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://localhost:5000/api", c.ServerURL)
	assert.Equal(t, "session.db", c.SessionDBName)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, time.Second, c.TickInterval)
	assert.Zero(t, c.RequestTimeout)
	assert.True(t, c.UseServerClock)
	require.NoError(t, c.Validate())
}

func TestLoad_NoSources(t *testing.T) {
	cfg, err := Load(nil, map[string]string{})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), *cfg))
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_url":      "http://json.example/api",
		"log_level":       "warn",
		"request_timeout": "10s",
		"tick_interval":   int64(500 * time.Millisecond),
		"data_dir":        "/from/json",
	})

	environ := map[string]string{
		"FEEDBACKHUB_SERVER_URL":       "http://env.example/api",
		"FEEDBACKHUB_USE_SERVER_CLOCK": "false",
		"FEEDBACKHUB_LOG_FORMAT":       "json",
		"UNRELATED":                    "x",
	}
	args := []string{"-config", path, "-a", "http://flag.example/api", "-l", "debug"}

	cfg, err := Load(args, environ)
	require.NoError(t, err)

	want := Config{
		ServerURL:      "http://flag.example/api",
		DataDir:        "/from/json",
		SessionDBName:  "session.db",
		LogLevel:       "debug",
		LogFormat:      "json",
		RequestTimeout: 10 * time.Second,
		TickInterval:   500 * time.Millisecond,
		UseServerClock: false,
	}
	assert.Empty(t, cmp.Diff(want, *cfg))
}

func TestLoad_PartialJSONKeepsDefaults(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"session_db": "other.db"})

	cfg, err := Load([]string{"-c", path}, map[string]string{})
	require.NoError(t, err)

	want := defaults()
	want.SessionDBName = "other.db"
	assert.Empty(t, cmp.Diff(want, *cfg))
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ not json`), 0o600))

	tests := []struct {
		name    string
		args    []string
		environ map[string]string
	}{
		{name: "missing file", args: []string{"-c", filepath.Join(dir, "nope.json")}},
		{name: "invalid json", args: []string{"-config", bad}},
		{name: "bad env duration", environ: map[string]string{"FEEDBACKHUB_TICK_INTERVAL": "soon"}},
		{name: "zero tick", environ: map[string]string{"FEEDBACKHUB_TICK_INTERVAL": "0s"}},
		{name: "bad log format", environ: map[string]string{"FEEDBACKHUB_LOG_FORMAT": "xml"}},
		{name: "empty server url", args: []string{"-a", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			environ := tt.environ
			if environ == nil {
				environ = map[string]string{}
			}
			_, err := Load(tt.args, environ)
			require.Error(t, err)
		})
	}
}

func TestParseFlags(t *testing.T) {
	cfg := defaults()
	require.NoError(t, parseFlags(&cfg, []string{"-d", "/tmp/fh", "-x", "ignored", "-l=error"}))

	assert.Equal(t, "/tmp/fh", cfg.DataDir)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "http://localhost:5000/api", cfg.ServerURL)
}
