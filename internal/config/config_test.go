package config

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/snailderby/internal/race"
)

func envFrom(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// noDotEnv points -env at a file that does not exist
func noDotEnv(t *testing.T, args ...string) []string {
	return append([]string{"-env", filepath.Join(t.TempDir(), "missing.env")}, args...)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(noDotEnv(t), envFrom(nil), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "snailderby.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10, cfg.Capacity)
	assert.Equal(t, 1000, cfg.StartingPoints)
	assert.Zero(t, cfg.Seed)
	assert.Equal(t, race.DefaultTuning(), cfg.Tuning)
	assert.Equal(t, ":3000", cfg.Addr())
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := Load(noDotEnv(t,
		"-port", "8080",
		"-db", "/data/snails.db",
		"-adminpw", "secret",
		"-loglevel", "debug",
		"-logformat", "json",
		"-capacity", "4",
		"-starting-points", "500",
		"-seed", "42",
		"-httplog",
		"-nobanner",
	), envFrom(nil), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/data/snails.db", cfg.DBPath)
	assert.Equal(t, "secret", cfg.AdminPassword)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 4, cfg.Capacity)
	assert.Equal(t, 500, cfg.StartingPoints)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.True(t, cfg.HTTPLogging)
	assert.True(t, cfg.NoBanner)
}

func TestLoad_EnvOverrides(t *testing.T) {
	env := envFrom(map[string]string{
		"SNAILDERBY_PORT":           "9000",
		"SNAILDERBY_ADMIN_PASSWORD": "from-env",
		"SNAILDERBY_BASE_URL":       "http://derby.local",
		"SNAILDERBY_HTTP_LOG":       "true",
	})

	cfg, err := Load(noDotEnv(t), env, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "from-env", cfg.AdminPassword)
	assert.Equal(t, "http://derby.local", cfg.BaseURL)
	assert.True(t, cfg.HTTPLogging)

	// an explicit flag wins over the environment
	cfg, err = Load(noDotEnv(t, "-port", "7000"), env, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
}

func TestLoad_DotEnv(t *testing.T) {
	path := writeFile(t, ".env", "SNAILDERBY_PORT=8181\nSNAILDERBY_LOG_FORMAT=json\n# comment\nSNAILDERBY_SEED=7\n")

	cfg, err := Load([]string{"-env", path}, envFrom(map[string]string{"SNAILDERBY_PORT": "8282"}), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 8282, cfg.Port, "process environment beats the dotenv file")
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, uint64(7), cfg.Seed)
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	_, err := Load(noDotEnv(t), envFrom(map[string]string{"SNAILDERBY_CAPACITY": "lots"}), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SNAILDERBY_CAPACITY")
}

func TestLoad_Help(t *testing.T) {
	var out bytes.Buffer
	_, err := Load([]string{"-help"}, envFrom(nil), &out)
	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, out.String(), "snailderby [options]")
}

func TestLoad_TuningFile(t *testing.T) {
	path := writeFile(t, "tuning.yaml", "race_distance: 50\nevent_chance: 0.1\n")

	cfg, err := Load(noDotEnv(t, "-tuning", path), envFrom(nil), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 50.0, cfg.Tuning.RaceDistance)
	assert.Equal(t, 0.1, cfg.Tuning.EventChance)
	assert.Equal(t, race.DefaultTuning().SpeedMax, cfg.Tuning.SpeedMax, "unset keys keep defaults")
}

func TestLoadTuning(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"empty file keeps defaults", "", ""},
		{"partial override", "countdown_seconds: 5\n", ""},
		{"unknown key", "race_length: 50\n", "parse tuning file"},
		{"malformed", "race_distance: [\n", "parse tuning file"},
		{"out of range", "burst_chance: 1.5\n", "burst_chance"},
		{"zero distance", "race_distance: 0\n", "race_distance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTuning(writeFile(t, "tuning.yaml", tt.content))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadTuning_MissingFile(t *testing.T) {
	_, err := LoadTuning(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too high", func(c *Config) { c.Port = 70000 }},
		{"no db", func(c *Config) { c.DBPath = "" }},
		{"no capacity", func(c *Config) { c.Capacity = 0 }},
		{"no points", func(c *Config) { c.StartingPoints = 0 }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
		{"bad tuning", func(c *Config) { c.Tuning.SpeedMin = 0 }},
	}

	base := Default()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
