package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/debrief/normalize"
	"github.com/tsawler/debrief/variant"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "debrief.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "weekly", cfg.DefaultVariant)
	assert.Equal(t, int64(32*1024*1024), cfg.MaxUploadBytes())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
listen: ":9000"
default_variant: festival
workers: 2
users:
  coordinator: "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z0tYfP1U1b6hZ8bY9G6u0hKa"
variants:
  - name: weekly
    categories: ["JEUGDOVERLAST", "AFVALPROBLEMATIEK"]
    date_format: auto
`)
	t.Setenv(EnvListen, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 32, cfg.MaxUploadMB, "unset fields keep their defaults")
	assert.Contains(t, cfg.Users, "coordinator")

	v, err := cfg.Variant("weekly")
	require.NoError(t, err)
	assert.Equal(t, []string{"JEUGDOVERLAST", "AFVALPROBLEMATIEK"}, v.Categories)
	assert.Equal(t, normalize.Auto, v.DateFormat)

	v, err = cfg.Variant("")
	require.NoError(t, err)
	assert.Equal(t, "festival", v.Name)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `listen: ":9000"`)
	t.Setenv(EnvListen, "127.0.0.1:7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Listen)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "listen: [unterminated"},
		{"unknown default variant", "default_variant: pride"},
		{"zero workers", "workers: 0"},
		{"negative upload size", "max_upload_mb: -1"},
		{"bad override format", "variants:\n  - name: weekly\n    date_format: roman\n"},
		{"override of unknown variant", "variants:\n  - name: pride\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvListen, "")
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_WeekdayOverride(t *testing.T) {
	path := writeConfig(t, `
variants:
  - name: weekly
    weekday: true
  - name: festival
    weekday: true
`)
	t.Setenv(EnvListen, "")

	cfg, err := Load(path)
	require.NoError(t, err)

	v, err := cfg.Variant("weekly")
	require.NoError(t, err)
	assert.True(t, v.Layouts[0].Weekday)

	// festival entries carry no date, so the flag does not apply.
	v, err = cfg.Variant("festival")
	require.NoError(t, err)
	assert.False(t, v.Layouts[0].Weekday)

	v, err = DefaultConfig().Variant("weekly")
	require.NoError(t, err)
	assert.False(t, v.Layouts[0].Weekday, "presets keep the plain heading")
}

func TestVariant_UnknownName(t *testing.T) {
	_, err := DefaultConfig().Variant("pride")
	assert.ErrorIs(t, err, variant.ErrUnknownVariant)
}
