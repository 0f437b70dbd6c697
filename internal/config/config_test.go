package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := NewFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, 20, cfg.Session.DefaultMaxRounds)
	assert.Equal(t, 20*time.Second, cfg.Session.NarrationTimeout)
	assert.Empty(t, cfg.Database.DSN)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  listen_addr: ":9090"
database:
  dsn: "host=localhost user=game dbname=game"
narration:
  endpoint: "http://narrator:8000/narrate"
  request_timeout: 5s
session:
  default_max_rounds: 30
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.ListenAddr)
	assert.Equal(t, "http://narrator:8000/narrate", cfg.Narration.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Narration.RequestTimeout)
	assert.Equal(t, 30, cfg.Session.DefaultMaxRounds)
	assert.Equal(t, 1, cfg.Session.RetreatIncrement)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen addr", func(c *Config) { c.Server.ListenAddr = "" }},
		{"zero max rounds", func(c *Config) { c.Session.DefaultMaxRounds = 0 }},
		{"zero retreat increment", func(c *Config) { c.Session.RetreatIncrement = 0 }},
		{"zero narration timeout", func(c *Config) { c.Session.NarrationTimeout = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			cfg, err := NewFromViper(v)
			require.NoError(t, err)

			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("AEONISK_DB_DSN", "host=db user=game")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "host=db user=game", cfg.Database.DSN)
}
