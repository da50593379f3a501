package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.Board.PerPage)
	assert.Equal(t, 5*time.Second, cfg.Board.ToastDuration)
	assert.False(t, cfg.Web.AuthEnabled())
}

func TestLoadFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFile(t, t.TempDir(), "config.yaml", `
api:
  base_url: https://jobs.example.com/api
  timeout: 3s
board:
  toast_duration: 2s
web:
  port: 9090
import:
  workers: 2
  greenhouse_boards: [acme]
tagging:
  levels:
    - level: Senior Level
      keywords: [senior]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://jobs.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Board.ToastDuration)
	assert.Equal(t, 5, cfg.Board.PerPage, "unset values keep defaults")
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, []string{"acme"}, cfg.Import.GreenhouseBoards)
	require.Len(t, cfg.Tagging.Levels, 1)
	assert.Equal(t, models.ExperienceSenior, cfg.Tagging.Levels[0].Level)
	assert.NotEmpty(t, cfg.Tagging.Categories)
}

func TestEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvAPIURL, "http://api.internal:5000/api")
	t.Setenv(EnvWebUsername, "admin")
	t.Setenv(EnvWebPassword, "secret")
	t.Setenv(EnvWebPort, "8181")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://api.internal:5000/api", cfg.API.BaseURL)
	assert.Equal(t, 8181, cfg.Web.Port)
	assert.True(t, cfg.Web.AuthEnabled())
}

func TestDotEnvIsLoaded(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".env", "WEB_USERNAME=dotenv-user\nWEB_PASSWORD=dotenv-pass\n")
	t.Setenv(EnvWebUsername, "")
	t.Setenv(EnvWebPassword, "")
	os.Unsetenv(EnvWebUsername)
	os.Unsetenv(EnvWebPassword)

	cfg, err := Load(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "dotenv-user", cfg.Web.Username)
	assert.Equal(t, "dotenv-pass", cfg.Web.Password)
}

func TestInvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("bad port env", func(t *testing.T) {
		t.Setenv(EnvWebPort, "eighty")
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "invalid WEB_PORT")
	})

	t.Run("bad base url", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", "api:\n  base_url: localhost:5000\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "api.base_url")
	})

	t.Run("unknown level", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", "tagging:\n  levels:\n    - level: Wizard\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "Wizard")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", "api: [\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "failed to parse config")
	})
}
