package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/juros-engine/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "juros.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfiguration_Defaults(t *testing.T) {
	conf, err := config.LoadConfiguration("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", conf.Server.Address)
	assert.Equal(t, []string{"*"}, conf.Server.CORSOrigins)
	assert.Equal(t, 15*time.Second, conf.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, conf.Server.ShutdownTimeout)
	assert.Empty(t, conf.Database.Path)
	assert.Equal(t, "info", conf.Logging.Level)
	assert.Equal(t, "json", conf.Logging.Format)
}

func TestLoadConfiguration_File(t *testing.T) {
	path := writeConfig(t, `
server:
  address: "127.0.0.1:9090"
  cors_origins: ["https://juros.example.pt"]
  read_timeout: 5s
database:
  path: /var/lib/juros/tables.db
logging:
  level: debug
  format: console
`)

	conf, err := config.LoadConfiguration(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", conf.Server.Address)
	assert.Equal(t, []string{"https://juros.example.pt"}, conf.Server.CORSOrigins)
	assert.Equal(t, 5*time.Second, conf.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, conf.Server.WriteTimeout, "unset keys keep defaults")
	assert.Equal(t, "/var/lib/juros/tables.db", conf.Database.Path)
	assert.Equal(t, "debug", conf.Logging.Level)
	assert.Equal(t, "console", conf.Logging.Format)
}

func TestLoadConfiguration_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: debug\n")
	t.Setenv("JUROS_LOGGING_LEVEL", "warn")
	t.Setenv("JUROS_DATABASE_PATH", "/tmp/juros.db")

	conf, err := config.LoadConfiguration(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", conf.Logging.Level)
	assert.Equal(t, "/tmp/juros.db", conf.Database.Path)
}

func TestLoadConfiguration_Errors(t *testing.T) {
	_, err := config.LoadConfiguration(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	path := writeConfig(t, "logging:\n  format: xml\n")
	_, err = config.LoadConfiguration(path)
	assert.ErrorContains(t, err, "invalid log format")
}
