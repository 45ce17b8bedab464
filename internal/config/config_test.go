package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  mode: production
database:
  host: db.internal
  port: 3306
  user: chat
  dbname: messenger
jwt:
  secret: from-file
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, "Authorization", cfg.JWT.Header)
	assert.Equal(t, "Bearer ", cfg.JWT.Prefix)
	assert.Equal(t, StoreMySQL, cfg.Database.MessageStore)
	assert.False(t, cfg.UseMongo())
	assert.Contains(t, cfg.Database.GetDSN(), "chat:@tcp(db.internal:3306)/messenger")
	assert.Equal(t, 20, cfg.Limits.AuthPerMinute)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: from-file\n")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("MESSAGE_STORE", "mongo")
	t.Setenv("AUTH_RATE_LIMIT", "5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.True(t, cfg.UseMongo())
	assert.Equal(t, 5, cfg.Limits.AuthPerMinute)
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "only-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_RequiresSecret(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")
	t.Setenv("JWT_SECRET", "")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", mask(""))
	assert.Equal(t, "****", mask("abc"))
	assert.Equal(t, "se****et", mask("secret-secret"))
}
