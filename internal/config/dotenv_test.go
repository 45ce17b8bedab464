package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv_Priority(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOTENV_A=base\nDOTENV_B=base\nDOTENV_C=base\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("DOTENV_B=local\nDOTENV_C=local\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.staging"), []byte("DOTENV_C=staging\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) }) //nolint:errcheck

	for _, k := range []string{"DOTENV_A", "DOTENV_B", "DOTENV_C"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	loaded := LoadDotEnv("staging")
	assert.Equal(t, []string{".env.staging", ".env.local", ".env"}, loaded)
	assert.Equal(t, "base", os.Getenv("DOTENV_A"))
	assert.Equal(t, "local", os.Getenv("DOTENV_B"))
	assert.Equal(t, "staging", os.Getenv("DOTENV_C"))
}
