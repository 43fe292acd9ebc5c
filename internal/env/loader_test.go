package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFilesFromDir(t *testing.T) {
	t.Run("no files", func(t *testing.T) {
		loaded, err := LoadEnvFilesFromDir(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})

	t.Run("precedence", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.syncguard"),
			[]byte("SYNCGUARD_TEST_A=from_syncguard\n"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
			[]byte("SYNCGUARD_TEST_A=from_env\nSYNCGUARD_TEST_B=\"quoted value\" # note\n"), 0o600))

		t.Setenv("SYNCGUARD_TEST_A", "")
		t.Setenv("SYNCGUARD_TEST_B", "")
		require.NoError(t, os.Unsetenv("SYNCGUARD_TEST_A"))
		require.NoError(t, os.Unsetenv("SYNCGUARD_TEST_B"))

		loaded, err := LoadEnvFilesFromDir(dir)
		require.NoError(t, err)
		assert.Len(t, loaded, 2)
		assert.Equal(t, "from_syncguard", os.Getenv("SYNCGUARD_TEST_A"))
		assert.Equal(t, "quoted value", os.Getenv("SYNCGUARD_TEST_B"))
	})

	t.Run("process environment wins", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
			[]byte("SYNCGUARD_TEST_C=from_file\n"), 0o600))
		t.Setenv("SYNCGUARD_TEST_C", "from_process")

		_, err := LoadEnvFilesFromDir(dir)
		require.NoError(t, err)
		assert.Equal(t, "from_process", os.Getenv("SYNCGUARD_TEST_C"))
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "SYNCGUARD_CONFIG", Key("CONFIG"))
}
