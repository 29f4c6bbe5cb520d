package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyrings(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "robosnap")

	file, err := OpenKeyring(dir, "device secret", keyring.FileBackend)
	require.NoError(t, err)

	for name, ring := range map[string]Keyring{
		"file":   file,
		"memory": NewMemoryKeyring(),
	} {
		t.Run(name, func(t *testing.T) {
			_, ok, err := ring.Get(SlotUsername)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, ring.Set(SlotUsername, "alice"))
			require.NoError(t, ring.Set(SlotPassword, "pw1"))

			value, ok, err := ring.Get(SlotUsername)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "alice", value)

			require.NoError(t, ring.Delete(SlotPassword))
			require.NoError(t, ring.Delete(SlotPassword))
			_, ok, err = ring.Get(SlotPassword)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}

	t.Run("file is encrypted and survives reopening", func(t *testing.T) {
		require.NoError(t, file.Set(SlotPassword, "pw1"))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		for _, entry := range entries {
			b, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			require.NoError(t, err)
			assert.NotContains(t, string(b), "pw1")
			assert.NotContains(t, string(b), "alice")
		}

		reopened, err := OpenKeyring(dir, "device secret", keyring.FileBackend)
		require.NoError(t, err)
		value, ok, err := reopened.Get(SlotUsername)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "alice", value)
	})

	t.Run("sad path - wrong passphrase", func(t *testing.T) {
		other, err := OpenKeyring(dir, "guess", keyring.FileBackend)
		require.NoError(t, err)
		_, _, err = other.Get(SlotUsername)
		assert.Error(t, err)
	})
}
