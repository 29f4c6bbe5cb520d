package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"robosnap_server/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedia(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.register(t, "alice")
	env.register(t, "bob")

	t.Run("happy path - upload then list", func(t *testing.T) {
		progress := bytes.NewReader(make([]byte, 64))

		first, err := env.Media.Upload(ctx, "alice", strings.NewReader("first"), 5, progress)
		require.NoError(t, err)
		assert.Equal(t, "alice", first.Owner)
		assert.Equal(t, int64(5), first.Size)
		assert.True(t, strings.HasSuffix(first.ID, ".jpg"))
		assert.Equal(t, 64-5, progress.Len())

		second, err := env.Media.Upload(ctx, "alice", strings.NewReader("second"), 6, nil)
		require.NoError(t, err)

		_, err = env.Media.Upload(ctx, "bob", strings.NewReader("bobs"), 4, nil)
		require.NoError(t, err)

		photos, err := env.Media.List(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, photos, 2)
		assert.Equal(t, first.ID, photos[0].ID)
		assert.Equal(t, second.ID, photos[1].ID)
		assert.Equal(t, "memory://alice/"+first.ID, photos[0].URL)

		data, ok := env.objects.Get("alice/" + second.ID)
		assert.True(t, ok)
		assert.Equal(t, []byte("second"), data)
	})

	t.Run("sad path - empty photo", func(t *testing.T) {
		_, err := env.Media.Upload(ctx, "alice", strings.NewReader(""), 0, nil)
		assert.True(t, errors.Is(err, errors.CodeInvalidArgument))
	})

	t.Run("empty library", func(t *testing.T) {
		photos, err := env.Media.List(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, photos)
	})
}
