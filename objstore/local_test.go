package objstore_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploadkit/objstore"
)

func TestLocalStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("store and serve", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		store, err := objstore.NewLocal(fs, "/objects", "https://cdn.example.com/files")
		require.NoError(t, err)

		url, err := store.Store(ctx, []byte("payload"), "avatars/u1.png")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/files/avatars/u1.png", url)

		data, err := afero.ReadFile(fs, "/objects/avatars/u1.png")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), data)

		assert.True(t, store.Exists(ctx, "avatars/u1.png"))
	})

	t.Run("store file from another filesystem", func(t *testing.T) {
		t.Parallel()
		src := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(src, "/uploads/doc.pdf", []byte("pdfdata"), 0o644))

		fs := afero.NewMemMapFs()
		store, err := objstore.NewLocal(fs, "/objects", "/files/")
		require.NoError(t, err)

		url, err := store.StoreFile(ctx, src, "/uploads/doc.pdf", "docs/doc.pdf")
		require.NoError(t, err)
		assert.Equal(t, "/files/docs/doc.pdf", url)

		data, err := afero.ReadFile(fs, "/objects/docs/doc.pdf")
		require.NoError(t, err)
		assert.Equal(t, []byte("pdfdata"), data)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		store, err := objstore.NewLocal(fs, "/objects", "/files/")
		require.NoError(t, err)

		_, err = store.Store(ctx, []byte("x"), "a.txt")
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, "a.txt"))
		assert.False(t, store.Exists(ctx, "a.txt"))

		err = store.Delete(ctx, "a.txt")
		assert.ErrorIs(t, err, objstore.ErrNotFound)
	})

	t.Run("traversal key rejected", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		store, err := objstore.NewLocal(fs, "/objects", "/files/")
		require.NoError(t, err)

		_, err = store.Store(ctx, []byte("x"), "../outside.txt")
		assert.ErrorIs(t, err, objstore.ErrInvalidKey)
	})

	t.Run("empty base dir rejected", func(t *testing.T) {
		t.Parallel()
		_, err := objstore.NewLocal(afero.NewMemMapFs(), "", "/files/")
		assert.ErrorIs(t, err, objstore.ErrInvalidConfig)
	})
}
