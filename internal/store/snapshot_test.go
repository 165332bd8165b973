package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/serroba/emoji-hub-go/internal/emoji"
	"github.com/serroba/emoji-hub-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileSnapshot_Load(t *testing.T) {
	t.Run("missing file starts empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "metadata.json")
		snap := store.NewFileSnapshot(path, zap.NewNop())

		loaded, err := snap.Load()

		require.NoError(t, err)
		assert.Empty(t, loaded.Emojis)
		assert.Equal(t, int64(1), loaded.NextID)
	})

	t.Run("corrupt file starts empty without failing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "metadata.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		snap := store.NewFileSnapshot(path, zap.NewNop())

		loaded, err := snap.Load()

		require.NoError(t, err)
		assert.Empty(t, loaded.Emojis)
		assert.Equal(t, int64(1), loaded.NextID)
	})

	t.Run("ignores unknown fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "metadata.json")
		payload := `{
			"version": 1,
			"nextId": 7,
			"futureField": {"nested": true},
			"emojis": [{"id": "000001", "name": "foo", "likes": 3, "newCounter": 9}]
		}`
		require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

		snap := store.NewFileSnapshot(path, zap.NewNop())

		loaded, err := snap.Load()

		require.NoError(t, err)
		assert.Equal(t, int64(7), loaded.NextID)
		require.Len(t, loaded.Emojis, 1)
		assert.Equal(t, "foo", loaded.Emojis[0].Name)
		assert.Equal(t, int64(3), loaded.Emojis[0].Likes)
	})
}

func TestFileSnapshot_Save(t *testing.T) {
	t.Run("round-trips full state", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "metadata.json")
		snap := store.NewFileSnapshot(path, zap.NewNop())

		err := snap.Save(&store.Snapshot{
			NextID: 3,
			Emojis: []*emoji.Emoji{
				{
					ID:         "000001",
					Name:       "foo",
					FilePath:   "2026/01/01/foo.png",
					FileSize:   1000,
					MimeType:   "image/png",
					Width:      64,
					Height:     64,
					Tags:       []string{"fun"},
					Likes:      2,
					Downloads:  5,
					UploadedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
				},
			},
			SavedAt: time.Now(),
		})
		require.NoError(t, err)

		loaded, err := snap.Load()

		require.NoError(t, err)
		assert.Equal(t, int64(3), loaded.NextID)
		require.Len(t, loaded.Emojis, 1)
		assert.Equal(t, "000001", loaded.Emojis[0].ID)
		assert.Equal(t, int64(2), loaded.Emojis[0].Likes)
		assert.Equal(t, int64(5), loaded.Emojis[0].Downloads)
	})

	t.Run("creates missing directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "deeper", "metadata.json")
		snap := store.NewFileSnapshot(path, zap.NewNop())

		err := snap.Save(&store.Snapshot{NextID: 1})

		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	t.Run("overwrites the previous snapshot", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "metadata.json")
		snap := store.NewFileSnapshot(path, zap.NewNop())

		require.NoError(t, snap.Save(&store.Snapshot{NextID: 2}))
		require.NoError(t, snap.Save(&store.Snapshot{NextID: 9}))

		loaded, err := snap.Load()

		require.NoError(t, err)
		assert.Equal(t, int64(9), loaded.NextID)
	})
}
