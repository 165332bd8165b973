package handlers_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/emoji-hub-go/internal/emoji"
	"github.com/serroba/emoji-hub-go/internal/events"
	"github.com/serroba/emoji-hub-go/internal/handlers"
	"github.com/serroba/emoji-hub-go/internal/hub"
	"github.com/serroba/emoji-hub-go/internal/messaging"
	"github.com/serroba/emoji-hub-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func noopPublish[T any]() messaging.Publish[T] {
	return func(*T) error { return nil }
}

type handlerEnv struct {
	handler    *handlers.EmojiHandler
	store      *store.MemoryStore
	hub        *hub.Hub
	storageDir string
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	dir := t.TempDir()
	snap := store.NewFileSnapshot(filepath.Join(dir, "metadata.json"), zap.NewNop())

	memStore, err := store.NewMemoryStore(snap, zap.NewNop())
	require.NoError(t, err)

	statsHub := hub.New(zap.NewNop())
	t.Cleanup(statsHub.Close)

	storageDir := filepath.Join(dir, "files")
	require.NoError(t, os.MkdirAll(storageDir, 0o755))

	return &handlerEnv{
		handler: handlers.NewEmojiHandler(
			memStore,
			statsHub,
			storageDir,
			noopPublish[events.EmojiCreatedEvent](),
			noopPublish[events.EmojiLikedEvent](),
			noopPublish[events.EmojiDownloadedEvent](),
			noopPublish[events.EmojiDeletedEvent](),
			zap.NewNop(),
		),
		store:      memStore,
		hub:        statsHub,
		storageDir: storageDir,
	}
}

func createRequest(name string) *handlers.CreateEmojiRequest {
	req := &handlers.CreateEmojiRequest{}
	req.Body.Name = name
	req.Body.FileName = name + ".png"
	req.Body.FilePath = "2026/08/01/" + name + ".png"
	req.Body.FileSize = 2048
	req.Body.MimeType = "image/png"
	req.Body.Width = 64
	req.Body.Height = 64
	req.Body.Tags = []string{"test"}

	return req
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()

	var statusErr huma.StatusError

	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, status, statusErr.GetStatus())
}

func TestEmojiHandler_CreateEmoji(t *testing.T) {
	t.Run("creates a record and returns it", func(t *testing.T) {
		env := newHandlerEnv(t)

		resp, err := env.handler.CreateEmoji(context.Background(), createRequest("party"))

		require.NoError(t, err)
		assert.Equal(t, "000001", resp.Body.ID)
		assert.Equal(t, "party", resp.Body.Name)
		assert.Zero(t, resp.Body.Likes)
		assert.Zero(t, resp.Body.Downloads)
		assert.False(t, resp.Body.UploadedAt.IsZero())
	})

	t.Run("rejects invalid metadata with 422", func(t *testing.T) {
		env := newHandlerEnv(t)

		req := createRequest("bad")
		req.Body.FileSize = 0

		_, err := env.handler.CreateEmoji(context.Background(), req)

		requireStatus(t, err, 422)
	})

	t.Run("pushes fresh stats to the hub", func(t *testing.T) {
		env := newHandlerEnv(t)
		sub := env.hub.Subscribe()

		_, err := env.handler.CreateEmoji(context.Background(), createRequest("party"))
		require.NoError(t, err)

		got := <-sub.C()
		assert.Equal(t, 1, got.TotalEmojis)
	})
}

func TestEmojiHandler_GetEmoji(t *testing.T) {
	t.Run("returns an existing record", func(t *testing.T) {
		env := newHandlerEnv(t)

		created, err := env.handler.CreateEmoji(context.Background(), createRequest("party"))
		require.NoError(t, err)

		resp, err := env.handler.GetEmoji(context.Background(), &handlers.GetEmojiRequest{ID: created.Body.ID})

		require.NoError(t, err)
		assert.Equal(t, created.Body.ID, resp.Body.ID)
	})

	t.Run("404 for unknown id", func(t *testing.T) {
		env := newHandlerEnv(t)

		_, err := env.handler.GetEmoji(context.Background(), &handlers.GetEmojiRequest{ID: "999999"})

		requireStatus(t, err, 404)
	})
}

func TestEmojiHandler_ListEmojis(t *testing.T) {
	t.Run("defaults page and limit", func(t *testing.T) {
		env := newHandlerEnv(t)

		resp, err := env.handler.ListEmojis(context.Background(), &handlers.ListEmojisRequest{})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Body.Page)
		assert.Equal(t, 24, resp.Body.Limit)
		assert.Empty(t, resp.Body.Emojis)
		assert.False(t, resp.Body.HasMore)
	})

	t.Run("signals more pages when a page fills", func(t *testing.T) {
		env := newHandlerEnv(t)

		for _, name := range []string{"one", "two", "three"} {
			_, err := env.handler.CreateEmoji(context.Background(), createRequest(name))
			require.NoError(t, err)
		}

		resp, err := env.handler.ListEmojis(context.Background(), &handlers.ListEmojisRequest{Page: 1, Limit: 2})

		require.NoError(t, err)
		assert.Len(t, resp.Body.Emojis, 2)
		assert.True(t, resp.Body.HasMore)

		resp, err = env.handler.ListEmojis(context.Background(), &handlers.ListEmojisRequest{Page: 2, Limit: 2})

		require.NoError(t, err)
		assert.Len(t, resp.Body.Emojis, 1)
		assert.False(t, resp.Body.HasMore)
	})

	t.Run("filters by search", func(t *testing.T) {
		env := newHandlerEnv(t)

		for _, name := range []string{"party blob", "sad cat"} {
			_, err := env.handler.CreateEmoji(context.Background(), createRequest(name))
			require.NoError(t, err)
		}

		resp, err := env.handler.ListEmojis(context.Background(), &handlers.ListEmojisRequest{Search: "CAT"})

		require.NoError(t, err)
		require.Len(t, resp.Body.Emojis, 1)
		assert.Equal(t, "sad cat", resp.Body.Emojis[0].Name)
	})
}

func TestEmojiHandler_LikeEmoji(t *testing.T) {
	t.Run("increments and returns the counter", func(t *testing.T) {
		env := newHandlerEnv(t)

		created, err := env.handler.CreateEmoji(context.Background(), createRequest("party"))
		require.NoError(t, err)

		resp, err := env.handler.LikeEmoji(context.Background(), &handlers.LikeEmojiRequest{ID: created.Body.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Body.Likes)

		resp, err = env.handler.LikeEmoji(context.Background(), &handlers.LikeEmojiRequest{ID: created.Body.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Body.Likes)
	})

	t.Run("404 for unknown id", func(t *testing.T) {
		env := newHandlerEnv(t)

		_, err := env.handler.LikeEmoji(context.Background(), &handlers.LikeEmojiRequest{ID: "999999"})

		requireStatus(t, err, 404)
	})
}

func TestEmojiHandler_DownloadEmoji(t *testing.T) {
	writeFile := func(t *testing.T, env *handlerEnv, relPath string) {
		t.Helper()

		full := filepath.Join(env.storageDir, relPath)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("png"), 0o644))
	}

	t.Run("returns the file reference and counts the download", func(t *testing.T) {
		env := newHandlerEnv(t)

		created, err := env.handler.CreateEmoji(context.Background(), createRequest("party"))
		require.NoError(t, err)

		writeFile(t, env, created.Body.FilePath)

		resp, err := env.handler.DownloadEmoji(context.Background(), &handlers.DownloadEmojiRequest{ID: created.Body.ID})

		require.NoError(t, err)
		assert.Equal(t, created.Body.FileName, resp.Body.FileName)
		assert.Equal(t, created.Body.FilePath, resp.Body.FilePath)
		assert.Equal(t, "image/png", resp.Body.MimeType)
		assert.Equal(t, int64(1), resp.Body.Downloads)
	})

	t.Run("404 when the stored file is missing", func(t *testing.T) {
		env := newHandlerEnv(t)

		created, err := env.handler.CreateEmoji(context.Background(), createRequest("party"))
		require.NoError(t, err)

		_, err = env.handler.DownloadEmoji(context.Background(), &handlers.DownloadEmojiRequest{ID: created.Body.ID})

		requireStatus(t, err, 404)

		got, err := env.store.Get(context.Background(), created.Body.ID)
		require.NoError(t, err)
		assert.Zero(t, got.Downloads, "missing file must not count as a download")
	})

	t.Run("404 for unknown id", func(t *testing.T) {
		env := newHandlerEnv(t)

		_, err := env.handler.DownloadEmoji(context.Background(), &handlers.DownloadEmojiRequest{ID: "999999"})

		requireStatus(t, err, 404)
	})
}

func TestEmojiHandler_DeleteEmoji(t *testing.T) {
	t.Run("removes the record and reports the orphaned file", func(t *testing.T) {
		env := newHandlerEnv(t)

		created, err := env.handler.CreateEmoji(context.Background(), createRequest("party"))
		require.NoError(t, err)

		resp, err := env.handler.DeleteEmoji(context.Background(), &handlers.DeleteEmojiRequest{ID: created.Body.ID})

		require.NoError(t, err)
		assert.Equal(t, created.Body.FilePath, resp.Body.FilePath)

		_, err = env.store.Get(context.Background(), created.Body.ID)
		assert.ErrorIs(t, err, emoji.ErrNotFound)
	})

	t.Run("404 for unknown id", func(t *testing.T) {
		env := newHandlerEnv(t)

		_, err := env.handler.DeleteEmoji(context.Background(), &handlers.DeleteEmojiRequest{ID: "999999"})

		requireStatus(t, err, 404)
	})
}

func TestEmojiHandler_GetStats(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		env := newHandlerEnv(t)

		resp, err := env.handler.GetStats(context.Background(), nil)

		require.NoError(t, err)
		assert.Zero(t, resp.Body.TotalEmojis)
		assert.Nil(t, resp.Body.LastUploadTime)
	})

	t.Run("aggregates live counters", func(t *testing.T) {
		env := newHandlerEnv(t)

		created, err := env.handler.CreateEmoji(context.Background(), createRequest("party"))
		require.NoError(t, err)

		_, err = env.handler.LikeEmoji(context.Background(), &handlers.LikeEmojiRequest{ID: created.Body.ID})
		require.NoError(t, err)

		resp, err := env.handler.GetStats(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Body.TotalEmojis)
		assert.Equal(t, int64(1), resp.Body.TotalLikes)
		require.NotNil(t, resp.Body.LastUploadTime)
		assert.Equal(t, "now", *resp.Body.LastUploadTime)
	})
}
