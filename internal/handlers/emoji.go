package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/emoji-hub-go/internal/emoji"
	"github.com/serroba/emoji-hub-go/internal/events"
	"github.com/serroba/emoji-hub-go/internal/hub"
	"github.com/serroba/emoji-hub-go/internal/messaging"
	"github.com/serroba/emoji-hub-go/internal/stats"
	"go.uber.org/zap"
)

// EmojiHandler exposes the record store through the HTTP boundary. After
// every successful mutation it recomputes stats, pushes them to the hub
// and emits an activity event; none of those steps can fail the request.
type EmojiHandler struct {
	store      emoji.Repository
	hub        *hub.Hub
	storageDir string

	publishCreated    messaging.Publish[events.EmojiCreatedEvent]
	publishLiked      messaging.Publish[events.EmojiLikedEvent]
	publishDownloaded messaging.Publish[events.EmojiDownloadedEvent]
	publishDeleted    messaging.Publish[events.EmojiDeletedEvent]

	logger *zap.Logger
	now    func() time.Time
}

// NewEmojiHandler creates the gallery handler.
func NewEmojiHandler(
	store emoji.Repository,
	statsHub *hub.Hub,
	storageDir string,
	publishCreated messaging.Publish[events.EmojiCreatedEvent],
	publishLiked messaging.Publish[events.EmojiLikedEvent],
	publishDownloaded messaging.Publish[events.EmojiDownloadedEvent],
	publishDeleted messaging.Publish[events.EmojiDeletedEvent],
	logger *zap.Logger,
) *EmojiHandler {
	return &EmojiHandler{
		store:             store,
		hub:               statsHub,
		storageDir:        storageDir,
		publishCreated:    publishCreated,
		publishLiked:      publishLiked,
		publishDownloaded: publishDownloaded,
		publishDeleted:    publishDeleted,
		logger:            logger,
		now:               time.Now,
	}
}

// PublishStats pushes the current aggregates to the hub. Called once at
// startup so early subscribers get a baseline, and after every mutation.
func (h *EmojiHandler) PublishStats(ctx context.Context) {
	all, err := h.store.All(ctx)
	if err != nil {
		h.logger.Error("failed to read records for stats", zap.Error(err))

		return
	}

	h.hub.Publish(stats.Compute(all, h.now()))
}

func (h *EmojiHandler) GetStats(ctx context.Context, _ *struct{}) (*StatsResponse, error) {
	all, err := h.store.All(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get statistics")
	}

	return &StatsResponse{Body: stats.Compute(all, h.now())}, nil
}

func (h *EmojiHandler) ListEmojis(ctx context.Context, req *ListEmojisRequest) (*ListEmojisResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}

	limit := req.Limit
	if limit < 1 {
		limit = 24
	}

	emojis, err := h.store.Query(ctx, emoji.Filter{
		Search:   req.Search,
		Category: req.Category,
		Sort:     emoji.Sort(req.Sort),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get emojis")
	}

	resp := &ListEmojisResponse{}
	resp.Body.Emojis = emojis
	resp.Body.Page = page
	resp.Body.Limit = limit
	// Approximation by design: a full page implies more may exist.
	resp.Body.HasMore = len(emojis) == limit

	return resp, nil
}

func (h *EmojiHandler) GetEmoji(ctx context.Context, req *GetEmojiRequest) (*EmojiResponse, error) {
	e, err := h.store.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, emoji.ErrNotFound) {
			return nil, huma.Error404NotFound("emoji not found")
		}

		return nil, huma.Error500InternalServerError("failed to get emoji")
	}

	return &EmojiResponse{Body: *e}, nil
}

func (h *EmojiHandler) CreateEmoji(ctx context.Context, req *CreateEmojiRequest) (*EmojiResponse, error) {
	e, err := h.store.Create(ctx, emoji.InsertEmoji{
		Name:     req.Body.Name,
		FileName: req.Body.FileName,
		FilePath: req.Body.FilePath,
		FileSize: req.Body.FileSize,
		MimeType: req.Body.MimeType,
		Width:    req.Body.Width,
		Height:   req.Body.Height,
		Category: req.Body.Category,
		Tags:     req.Body.Tags,
	})
	if err != nil {
		var verr *emoji.ValidationError
		if errors.As(err, &verr) {
			return nil, huma.Error422UnprocessableEntity(verr.Error())
		}

		return nil, huma.Error500InternalServerError("failed to upload emoji")
	}

	h.PublishStats(ctx)

	meta := RequestMetaFromContext(ctx)
	event := &events.EmojiCreatedEvent{
		ID:        e.ID,
		Name:      e.Name,
		Category:  e.Category,
		Tags:      e.Tags,
		FileSize:  e.FileSize,
		MimeType:  e.MimeType,
		CreatedAt: e.UploadedAt,
		ClientIP:  meta.ClientIP,
	}

	if err := h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish created event",
			zap.String("id", e.ID),
			zap.Error(err),
		)
	}

	return &EmojiResponse{Body: *e}, nil
}

func (h *EmojiHandler) LikeEmoji(ctx context.Context, req *LikeEmojiRequest) (*LikeEmojiResponse, error) {
	e, err := h.store.IncrementLikes(ctx, req.ID)
	if err != nil {
		if errors.Is(err, emoji.ErrNotFound) {
			return nil, huma.Error404NotFound("emoji not found")
		}

		return nil, huma.Error500InternalServerError("failed to like emoji")
	}

	h.PublishStats(ctx)

	meta := RequestMetaFromContext(ctx)
	event := &events.EmojiLikedEvent{
		ID:       e.ID,
		Likes:    e.Likes,
		LikedAt:  h.now(),
		ClientIP: meta.ClientIP,
	}

	if err := h.publishLiked(event); err != nil {
		h.logger.Error("failed to publish liked event",
			zap.String("id", e.ID),
			zap.Error(err),
		)
	}

	resp := &LikeEmojiResponse{}
	resp.Body.Likes = e.Likes

	return resp, nil
}

func (h *EmojiHandler) DownloadEmoji(ctx context.Context, req *DownloadEmojiRequest) (*DownloadEmojiResponse, error) {
	e, err := h.store.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, emoji.ErrNotFound) {
			return nil, huma.Error404NotFound("emoji not found")
		}

		return nil, huma.Error500InternalServerError("failed to download emoji")
	}

	if _, err := os.Stat(filepath.Join(h.storageDir, e.FilePath)); err != nil {
		return nil, huma.Error404NotFound("file not found")
	}

	e, err = h.store.IncrementDownloads(ctx, req.ID)
	if err != nil {
		if errors.Is(err, emoji.ErrNotFound) {
			return nil, huma.Error404NotFound("emoji not found")
		}

		return nil, huma.Error500InternalServerError("failed to download emoji")
	}

	h.PublishStats(ctx)

	meta := RequestMetaFromContext(ctx)
	event := &events.EmojiDownloadedEvent{
		ID:           e.ID,
		Downloads:    e.Downloads,
		DownloadedAt: h.now(),
		ClientIP:     meta.ClientIP,
	}

	if err := h.publishDownloaded(event); err != nil {
		h.logger.Error("failed to publish downloaded event",
			zap.String("id", e.ID),
			zap.Error(err),
		)
	}

	resp := &DownloadEmojiResponse{}
	resp.Body.FileName = e.FileName
	resp.Body.FilePath = e.FilePath
	resp.Body.MimeType = e.MimeType
	resp.Body.Downloads = e.Downloads

	return resp, nil
}

func (h *EmojiHandler) DeleteEmoji(ctx context.Context, req *DeleteEmojiRequest) (*DeleteEmojiResponse, error) {
	e, err := h.store.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, emoji.ErrNotFound) {
			return nil, huma.Error404NotFound("emoji not found")
		}

		return nil, huma.Error500InternalServerError("failed to delete emoji")
	}

	deleted, err := h.store.Remove(ctx, req.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to delete emoji")
	}

	if !deleted {
		return nil, huma.Error404NotFound("emoji not found")
	}

	h.PublishStats(ctx)

	event := &events.EmojiDeletedEvent{
		ID:        e.ID,
		FilePath:  e.FilePath,
		DeletedAt: h.now(),
	}

	if err := h.publishDeleted(event); err != nil {
		h.logger.Error("failed to publish deleted event",
			zap.String("id", e.ID),
			zap.Error(err),
		)
	}

	resp := &DeleteEmojiResponse{}
	resp.Body.Message = "emoji deleted"
	resp.Body.FilePath = e.FilePath

	return resp, nil
}
