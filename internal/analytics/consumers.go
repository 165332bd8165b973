package analytics

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/emoji-hub-go/internal/events"
	"github.com/serroba/emoji-hub-go/internal/messaging"
	"go.uber.org/zap"
)

// RegisterConsumers wires one consumer per emoji event topic into the
// group, each mapping its event onto an Activity row.
func RegisterConsumers(
	group *messaging.ConsumerGroup,
	subscriber message.Subscriber,
	store Store,
	logger *zap.Logger,
) {
	group.Add(messaging.NewConsumer(subscriber, events.TopicEmojiCreated,
		func(ctx context.Context, e *events.EmojiCreatedEvent) error {
			return store.SaveActivity(ctx, &Activity{
				EmojiID:  e.ID,
				Kind:     KindCreated,
				At:       e.CreatedAt,
				ClientIP: e.ClientIP,
			})
		}, logger))

	group.Add(messaging.NewConsumer(subscriber, events.TopicEmojiLiked,
		func(ctx context.Context, e *events.EmojiLikedEvent) error {
			return store.SaveActivity(ctx, &Activity{
				EmojiID:  e.ID,
				Kind:     KindLiked,
				At:       e.LikedAt,
				ClientIP: e.ClientIP,
			})
		}, logger))

	group.Add(messaging.NewConsumer(subscriber, events.TopicEmojiDownloaded,
		func(ctx context.Context, e *events.EmojiDownloadedEvent) error {
			return store.SaveActivity(ctx, &Activity{
				EmojiID:  e.ID,
				Kind:     KindDownloaded,
				At:       e.DownloadedAt,
				ClientIP: e.ClientIP,
			})
		}, logger))

	group.Add(messaging.NewConsumer(subscriber, events.TopicEmojiDeleted,
		func(ctx context.Context, e *events.EmojiDeletedEvent) error {
			return store.SaveActivity(ctx, &Activity{
				EmojiID: e.ID,
				Kind:    KindDeleted,
				At:      e.DeletedAt,
			})
		}, logger))
}
