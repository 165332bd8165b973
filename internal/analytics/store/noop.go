package store

import (
	"context"

	"github.com/serroba/emoji-hub-go/internal/analytics"
	"go.uber.org/zap"
)

// Noop is an analytics.Store that only logs activities. It keeps the
// consumer pipeline runnable without a database.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveActivity(_ context.Context, activity *analytics.Activity) error {
	n.logger.Info("activity recorded",
		zap.String("emojiId", activity.EmojiID),
		zap.String("kind", string(activity.Kind)),
		zap.Time("at", activity.At),
	)

	return nil
}
