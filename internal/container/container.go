// Package container wires the application graph with samber/do. Each
// concern registers through its own Package function so the server and
// consumer binaries can compose only what they need.
package container

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/emoji-hub-go/internal/analytics"
	analyticsstore "github.com/serroba/emoji-hub-go/internal/analytics/store"
	"github.com/serroba/emoji-hub-go/internal/emoji"
	"github.com/serroba/emoji-hub-go/internal/events"
	"github.com/serroba/emoji-hub-go/internal/handlers"
	"github.com/serroba/emoji-hub-go/internal/health"
	"github.com/serroba/emoji-hub-go/internal/hub"
	"github.com/serroba/emoji-hub-go/internal/messaging"
	"github.com/serroba/emoji-hub-go/internal/middleware"
	"github.com/serroba/emoji-hub-go/internal/ratelimit"
	"github.com/serroba/emoji-hub-go/internal/store"
	"github.com/serroba/emoji-hub-go/internal/ws"
	"go.uber.org/zap"
)

// Options configures both binaries.
type Options struct {
	Port              int    `default:"8888"                  help:"Port to listen on"                                  short:"p"`
	SnapshotPath      string `default:"storage/metadata.json" help:"Path of the record snapshot file"`
	StorageDir        string `default:"storage"               help:"Root directory of stored emoji files"`
	RedisAddr         string `default:"localhost:6379"        help:"Redis server address"                               short:"r"`
	PostgresDSN       string `default:""                      help:"PostgreSQL DSN for the activity store (empty logs activities instead)"`
	RedisRateLimit    bool   `default:"false"                 help:"Back the rate limiter with Redis instead of memory"`
	LogFormat         string `default:"console"               enum:"console,json" help:"Log output format"`
	AnalyticsDisabled bool   `default:"false"                 help:"Skip publishing activity events"`
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the shared redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		opts := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{Addr: opts.RedisAddr}), nil
	})
}

// StorePackage provides the snapshotter and the record store.
func StorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (store.Snapshotter, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return store.NewFileSnapshot(opts.SnapshotPath, logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (emoji.Repository, error) {
		snap := do.MustInvoke[store.Snapshotter](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return store.NewMemoryStore(snap, logger)
	})
}

// RateLimitPackage provides the admission limiter. The window store is
// in-memory unless Redis is requested.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Store, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.RedisRateLimit {
			return store.NewRateLimitRedisStore(do.MustInvoke[*redis.Client](i)), nil
		}

		return store.NewRateLimitMemoryStore(), nil
	})

	do.Provide(injector, func(i *do.Injector) (*ratelimit.ActionLimiter, error) {
		return ratelimit.NewActionLimiter(
			do.MustInvoke[ratelimit.Store](i),
			ratelimit.DefaultPolicy(),
		), nil
	})
}

// HubPackage provides the stats broadcast hub.
func HubPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*hub.Hub, error) {
		return hub.New(do.MustInvoke[*zap.Logger](i)), nil
	})
}

// PublisherGroupPackage provides the activity event publishers over redis
// streams. With analytics disabled the publish functions become no-ops.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: do.MustInvoke[*redis.Client](i),
		}, watermill.NopLogger{})
		if err != nil {
			return nil, fmt.Errorf("create event publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	providePublish[events.EmojiCreatedEvent](injector, events.TopicEmojiCreated)
	providePublish[events.EmojiLikedEvent](injector, events.TopicEmojiLiked)
	providePublish[events.EmojiDownloadedEvent](injector, events.TopicEmojiDownloaded)
	providePublish[events.EmojiDeletedEvent](injector, events.TopicEmojiDeleted)
}

func providePublish[T any](injector *do.Injector, topic string) {
	do.Provide(injector, func(i *do.Injector) (messaging.Publish[T], error) {
		opts := do.MustInvoke[*Options](i)
		if opts.AnalyticsDisabled {
			return func(*T) error { return nil }, nil
		}

		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[T](group.Publisher(), topic), nil
	})
}

// ConsumerGroupPackage provides the activity consumers for the consumer
// binary: redis stream subscriptions feeding the analytics store.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.PostgresDSN == "" {
			return analyticsstore.NewNoop(logger), nil
		}

		pool, err := pgxpool.New(context.Background(), opts.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		return analyticsstore.NewPostgres(pool), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        do.MustInvoke[*redis.Client](i),
			ConsumerGroup: "emoji-analytics",
		}, watermill.NopLogger{})
		if err != nil {
			return nil, fmt.Errorf("create event subscriber: %w", err)
		}

		var sub message.Subscriber = subscriber

		group := messaging.NewConsumerGroup(sub, logger)
		analytics.RegisterConsumers(group, sub, do.MustInvoke[analytics.Store](i), logger)

		return group, nil
	})
}

// HTTPPackage provides the router and the fully-registered API.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (*handlers.EmojiHandler, error) {
		opts := do.MustInvoke[*Options](i)

		return handlers.NewEmojiHandler(
			do.MustInvoke[emoji.Repository](i),
			do.MustInvoke[*hub.Hub](i),
			opts.StorageDir,
			do.MustInvoke[messaging.Publish[events.EmojiCreatedEvent]](i),
			do.MustInvoke[messaging.Publish[events.EmojiLikedEvent]](i),
			do.MustInvoke[messaging.Publish[events.EmojiDownloadedEvent]](i),
			do.MustInvoke[messaging.Publish[events.EmojiDeletedEvent]](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		api := humachi.New(router, huma.DefaultConfig("Emoji Hub", "1.0.0"))
		api.UseMiddleware(
			middleware.RequestMeta(api),
			middleware.ActionRateLimiter(api, do.MustInvoke[*ratelimit.ActionLimiter](i), logger),
		)

		emojiHandler := do.MustInvoke[*handlers.EmojiHandler](i)
		handlers.RegisterRoutes(api, emojiHandler)

		healthHandler := health.NewHandler(
			health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
			health.NewSnapshotChecker(opts.StorageDir),
		)
		health.RegisterRoutes(api, healthHandler)

		statsHub := do.MustInvoke[*hub.Hub](i)
		router.Get("/ws", ws.NewHandler(statsHub, logger).ServeHTTP)

		// Baseline push so subscribers connected before the first mutation
		// still see current stats.
		emojiHandler.PublishStats(context.Background())

		return api, nil
	})
}
