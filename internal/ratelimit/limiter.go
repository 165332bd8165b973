package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Action classifies a request for admission control. Each action carries
// its own sliding window per client key.
type Action string

const (
	ActionUpload   Action = "upload"
	ActionLike     Action = "like"
	ActionDownload Action = "download"
	ActionQuery    Action = "query"
)

// MetadataKey is the huma operation metadata key holding an endpoint's
// rate-limit configuration.
const MetadataKey = "rateLimit"

// EndpointConfig tags a huma operation with its rate-limit behavior.
type EndpointConfig struct {
	// Action selects which policy limit applies. Empty means ActionQuery.
	Action Action

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// LimitConfig is one admission limit: at most Max requests per Window.
type LimitConfig struct {
	Max    int64
	Window time.Duration
}

// Policy maps actions to their limits. Actions without an entry are
// always admitted.
type Policy struct {
	Limits map[Action]LimitConfig
}

// DefaultPolicy returns the gallery admission policy: 5 uploads, 10 likes,
// 100 downloads and 60 queries per client per minute.
func DefaultPolicy() *Policy {
	return &Policy{
		Limits: map[Action]LimitConfig{
			ActionUpload:   {Max: 5, Window: time.Minute},
			ActionLike:     {Max: 10, Window: time.Minute},
			ActionDownload: {Max: 100, Window: time.Minute},
			ActionQuery:    {Max: 60, Window: time.Minute},
		},
	}
}

// Store holds sliding windows of request timestamps.
type Store interface {
	// Take atomically checks the window for key and records the request
	// when a slot is free. A rejected request leaves no trace, so it does
	// not extend the client's penalty.
	Take(ctx context.Context, key string, limit int64, window time.Duration) (allowed bool, err error)
}

// LimitExceeded describes a rejected admission.
type LimitExceeded struct {
	Action Action
	Config LimitConfig
}

// ActionLimiter applies a Policy to (client, action) pairs.
type ActionLimiter struct {
	store  Store
	policy *Policy
}

// NewActionLimiter creates a policy-backed limiter over the given store.
func NewActionLimiter(store Store, policy *Policy) *ActionLimiter {
	return &ActionLimiter{store: store, policy: policy}
}

// Allow admits or rejects one request. The LimitExceeded result is nil
// when the request is admitted or the action has no configured limit.
func (l *ActionLimiter) Allow(ctx context.Context, clientKey string, action Action) (bool, *LimitExceeded, error) {
	limit, ok := l.policy.Limits[action]
	if !ok {
		return true, nil, nil
	}

	key := buildKey(clientKey, action, limit.Window)

	allowed, err := l.store.Take(ctx, key, limit.Max, limit.Window)
	if err != nil {
		return false, nil, err
	}

	if !allowed {
		return false, &LimitExceeded{Action: action, Config: limit}, nil
	}

	return true, nil, nil
}

// buildKey keeps windows independent per client, action and window length.
func buildKey(clientKey string, action Action, window time.Duration) string {
	return fmt.Sprintf("%s:%s:%d", clientKey, action, window.Milliseconds())
}
