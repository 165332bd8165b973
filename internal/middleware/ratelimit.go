package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/emoji-hub-go/internal/ratelimit"
	"go.uber.org/zap"
)

// ActionRateLimiter returns a huma middleware enforcing the admission
// policy. The action class comes from operation metadata; endpoints
// without metadata are treated as queries. A rejection responds 429 with
// retry guidance and is never retried by the server.
func ActionRateLimiter(
	api huma.API,
	limiter *ratelimit.ActionLimiter,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cfg := endpointConfig(ctx)
		if cfg.Disabled {
			next(ctx)

			return
		}

		action := cfg.Action
		if action == "" {
			action = ratelimit.ActionQuery
		}

		allowed, exceeded, err := limiter.Allow(ctx.Context(), clientKey(ctx), action)
		if err != nil {
			logger.Error("rate limit check failed",
				zap.String("action", string(action)),
				zap.Error(err),
			)
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		if !allowed {
			msg := "rate limit exceeded, please wait before trying again"
			if exceeded != nil {
				msg = fmt.Sprintf("rate limit exceeded: at most %d %s requests per %s, please wait before trying again",
					exceeded.Config.Max, exceeded.Action, exceeded.Config.Window)
				logger.Warn("rate limit exceeded",
					zap.String("action", string(exceeded.Action)),
					zap.Int64("max", exceeded.Config.Max),
					zap.Duration("window", exceeded.Config.Window),
					zap.String("client_ip", clientIP(ctx)),
				)
			}

			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)

			return
		}

		next(ctx)
	}
}

func endpointConfig(ctx huma.Context) ratelimit.EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return ratelimit.EndpointConfig{}
	}

	cfg, ok := op.Metadata[ratelimit.MetadataKey].(ratelimit.EndpointConfig)
	if !ok {
		return ratelimit.EndpointConfig{}
	}

	return cfg
}

// clientKey generates a stable rate-limit key from IP and User-Agent.
func clientKey(ctx huma.Context) string {
	ip := clientIP(ctx)
	ua := ctx.Header("User-Agent")

	hash := sha256.Sum256([]byte(ip + "|" + ua))

	return hex.EncodeToString(hash[:])
}

// clientIP extracts the client IP from the request, considering proxies.
func clientIP(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	host := ctx.Host()

	ip, _, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}

	return ip
}
