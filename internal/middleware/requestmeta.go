package middleware

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/emoji-hub-go/internal/handlers"
)

// RequestMeta adds client IP, user-agent and referrer to the request
// context for handlers and activity events.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := handlers.RequestMeta{
			ClientIP:  clientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
			Referrer:  ctx.Header("Referer"),
		}

		newCtx := handlers.ContextWithRequestMeta(ctx.Context(), meta)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}
