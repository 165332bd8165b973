package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/emoji-hub-go/internal/ratelimit"
)

// RegisterRoutes registers the gallery API. Each endpoint declares its
// rate-limit action class via operation metadata; the middleware enforces
// the policy per client.
func RegisterRoutes(api huma.API, h *EmojiHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/api/stats",
		Summary:     "Get platform statistics",
		Tags:        []string{"Stats"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Action: ratelimit.ActionQuery},
		},
	}, h.GetStats)

	huma.Register(api, huma.Operation{
		OperationID: "list-emojis",
		Method:      http.MethodGet,
		Path:        "/api/emojis",
		Summary:     "List emojis",
		Description: "Returns a filtered, sorted, paginated catalog page. hasMore is true when the page is full.",
		Tags:        []string{"Emojis"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Action: ratelimit.ActionQuery},
		},
	}, h.ListEmojis)

	huma.Register(api, huma.Operation{
		OperationID: "get-emoji",
		Method:      http.MethodGet,
		Path:        "/api/emoji/{id}",
		Summary:     "Get a single emoji",
		Tags:        []string{"Emojis"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Action: ratelimit.ActionQuery},
		},
	}, h.GetEmoji)

	huma.Register(api, huma.Operation{
		OperationID:   "upload-emoji",
		Method:        http.MethodPost,
		Path:          "/api/upload",
		Summary:       "Register an uploaded emoji",
		Description:   "Creates the record for a file the upload pipeline already validated and stored.",
		Tags:          []string{"Emojis"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Action: ratelimit.ActionUpload},
		},
	}, h.CreateEmoji)

	huma.Register(api, huma.Operation{
		OperationID: "like-emoji",
		Method:      http.MethodPost,
		Path:        "/api/like/{id}",
		Summary:     "Like an emoji",
		Tags:        []string{"Emojis"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Action: ratelimit.ActionLike},
		},
	}, h.LikeEmoji)

	huma.Register(api, huma.Operation{
		OperationID: "download-emoji",
		Method:      http.MethodGet,
		Path:        "/api/emoji/{id}/file",
		Summary:     "Account a download",
		Description: "Increments the download counter and returns the file reference for the file server to stream.",
		Tags:        []string{"Emojis"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Action: ratelimit.ActionDownload},
		},
	}, h.DownloadEmoji)

	huma.Register(api, huma.Operation{
		OperationID: "delete-emoji",
		Method:      http.MethodDelete,
		Path:        "/api/emoji/{id}",
		Summary:     "Delete an emoji",
		Tags:        []string{"Emojis"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Action: ratelimit.ActionQuery},
		},
	}, h.DeleteEmoji)
}
