package handlers

import (
	"github.com/serroba/emoji-hub-go/internal/emoji"
	"github.com/serroba/emoji-hub-go/internal/stats"
)

// ListEmojisRequest is the catalog query. Page is 1-based; offset is
// derived as (page-1)*limit.
type ListEmojisRequest struct {
	Search   string `doc:"Case-insensitive substring matched against name or tags" query:"search"  required:"false"`
	Category string `doc:"Exact category match"                                    query:"category" required:"false"`
	Sort     string `doc:"Catalog ordering" enum:"newest,oldest,most-liked,most-downloaded" query:"sort" required:"false"`
	Page     int    `doc:"Page number"      minimum:"1" default:"1"  query:"page"`
	Limit    int    `doc:"Page size"        minimum:"1" maximum:"100" default:"24" query:"limit"`
}

// ListEmojisResponse is one catalog page. HasMore is inferred from a full
// page; the true total is deliberately not exposed.
type ListEmojisResponse struct {
	Body struct {
		Emojis  []*emoji.Emoji `json:"emojis"`
		Page    int            `json:"page"`
		Limit   int            `json:"limit"`
		HasMore bool           `json:"hasMore"`
	}
}

// GetEmojiRequest is a point lookup by id.
type GetEmojiRequest struct {
	ID string `doc:"Emoji id" example:"000001" path:"id"`
}

// EmojiResponse wraps a single record.
type EmojiResponse struct {
	Body emoji.Emoji
}

// CreateEmojiRequest carries validated upload metadata plus the reference
// of the already-stored file. The upload pipeline (type/size/dimension
// checks, file write) runs before this endpoint is called.
type CreateEmojiRequest struct {
	Body struct {
		Name     string   `doc:"Display name"                  json:"name"     maxLength:"50" minLength:"1"`
		Category string   `doc:"Optional category"             json:"category,omitempty" required:"false"`
		Tags     []string `doc:"Optional tags"                 json:"tags,omitempty"     required:"false"`
		FileName string   `doc:"Stored file name"              json:"fileName"`
		FilePath string   `doc:"Relative storage path"         json:"filePath"`
		FileSize int64    `doc:"File size in bytes"            json:"fileSize" minimum:"1"`
		MimeType string   `doc:"MIME type"                     json:"mimeType"`
		Width    int      `doc:"Image width in pixels"         json:"width"    minimum:"1"`
		Height   int      `doc:"Image height in pixels"        json:"height"   minimum:"1"`
	}
}

// LikeEmojiRequest likes an emoji by id.
type LikeEmojiRequest struct {
	ID string `doc:"Emoji id" example:"000001" path:"id"`
}

// LikeEmojiResponse returns the updated like counter.
type LikeEmojiResponse struct {
	Body struct {
		Likes int64 `json:"likes"`
	}
}

// DownloadEmojiRequest accounts one download by id.
type DownloadEmojiRequest struct {
	ID string `doc:"Emoji id" example:"000001" path:"id"`
}

// DownloadEmojiResponse returns the file reference for the external file
// server to stream, plus the updated counter.
type DownloadEmojiResponse struct {
	Body struct {
		FileName  string `json:"fileName"`
		FilePath  string `json:"filePath"`
		MimeType  string `json:"mimeType"`
		Downloads int64  `json:"downloads"`
	}
}

// DeleteEmojiRequest deletes an emoji by id.
type DeleteEmojiRequest struct {
	ID string `doc:"Emoji id" example:"000001" path:"id"`
}

// DeleteEmojiResponse confirms a deletion and reports the orphaned file
// reference for the storage collaborator to remove.
type DeleteEmojiResponse struct {
	Body struct {
		Message  string `json:"message"`
		FilePath string `json:"filePath"`
	}
}

// StatsResponse wraps the current aggregate statistics.
type StatsResponse struct {
	Body stats.Stats
}
