// Package events defines the activity events emitted after each gallery
// mutation. They feed the analytics trail and are strictly fire-and-forget
// from the mutating request's point of view.
package events

import "time"

const (
	TopicEmojiCreated    = "emoji.created"
	TopicEmojiLiked      = "emoji.liked"
	TopicEmojiDownloaded = "emoji.downloaded"
	TopicEmojiDeleted    = "emoji.deleted"
)

// EmojiCreatedEvent is emitted when a new emoji record is created.
type EmojiCreatedEvent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Tags      []string  `json:"tags"`
	FileSize  int64     `json:"fileSize"`
	MimeType  string    `json:"mimeType"`
	CreatedAt time.Time `json:"createdAt"`
	ClientIP  string    `json:"clientIp"`
}

// EmojiLikedEvent is emitted after a like is counted.
type EmojiLikedEvent struct {
	ID       string    `json:"id"`
	Likes    int64     `json:"likes"`
	LikedAt  time.Time `json:"likedAt"`
	ClientIP string    `json:"clientIp"`
}

// EmojiDownloadedEvent is emitted after a download is counted.
type EmojiDownloadedEvent struct {
	ID           string    `json:"id"`
	Downloads    int64     `json:"downloads"`
	DownloadedAt time.Time `json:"downloadedAt"`
	ClientIP     string    `json:"clientIp"`
}

// EmojiDeletedEvent is emitted when a record is removed. FilePath points
// at the now-orphaned backing file for the storage collaborator to clean
// up.
type EmojiDeletedEvent struct {
	ID        string    `json:"id"`
	FilePath  string    `json:"filePath"`
	DeletedAt time.Time `json:"deletedAt"`
}
