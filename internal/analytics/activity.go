package analytics

import "time"

// Kind classifies one recorded gallery activity.
type Kind string

const (
	KindCreated    Kind = "created"
	KindLiked      Kind = "liked"
	KindDownloaded Kind = "downloaded"
	KindDeleted    Kind = "deleted"
)

// Activity is one row in the gallery activity trail.
type Activity struct {
	EmojiID  string
	Kind     Kind
	At       time.Time
	ClientIP string
}
