package stats

import (
	"fmt"
	"time"

	"github.com/serroba/emoji-hub-go/internal/emoji"
)

// Stats are the live aggregate counters shown on the gallery front page.
// They are derived from current store contents on every computation and
// never persisted independently, so they cannot drift.
type Stats struct {
	TotalEmojis    int     `json:"totalEmojis"`
	TotalDownloads int64   `json:"totalDownloads"`
	TotalLikes     int64   `json:"totalLikes"`
	LastUploadTime *string `json:"lastUploadTime"`
}

// Compute aggregates counters over the given records. LastUploadTime is a
// coarse relative-time string for the most recent upload, or nil when the
// store is empty.
func Compute(emojis []*emoji.Emoji, now time.Time) Stats {
	s := Stats{TotalEmojis: len(emojis)}

	var lastUpload time.Time

	for _, e := range emojis {
		s.TotalDownloads += e.Downloads
		s.TotalLikes += e.Likes

		if e.UploadedAt.After(lastUpload) {
			lastUpload = e.UploadedAt
		}
	}

	if !lastUpload.IsZero() {
		ago := timeAgo(lastUpload, now)
		s.LastUploadTime = &ago
	}

	return s
}

func timeAgo(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
