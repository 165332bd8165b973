package analytics

import "context"

// Store persists gallery activity rows.
type Store interface {
	SaveActivity(ctx context.Context, activity *Activity) error
}
