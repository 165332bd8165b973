package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/emoji-hub-go/internal/analytics"
)

// Postgres persists activity rows via pgx.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgreSQL-backed analytics store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) SaveActivity(ctx context.Context, activity *analytics.Activity) error {
	query := `
		INSERT INTO emoji_activity (emoji_id, kind, occurred_at, client_ip)
		VALUES ($1, $2, $3, $4)
	`

	_, err := p.pool.Exec(ctx, query,
		activity.EmojiID,
		string(activity.Kind),
		activity.At,
		nullableString(activity.ClientIP),
	)

	return err
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// Compile-time check.
var _ analytics.Store = (*Postgres)(nil)
