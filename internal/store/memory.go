package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/serroba/emoji-hub-go/internal/emoji"
	"go.uber.org/zap"
)

const defaultQueryLimit = 50

// MemoryStore is the authoritative in-memory implementation of
// emoji.Repository, seeded from a snapshot on startup and flushed back to
// it after every mutation. A single mutex guards the record map and the id
// counter, which makes all mutations linearizable per id.
//
// Flushing happens synchronously under the lock. That serializes writes
// behind snapshot I/O, which is an accepted tradeoff for this store's
// scale; a flush failure is logged and never rolls back the in-memory
// mutation.
type MemoryStore struct {
	mu     sync.RWMutex
	emojis map[string]*emoji.Emoji
	nextID int64

	snap   Snapshotter
	logger *zap.Logger
	now    func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the store's clock. Intended for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) {
		m.now = now
	}
}

// NewMemoryStore creates a record store seeded from the snapshotter.
func NewMemoryStore(snap Snapshotter, logger *zap.Logger, opts ...MemoryOption) (*MemoryStore, error) {
	loaded, err := snap.Load()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	m := &MemoryStore{
		emojis: make(map[string]*emoji.Emoji, len(loaded.Emojis)),
		nextID: loaded.NextID,
		snap:   snap,
		logger: logger,
		now:    time.Now,
	}

	if m.nextID < 1 {
		m.nextID = 1
	}

	for _, e := range loaded.Emojis {
		m.emojis[e.ID] = e
	}

	for _, opt := range opts {
		opt(m)
	}

	logger.Info("record store loaded",
		zap.Int("emojis", len(m.emojis)),
		zap.Int64("nextId", m.nextID),
	)

	return m, nil
}

// NextID allocates a fresh zero-padded identifier and persists the counter
// so ids are never reused across restarts.
func (m *MemoryStore) NextID(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.allocateIDLocked()
	m.flushLocked()

	return id, nil
}

func (m *MemoryStore) allocateIDLocked() string {
	id := fmt.Sprintf("%06d", m.nextID)
	m.nextID++

	return id
}

func (m *MemoryStore) Create(_ context.Context, in emoji.InsertEmoji) (*emoji.Emoji, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e := &emoji.Emoji{
		ID:         m.allocateIDLocked(),
		Name:       in.Name,
		FileName:   in.FileName,
		FilePath:   in.FilePath,
		FileSize:   in.FileSize,
		MimeType:   in.MimeType,
		Width:      in.Width,
		Height:     in.Height,
		Category:   in.Category,
		Tags:       tags,
		UploadedAt: m.now(),
	}

	m.emojis[e.ID] = e
	m.flushLocked()

	return copyEmoji(e), nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*emoji.Emoji, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.emojis[id]
	if !ok {
		return nil, emoji.ErrNotFound
	}

	return copyEmoji(e), nil
}

func (m *MemoryStore) Query(_ context.Context, f emoji.Filter) ([]*emoji.Emoji, error) {
	m.mu.RLock()
	matched := make([]*emoji.Emoji, 0, len(m.emojis))

	for _, e := range m.emojis {
		if matches(e, f) {
			matched = append(matched, copyEmoji(e))
		}
	}
	m.mu.RUnlock()

	sortEmojis(matched, f.Sort)

	limit := f.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	if offset >= len(matched) {
		return []*emoji.Emoji{}, nil
	}

	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[offset:end], nil
}

func (m *MemoryStore) IncrementLikes(_ context.Context, id string) (*emoji.Emoji, error) {
	return m.increment(id, func(e *emoji.Emoji) { e.Likes++ })
}

func (m *MemoryStore) IncrementDownloads(_ context.Context, id string) (*emoji.Emoji, error) {
	return m.increment(id, func(e *emoji.Emoji) { e.Downloads++ })
}

func (m *MemoryStore) increment(id string, apply func(*emoji.Emoji)) (*emoji.Emoji, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.emojis[id]
	if !ok {
		return nil, emoji.ErrNotFound
	}

	apply(e)
	m.flushLocked()

	return copyEmoji(e), nil
}

func (m *MemoryStore) Remove(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.emojis[id]; !ok {
		return false, nil
	}

	delete(m.emojis, id)
	m.flushLocked()

	return true, nil
}

func (m *MemoryStore) All(_ context.Context) ([]*emoji.Emoji, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]*emoji.Emoji, 0, len(m.emojis))
	for _, e := range m.emojis {
		all = append(all, copyEmoji(e))
	}

	return all, nil
}

// flushLocked persists the full state. Callers must hold the write lock.
func (m *MemoryStore) flushLocked() {
	snap := &Snapshot{
		NextID:  m.nextID,
		Emojis:  make([]*emoji.Emoji, 0, len(m.emojis)),
		SavedAt: m.now(),
	}

	for _, e := range m.emojis {
		snap.Emojis = append(snap.Emojis, copyEmoji(e))
	}

	if err := m.snap.Save(snap); err != nil {
		m.logger.Error("snapshot flush failed", zap.Error(err))
	}
}

func matches(e *emoji.Emoji, f emoji.Filter) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}

	if f.Search == "" {
		return true
	}

	needle := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(e.Name), needle) {
		return true
	}

	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}

	return false
}

// sortEmojis orders records deterministically. Time-based sorts break ties
// by id, which reflects insertion order because ids are monotonic.
// Counter-based sorts break ties by uploadedAt descending, then id.
func sortEmojis(emojis []*emoji.Emoji, by emoji.Sort) {
	switch by {
	case emoji.SortOldest:
		sort.Slice(emojis, func(i, j int) bool {
			if !emojis[i].UploadedAt.Equal(emojis[j].UploadedAt) {
				return emojis[i].UploadedAt.Before(emojis[j].UploadedAt)
			}

			return emojis[i].ID < emojis[j].ID
		})
	case emoji.SortMostLiked:
		sort.Slice(emojis, func(i, j int) bool {
			return counterLess(emojis[i], emojis[j], emojis[i].Likes, emojis[j].Likes)
		})
	case emoji.SortMostDownloaded:
		sort.Slice(emojis, func(i, j int) bool {
			return counterLess(emojis[i], emojis[j], emojis[i].Downloads, emojis[j].Downloads)
		})
	case emoji.SortNewest:
		fallthrough
	default:
		sort.Slice(emojis, func(i, j int) bool {
			if !emojis[i].UploadedAt.Equal(emojis[j].UploadedAt) {
				return emojis[i].UploadedAt.After(emojis[j].UploadedAt)
			}

			return emojis[i].ID > emojis[j].ID
		})
	}
}

func counterLess(a, b *emoji.Emoji, ca, cb int64) bool {
	if ca != cb {
		return ca > cb
	}

	if !a.UploadedAt.Equal(b.UploadedAt) {
		return a.UploadedAt.After(b.UploadedAt)
	}

	return a.ID > b.ID
}

func copyEmoji(e *emoji.Emoji) *emoji.Emoji {
	clone := *e
	clone.Tags = append([]string(nil), e.Tags...)

	return &clone
}

// Compile-time check.
var _ emoji.Repository = (*MemoryStore)(nil)
