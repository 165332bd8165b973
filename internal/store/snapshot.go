package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/serroba/emoji-hub-go/internal/emoji"
	"go.uber.org/zap"
)

const snapshotVersion = 1

// Snapshot is the durable on-disk envelope: the full record set plus the
// next-id counter, overwritten on every mutation. Unknown fields are
// ignored on load, so newer adapters stay able to read older files.
type Snapshot struct {
	Version int            `json:"version"`
	NextID  int64          `json:"nextId"`
	Emojis  []*emoji.Emoji `json:"emojis"`
	SavedAt time.Time      `json:"savedAt"`
}

// Snapshotter persists and restores full store state.
type Snapshotter interface {
	Load() (*Snapshot, error)
	Save(snap *Snapshot) error
}

// FileSnapshot writes snapshots as a single JSON file. Writes go through a
// temp file and rename, so a crash mid-write leaves the previous snapshot
// intact.
type FileSnapshot struct {
	path   string
	logger *zap.Logger
}

// NewFileSnapshot creates a file-backed snapshotter at the given path.
func NewFileSnapshot(path string, logger *zap.Logger) *FileSnapshot {
	return &FileSnapshot{path: path, logger: logger}
}

// Load reads the snapshot from disk. A missing or corrupt file yields an
// empty snapshot so the store can start fresh; it never fails startup.
func (f *FileSnapshot) Load() (*Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.logger.Info("no snapshot found, starting empty", zap.String("path", f.path))

			return emptySnapshot(), nil
		}

		f.logger.Warn("snapshot unreadable, starting empty",
			zap.String("path", f.path),
			zap.Error(err),
		)

		return emptySnapshot(), nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		f.logger.Warn("snapshot corrupt, starting empty",
			zap.String("path", f.path),
			zap.Error(err),
		)

		return emptySnapshot(), nil
	}

	if snap.NextID < 1 {
		snap.NextID = 1
	}

	return &snap, nil
}

// Save serializes the snapshot and atomically replaces the previous file.
func (f *FileSnapshot) Save(snap *Snapshot) error {
	snap.Version = snapshotVersion

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("write snapshot: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("replace snapshot: %w", err)
	}

	return nil
}

func emptySnapshot() *Snapshot {
	return &Snapshot{Version: snapshotVersion, NextID: 1}
}
