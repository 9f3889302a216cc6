package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"radio-content-parser/internal/extract"
	"radio-content-parser/internal/observability"
	"radio-content-parser/internal/storage"
)

type Repository struct {
	snapshots map[string]*storage.Snapshot
	mu        sync.RWMutex
	logger    *observability.Logger
}

func NewRepository(logger *observability.Logger) *Repository {
	return &Repository{
		snapshots: make(map[string]*storage.Snapshot),
		logger:    logger,
	}
}

// SaveSnapshot заменяет снимок; данные копируются, чтобы вызывающий не мог их изменить
func (r *Repository) SaveSnapshot(ctx context.Context, snap *storage.Snapshot) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if snap == nil || snap.Kind == "" {
		return false, fmt.Errorf("snapshot kind is required")
	}

	stored := cloneSnapshot(snap)

	r.mu.Lock()
	prev, exists := r.snapshots[snap.Kind]
	r.snapshots[snap.Kind] = stored
	r.mu.Unlock()

	changed := !exists || prev.CheckSum != snap.CheckSum
	r.logger.Debug("Snapshot saved",
		"kind", snap.Kind,
		"records", stored.Len(),
		"checksum", snap.CheckSum,
		"changed", changed,
	)
	return changed, nil
}

func (r *Repository) LatestSnapshot(ctx context.Context, kind string) (*storage.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	snap, exists := r.snapshots[kind]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%s: %w", kind, storage.ErrNotFound)
	}
	return cloneSnapshot(snap), nil
}

func (r *Repository) GetCheckSum(ctx context.Context, kind string) (string, error) {
	snap, err := r.LatestSnapshot(ctx, kind)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return snap.CheckSum, nil
}

func cloneSnapshot(s *storage.Snapshot) *storage.Snapshot {
	out := *s
	if s.Events != nil {
		out.Events = append([]extract.Event(nil), s.Events...)
	}
	if s.News != nil {
		out.News = append([]extract.NewsItem(nil), s.News...)
	}
	if s.Ticker != nil {
		out.Ticker = append([]string(nil), s.Ticker...)
	}
	return &out
}
