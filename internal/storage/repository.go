package storage

import (
	"context"
	"errors"
	"time"

	"radio-content-parser/internal/extract"
)

var ErrNotFound = errors.New("snapshot not found")

// Snapshot последний успешный разбор ленты одного вида
type Snapshot struct {
	Kind      string
	Events    []extract.Event
	News      []extract.NewsItem
	Ticker    []string
	CheckSum  string // SHA256 содержимого ленты
	UpdatedAt time.Time
}

// Len количество записей в снимке
func (s *Snapshot) Len() int {
	return len(s.Events) + len(s.News) + len(s.Ticker)
}

// Repository интерфейс хранилища снимков лент
type Repository interface {
	// SaveSnapshot заменяет снимок вида целиком, возвращает changed=false при том же хеше
	SaveSnapshot(ctx context.Context, snap *Snapshot) (changed bool, err error)

	// LatestSnapshot последний сохранённый снимок или ErrNotFound
	LatestSnapshot(ctx context.Context, kind string) (*Snapshot, error)

	// GetCheckSum хеш последнего снимка, пустая строка если его нет
	GetCheckSum(ctx context.Context, kind string) (string, error)
}
