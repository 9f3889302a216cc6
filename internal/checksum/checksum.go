package checksum

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"radio-content-parser/internal/extract"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateContentHash генерирует SHA256 хеш полей записи
// Формула: SHA256(f1|f2|...|fn)
func (g *Generator) GenerateContentHash(fields ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(fields, "|")))
	return fmt.Sprintf("%x", hash)
}

// VerifyContentHash проверяет соответствие хеша
func (g *Generator) VerifyContentHash(expectedHash string, fields ...string) bool {
	return g.GenerateContentHash(fields...) == expectedHash
}

// EventsHash хеш ленты событий с учётом порядка
func (g *Generator) EventsHash(events []extract.Event) string {
	hashes := make([]string, 0, len(events))
	for _, ev := range events {
		hashes = append(hashes, g.GenerateContentHash(ev.Title, ev.Date, ev.Location, ev.Category, ev.ImageURL, ev.Link))
	}
	return g.feedHash("events", hashes)
}

// NewsHash хеш ленты новостей с учётом порядка
func (g *Generator) NewsHash(items []extract.NewsItem) string {
	hashes := make([]string, 0, len(items))
	for _, item := range items {
		hashes = append(hashes, g.GenerateContentHash(item.URL, item.Title, item.Source, item.Type, item.Summary))
	}
	return g.feedHash("news", hashes)
}

// TickerHash хеш строк бегущей строки
func (g *Generator) TickerHash(lines []string) string {
	return g.feedHash("ticker", lines)
}

func (g *Generator) feedHash(kind string, parts []string) string {
	return g.GenerateContentHash(append([]string{kind}, parts...)...)
}
