package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"radio-content-parser/internal/normalize"
)

const DefaultNewsType = "GERAL"

// NewsTypes: закрытый список тегов ленты новостей
var NewsTypes = []string{"LOCAL", "BRASIL", "MUNDO", "CULTURA", "ESPORTE", "MUSICA", "TECNOLOGIA", DefaultNewsType}

type NewsOptions struct {
	StartMarker     string
	EndMarker       string
	MaxSummaryChars int
}

func DefaultNewsOptions() NewsOptions {
	return NewsOptions{
		StartMarker:     "NEWS_START",
		EndMarker:       "NEWS_END",
		MaxSummaryChars: 280,
	}
}

func (o NewsOptions) fieldSpecs() []FieldSpec {
	return []FieldSpec{
		{Name: FieldTitle},
		{Name: FieldSource},
		{Name: FieldCategory, Default: DefaultNewsType, Normalize: NormalizeNewsType},
		{Name: FieldSummary, Normalize: o.normalizeSummary},
		{Name: FieldLink, Normalize: httpURLOrEmpty},
	}
}

// ParseNews извлекает новости из блоков NEWS_START … NEWS_END.
// Блоки без заголовка или ссылки отбрасываются.
func ParseNews(raw string, opts NewsOptions) []NewsItem {
	return newsFromRecords(Extract(raw, opts.StartMarker, opts.EndMarker, opts.fieldSpecs()))
}

// DecodeNewsJSON: запасной разбор, когда генератор ответил JSON-массивом вместо блоков.
// Битый JSON чинится через jsonrepair; правила нормализации те же, что и для блоков.
func DecodeNewsJSON(raw string, opts NewsOptions) ([]NewsItem, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 {
		return nil, fmt.Errorf("no JSON array in generated text")
	}
	payload := raw[start:]
	if end > start {
		payload = raw[start : end+1]
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(payload)
		if repairErr != nil {
			return nil, fmt.Errorf("failed to repair news JSON: %w", repairErr)
		}
		if err := json.Unmarshal([]byte(repaired), &items); err != nil {
			return nil, fmt.Errorf("failed to decode news JSON: %w", err)
		}
	}

	specs := opts.fieldSpecs()
	records := make([]Record, 0, len(items))
	for _, item := range items {
		records = append(records, buildRecord(specs, func(i int) string {
			return pickJSONField(item, jsonAliases[specs[i].Name]...)
		}))
	}
	return newsFromRecords(records), nil
}

var jsonAliases = map[string][]string{
	FieldTitle:    {"titulo", "título", "title", "headline"},
	FieldSource:   {"fonte", "source"},
	FieldCategory: {"tipo", "type", "categoria", "category"},
	FieldSummary:  {"resumo", "summary", "descricao", "description"},
	FieldLink:     {"link", "url"},
}

// pickJSONField берёт первое непустое строковое значение по ключам без учёта регистра
func pickJSONField(item map[string]any, keys ...string) string {
	for _, key := range keys {
		for k, v := range item {
			if !strings.EqualFold(k, key) {
				continue
			}
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

func newsFromRecords(records []Record) []NewsItem {
	items := make([]NewsItem, 0, len(records))
	for _, r := range records {
		if r[FieldTitle] == "" || r[FieldLink] == "" {
			continue
		}
		items = append(items, NewsItem{
			Title:   r[FieldTitle],
			Source:  r[FieldSource],
			Type:    r[FieldCategory],
			Summary: r[FieldSummary],
			URL:     r[FieldLink],
		})
	}
	return items
}

// NormalizeNewsType приводит тег к списку NewsTypes, иначе GERAL
func NormalizeNewsType(value string) string {
	return normalizeEnum(value, NewsTypes, DefaultNewsType)
}

func (o NewsOptions) normalizeSummary(value string) string {
	text := normalize.StripMarkup(normalize.HTMLToText(value))
	return normalize.Truncate(text, o.MaxSummaryChars)
}
