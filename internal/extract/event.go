package extract

import (
	"strings"

	"radio-content-parser/internal/normalize"
)

const (
	DefaultEventCategory = "GERAL"
	DefaultEventTitle    = "Evento"
	DefaultEventDate     = "Em breve"
	DefaultEventLocation = "Local a confirmar"
	DefaultEventsLink    = "https://www.sympla.com.br/eventos"
)

// EventCategories: закрытый список категорий афиши
var EventCategories = []string{"SHOW", "FESTA", "TEATRO", "CULTURA", "ESPORTE", "FEIRA", DefaultEventCategory}

// DefaultPlaceholders: картинки по категориям для событий без валидной IMAGEM
var DefaultPlaceholders = map[string]string{
	"SHOW":    "https://images.unsplash.com/photo-1501386761578-eac5c94b800a?w=800",
	"FESTA":   "https://images.unsplash.com/photo-1492684223066-81342ee5ff30?w=800",
	"TEATRO":  "https://images.unsplash.com/photo-1503095396549-807759245b35?w=800",
	"CULTURA": "https://images.unsplash.com/photo-1460661419201-fd4cecdf8a8b?w=800",
	"ESPORTE": "https://images.unsplash.com/photo-1461896836934-ffe607ba8211?w=800",
	"FEIRA":   "https://images.unsplash.com/photo-1488459716781-31db52582fe9?w=800",
	"GERAL":   "https://images.unsplash.com/photo-1514525253161-7a46d19cd819?w=800",
}

type EventOptions struct {
	StartMarker  string
	EndMarker    string
	FallbackLink string
	Placeholders map[string]string
}

func DefaultEventOptions() EventOptions {
	placeholders := make(map[string]string, len(DefaultPlaceholders))
	for k, v := range DefaultPlaceholders {
		placeholders[k] = v
	}
	return EventOptions{
		StartMarker:  "EVENTO_START",
		EndMarker:    "EVENTO_END",
		FallbackLink: DefaultEventsLink,
		Placeholders: placeholders,
	}
}

// WithPlaceholders возвращает копию опций с переопределёнными картинками категорий
func (o EventOptions) WithPlaceholders(overrides map[string]string) EventOptions {
	merged := make(map[string]string, len(o.Placeholders)+len(overrides))
	for k, v := range o.Placeholders {
		merged[k] = v
	}
	for k, v := range overrides {
		if v = strings.TrimSpace(v); v != "" {
			merged[normalize.FoldAccents(k)] = v
		}
	}
	o.Placeholders = merged
	return o
}

// PlaceholderFor возвращает картинку категории или картинку категории по умолчанию
func (o EventOptions) PlaceholderFor(category string) string {
	if url, ok := o.Placeholders[category]; ok {
		return url
	}
	return o.Placeholders[DefaultEventCategory]
}

func (o EventOptions) fieldSpecs() []FieldSpec {
	return []FieldSpec{
		{Name: FieldTitle, Default: DefaultEventTitle},
		{Name: FieldDate, Default: DefaultEventDate},
		{Name: FieldLocation, Default: DefaultEventLocation},
		{Name: FieldCategory, Default: DefaultEventCategory, Normalize: NormalizeEventCategory},
		{Name: FieldImage, Normalize: httpURLOrEmpty},
		{Name: FieldLink, Default: o.FallbackLink, Normalize: httpURLOrEmpty},
	}
}

// ParseEvents извлекает события из блоков EVENTO_START … EVENTO_END
func ParseEvents(raw string, opts EventOptions) []Event {
	records := Extract(raw, opts.StartMarker, opts.EndMarker, opts.fieldSpecs())
	events := make([]Event, 0, len(records))
	for _, r := range records {
		events = append(events, opts.eventFromRecord(r))
	}
	return events
}

func (o EventOptions) eventFromRecord(r Record) Event {
	day, month := DeriveDayMonth(r[FieldDate])

	image := r[FieldImage]
	if image == "" {
		image = o.PlaceholderFor(r[FieldCategory])
	}

	return Event{
		Title:    r[FieldTitle],
		Date:     r[FieldDate],
		Day:      day,
		Month:    month,
		Location: r[FieldLocation],
		Category: r[FieldCategory],
		ImageURL: image,
		Link:     r[FieldLink],
	}
}

// NormalizeEventCategory приводит категорию к списку EventCategories, иначе GERAL
func NormalizeEventCategory(value string) string {
	return normalizeEnum(value, EventCategories, DefaultEventCategory)
}

// normalizeEnum: точное совпадение без учёта регистра и диакритики, затем первое слово
func normalizeEnum(value string, allowed []string, fallback string) string {
	folded := normalize.FoldAccents(value)
	if folded == "" {
		return fallback
	}
	for _, a := range allowed {
		if folded == a {
			return a
		}
	}

	first := wordRe.FindString(folded)
	for _, a := range allowed {
		if first == a {
			return a
		}
	}
	return fallback
}

// httpURLOrEmpty достаёт ссылку из markdown-обёртки; невалидный адрес → ""
func httpURLOrEmpty(value string) string {
	u := normalize.UnwrapLink(value)
	if !normalize.IsHTTPURL(u) {
		return ""
	}
	return u
}
