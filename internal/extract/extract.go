package extract

import (
	"regexp"
	"strings"

	"radio-content-parser/internal/normalize"
)

// Extract находит все пары start…end в порядке следования и превращает каждую в Record.
// Блок без закрывающего маркера отбрасывается; пустой вход даёт пустой результат.
func Extract(raw, startMarker, endMarker string, specs []FieldSpec) []Record {
	blocks := FindBlocks(raw, startMarker, endMarker)
	records := make([]Record, 0, len(blocks))
	if len(blocks) == 0 {
		return records
	}

	patterns := compileFieldPatterns(specs)
	for _, block := range blocks {
		records = append(records, blockRecord(block, specs, patterns))
	}
	return records
}

// FindBlocks возвращает содержимое блоков; каждый start закрывается ближайшим следующим end
func FindBlocks(raw, startMarker, endMarker string) []string {
	if raw == "" || startMarker == "" || endMarker == "" {
		return nil
	}

	var blocks []string
	rest := raw
	for {
		i := strings.Index(rest, startMarker)
		if i < 0 {
			break
		}
		rest = rest[i+len(startMarker):]

		j := strings.Index(rest, endMarker)
		if j < 0 {
			break
		}
		blocks = append(blocks, rest[:j])
		rest = rest[j+len(endMarker):]
	}
	return blocks
}

// CountUnclosed считает start-маркеры, для которых не нашлось end
func CountUnclosed(raw, startMarker, endMarker string) int {
	if raw == "" || startMarker == "" {
		return 0
	}
	return strings.Count(raw, startMarker) - len(FindBlocks(raw, startMarker, endMarker))
}

func compileFieldPatterns(specs []FieldSpec) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(specs))
	for i, spec := range specs {
		// Ключ стоит в начале строки, допускаются маркер списка и выделение: "- **TITULO:** ..."
		patterns[i] = regexp.MustCompile(`(?im)^[ \t\-*•·>#_\d.)]*` + regexp.QuoteMeta(spec.Name) +
			`[ \t]*[*_]*[ \t]*:[ \t]*([^\r\n]*)`)
	}
	return patterns
}

func blockRecord(block string, specs []FieldSpec, patterns []*regexp.Regexp) Record {
	return buildRecord(specs, func(i int) string {
		m := patterns[i].FindStringSubmatch(block)
		if m == nil {
			return ""
		}
		return m[1]
	})
}

// buildRecord применяет очистку, нормализацию и значения по умолчанию
func buildRecord(specs []FieldSpec, lookup func(i int) string) Record {
	record := make(Record, len(specs))
	for i, spec := range specs {
		value := normalize.StripMarkup(lookup(i))
		if value != "" && spec.Normalize != nil {
			value = spec.Normalize(value)
		}
		if value == "" {
			value = spec.Default
		}
		record[spec.Name] = value
	}
	return record
}
