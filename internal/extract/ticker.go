package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"radio-content-parser/internal/normalize"
)

const DefaultTickerMinLength = 15

// DefaultTickerDenylist: вступительные фразы модели, которые не являются новостями.
// Фраза совпадает только целым словом в начале строки.
var DefaultTickerDenylist = []string{
	"claro,", "claro!", "claro.",
	"aqui estão", "aqui está", "aqui vão",
	"seguem as notícias", "seguem as manchetes", "segue abaixo", "segue a lista",
	"com certeza!", "com certeza,", "certamente!", "certamente,",
	"espero que ajude", "espero que goste",
	"here are", "here is", "sure,", "sure!", "of course!", "of course,",
}

var (
	bulletMarkerRe   = regexp.MustCompile(`^\s*(?:[-*•·–—>]+\s+|#+\s*)`)
	numberMarkerRe   = regexp.MustCompile(`^\s*\d{1,3}[.)]\s+`)
	emphasisReplacer = strings.NewReplacer("*", "", "_", "", "`", "")
)

type TickerOptions struct {
	MinLineLength int
	MaxLines      int
	Denylist      []string
}

func DefaultTickerOptions() TickerOptions {
	return TickerOptions{
		MinLineLength: DefaultTickerMinLength,
		MaxLines:      10,
		Denylist:      DefaultTickerDenylist,
	}
}

// CleanTickerLines превращает ответ генератора в строки бегущей строки:
// снимает нумерацию и выделение, отбрасывает короткие строки, фразы-заглушки и повторы.
func CleanTickerLines(raw string, opts TickerOptions) []string {
	denylist := make([]string, 0, len(opts.Denylist))
	for _, phrase := range opts.Denylist {
		if p := normalize.FoldAccents(phrase); p != "" {
			denylist = append(denylist, p)
		}
	}

	lines := make([]string, 0)
	seen := make(map[string]bool)
	for _, line := range strings.Split(raw, "\n") {
		line = CleanTickerLine(line)
		if utf8.RuneCountInString(line) < opts.MinLineLength || isFiller(line, denylist) {
			continue
		}

		key := normalize.FoldAccents(line)
		if seen[key] {
			continue
		}
		seen[key] = true

		lines = append(lines, line)
		if opts.MaxLines > 0 && len(lines) >= opts.MaxLines {
			break
		}
	}
	return lines
}

// CleanTickerLine снимает маркер списка ("1.", "2)", "-", "•") и markdown-выделение
func CleanTickerLine(line string) string {
	line = stripBullets(strings.TrimSpace(line))
	// Номер пункта снимается один раз: "1. 2.500 fãs" -> "2.500 fãs"
	line = stripBullets(numberMarkerRe.ReplaceAllString(line, ""))
	line = emphasisReplacer.Replace(line)
	line = normalize.StripMarkup(line)
	return strings.TrimLeftFunc(line, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
}

func isFiller(line string, denylist []string) bool {
	if strings.HasSuffix(line, ":") {
		return true
	}
	folded := normalize.FoldAccents(line)
	for _, phrase := range denylist {
		if !strings.HasPrefix(folded, phrase) {
			continue
		}
		next, _ := utf8.DecodeRuneInString(folded[len(phrase):])
		if next == utf8.RuneError || !(unicode.IsLetter(next) || unicode.IsDigit(next)) {
			return true
		}
	}
	return false
}

func stripBullets(line string) string {
	for {
		stripped := bulletMarkerRe.ReplaceAllString(line, "")
		if stripped == line {
			return line
		}
		line = stripped
	}
}
