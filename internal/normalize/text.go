package normalize

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	markdownLinkRe = regexp.MustCompile(`\[[^\]]*\]\(\s*(\S+?)\s*\)`)
	angleLinkRe    = regexp.MustCompile(`<(https?://[^>\s]+)>`)
	bareLinkRe     = regexp.MustCompile(`https?://[^\s<>"'\])]+`)
	markupReplacer = strings.NewReplacer("*", "", "`", "", "\u00A0", " ")
)

// StripMarkup убирает markdown-выделение (*, `), NBSP и лишние пробелы
func StripMarkup(s string) string {
	s = markupReplacer.Replace(s)
	return strings.TrimSpace(allSpaceRe.ReplaceAllString(s, " "))
}

// UnwrapLink достаёт адрес из [текст](url), <url> или первого голого http(s)-URL.
// Если ничего похожего нет, значение возвращается без изменений.
func UnwrapLink(s string) string {
	s = strings.TrimSpace(s)
	if m := markdownLinkRe.FindStringSubmatch(s); m != nil {
		return strings.Trim(m[1], `<>"'`)
	}
	if m := angleLinkRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if m := bareLinkRe.FindString(s); m != "" {
		return strings.TrimRight(m, ".,;:!?")
	}
	return s
}

// IsHTTPURL проверяет, что строка: абсолютный http(s) URL с хостом
func IsHTTPURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// FoldAccents приводит строку к верхнему регистру без диакритики: "Música" → "MUSICA"
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(strings.TrimSpace(folded))
}

// HTMLToText снимает HTML-теги и сущности из короткого фрагмента
func HTMLToText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	doc.Find("script, style").Remove()
	return strings.TrimSpace(allSpaceRe.ReplaceAllString(doc.Text(), " "))
}
