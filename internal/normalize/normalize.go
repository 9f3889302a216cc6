package normalize

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"radio-content-parser/internal/config"
)

var (
	spacesRe     = regexp.MustCompile(`[ \t]+`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
	allSpaceRe   = regexp.MustCompile(`\s+`)
)

type Normalizer struct {
	cfg *config.Config
}

func NewNormalizer(cfg *config.Config) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// PageContent: страница-источник, подготовленная для вставки в промпт
type PageContent struct {
	Title    string
	Markdown string
}

// ParseContextPage извлекает заголовок и основной текст страницы в виде markdown
func (n *Normalizer) ParseContextPage(html string) (*PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	content := &PageContent{}

	// Title: og:title или h1
	ogTitle, _ := doc.Find("meta[property='og:title']").Attr("content")
	if ogTitle != "" {
		content.Title = strings.TrimSpace(ogTitle)
	} else {
		content.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	doc.Find("script, style, noscript, nav, footer, form, iframe, .ads, [class*='advertisement']").Remove()

	// Основное тело: article → .post-content/.entry-content → main → body
	var bodyHTML string
	if article := doc.Find("article").First(); article.Length() > 0 {
		bodyHTML, _ = article.Html()
	} else if post := doc.Find(".post-content, .entry-content, .content").First(); post.Length() > 0 {
		bodyHTML, _ = post.Html()
	} else if main := doc.Find("main").First(); main.Length() > 0 {
		bodyHTML, _ = main.Html()
	} else {
		bodyHTML, _ = doc.Find("body").Html()
	}

	bodyHTML = n.stripBlocks(bodyHTML)

	markdown, err := htmltomarkdown.ConvertString(bodyHTML)
	if err != nil {
		// Конвертер не справился, берём плоский текст
		content.Markdown = n.cleanHTML(bodyHTML)
		return content, nil
	}

	content.Markdown = n.tidyMarkdown(markdown)
	return content, nil
}

// stripBlocks удаляет блоки типа "Leia também", "Publicidade" и т.д.
func (n *Normalizer) stripBlocks(html string) string {
	result := html

	for _, blockName := range n.cfg.Normalize.StripBlocks {
		name := regexp.QuoteMeta(blockName)
		patterns := []string{
			`<div[^>]*>(\s*<h\d[^>]*>` + name + `</h\d>|` + name + `)[^<]*(?:<[^>]*>)*?</div>`,
			`<section[^>]*>(\s*<h\d[^>]*>` + name + `</h\d>|` + name + `)[^<]*(?:<[^>]*>)*?</section>`,
			`<aside[^>]*>[^<]*` + name + `[^<]*(?:<[^>]*>)*?</aside>`,
		}

		for _, pattern := range patterns {
			re := regexp.MustCompile(`(?i)` + pattern)
			result = re.ReplaceAllString(result, "")
		}
	}

	return result
}

// cleanHTML парсит HTML и извлекает текст
func (n *Normalizer) cleanHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	doc.Find("script, style, nav, footer, .ads, [class*='advertisement']").Remove()

	text := doc.Text()

	if n.cfg.Normalize.TrimNBSP {
		text = strings.ReplaceAll(text, "\u00A0", " ")
	}

	if n.cfg.Normalize.CollapseSpaces {
		text = allSpaceRe.ReplaceAllString(text, " ")
	}

	return strings.TrimSpace(text)
}

func (n *Normalizer) tidyMarkdown(md string) string {
	if n.cfg.Normalize.TrimNBSP {
		md = strings.ReplaceAll(md, "\u00A0", " ")
	}
	if n.cfg.Normalize.CollapseSpaces {
		md = spacesRe.ReplaceAllString(md, " ")
		md = blankLinesRe.ReplaceAllString(md, "\n\n")
	}
	return strings.TrimSpace(md)
}

// TruncatePreview обрезает текст до max_preview_chars
func (n *Normalizer) TruncatePreview(text string) string {
	return Truncate(text, n.cfg.Normalize.MaxPreviewChars)
}

// Truncate обрезает текст до max символов (с учётом «…») по границе слова.
// max <= 0 отключает обрезку.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if max <= 0 || len(runes) <= max {
		return text
	}
	if max == 1 {
		return "…"
	}

	truncated := string(runes[:max-1])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > 0 {
		truncated = truncated[:lastSpace]
	}
	return strings.TrimRight(truncated, " ,;:-") + "…"
}

// NormalizeURL нормализует URL (убирает якори)
func NormalizeURL(urlStr string) string {
	urlStr = strings.TrimSpace(urlStr)
	if idx := strings.Index(urlStr, "#"); idx > -1 {
		urlStr = urlStr[:idx]
	}
	return urlStr
}
