package normalize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"radio-content-parser/internal/config"
)

func TestTruncatePreview(t *testing.T) {
	cfg := &config.Config{
		Normalize: config.NormalizeConfig{
			MaxPreviewChars: 50,
		},
	}

	normalizer := NewNormalizer(cfg)

	input := "Prefeitura anuncia programação completa do festival de inverno na praça central"
	result := normalizer.TruncatePreview(input)

	if utf8.RuneCountInString(result) > 50 {
		t.Errorf("TruncatePreview result too long: %d > 50", utf8.RuneCountInString(result))
	}

	if !strings.HasSuffix(result, "…") {
		t.Errorf("TruncatePreview should end with …, got %q", result)
	}

	short := "Texto curto"
	if got := normalizer.TruncatePreview(short); got != short {
		t.Errorf("TruncatePreview(%q) = %q, want unchanged", short, got)
	}
}

func TestCleanHTML(t *testing.T) {
	cfg := &config.Config{
		Normalize: config.NormalizeConfig{
			TrimNBSP:       true,
			CollapseSpaces: true,
		},
	}

	normalizer := NewNormalizer(cfg)

	html := `
		<article>
			<p>Texto&nbsp;&nbsp;&nbsp;com&nbsp;NBSP</p>
			<script>alert('xss')</script>
			<p>Mais texto   com    espaços</p>
		</article>
	`

	result := normalizer.cleanHTML(html)

	if strings.Contains(result, "script") || strings.Contains(result, "alert") {
		t.Errorf("Script tag not removed")
	}

	if strings.Contains(result, "\u00A0") {
		t.Errorf("NBSP not replaced")
	}

	if strings.Contains(result, "   ") {
		t.Errorf("Multiple spaces not collapsed")
	}
}

func TestParseContextPage(t *testing.T) {
	cfg := &config.Config{
		Normalize: config.NormalizeConfig{
			StripBlocks:    []string{"Leia também"},
			TrimNBSP:       true,
			CollapseSpaces: true,
		},
	}
	normalizer := NewNormalizer(cfg)

	html := `<html><head><meta property="og:title" content="Agenda cultural"></head>
	<body>
		<nav>Menu</nav>
		<article>
			<h2>Show na praça</h2>
			<p>Banda <strong>local</strong> toca no sábado.</p>
			<div>Leia também</div>
			<script>track()</script>
		</article>
		<footer>Rodapé</footer>
	</body></html>`

	page, err := normalizer.ParseContextPage(html)
	if err != nil {
		t.Fatalf("ParseContextPage() error = %v", err)
	}
	if page.Title != "Agenda cultural" {
		t.Errorf("Title = %q, want %q", page.Title, "Agenda cultural")
	}
	if !strings.Contains(page.Markdown, "Show na praça") || !strings.Contains(page.Markdown, "**local**") {
		t.Errorf("Markdown = %q, want heading and bold text", page.Markdown)
	}
	for _, junk := range []string{"Menu", "Rodapé", "track()", "Leia também"} {
		if strings.Contains(page.Markdown, junk) {
			t.Errorf("Markdown contains %q: %q", junk, page.Markdown)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com/page#anchor", "https://example.com/page"},
		{"  https://example.com  ", "https://example.com"},
	}

	for _, tt := range tests {
		result := NormalizeURL(tt.input)
		if result != tt.expected {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
