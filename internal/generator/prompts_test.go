package generator

import (
	"strings"
	"testing"

	"radio-content-parser/internal/config"
)

func promptConfig() *config.Config {
	return &config.Config{
		Events: config.EventsConfig{StartMarker: "EVENTO_START", EndMarker: "EVENTO_END", City: "Recife", Count: 6},
		News:   config.NewsConfig{StartMarker: "NEWS_START", EndMarker: "NEWS_END", Region: "Pernambuco", Count: 5},
		Ticker: config.TickerConfig{Region: "Recife", MaxLines: 8},
	}
}

func TestDefaultPrompts(t *testing.T) {
	b, err := NewPromptBuilder(promptConfig(), nil)
	if err != nil {
		t.Fatalf("NewPromptBuilder: %v", err)
	}

	events, err := b.Events("")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	for _, want := range []string{"6 eventos", "Recife", "EVENTO_START", "EVENTO_END", "TIPO:"} {
		if !strings.Contains(events, want) {
			t.Errorf("events prompt missing %q", want)
		}
	}
	if strings.Contains(events, "referência") {
		t.Error("events prompt without context should not mention reference pages")
	}

	news, err := b.News("# Página\ntexto")
	if err != nil {
		t.Fatalf("News: %v", err)
	}
	for _, want := range []string{"5 notícias", "Pernambuco", "NEWS_START", "# Página\ntexto"} {
		if !strings.Contains(news, want) {
			t.Errorf("news prompt missing %q", want)
		}
	}

	ticker, err := b.Ticker("")
	if err != nil {
		t.Fatalf("Ticker: %v", err)
	}
	if !strings.HasPrefix(ticker, "Escreva 8 manchetes") {
		t.Errorf("unexpected ticker prompt %q", ticker)
	}
}

func TestPromptOverrides(t *testing.T) {
	overrides := &config.Prompts{News: "Notícias de {{.Region}} entre {{.Start}} e {{.End}}"}
	b, err := NewPromptBuilder(promptConfig(), overrides)
	if err != nil {
		t.Fatalf("NewPromptBuilder: %v", err)
	}

	got, err := b.News("")
	if err != nil {
		t.Fatalf("News: %v", err)
	}
	if want := "Notícias de Pernambuco entre NEWS_START e NEWS_END"; got != want {
		t.Errorf("News() = %q, want %q", got, want)
	}

	events, _ := b.Events("")
	if !strings.Contains(events, "EVENTO_START") {
		t.Error("events prompt should fall back to the built-in template")
	}
}

func TestPromptOverrideErrors(t *testing.T) {
	if _, err := NewPromptBuilder(promptConfig(), &config.Prompts{Events: "{{.City"}); err == nil {
		t.Error("expected parse error")
	}

	b, err := NewPromptBuilder(promptConfig(), &config.Prompts{Ticker: "{{.Unknown}}"})
	if err != nil {
		t.Fatalf("NewPromptBuilder: %v", err)
	}
	if _, err := b.Ticker(""); err == nil {
		t.Error("expected execution error for unknown field")
	}
}
