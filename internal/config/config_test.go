package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "  secret-key ")
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "scheduler:\n  mode: oneshot\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Events.StartMarker != "EVENTO_START" || cfg.Events.EndMarker != "EVENTO_END" {
		t.Errorf("event markers = %q/%q, want EVENTO_START/EVENTO_END", cfg.Events.StartMarker, cfg.Events.EndMarker)
	}
	if cfg.News.StartMarker != "NEWS_START" || cfg.News.EndMarker != "NEWS_END" {
		t.Errorf("news markers = %q/%q, want NEWS_START/NEWS_END", cfg.News.StartMarker, cfg.News.EndMarker)
	}
	if cfg.Generator.APIKey != "secret-key" {
		t.Errorf("Generator.APIKey = %q, want %q", cfg.Generator.APIKey, "secret-key")
	}
	if cfg.Ticker.MinLineLength != 15 {
		t.Errorf("Ticker.MinLineLength = %d, want 15", cfg.Ticker.MinLineLength)
	}
	if cfg.GetRequestTimeout().Seconds() != 30 {
		t.Errorf("GetRequestTimeout() = %v, want 30s", cfg.GetRequestTimeout())
	}
}

func TestLoadConfigResolvesPromptsRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "prompts_file: prompts.yaml\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if want := filepath.Join(dir, "prompts.yaml"); cfg.PromptsFile != want {
		t.Errorf("PromptsFile = %q, want %q", cfg.PromptsFile, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"unknown provider", func(c *Config) { c.Generator.Provider = "openai" }, "generator.provider"},
		{"same event markers", func(c *Config) { c.Events.EndMarker = c.Events.StartMarker }, "events.start_marker"},
		{"interval without period", func(c *Config) { c.Scheduler.Mode = "interval"; c.Scheduler.IntervalS = 0 }, "scheduler.interval_s"},
		{"cron mode unsupported", func(c *Config) { c.Scheduler.Mode = "cron" }, "scheduler.mode"},
		{"backoff inverted", func(c *Config) { c.Backoff.MinMS = 5000; c.Backoff.MaxMS = 100 }, "backoff.min_ms"},
		{"jitter too high", func(c *Config) { c.Backoff.JitterPct = 150 }, "backoff.jitter_pct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadPrompts(t *testing.T) {
	dir := t.TempDir()

	path := writeFile(t, dir, "prompts.yaml", "news: |\n  Liste {{.Count}} notícias\n")
	prompts, err := LoadPrompts(path)
	if err != nil {
		t.Fatalf("LoadPrompts() error = %v", err)
	}
	if !strings.Contains(prompts.News, "{{.Count}}") {
		t.Errorf("News prompt = %q, want template kept verbatim", prompts.News)
	}
	if prompts.Events != "" {
		t.Errorf("Events prompt = %q, want empty", prompts.Events)
	}

	empty := writeFile(t, dir, "empty.yaml", "events: \"\"\n")
	if _, err := LoadPrompts(empty); err == nil {
		t.Errorf("LoadPrompts(empty) error = nil, want error")
	}

	if _, err := LoadPrompts(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("LoadPrompts(missing) error = nil, want error")
	}
}
