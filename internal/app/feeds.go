package app

import (
	"fmt"

	"radio-content-parser/internal/config"
	"radio-content-parser/internal/extract"
)

const (
	KindEvents = "events"
	KindNews   = "news"
	KindTicker = "ticker"
)

// Kinds порядок обновления лент
var Kinds = []string{KindEvents, KindNews, KindTicker}

const (
	StateIdle               = "idle"
	StateLoading            = "loading"
	StateReady              = "ready"
	StateError              = "error"
	StateNeedsAuthorization = "needs-authorization"
)

var States = []string{StateIdle, StateLoading, StateReady, StateError, StateNeedsAuthorization}

func validKind(kind string) error {
	for _, k := range Kinds {
		if k == kind {
			return nil
		}
	}
	return fmt.Errorf("unknown feed kind: %q", kind)
}

func eventOptions(cfg *config.Config) extract.EventOptions {
	opts := extract.DefaultEventOptions()
	if cfg.Events.StartMarker != "" {
		opts.StartMarker = cfg.Events.StartMarker
	}
	if cfg.Events.EndMarker != "" {
		opts.EndMarker = cfg.Events.EndMarker
	}
	if cfg.Events.FallbackLink != "" {
		opts.FallbackLink = cfg.Events.FallbackLink
	}
	return opts.WithPlaceholders(cfg.Events.Placeholders)
}

func newsOptions(cfg *config.Config) extract.NewsOptions {
	opts := extract.DefaultNewsOptions()
	if cfg.News.StartMarker != "" {
		opts.StartMarker = cfg.News.StartMarker
	}
	if cfg.News.EndMarker != "" {
		opts.EndMarker = cfg.News.EndMarker
	}
	if cfg.News.MaxSummaryChars > 0 {
		opts.MaxSummaryChars = cfg.News.MaxSummaryChars
	}
	return opts
}

func tickerOptions(cfg *config.Config) extract.TickerOptions {
	opts := extract.DefaultTickerOptions()
	if cfg.Ticker.MinLineLength > 0 {
		opts.MinLineLength = cfg.Ticker.MinLineLength
	}
	if cfg.Ticker.MaxLines > 0 {
		opts.MaxLines = cfg.Ticker.MaxLines
	}
	if len(cfg.Ticker.Denylist) > 0 {
		opts.Denylist = cfg.Ticker.Denylist
	}
	return opts
}
