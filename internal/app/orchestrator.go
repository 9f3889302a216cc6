package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"radio-content-parser/internal/checksum"
	"radio-content-parser/internal/config"
	"radio-content-parser/internal/extract"
	"radio-content-parser/internal/fetcher"
	"radio-content-parser/internal/generator"
	"radio-content-parser/internal/normalize"
	"radio-content-parser/internal/observability"
	"radio-content-parser/internal/storage"
)

var (
	ErrRefreshInFlight = errors.New("refresh already in flight")
	ErrNoRecords       = errors.New("no records extracted")
)

// PageFetcher источник страниц-контекста для промптов
type PageFetcher interface {
	Fetch(ctx context.Context, urlStr string) (*fetcher.FetchResponse, error)
}

type Orchestrator struct {
	cfg        *config.Config
	logger     *observability.Logger
	metrics    *observability.Metrics
	provider   generator.Provider
	prompts    *generator.PromptBuilder
	fetcher    PageFetcher
	normalizer *normalize.Normalizer
	repo       storage.Repository
	hasher     *checksum.Generator

	inFlight map[string]*atomic.Bool
	mu       sync.RWMutex
	status   map[string]FeedStatus
}

// FeedStatus текущее состояние ленты
type FeedStatus struct {
	State     string
	Reason    string
	Records   int
	UpdatedAt time.Time
}

type RefreshStats struct {
	RunID         string
	Kind          string
	Records       int
	DroppedBlocks int
	ContextPages  int
	CheckSum      string
	Changed       bool
	Duration      time.Duration
	StoppedReason string
}

func NewOrchestrator(
	cfg *config.Config,
	logger *observability.Logger,
	metrics *observability.Metrics,
	provider generator.Provider,
	prompts *generator.PromptBuilder,
	f PageFetcher,
	repo storage.Repository,
) *Orchestrator {
	o := &Orchestrator{
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics,
		provider:   provider,
		prompts:    prompts,
		fetcher:    f,
		normalizer: normalize.NewNormalizer(cfg),
		repo:       repo,
		hasher:     checksum.NewGenerator(),
		inFlight:   make(map[string]*atomic.Bool, len(Kinds)),
		status:     make(map[string]FeedStatus, len(Kinds)),
	}
	for _, kind := range Kinds {
		o.inFlight[kind] = &atomic.Bool{}
		o.setStatus(kind, StateIdle, "", 0)
	}
	return o
}

// Status возвращает состояние ленты
func (o *Orchestrator) Status(kind string) FeedStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.status[kind]
}

// Refresh выполняет цикл контекст → промпт → генерация → разбор → снимок для одной ленты.
// Параллельный вызов для той же ленты сразу возвращает ErrRefreshInFlight.
func (o *Orchestrator) Refresh(ctx context.Context, kind string) (*RefreshStats, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}

	guard := o.inFlight[kind]
	if !guard.CompareAndSwap(false, true) {
		o.logger.Debug("Refresh skipped, already in flight", "kind", kind)
		return nil, ErrRefreshInFlight
	}
	defer guard.Store(false)

	start := time.Now()
	stats := &RefreshStats{RunID: uuid.NewString(), Kind: kind}
	logger := o.logger.With("run_id", stats.RunID, "kind", kind)
	defer func() {
		stats.Duration = time.Since(start)
		o.metrics.ObserveRefresh(kind, stats.Duration.Seconds())
	}()

	prev := o.Status(kind)
	o.setStatus(kind, StateLoading, "", prev.Records)
	logger.Info("Starting refresh")

	pageContext, pages := o.collectContext(ctx, o.contextURLs(kind))
	stats.ContextPages = pages

	prompt, err := o.buildPrompt(kind, pageContext)
	if err != nil {
		stats.StoppedReason = fmt.Sprintf("prompt error: %v", err)
		o.fail(logger, kind, StateError, "prompt", stats.StoppedReason, prev.Records)
		return stats, err
	}

	raw, err := o.provider.Generate(ctx, prompt)
	if err != nil {
		state, reason := classifyGenerationError(err)
		stats.StoppedReason = fmt.Sprintf("generation failed: %v", err)
		o.fail(logger, kind, state, reason, stats.StoppedReason, prev.Records)
		return stats, fmt.Errorf("generate %s: %w", kind, err)
	}

	logger.Debug("Provider output", "preview", o.normalizer.TruncatePreview(raw))

	snap := &storage.Snapshot{Kind: kind, UpdatedAt: time.Now().UTC()}
	stats.DroppedBlocks = o.parse(kind, raw, snap)
	stats.Records = snap.Len()
	o.metrics.AddDropped(kind, stats.DroppedBlocks)

	if stats.Records == 0 {
		// Предыдущий снимок остаётся в хранилище
		stats.StoppedReason = "no records"
		o.fail(logger, kind, StateError, "no_records", stats.StoppedReason, prev.Records)
		return stats, fmt.Errorf("%s: %w", kind, ErrNoRecords)
	}

	snap.CheckSum = o.snapshotHash(snap)
	changed, err := o.repo.SaveSnapshot(ctx, snap)
	if err != nil {
		stats.StoppedReason = fmt.Sprintf("storage error: %v", err)
		o.fail(logger, kind, StateError, "storage", stats.StoppedReason, prev.Records)
		return stats, fmt.Errorf("save %s snapshot: %w", kind, err)
	}

	stats.CheckSum = snap.CheckSum
	stats.Changed = changed
	stats.StoppedReason = "completed"
	o.metrics.AddRecords(kind, stats.Records)
	o.setStatus(kind, StateReady, "", stats.Records)

	logger.Info("Refresh completed",
		"records", stats.Records,
		"dropped_blocks", stats.DroppedBlocks,
		"context_pages", stats.ContextPages,
		"checksum", stats.CheckSum,
		"changed", stats.Changed,
		"duration", time.Since(start).String(),
	)
	if !changed {
		logger.Info("Feed content unchanged", "checksum", stats.CheckSum)
	}

	return stats, nil
}

// RefreshAll обновляет все ленты по очереди; ошибки лент не прерывают цикл
func (o *Orchestrator) RefreshAll(ctx context.Context) map[string]error {
	results := make(map[string]error, len(Kinds))
	for _, kind := range Kinds {
		if ctx.Err() != nil {
			results[kind] = ctx.Err()
			continue
		}
		_, err := o.Refresh(ctx, kind)
		results[kind] = err
	}
	return results
}

// parse заполняет снимок и возвращает число отброшенных блоков
func (o *Orchestrator) parse(kind, raw string, snap *storage.Snapshot) int {
	switch kind {
	case KindEvents:
		opts := eventOptions(o.cfg)
		snap.Events = extract.ParseEvents(raw, opts)
		return extract.CountUnclosed(raw, opts.StartMarker, opts.EndMarker)

	case KindNews:
		opts := newsOptions(o.cfg)
		blocks := extract.FindBlocks(raw, opts.StartMarker, opts.EndMarker)
		snap.News = extract.ParseNews(raw, opts)
		dropped := len(blocks) - len(snap.News) + extract.CountUnclosed(raw, opts.StartMarker, opts.EndMarker)

		if len(snap.News) == 0 && o.cfg.News.JSONFallback {
			items, err := extract.DecodeNewsJSON(raw, opts)
			if err != nil {
				o.logger.Debug("JSON fallback failed", "kind", kind, "error", err.Error())
			} else {
				o.logger.Info("News decoded from JSON fallback", "items", len(items))
				snap.News = items
			}
		}
		return dropped

	case KindTicker:
		snap.Ticker = extract.CleanTickerLines(raw, tickerOptions(o.cfg))
	}
	return 0
}

func (o *Orchestrator) buildPrompt(kind, pageContext string) (string, error) {
	switch kind {
	case KindEvents:
		return o.prompts.Events(pageContext)
	case KindNews:
		return o.prompts.News(pageContext)
	default:
		return o.prompts.Ticker(pageContext)
	}
}

func (o *Orchestrator) contextURLs(kind string) []string {
	switch kind {
	case KindEvents:
		return o.cfg.Events.ContextURLs
	case KindNews:
		return o.cfg.News.ContextURLs
	}
	return nil
}

// collectContext скачивает страницы-контекст и склеивает их в markdown.
// Недоступные страницы пропускаются.
func (o *Orchestrator) collectContext(ctx context.Context, urls []string) (string, int) {
	if o.fetcher == nil || len(urls) == 0 {
		return "", 0
	}

	var sections []string
	for _, rawURL := range urls {
		pageURL := normalize.NormalizeURL(rawURL)
		resp, err := o.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			o.logger.Warn("Context page fetch failed", "url", pageURL, "error", err.Error())
			continue
		}
		if resp.StatusCode != http.StatusOK {
			o.logger.Warn("Context page skipped", "url", pageURL, "status", resp.StatusCode)
			continue
		}

		page, err := o.normalizer.ParseContextPage(string(resp.Body))
		if err != nil {
			o.logger.Warn("Context page parse failed", "url", pageURL, "error", err.Error())
			continue
		}
		if page.Markdown == "" {
			continue
		}

		section := page.Markdown
		if page.Title != "" {
			section = "## " + page.Title + "\n\n" + section
		}
		sections = append(sections, "Fonte: "+pageURL+"\n\n"+section)
	}

	joined := strings.Join(sections, "\n\n---\n\n")
	return normalize.Truncate(joined, o.cfg.Generator.MaxContextChars), len(sections)
}

func (o *Orchestrator) snapshotHash(snap *storage.Snapshot) string {
	switch snap.Kind {
	case KindEvents:
		return o.hasher.EventsHash(snap.Events)
	case KindNews:
		return o.hasher.NewsHash(snap.News)
	default:
		return o.hasher.TickerHash(snap.Ticker)
	}
}

func (o *Orchestrator) fail(logger *observability.Logger, kind, state, reason, message string, records int) {
	o.metrics.IncFailure(kind, reason)
	o.setStatus(kind, state, message, records)
	logger.Error("Refresh failed", "state", state, "reason", message)
}

func (o *Orchestrator) setStatus(kind, state, reason string, records int) {
	o.mu.Lock()
	o.status[kind] = FeedStatus{State: state, Reason: reason, Records: records, UpdatedAt: time.Now().UTC()}
	o.mu.Unlock()
	o.metrics.SetState(kind, state, States)
}

func classifyGenerationError(err error) (state, reason string) {
	switch {
	case generator.IsAuthError(err):
		return StateNeedsAuthorization, "unauthorized"
	case errors.Is(err, generator.ErrBlocked):
		return StateError, "blocked"
	case errors.Is(err, generator.ErrEmptyResponse):
		return StateError, "empty_response"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StateError, "canceled"
	}
	return StateError, "provider_error"
}
