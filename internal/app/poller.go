package app

import (
	"context"
	"errors"
	"time"

	"radio-content-parser/internal/observability"
)

const defaultPollInterval = 15 * time.Minute

// Refresher одна итерация обновления ленты
type Refresher interface {
	Refresh(ctx context.Context, kind string) (*RefreshStats, error)
}

// Poller обновляет ленты с интервалом; упавшие ленты ждут дольше
type Poller struct {
	refresher  Refresher
	logger     *observability.Logger
	interval   time.Duration
	maxBackoff time.Duration
	kinds      []string

	failures map[string]int
	nextRun  map[string]time.Time
	now      func() time.Time
}

func NewPoller(r Refresher, logger *observability.Logger, interval, maxBackoff time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if maxBackoff < interval {
		maxBackoff = interval
	}
	return &Poller{
		refresher:  r,
		logger:     logger,
		interval:   interval,
		maxBackoff: maxBackoff,
		kinds:      Kinds,
		failures:   make(map[string]int),
		nextRun:    make(map[string]time.Time),
		now:        time.Now,
	}
}

// Run блокирует до отмены ctx
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.tick(ctx)
		select {
		case <-ctx.Done():
			p.logger.Info("Poller stopped", "reason", ctx.Err().Error())
			return
		case <-ticker.C:
		}
	}
}

// tick обновляет ленты, у которых подошло время
func (p *Poller) tick(ctx context.Context) {
	for _, kind := range p.kinds {
		if ctx.Err() != nil {
			return
		}
		if next, ok := p.nextRun[kind]; ok && p.now().Before(next) {
			continue
		}

		_, err := p.refresher.Refresh(ctx, kind)
		switch {
		case err == nil:
			p.failures[kind] = 0
			p.nextRun[kind] = p.now().Add(p.interval)
		case errors.Is(err, ErrRefreshInFlight):
		default:
			p.failures[kind]++
			wait := calculateBackoff(p.failures[kind], p.interval, p.maxBackoff)
			p.nextRun[kind] = p.now().Add(wait)
			p.logger.Warn("Feed refresh failed, backing off",
				"kind", kind,
				"failures", p.failures[kind],
				"next_in", wait.String(),
				"error", err.Error(),
			)
		}
	}
}

// calculateBackoff: interval * 2^failures, не больше maxBackoff
func calculateBackoff(failures int, interval, maxBackoff time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	backoff := interval
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
