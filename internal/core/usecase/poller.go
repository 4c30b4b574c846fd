package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/HamiltonMussi/doclytics-go/internal/core/cache"
	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
)

const (
	defaultPollInterval           = 3 * time.Second
	defaultPollMaxConsecutiveFail = 10
)

// TickOutcome labels what a single poll tick produced.
type TickOutcome string

const (
	TickSuccess      TickOutcome = "success"
	TickTerminal     TickOutcome = "terminal"
	TickConnectivity TickOutcome = "connectivity_error"
	TickServiceError TickOutcome = "service_error"
	TickAbandoned    TickOutcome = "abandoned"
)

// DocumentFetcher is the one remote call the poller needs.
type DocumentFetcher interface {
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
}

type PollerConfig struct {
	// Interval between ticks. Defaults to 3 s.
	Interval time.Duration
	// MaxConsecutiveFailures bounds tolerated non-connectivity tick errors
	// before the poll is abandoned with a single diagnostic. Defaults to 10.
	MaxConsecutiveFailures int
	// OnTick, when set, observes the outcome of every tick.
	OnTick func(documentID string, outcome TickOutcome)
}

func (c PollerConfig) normalize() PollerConfig {
	out := c
	if out.Interval <= 0 {
		out.Interval = defaultPollInterval
	}
	if out.MaxConsecutiveFailures <= 0 {
		out.MaxConsecutiveFailures = defaultPollMaxConsecutiveFail
	}
	return out
}

// StatusPoller repeatedly fetches the selected document's state until it
// reaches a terminal OCR status, merging every fetched snapshot into the
// document cache. At most one poll loop is ever active; selecting a new
// document deterministically cancels the previous loop before arming a new
// one, and no tick runs after cancellation returns.
type StatusPoller struct {
	fetcher DocumentFetcher
	cache   *cache.DocumentCache
	cfg     PollerConfig
	logger  *slog.Logger

	// startMu serializes SetActiveDocument/Stop so two racing selections
	// can never leave two loops armed.
	startMu sync.Mutex

	mu       sync.Mutex
	activeID string
	run      *pollRun
}

type pollRun struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func NewStatusPoller(fetcher DocumentFetcher, docs *cache.DocumentCache, cfg PollerConfig, logger *slog.Logger) *StatusPoller {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusPoller{
		fetcher: fetcher,
		cache:   docs,
		cfg:     cfg.normalize(),
		logger:  logger,
	}
}

// SetActiveDocument re-evaluates the activation rule for id: polling runs if
// and only if the selected document's cached status is PENDING or PROCESSING.
// Any previous poll is stopped first; an empty id just deactivates.
func (p *StatusPoller) SetActiveDocument(id string) {
	p.startMu.Lock()
	defer p.startMu.Unlock()

	p.stopCurrent()

	if id == "" {
		return
	}
	doc, ok := p.cache.Get(id)
	if !ok || !doc.OcrStatus.Active() {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	run := &pollRun{cancel: cancel, done: make(chan struct{})}

	p.mu.Lock()
	p.activeID = id
	p.run = run
	p.mu.Unlock()

	go p.loop(ctx, id, run)
}

// ActiveDocument returns the id currently being polled, or empty.
func (p *StatusPoller) ActiveDocument() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activeID
}

// Stop deactivates polling. Synchronous: no tick runs after it returns.
func (p *StatusPoller) Stop() {
	p.startMu.Lock()
	defer p.startMu.Unlock()

	p.stopCurrent()
}

func (p *StatusPoller) stopCurrent() {
	p.mu.Lock()
	run := p.run
	p.run = nil
	p.activeID = ""
	p.mu.Unlock()

	if run != nil {
		run.cancel()
		<-run.done
	}
}

// finish clears the active state if run is still the current one. The loop
// calls it on self-termination; an interleaved SetActiveDocument may already
// have replaced the run, in which case the new state is left alone.
func (p *StatusPoller) finish(run *pollRun) {
	p.mu.Lock()
	if p.run == run {
		p.run = nil
		p.activeID = ""
	}
	p.mu.Unlock()
}

func (p *StatusPoller) loop(ctx context.Context, id string, run *pollRun) {
	defer close(run.done)
	defer run.cancel()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		doc, err := p.fetcher.GetDocument(ctx, id)
		switch {
		case err == nil:
			failures = 0
			p.cache.Upsert(*doc)
			if doc.OcrStatus.Terminal() {
				p.observe(id, TickTerminal)
				p.finish(run)
				return
			}
			p.observe(id, TickSuccess)

		case errors.Is(err, context.Canceled):
			return

		case domain.IsKind(err, domain.ErrConnectivity):
			// Unrecoverable for this session: stop rather than retry-storm
			// a dead network. The UI keeps the last known status.
			p.logger.Warn("poll_stopped_connectivity", "document_id", id, "error", err)
			p.observe(id, TickConnectivity)
			p.finish(run)
			return

		default:
			failures++
			if failures >= p.cfg.MaxConsecutiveFailures {
				p.logger.Error("poll_abandoned",
					"document_id", id,
					"consecutive_failures", failures,
					"error", err,
				)
				p.observe(id, TickAbandoned)
				p.finish(run)
				return
			}
			p.observe(id, TickServiceError)
		}
	}
}

func (p *StatusPoller) observe(id string, outcome TickOutcome) {
	if p.cfg.OnTick != nil {
		p.cfg.OnTick(id, outcome)
	}
}
