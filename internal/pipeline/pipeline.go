package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/firecad-etl/internal/cache"
	"github.com/couchcryptid/firecad-etl/internal/domain"
	"github.com/couchcryptid/firecad-etl/internal/observability"
)

// Extractor fetches the source page.
type Extractor interface {
	Fetch(ctx context.Context) (*goquery.Document, error)
}

// Transformer turns a fetched page into a snapshot of incidents.
type Transformer interface {
	Transform(ctx context.Context, doc *goquery.Document) domain.Snapshot
}

// Loader publishes a snapshot downstream.
type Loader interface {
	Load(ctx context.Context, snap domain.Snapshot) error
}

// snapshotKey is the store key of the latest snapshot.
const snapshotKey = "latest"

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Pipeline orchestrates the fetch-transform-store-load cycle.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      Loader
	store       cache.Cache[domain.Snapshot]
	interval    time.Duration
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     *observability.Metrics

	// mu serializes cycles between the run loop and on-demand refreshes.
	mu    sync.Mutex
	ready atomic.Bool
}

// New creates a Pipeline that runs a cycle every interval. loader may be nil.
func New(e Extractor, t Transformer, l Loader, store cache.Cache[domain.Snapshot], interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		store:       store,
		interval:    interval,
		clock:       clockwork.NewRealClock(),
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once a cycle has stored a snapshot, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no fetch cycle has completed yet")
	}
	return nil
}

// Latest returns the most recent snapshot. ok is false when no cycle has
// completed within the snapshot TTL.
func (p *Pipeline) Latest() (domain.Snapshot, bool) {
	return p.store.Get(snapshotKey)
}

// Run executes fetch cycles until the context is cancelled. A failed cycle is
// retried with exponential backoff; a successful one waits for the interval.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := initialBackoff
	for {
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}

		wait := p.interval
		if _, err := p.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				p.logger.Info("pipeline stopping", "reason", ctx.Err())
				return nil
			}
			p.logger.Error("fetch cycle failed", "error", err, "retry_in", backoff)
			wait = backoff
			backoff = retry.NextBackoff(backoff, maxBackoff)
		} else {
			backoff = initialBackoff
		}

		if !p.sleepWithContext(ctx, wait) {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// Refresh runs one cycle immediately and returns the stored snapshot. Calls
// are serialized with the run loop.
func (p *Pipeline) Refresh(ctx context.Context) (domain.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := p.clock.Now()
	defer func() {
		p.metrics.FetchCycleDuration.Observe(p.clock.Since(start).Seconds())
	}()

	doc, err := p.extractor.Fetch(ctx)
	if err != nil {
		p.metrics.FetchCycles.WithLabelValues("error").Inc()
		return domain.Snapshot{}, fmt.Errorf("extract: %w", err)
	}

	snap := p.transformer.Transform(ctx, doc)
	p.observe(snap)

	p.store.Put(snapshotKey, snap)
	p.ready.Store(true)

	if p.loader != nil && len(snap.Incidents) > 0 {
		if err := p.loader.Load(ctx, snap); err != nil {
			p.metrics.FetchCycles.WithLabelValues("error").Inc()
			return snap, fmt.Errorf("load: %w", err)
		}
		p.metrics.IncidentsPublished.Add(float64(len(snap.Incidents)))
	}

	if snap.NoData {
		p.metrics.FetchCycles.WithLabelValues("empty").Inc()
	} else {
		p.metrics.FetchCycles.WithLabelValues("success").Inc()
	}
	return snap, nil
}

// observe records extraction metrics and logs structural conditions.
func (p *Pipeline) observe(snap domain.Snapshot) {
	d := snap.Diagnostics
	p.metrics.IncidentsExtracted.WithLabelValues(snap.Strategy).Add(float64(len(snap.Incidents)))
	p.metrics.BlocksRejected.Add(float64(d.BlocksRejected))
	p.metrics.UnlabeledGroups.Add(float64(d.UnlabeledGroups))
	p.metrics.LastIncidentCount.Set(float64(len(snap.Incidents)))

	switch {
	case d.NoStructure:
		p.logger.Warn("no incident structure found on page", "strategy", snap.Strategy)
	case d.UnlabeledGroups > 0:
		p.logger.Warn("section count does not match groups",
			"strategy", snap.Strategy,
			"sections", d.Sections,
			"groups", d.Groups,
		)
	}
	if d.BlocksRejected > 0 {
		p.logger.Debug("blocks rejected", "count", d.BlocksRejected)
	}
	p.logger.Info("fetch cycle complete", "strategy", snap.Strategy, "records", len(snap.Incidents))
}

func (p *Pipeline) sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := p.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
