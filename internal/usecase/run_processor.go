package usecase

import (
	"context"
	"fmt"
	"time"

	"PremCast/internal/domain/models"
	domrepo "PremCast/internal/domain/repository"
)

// RunProcessor routes completed runs to the configured history backend.
type RunProcessor struct {
	pub     domrepo.Publisher
	store   domrepo.RunStore
	metrics domrepo.Metrics
	backend string
}

// NewRunProcessor creates a RunProcessor. Either repository may be nil when
// the corresponding backend is not configured.
func NewRunProcessor(pub domrepo.Publisher, store domrepo.RunStore, metrics domrepo.Metrics, backend string) *RunProcessor {
	return &RunProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
	}
}

// Process records a single run on the configured backend.
func (p *RunProcessor) Process(ctx context.Context, run *models.ProjectionRun) error {
	if run == nil {
		return fmt.Errorf("run is nil")
	}
	return p.ProcessBatch(ctx, []*models.ProjectionRun{run})
}

// ProcessBatch records multiple runs in one backend call.
func (p *RunProcessor) ProcessBatch(ctx context.Context, runs []*models.ProjectionRun) error {
	if len(runs) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishRuns(ctx, runs)
	case "clickhouse":
		err = p.store.SaveRuns(ctx, runs)
	case "none":
		return nil
	default:
		err = fmt.Errorf("unknown history backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("record_runs")
		return fmt.Errorf("record runs: %w", err)
	}

	p.metrics.RecordLatency("record_runs", time.Since(start).Seconds())
	return nil
}

// Close closes underlying resources if available.
func (p *RunProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
