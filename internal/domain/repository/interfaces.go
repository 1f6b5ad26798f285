package repository

import (
	"context"

	"PremCast/internal/domain/models"
)

// RunStore persists completed projection runs.
type RunStore interface {
	SaveRun(ctx context.Context, run *models.ProjectionRun) error
	SaveRuns(ctx context.Context, runs []*models.ProjectionRun) error
	RecentRuns(ctx context.Context, limit int) ([]models.RunRow, error)
	Health(ctx context.Context) error
	Close() error
}

// Publisher emits run-completed events to the message backend.
type Publisher interface {
	PublishRun(ctx context.Context, run *models.ProjectionRun) error
	PublishRuns(ctx context.Context, runs []*models.ProjectionRun) error
	Close() error
}

// Metrics records operational metrics for projection processing.
type Metrics interface {
	RecordRun(source string)
	RecordCacheHit()
	RecordCacheMiss()
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordProjectedGWP(line string, value float64)
}
