package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"PremCast/internal/domain/models"
	domrepo "PremCast/internal/domain/repository"
	icache "PremCast/internal/service/cache"
	"PremCast/internal/services/actuarial"
	"PremCast/pkg/util"
)

const cacheKeyPrefix = "projection"

// Projector computes GWP projections: result cache in front, the pure
// actuarial engine in the middle, and a write-behind sink for history and
// events. The engine itself never fails; errors here are cache plumbing
// only and degrade to recomputation.
type Projector struct {
	cache    icache.BytesCache
	cacheTTL time.Duration
	metrics  domrepo.Metrics
	sink     *RunSink

	now   func() time.Time
	newID func() string
}

// NewProjector creates a projector. cache and sink may be nil; both are
// optional fast paths around the pure computation.
func NewProjector(cache icache.BytesCache, cacheTTL time.Duration, metrics domrepo.Metrics, sink *RunSink) *Projector {
	return &Projector{
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		sink:     sink,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// cachedResult is the serialized form stored in the result cache.
type cachedResult struct {
	RunID string                 `json:"run_id"`
	Rows  []models.ProjectionRow `json:"rows"`
}

// Run computes the 5-year projection for a validated request. Identical
// requests hit the result cache and reuse the original run identity;
// fresh computations are recorded asynchronously.
func (p *Projector) Run(ctx context.Context, req *models.ProjectionRequest, source string) (*models.ProjectionResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("canonicalize request: %w", err)
	}
	key := icache.Key(cacheKeyPrefix, payload)

	if p.cache != nil {
		if b, ok, cerr := p.cache.GetBytes(key); cerr == nil && ok {
			var cached cachedResult
			if err := json.Unmarshal(b, &cached); err == nil {
				p.metrics.RecordCacheHit()
				return &models.ProjectionResult{
					RunID:       cached.RunID,
					GeneratedAt: p.now(),
					Cached:      true,
					Rows:        cached.Rows,
				}, nil
			}
		} else if cerr != nil {
			p.metrics.RecordError("cache_get")
		}
		p.metrics.RecordCacheMiss()
	}

	start := p.now()
	rows := projectRows(*req.GWPLifeBase, *req.GWPNonLifeBase, toAssumptions(req))
	p.metrics.RecordLatency("project", time.Since(start).Seconds())
	p.metrics.RecordRun(source)

	final := rows[len(rows)-1]
	p.metrics.RecordProjectedGWP("life", final.GWPLife)
	p.metrics.RecordProjectedGWP("non_life", final.GWPNonLife)

	run := &models.ProjectionRun{
		ID:          p.newID(),
		RequestedAt: start,
		Source:      source,
		LifeBase:    *req.GWPLifeBase,
		NonLifeBase: *req.GWPNonLifeBase,
		Assumptions: toAssumptions(req),
		Rows:        rows,
	}

	if p.cache != nil {
		if b, err := json.Marshal(cachedResult{RunID: run.ID, Rows: rows}); err == nil {
			if err := p.cache.SetBytes(key, b, p.cacheTTL); err != nil {
				p.metrics.RecordError("cache_set")
			}
		}
	}

	if p.sink != nil {
		if !p.sink.Enqueue(run) {
			p.metrics.RecordError("sink_full")
		}
	}

	return &models.ProjectionResult{
		RunID:       run.ID,
		GeneratedAt: start,
		Cached:      false,
		Rows:        rows,
	}, nil
}

// projectRows runs the engine and attaches presentation labels.
func projectRows(lifeBase, nonLifeBase float64, a actuarial.Assumptions) []models.ProjectionRow {
	years := actuarial.Project(lifeBase, nonLifeBase, a)
	rows := make([]models.ProjectionRow, len(years))
	for i, y := range years {
		rows[i] = models.ProjectionRow{
			Year:       y.Year,
			Label:      util.YearLabel(y.Year),
			GWPLife:    y.Life,
			GWPNonLife: y.NonLife,
		}
	}
	return rows
}

func toAssumptions(req *models.ProjectionRequest) actuarial.Assumptions {
	return actuarial.Assumptions{
		GDPGrowth:              *req.GDPGrowth,
		InflationRate:          *req.InflationRate,
		HistoricalTrendFactor:  *req.HistoricalTrendFactor,
		AttritionalLossRatio:   *req.AttritionalLossRatio,
		ExpenseRatio:           *req.ExpenseRatio,
		ChurnRate:              *req.ChurnRate,
		NewBusinessRate:        *req.NewBusinessRate,
		CatastrophicImpact:     *req.CatastrophicImpact,
		EconomicDownturnImpact: *req.EconomicDownturnImpact,
		RegulatoryImpact:       *req.RegulatoryImpact,
		TechImpact:             *req.TechImpact,
	}
}
