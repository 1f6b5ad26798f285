package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"PremCast/internal/domain/models"
	icache "PremCast/internal/service/cache"
	"PremCast/internal/services/actuarial"
)

func fptr(v float64) *float64 { return &v }

func testRequest() *models.ProjectionRequest {
	return &models.ProjectionRequest{
		GWPLifeBase:            fptr(100),
		GWPNonLifeBase:         fptr(200),
		GDPGrowth:              fptr(3),
		InflationRate:          fptr(2),
		HistoricalTrendFactor:  fptr(2),
		AttritionalLossRatio:   fptr(60),
		ExpenseRatio:           fptr(10),
		ChurnRate:              fptr(10),
		NewBusinessRate:        fptr(5),
		CatastrophicImpact:     fptr(5),
		EconomicDownturnImpact: fptr(3),
		RegulatoryImpact:       fptr(1),
		TechImpact:             fptr(2),
	}
}

type fakeMetrics struct {
	mu     sync.Mutex
	runs   map[string]int
	hits   int
	misses int
	errs   map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{runs: make(map[string]int), errs: make(map[string]int)}
}

func (m *fakeMetrics) RecordRun(source string) {
	m.mu.Lock()
	m.runs[source]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordCacheHit() {
	m.mu.Lock()
	m.hits++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordCacheMiss() {
	m.mu.Lock()
	m.misses++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errs[kind]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordLatency(string, float64)      {}
func (m *fakeMetrics) RecordProjectedGWP(string, float64) {}

type fakeStore struct {
	mu   sync.Mutex
	runs []*models.ProjectionRun
	fail bool
}

func (s *fakeStore) SaveRun(ctx context.Context, run *models.ProjectionRun) error {
	return s.SaveRuns(ctx, []*models.ProjectionRun{run})
}

func (s *fakeStore) SaveRuns(_ context.Context, runs []*models.ProjectionRun) error {
	if s.fail {
		return fmt.Errorf("store unavailable")
	}
	s.mu.Lock()
	s.runs = append(s.runs, runs...)
	s.mu.Unlock()
	return nil
}

func (s *fakeStore) RecentRuns(context.Context, int) ([]models.RunRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.RunRow
	for _, run := range s.runs {
		for _, row := range run.Rows {
			out = append(out, models.RunRow{
				RunID:       run.ID,
				RequestedAt: run.RequestedAt,
				Source:      run.Source,
				Year:        row.Year,
				GWPLife:     row.GWPLife,
				GWPNonLife:  row.GWPNonLife,
				Assumptions: run.Assumptions,
			})
		}
	}
	return out, nil
}

func (s *fakeStore) Health(context.Context) error { return nil }
func (s *fakeStore) Close() error                 { return nil }

func (s *fakeStore) saved() []*models.ProjectionRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.ProjectionRun, len(s.runs))
	copy(out, s.runs)
	return out
}

func TestProjectorRunProducesFiveLabeledYears(t *testing.T) {
	p := NewProjector(nil, 0, newFakeMetrics(), nil)

	res, err := p.Run(context.Background(), testRequest(), "api")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Rows) != actuarial.HorizonYears {
		t.Fatalf("expected %d rows, got %d", actuarial.HorizonYears, len(res.Rows))
	}
	for i, row := range res.Rows {
		if row.Year != i+1 {
			t.Fatalf("row %d: year = %d", i, row.Year)
		}
		want := fmt.Sprintf("t+%d", i+1)
		if row.Label != want {
			t.Fatalf("row %d: label = %q, want %q", i, row.Label, want)
		}
	}
	if res.Cached {
		t.Fatal("fresh run must not be marked cached")
	}
	if res.RunID == "" {
		t.Fatal("fresh run must get an identifier")
	}
}

func TestProjectorRunDefaultScenarioFirstYear(t *testing.T) {
	p := NewProjector(nil, 0, newFakeMetrics(), nil)

	res, err := p.Run(context.Background(), testRequest(), "api")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := res.Rows[0].GWPLife; got != 34.72 {
		t.Fatalf("year one life = %v, want 34.72", got)
	}
	if got := res.Rows[0].GWPNonLife; got != 69.43 {
		t.Fatalf("year one non-life = %v, want 69.43", got)
	}
}

func TestProjectorCacheHitReusesRunIdentity(t *testing.T) {
	metrics := newFakeMetrics()
	p := NewProjector(icache.NewTTLCache(), time.Minute, metrics, nil)

	first, err := p.Run(context.Background(), testRequest(), "api")
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := p.Run(context.Background(), testRequest(), "ws")
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if !second.Cached {
		t.Fatal("second identical request should hit the cache")
	}
	if second.RunID != first.RunID {
		t.Fatalf("cached result changed identity: %s vs %s", second.RunID, first.RunID)
	}
	if len(second.Rows) != len(first.Rows) {
		t.Fatalf("cached rows = %d, want %d", len(second.Rows), len(first.Rows))
	}
	for i := range first.Rows {
		if second.Rows[i] != first.Rows[i] {
			t.Fatalf("row %d differs between fresh and cached result", i)
		}
	}
	if metrics.hits != 1 || metrics.misses != 1 {
		t.Fatalf("cache counters: hits=%d misses=%d", metrics.hits, metrics.misses)
	}
	if metrics.runs["api"] != 1 || metrics.runs["ws"] != 0 {
		t.Fatalf("run counters: %v", metrics.runs)
	}
}

func TestProjectorDistinctRequestsGetDistinctRuns(t *testing.T) {
	p := NewProjector(icache.NewTTLCache(), time.Minute, newFakeMetrics(), nil)

	first, err := p.Run(context.Background(), testRequest(), "api")
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}

	other := testRequest()
	other.GDPGrowth = fptr(4)
	second, err := p.Run(context.Background(), other, "api")
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if second.Cached {
		t.Fatal("different assumptions must not share a cache entry")
	}
	if second.RunID == first.RunID {
		t.Fatal("distinct requests must get distinct run identifiers")
	}
}

func TestProjectorSinkRecordsRuns(t *testing.T) {
	store := &fakeStore{}
	metrics := newFakeMetrics()
	processor := NewRunProcessor(nil, store, metrics, "clickhouse")
	sink := NewRunSink(processor, 8, 1, 50*time.Millisecond)
	sink.Start(context.Background())

	p := NewProjector(nil, 0, metrics, sink)
	res, err := p.Run(context.Background(), testRequest(), "api")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := sink.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	saved := store.saved()
	if len(saved) != 1 {
		t.Fatalf("saved runs = %d, want 1", len(saved))
	}
	if saved[0].ID != res.RunID {
		t.Fatalf("saved run id = %s, want %s", saved[0].ID, res.RunID)
	}
	if saved[0].Source != "api" {
		t.Fatalf("saved run source = %s", saved[0].Source)
	}
	if len(saved[0].Rows) != actuarial.HorizonYears {
		t.Fatalf("saved run rows = %d", len(saved[0].Rows))
	}
	if saved[0].Assumptions.GDPGrowth != 3 || saved[0].Assumptions.AttritionalLossRatio != 60 {
		t.Fatalf("saved run must carry the assumptions snapshot, got %+v", saved[0].Assumptions)
	}
}

func TestRunSinkRejectsAfterStop(t *testing.T) {
	store := &fakeStore{}
	processor := NewRunProcessor(nil, store, newFakeMetrics(), "clickhouse")
	sink := NewRunSink(processor, 4, 4, 50*time.Millisecond)
	sink.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := sink.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if sink.Enqueue(&models.ProjectionRun{ID: "late"}) {
		t.Fatal("enqueue after stop must be rejected")
	}
}

func TestRunProcessorRejectsUnknownBackend(t *testing.T) {
	processor := NewRunProcessor(nil, nil, newFakeMetrics(), "postgres")
	err := processor.Process(context.Background(), &models.ProjectionRun{ID: "x"})
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestRunProcessorNoneBackendDiscards(t *testing.T) {
	metrics := newFakeMetrics()
	processor := NewRunProcessor(nil, nil, metrics, "none")
	if err := processor.Process(context.Background(), &models.ProjectionRun{ID: "x"}); err != nil {
		t.Fatalf("none backend should discard without error: %v", err)
	}
}
