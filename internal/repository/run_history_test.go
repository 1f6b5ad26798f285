package repository

import (
	"encoding/json"
	"testing"
	"time"

	"PremCast/internal/domain/models"
	"PremCast/internal/services/actuarial"
)

func sampleRun(id string) *models.ProjectionRun {
	return &models.ProjectionRun{
		ID:          id,
		RequestedAt: time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
		Source:      "api",
		LifeBase:    100,
		NonLifeBase: 200,
		Assumptions: actuarial.Assumptions{
			GDPGrowth:              3,
			InflationRate:          2,
			HistoricalTrendFactor:  2,
			AttritionalLossRatio:   60,
			ExpenseRatio:           10,
			ChurnRate:              10,
			NewBusinessRate:        5,
			CatastrophicImpact:     5,
			EconomicDownturnImpact: 3,
			RegulatoryImpact:       1,
			TechImpact:             2,
		},
		Rows: []models.ProjectionRow{
			{Year: 1, Label: "t+1", GWPLife: 34.72, GWPNonLife: 69.43},
			{Year: 2, Label: "t+2", GWPLife: 12.05, GWPNonLife: 24.11},
		},
	}
}

func TestInsertValuesCarriesAssumptionsSnapshot(t *testing.T) {
	run := sampleRun("run-1")
	values, args := insertValues([]*models.ProjectionRun{run})

	if len(values) != 2 {
		t.Fatalf("placeholders = %d, want one per year row", len(values))
	}
	const cols = 7
	if len(args) != 2*cols {
		t.Fatalf("args = %d, want %d", len(args), 2*cols)
	}

	snapshot, ok := args[cols-1].(string)
	if !ok {
		t.Fatalf("assumptions arg is %T, want string", args[cols-1])
	}
	var decoded actuarial.Assumptions
	if err := json.Unmarshal([]byte(snapshot), &decoded); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if decoded != run.Assumptions {
		t.Fatalf("roundtripped assumptions = %+v, want %+v", decoded, run.Assumptions)
	}

	// Both year rows of a run carry the same snapshot.
	if args[2*cols-1] != args[cols-1] {
		t.Fatalf("second row snapshot differs from first")
	}
}

func TestInsertValuesSkipsUnusableRuns(t *testing.T) {
	values, args := insertValues([]*models.ProjectionRun{nil, {ID: ""}})
	if len(values) != 0 || len(args) != 0 {
		t.Fatalf("nil and unidentified runs must be skipped, got %d values", len(values))
	}
}

func TestRunEventCarriesAssumptions(t *testing.T) {
	run := sampleRun("run-2")
	event := runEvent(run)

	a, ok := event["assumptions"].(actuarial.Assumptions)
	if !ok {
		t.Fatalf("event assumptions is %T", event["assumptions"])
	}
	if a != run.Assumptions {
		t.Fatalf("event assumptions = %+v, want %+v", a, run.Assumptions)
	}
	if event["run_id"] != "run-2" {
		t.Fatalf("event run_id = %v", event["run_id"])
	}
}

func TestEncodeAssumptionsFieldNames(t *testing.T) {
	var decoded map[string]float64
	if err := json.Unmarshal([]byte(encodeAssumptions(actuarial.Assumptions{GDPGrowth: 3})), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["gdp_growth"] != 3 {
		t.Fatalf("snapshot keys = %v, want request-style names", decoded)
	}
}
