package actuarial

import (
	"math"
	"testing"
)

// defaultAssumptions mirrors the documented default inputs.
func defaultAssumptions() Assumptions {
	return Assumptions{
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
	}
}

func TestProjectLengthAndOrder(t *testing.T) {
	rows := Project(100, 200, defaultAssumptions())
	if len(rows) != HorizonYears {
		t.Fatalf("expected %d rows, got %d", HorizonYears, len(rows))
	}
	for i, r := range rows {
		if r.Year != i+1 {
			t.Fatalf("row %d has year %d", i, r.Year)
		}
	}
}

func TestProjectDeterminism(t *testing.T) {
	a := defaultAssumptions()
	first := Project(100, 200, a)
	second := Project(100, 200, a)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("row %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestProjectDefaultScenarioYearOne(t *testing.T) {
	rows := Project(100, 200, defaultAssumptions())

	// 100 * 1.05 * 1.02 * 0.40 * 0.90 * 0.95 * 0.92 * 1.01 * 1.02
	expected := stepReference(100)
	if math.Abs(rows[0].Life-Round2(expected)) > 1e-9 {
		t.Fatalf("year 1 life: got %v, want %v", rows[0].Life, Round2(expected))
	}
	if rows[0].Life != 34.72 {
		t.Fatalf("year 1 life rounded: got %v, want 34.72", rows[0].Life)
	}
	if rows[0].NonLife != 69.43 {
		t.Fatalf("year 1 non-life rounded: got %v, want 69.43", rows[0].NonLife)
	}
}

// stepReference spells out the six steps independently of step() so the test
// does not just re-run the implementation.
func stepReference(v float64) float64 {
	base := v * (1 + 0.03 + 0.02) * (1 + 0.02)
	adj := base * (1 - 0.60) * (1 - 0.10)
	adj *= (1 - 0.10) + 0.05
	adj *= 1 - (5.0+3.0)/100
	return adj * (1 + 0.01) * (1 + 0.02)
}

func TestProjectCarryForward(t *testing.T) {
	a := defaultAssumptions()
	rows := Project(100, 200, a)

	// Unrounded year-1 values must feed year 2; replay the step chain.
	life := step(100.0, a)
	nonLife := step(200.0, a)
	for i := 1; i < HorizonYears; i++ {
		life = step(life, a)
		nonLife = step(nonLife, a)
		if rows[i].Life != Round2(life) {
			t.Fatalf("year %d life: got %v, want %v", i+1, rows[i].Life, Round2(life))
		}
		if rows[i].NonLife != Round2(nonLife) {
			t.Fatalf("year %d non-life: got %v, want %v", i+1, rows[i].NonLife, Round2(nonLife))
		}
	}
}

func TestProjectCarriesUnroundedValues(t *testing.T) {
	// Growth of 200% triples the value each year; the baseline is chosen so
	// that feeding the rounded year-1 figure forward would land on 90.03
	// instead of 90.02.
	a := Assumptions{GDPGrowth: 200}
	rows := Project(10.0017, 0, a)

	unrounded := step(step(10.0017, a), a)
	if rows[1].Life != Round2(unrounded) {
		t.Fatalf("year 2 must derive from the unrounded year 1 value: got %v, want %v",
			rows[1].Life, Round2(unrounded))
	}
	fromRounded := Round2(step(rows[0].Life, a))
	if rows[1].Life == fromRounded {
		t.Fatalf("test inputs no longer distinguish rounded from unrounded carry-forward")
	}
}

func TestProjectZeroBaseline(t *testing.T) {
	rows := Project(0, 0, defaultAssumptions())
	for _, r := range rows {
		if r.Life != 0 || r.NonLife != 0 {
			t.Fatalf("zero baseline must stay zero, got %+v", r)
		}
	}
}

func TestProjectNeutralParameters(t *testing.T) {
	rows := Project(123.45, 67.89, Assumptions{})
	for _, r := range rows {
		if r.Life != 123.45 || r.NonLife != 67.89 {
			t.Fatalf("neutral parameters must return the baseline, got %+v", r)
		}
	}
}

func TestScenarioFloor(t *testing.T) {
	if f := scenarioFactor(70, 30); f != 0 {
		t.Fatalf("scenario factor at 100%% must be exactly 0, got %v", f)
	}
	if f := scenarioFactor(80, 40); f != 0 {
		t.Fatalf("scenario factor beyond 100%% must clamp to 0, got %v", f)
	}
	if f := scenarioFactor(5, 3); f != 1-0.08 {
		t.Fatalf("scenario factor below 100%% must not clamp, got %v", f)
	}

	a := defaultAssumptions()
	a.CatastrophicImpact = 60
	a.EconomicDownturnImpact = 40
	rows := Project(100, 200, a)
	for _, r := range rows {
		if r.Life != 0 || r.NonLife != 0 {
			t.Fatalf("fully stressed scenario must zero all years, got %+v", r)
		}
	}
}

func TestProjectExtremeInputsStayNumeric(t *testing.T) {
	a := defaultAssumptions()
	a.GDPGrowth = -500
	a.InflationRate = -500
	rows := Project(100, 200, a)
	if len(rows) != HorizonYears {
		t.Fatalf("expected %d rows, got %d", HorizonYears, len(rows))
	}
	for _, r := range rows {
		if math.IsNaN(r.Life) || math.IsInf(r.Life, 0) {
			t.Fatalf("extreme inputs must stay finite, got %+v", r)
		}
	}

	// A multiplier below -100% legitimately flips the sign.
	a = Assumptions{RegulatoryImpact: -150}
	rows = Project(100, 200, a)
	if rows[0].Life >= 0 {
		t.Fatalf("regulatory impact below -100%% should produce a negative value, got %v", rows[0].Life)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{34.7156219088, 34.72},
		{69.4312438176, 69.43},
		{-1.005, -1},
		{0, 0},
	}
	for _, c := range cases {
		if got := Round2(c.in); got != c.want {
			t.Fatalf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
