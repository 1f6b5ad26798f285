package actuarial

import "math"

// HorizonYears is the projection horizon. Each year feeds the next, so the
// output always holds exactly this many records.
const HorizonYears = 5

// Assumptions holds the percentage drivers for a projection run. All values
// are on the 0-100 scale (3.5 means 3.5%). The struct is passed by value and
// never mutated; the same set applies to both lines.
type Assumptions struct {
	GDPGrowth              float64 `json:"gdp_growth"`
	InflationRate          float64 `json:"inflation_rate"`
	HistoricalTrendFactor  float64 `json:"historical_trend_factor"`
	AttritionalLossRatio   float64 `json:"attritional_loss_ratio"`
	ExpenseRatio           float64 `json:"expense_ratio"`
	ChurnRate              float64 `json:"churn_rate"`
	NewBusinessRate        float64 `json:"new_business_rate"`
	CatastrophicImpact     float64 `json:"catastrophic_impact"`
	EconomicDownturnImpact float64 `json:"economic_downturn_impact"`
	RegulatoryImpact       float64 `json:"regulatory_impact"`
	TechImpact             float64 `json:"tech_impact"`
}

// YearProjection is one projected year. Life and NonLife are rounded to two
// decimals for presentation; the iteration itself carries full precision.
type YearProjection struct {
	Year    int
	Life    float64
	NonLife float64
}

// Project computes the 5-year GWP projection for both lines from the given
// baselines. It is a total function: out-of-range inputs flow through the
// arithmetic without error. Same input, same output, always 5 records.
func Project(lifeBase, nonLifeBase float64, a Assumptions) []YearProjection {
	out := make([]YearProjection, 0, HorizonYears)

	life, nonLife := lifeBase, nonLifeBase
	for year := 1; year <= HorizonYears; year++ {
		life = step(life, a)
		nonLife = step(nonLife, a)
		out = append(out, YearProjection{
			Year:    year,
			Life:    Round2(life),
			NonLife: Round2(nonLife),
		})
	}
	return out
}

// step applies one year of the methodology to a single line:
// base growth, loss/expense erosion, churn plus new business, scenario
// haircut, and regulatory/technology adjustments, in that order.
func step(v float64, a Assumptions) float64 {
	gdp := a.GDPGrowth / 100
	inflation := a.InflationRate / 100
	trend := a.HistoricalTrendFactor / 100
	lossRatio := a.AttritionalLossRatio / 100
	expense := a.ExpenseRatio / 100
	churn := a.ChurnRate / 100
	newBusiness := a.NewBusinessRate / 100
	regulatory := a.RegulatoryImpact / 100
	tech := a.TechImpact / 100

	// GDP and inflation add before compounding with the historical trend.
	base := v * (1 + gdp + inflation) * (1 + trend)

	// Claims and expense load erode the written premium as one factor.
	adjusted := base * (1 - lossRatio) * (1 - expense)

	// Retained book plus newly acquired business.
	adjusted *= (1 - churn) + newBusiness

	adjusted *= scenarioFactor(a.CatastrophicImpact, a.EconomicDownturnImpact)

	return adjusted * (1 + regulatory) * (1 + tech)
}

// scenarioFactor combines the catastrophe and downturn haircuts, floored at
// zero. The percentages are summed before scaling so the floor engages
// exactly when they total 100.
func scenarioFactor(catImpact, downturnImpact float64) float64 {
	f := 1 - (catImpact+downturnImpact)/100
	return math.Max(f, 0)
}

// Round2 rounds to two decimal places, used only at record emission.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
