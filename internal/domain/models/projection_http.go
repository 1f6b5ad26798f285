package models

// ProjectionRequest carries the baseline pair and the eleven percentage
// drivers. Omitted fields take the documented default assumptions;
// validation bounds mirror the planning UI slider ranges. Fields are
// pointers so an explicit zero survives defaulting.
type ProjectionRequest struct {
	GWPLifeBase    *float64 `json:"gwp_life_base" query:"gwp_life_base" default:"100" validate:"required,gte=0"`
	GWPNonLifeBase *float64 `json:"gwp_non_life_base" query:"gwp_non_life_base" default:"200" validate:"required,gte=0"`

	GDPGrowth             *float64 `json:"gdp_growth" query:"gdp_growth" default:"3" validate:"required,gte=-5,lte=10"`
	InflationRate         *float64 `json:"inflation_rate" query:"inflation_rate" default:"2" validate:"required,gte=0,lte=15"`
	HistoricalTrendFactor *float64 `json:"historical_trend_factor" query:"historical_trend_factor" default:"2" validate:"required,gte=-2,lte=10"`

	AttritionalLossRatio *float64 `json:"attritional_loss_ratio" query:"attritional_loss_ratio" default:"60" validate:"required,gte=0,lte=100"`
	ExpenseRatio         *float64 `json:"expense_ratio" query:"expense_ratio" default:"10" validate:"required,gte=0,lte=50"`

	ChurnRate       *float64 `json:"churn_rate" query:"churn_rate" default:"10" validate:"required,gte=0,lte=50"`
	NewBusinessRate *float64 `json:"new_business_rate" query:"new_business_rate" default:"5" validate:"required,gte=0,lte=50"`

	CatastrophicImpact     *float64 `json:"catastrophic_impact" query:"catastrophic_impact" default:"5" validate:"required,gte=0,lte=50"`
	EconomicDownturnImpact *float64 `json:"economic_downturn_impact" query:"economic_downturn_impact" default:"3" validate:"required,gte=0,lte=50"`

	RegulatoryImpact *float64 `json:"regulatory_impact" query:"regulatory_impact" default:"1" validate:"required,gte=-10,lte=10"`
	TechImpact       *float64 `json:"tech_impact" query:"tech_impact" default:"2" validate:"required,gte=-10,lte=10"`
}

// HistoryRequest filters the run history listing.
type HistoryRequest struct {
	Limit int `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=1000"`
}
