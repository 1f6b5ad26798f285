package models

import (
	"time"

	"PremCast/internal/services/actuarial"
)

// ProjectionRow is one projected year as exposed to callers. Label carries
// the relative year name ("t+1".."t+5") the table and chart columns use.
type ProjectionRow struct {
	Year       int     `json:"year"`
	Label      string  `json:"label"`
	GWPLife    float64 `json:"gwp_life"`
	GWPNonLife float64 `json:"gwp_non_life"`
}

// ProjectionResult is the response payload for a single projection.
type ProjectionResult struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Cached      bool            `json:"cached"`
	Rows        []ProjectionRow `json:"rows"`
}

// ProjectionRun is a completed run as persisted and published. One run holds
// the inputs alongside all five projected rows.
type ProjectionRun struct {
	ID          string
	RequestedAt time.Time
	Source      string // api, ws, kafka
	LifeBase    float64
	NonLifeBase float64
	Assumptions actuarial.Assumptions
	Rows        []ProjectionRow
}

// RunRow is a single persisted year of a run, the shape of one history
// storage record. The assumptions snapshot repeats on every row of a run
// so each record is interpretable on its own.
type RunRow struct {
	RunID       string                `json:"run_id"`
	RequestedAt time.Time             `json:"requested_at"`
	Source      string                `json:"source"`
	Year        int                   `json:"year"`
	GWPLife     float64               `json:"gwp_life"`
	GWPNonLife  float64               `json:"gwp_non_life"`
	Assumptions actuarial.Assumptions `json:"assumptions"`
}
