package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"PremCast/internal/domain/models"
	domrepo "PremCast/internal/domain/repository"
	"PremCast/internal/services/actuarial"
	applogger "PremCast/pkg/logger"
)

// ClickHouseRunStore persists projection runs, one row per projected year.
type ClickHouseRunStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

// NewClickHouseRunStore creates ClickHouse-backed run history.
func NewClickHouseRunStore(db *sql.DB, table string) *ClickHouseRunStore {
	return &ClickHouseRunStore{db: db, table: table}
}

// SetLogger injects a structured logger.
func (s *ClickHouseRunStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *ClickHouseRunStore) SaveRun(ctx context.Context, run *models.ProjectionRun) error {
	return s.SaveRuns(ctx, []*models.ProjectionRun{run})
}

func (s *ClickHouseRunStore) SaveRuns(ctx context.Context, runs []*models.ProjectionRun) error {
	if len(runs) == 0 {
		return nil
	}

	values, args := insertValues(runs)
	if len(values) == 0 {
		return nil
	}

	q := fmt.Sprintf(
		"INSERT INTO %s (run_id, requested_at, source, year, gwp_life, gwp_non_life, assumptions) VALUES %s",
		s.table, strings.Join(values, ","),
	)
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse save runs error",
				applogger.String("table", s.table),
				applogger.Int("runs", len(runs)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("save runs: %w", err)
	}
	return nil
}

// insertValues flattens runs into per-year VALUES placeholders and args.
// The assumptions snapshot is stored as JSON alongside every year row.
func insertValues(runs []*models.ProjectionRun) ([]string, []interface{}) {
	values := make([]string, 0, len(runs)*5)
	args := make([]interface{}, 0, len(runs)*5*7)
	for _, run := range runs {
		if run == nil || run.ID == "" {
			continue
		}
		snapshot := encodeAssumptions(run.Assumptions)
		for _, row := range run.Rows {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				run.ID,
				run.RequestedAt,
				run.Source,
				uint8(row.Year),
				row.GWPLife,
				row.GWPNonLife,
				snapshot,
			)
		}
	}
	return values, args
}

// encodeAssumptions serializes the snapshot for storage. Marshaling a flat
// float struct cannot fail.
func encodeAssumptions(a actuarial.Assumptions) string {
	b, _ := json.Marshal(a)
	return string(b)
}

func (s *ClickHouseRunStore) RecentRuns(ctx context.Context, limit int) ([]models.RunRow, error) {
	if limit <= 0 {
		limit = 50
	}

	q := fmt.Sprintf(`
        SELECT run_id, requested_at, source, year, gwp_life, gwp_non_life, assumptions
        FROM %s
        WHERE run_id IN (
            SELECT run_id FROM %s GROUP BY run_id
            ORDER BY max(requested_at) DESC LIMIT ?
        )
        ORDER BY requested_at DESC, run_id, year ASC
    `, s.table, s.table)

	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse recent runs query error",
				applogger.String("table", s.table),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	defer rows.Close()

	out := make([]models.RunRow, 0, limit*5)
	for rows.Next() {
		var r models.RunRow
		var year uint8
		var snapshot string
		if err := rows.Scan(&r.RunID, &r.RequestedAt, &r.Source, &year, &r.GWPLife, &r.GWPNonLife, &snapshot); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		r.Year = int(year)
		if err := json.Unmarshal([]byte(snapshot), &r.Assumptions); err != nil {
			return nil, fmt.Errorf("decode assumptions: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *ClickHouseRunStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseRunStore) Close() error {
	return nil // pool is owned by pkg/clickhouse
}

var _ domrepo.RunStore = (*ClickHouseRunStore)(nil)
