package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"healthdash/ports"
)

// survey data columns that may be read per category
var allowedColumns = map[string]bool{
	"st":     true,
	"non_st": true,
	"total":  true,
}

// dataGateway implements the DataGateway interface over the NFHS survey tables.
type dataGateway struct {
	db      *sqlx.DB
	blocked map[int64]bool // cluster districts excluded from district scans
}

// NewDataGateway creates a survey data gateway. Districts whose ids appear in
// blocked are excluded from every district-level scan.
func NewDataGateway(db *sqlx.DB, blocked map[int64]bool) ports.DataGateway {
	if blocked == nil {
		blocked = map[int64]bool{}
	}
	return &dataGateway{db: db, blocked: blocked}
}

// IndicatorName resolves an indicator display name; nil when the id is unknown.
func (g *dataGateway) IndicatorName(ctx context.Context, indicatorID int64) (*string, error) {
	var name string
	err := g.db.GetContext(ctx, &name,
		`SELECT indicator_name FROM indicators WHERE indicator_id = $1`, indicatorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve indicator name: %w", err)
	}
	return &name, nil
}

// CategoryRows reads one indicator's raw values per location. National scope
// scans states; a non-nil stateID scans that state's districts minus the
// blocked set.
func (g *dataGateway) CategoryRows(ctx context.Context, indicatorID int64, column string, stateID *int64) ([]ports.CategoryRow, error) {
	if !allowedColumns[column] {
		return nil, fmt.Errorf("invalid data column: %s", column)
	}

	if stateID == nil {
		return g.stateRows(ctx, indicatorID, column)
	}
	return g.districtRows(ctx, indicatorID, column, *stateID)
}

func (g *dataGateway) stateRows(ctx context.Context, indicatorID int64, column string) ([]ports.CategoryRow, error) {
	query := fmt.Sprintf(`SELECT s.state_id, s.state_name, s.state_acronym, d.%s AS value
		FROM nfhs_state_data d
		JOIN states s ON s.state_id = d.state_id
		WHERE d.indicator_id = $1
		ORDER BY s.state_name`, column)

	rows, err := g.db.QueryContext(ctx, query, indicatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query state data: %w", err)
	}
	defer rows.Close()

	var out []ports.CategoryRow
	for rows.Next() {
		var r ports.CategoryRow
		if err := rows.Scan(&r.LocationID, &r.LocationName, &r.Acronym, &r.Value); err != nil {
			return nil, fmt.Errorf("failed to scan state row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (g *dataGateway) districtRows(ctx context.Context, indicatorID int64, column string, stateID int64) ([]ports.CategoryRow, error) {
	query := fmt.Sprintf(`SELECT dt.district_id, dt.district_name, dt.state_id, d.%s AS value
		FROM nfhs_district_data d
		JOIN districts dt ON dt.district_id = d.district_id
		WHERE d.indicator_id = $1 AND dt.state_id = $2
		ORDER BY dt.district_name`, column)

	rows, err := g.db.QueryContext(ctx, query, indicatorID, stateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query district data: %w", err)
	}
	defer rows.Close()

	var out []ports.CategoryRow
	for rows.Next() {
		var r ports.CategoryRow
		if err := rows.Scan(&r.LocationID, &r.LocationName, &r.StateID, &r.Value); err != nil {
			return nil, fmt.Errorf("failed to scan district row: %w", err)
		}
		if g.blocked[r.LocationID] {
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// BaselineAverage reads the precomputed comparison column: the national
// average at national scope, the state average at district scope. The column
// is stored as text; unparsable or absent values yield nil.
func (g *dataGateway) BaselineAverage(ctx context.Context, indicatorID int64, stateID *int64) (*float64, error) {
	var raw sql.NullString
	var err error
	if stateID == nil {
		err = g.db.GetContext(ctx, &raw,
			`SELECT nat_avg_total FROM nfhs_state_data WHERE indicator_id = $1 LIMIT 1`, indicatorID)
	} else {
		err = g.db.GetContext(ctx, &raw,
			`SELECT d.st_avg_total
			FROM nfhs_district_data d
			JOIN districts dt ON dt.district_id = d.district_id
			WHERE d.indicator_id = $1 AND dt.state_id = $2
			LIMIT 1`, indicatorID, *stateID)
	}
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query baseline average: %w", err)
	}
	if !raw.Valid {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw.String), 64)
	if err != nil {
		return nil, nil
	}
	return &v, nil
}

// JoinedTotals pairs two indicators' total values on the shared geographic
// key. District scope applies the blocked-district exclusion to both sides.
func (g *dataGateway) JoinedTotals(ctx context.Context, indicatorX, indicatorY int64, stateID *int64) ([]ports.JoinedRow, error) {
	var query string
	var args []any
	if stateID == nil {
		query = `SELECT x.state_id, x.total AS x, y.total AS y
			FROM nfhs_state_data x
			JOIN nfhs_state_data y ON y.state_id = x.state_id
			WHERE x.indicator_id = $1 AND y.indicator_id = $2
			ORDER BY x.state_id`
		args = []any{indicatorX, indicatorY}
	} else {
		query = `SELECT x.district_id, x.total AS x, y.total AS y
			FROM nfhs_district_data x
			JOIN nfhs_district_data y ON y.district_id = x.district_id
			JOIN districts dt ON dt.district_id = x.district_id
			WHERE x.indicator_id = $1 AND y.indicator_id = $2 AND dt.state_id = $3
			ORDER BY x.district_id`
		args = []any{indicatorX, indicatorY, *stateID}
	}

	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query joined totals: %w", err)
	}
	defer rows.Close()

	var out []ports.JoinedRow
	for rows.Next() {
		var r ports.JoinedRow
		if err := rows.Scan(&r.LocationID, &r.X, &r.Y); err != nil {
			return nil, fmt.Errorf("failed to scan joined row: %w", err)
		}
		if stateID != nil && g.blocked[r.LocationID] {
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
