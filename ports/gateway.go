package ports

import (
	"context"

	"healthdash/domain/indicator"
)

// CategoryRow is one location's raw reading for an indicator. Value carries
// the stored text verbatim; callers parse it and treat failures as nulls.
type CategoryRow struct {
	LocationID   int64
	LocationName string
	Acronym      string // state scans only
	StateID      int64  // district scans only
	Value        *string
}

// JoinedRow is a pair of raw "total" values for two indicators joined on a
// shared geographic key.
type JoinedRow struct {
	LocationID int64
	X          *string
	Y          *string
}

// DataGateway is the read-only query surface the statistics engines consume.
// A nil stateID always means national scope over states; a non-nil stateID
// means district scope filtered to that state.
type DataGateway interface {
	// IndicatorName resolves a display name; nil when the id is unknown.
	IndicatorName(ctx context.Context, indicatorID int64) (*string, error)

	// CategoryRows returns {location, raw value} for one indicator under the
	// given scope and category column. District scans exclude blocked
	// cluster districts.
	CategoryRows(ctx context.Context, indicatorID int64, column string, stateID *int64) ([]CategoryRow, error)

	// BaselineAverage reads the precomputed comparison column for an
	// indicator: the national average under national scope, the state
	// average under district scope. Nil when absent or unparsable.
	BaselineAverage(ctx context.Context, indicatorID int64, stateID *int64) (*float64, error)

	// JoinedTotals joins two indicators' total values on the shared
	// geographic key for correlation.
	JoinedTotals(ctx context.Context, indicatorX, indicatorY int64, stateID *int64) ([]JoinedRow, error)
}

// CatalogGateway serves the dropdown/catalog lookups of the dashboard.
type CatalogGateway interface {
	States(ctx context.Context) ([]indicator.State, error)
	Districts(ctx context.Context, stateID *int64) ([]indicator.District, error)
	Indicators(ctx context.Context) ([]indicator.Meta, error)
	Categories(ctx context.Context) ([]indicator.Category, error)
	IndicatorsByCategory(ctx context.Context, categoryID int64) ([]indicator.Meta, error)
}
