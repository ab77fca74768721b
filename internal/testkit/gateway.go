package testkit

import (
	"context"
	"sort"

	"healthdash/domain/indicator"
	"healthdash/ports"
)

// MemoryGateway is an in-memory DataGateway/CatalogGateway backed by fixture
// rows, used by engine and service tests instead of a live database.
type MemoryGateway struct {
	IndicatorNames map[int64]string

	// StateRows[indicatorID][column] -> rows across states.
	StateRows map[int64]map[string][]ports.CategoryRow
	// DistrictRows[indicatorID][column][stateID] -> rows within one state.
	DistrictRows map[int64]map[string]map[int64][]ports.CategoryRow

	// NationalBaselines[indicatorID] and StateBaselines[indicatorID][stateID].
	NationalBaselines map[int64]float64
	StateBaselines    map[int64]map[int64]float64

	StateCatalog    []indicator.State
	DistrictCatalog []indicator.District
	MetaCatalog     []indicator.Meta
	CategoryCatalog []indicator.Category
	CategoryLinks   map[int64][]int64 // categoryID -> indicator ids
}

// NewMemoryGateway creates an empty gateway; tests populate the maps they need.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		IndicatorNames:    map[int64]string{},
		StateRows:         map[int64]map[string][]ports.CategoryRow{},
		DistrictRows:      map[int64]map[string]map[int64][]ports.CategoryRow{},
		NationalBaselines: map[int64]float64{},
		StateBaselines:    map[int64]map[int64]float64{},
		CategoryLinks:     map[int64][]int64{},
	}
}

// AddStateRow seeds one state-level reading for an indicator.
func (g *MemoryGateway) AddStateRow(indicatorID int64, column string, row ports.CategoryRow) {
	if g.StateRows[indicatorID] == nil {
		g.StateRows[indicatorID] = map[string][]ports.CategoryRow{}
	}
	g.StateRows[indicatorID][column] = append(g.StateRows[indicatorID][column], row)
}

// AddDistrictRow seeds one district-level reading for an indicator.
func (g *MemoryGateway) AddDistrictRow(indicatorID int64, column string, stateID int64, row ports.CategoryRow) {
	if g.DistrictRows[indicatorID] == nil {
		g.DistrictRows[indicatorID] = map[string]map[int64][]ports.CategoryRow{}
	}
	if g.DistrictRows[indicatorID][column] == nil {
		g.DistrictRows[indicatorID][column] = map[int64][]ports.CategoryRow{}
	}
	row.StateID = stateID
	g.DistrictRows[indicatorID][column][stateID] = append(g.DistrictRows[indicatorID][column][stateID], row)
}

func (g *MemoryGateway) IndicatorName(ctx context.Context, indicatorID int64) (*string, error) {
	name, ok := g.IndicatorNames[indicatorID]
	if !ok {
		return nil, nil
	}
	return &name, nil
}

func (g *MemoryGateway) CategoryRows(ctx context.Context, indicatorID int64, column string, stateID *int64) ([]ports.CategoryRow, error) {
	if stateID == nil {
		return g.StateRows[indicatorID][column], nil
	}
	byColumn := g.DistrictRows[indicatorID]
	if byColumn == nil {
		return nil, nil
	}
	byState := byColumn[column]
	if byState == nil {
		return nil, nil
	}
	return byState[*stateID], nil
}

func (g *MemoryGateway) BaselineAverage(ctx context.Context, indicatorID int64, stateID *int64) (*float64, error) {
	if stateID == nil {
		if v, ok := g.NationalBaselines[indicatorID]; ok {
			return &v, nil
		}
		return nil, nil
	}
	if byState, ok := g.StateBaselines[indicatorID]; ok {
		if v, ok := byState[*stateID]; ok {
			return &v, nil
		}
	}
	return nil, nil
}

func (g *MemoryGateway) JoinedTotals(ctx context.Context, indicatorX, indicatorY int64, stateID *int64) ([]ports.JoinedRow, error) {
	xRows, err := g.CategoryRows(ctx, indicatorX, "total", stateID)
	if err != nil {
		return nil, err
	}
	yRows, err := g.CategoryRows(ctx, indicatorY, "total", stateID)
	if err != nil {
		return nil, err
	}

	yByLocation := make(map[int64]*string, len(yRows))
	for _, row := range yRows {
		yByLocation[row.LocationID] = row.Value
	}

	joined := make([]ports.JoinedRow, 0, len(xRows))
	for _, row := range xRows {
		yVal, ok := yByLocation[row.LocationID]
		if !ok {
			continue
		}
		joined = append(joined, ports.JoinedRow{LocationID: row.LocationID, X: row.Value, Y: yVal})
	}
	sort.Slice(joined, func(i, j int) bool { return joined[i].LocationID < joined[j].LocationID })
	return joined, nil
}

func (g *MemoryGateway) States(ctx context.Context) ([]indicator.State, error) {
	return g.StateCatalog, nil
}

func (g *MemoryGateway) Districts(ctx context.Context, stateID *int64) ([]indicator.District, error) {
	if stateID == nil {
		return g.DistrictCatalog, nil
	}
	var out []indicator.District
	for _, d := range g.DistrictCatalog {
		if d.StateID == *stateID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (g *MemoryGateway) Indicators(ctx context.Context) ([]indicator.Meta, error) {
	return g.MetaCatalog, nil
}

func (g *MemoryGateway) Categories(ctx context.Context) ([]indicator.Category, error) {
	return g.CategoryCatalog, nil
}

func (g *MemoryGateway) IndicatorsByCategory(ctx context.Context, categoryID int64) ([]indicator.Meta, error) {
	ids := g.CategoryLinks[categoryID]
	var out []indicator.Meta
	for _, m := range g.MetaCatalog {
		for _, id := range ids {
			if m.IndicatorID == id {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}
