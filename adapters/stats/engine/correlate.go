package engine

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat"

	"healthdash/domain/indicator"
	"healthdash/internal/errors"
	"healthdash/ports"
)

// CorrelationEngine computes pairwise Pearson correlation between selected
// indicators joined on the shared geographic key.
type CorrelationEngine struct {
	gateway ports.DataGateway
}

// NewCorrelationEngine creates a new correlation engine
func NewCorrelationEngine(gateway ports.DataGateway) *CorrelationEngine {
	return &CorrelationEngine{gateway: gateway}
}

// ComputeCorrelations enumerates every unordered pair (i < j over the input
// order) and returns one Correlation per pair. Coefficients are unrounded
// here; rounding happens at the service boundary.
func (e *CorrelationEngine) ComputeCorrelations(ctx context.Context, req indicator.SelectionRequest) ([]indicator.Correlation, error) {
	ids := req.SelectedIndicators
	if len(ids) < 2 {
		return nil, errors.ValidationError("at least 2 indicators required for correlation")
	}

	level := req.Level()
	correlations := make([]indicator.Correlation, 0, len(ids)*(len(ids)-1)/2)

	names := make(map[int64]*string, len(ids))
	for _, id := range ids {
		name, err := e.gateway.IndicatorName(ctx, id)
		if err != nil {
			return nil, errors.Wrapf(err, "lookup indicator %d", id)
		}
		names[id] = name
	}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			coeff, err := e.pairCorrelation(ctx, ids[i], ids[j], req.SelectedState)
			if err != nil {
				return nil, err
			}
			correlations = append(correlations, indicator.Correlation{
				IndicatorXID:   ids[i],
				IndicatorXName: names[ids[i]],
				IndicatorYID:   ids[j],
				IndicatorYName: names[ids[j]],
				Correlation:    coeff,
				Level:          level,
			})
		}
	}

	return correlations, nil
}

// pairCorrelation joins the two indicators' total values and computes
// Pearson's r. Returns nil when the computation is undefined: an empty join,
// fewer than two complete rows, or a zero-variance series.
func (e *CorrelationEngine) pairCorrelation(ctx context.Context, indicatorX, indicatorY int64, stateID *int64) (*float64, error) {
	rows, err := e.gateway.JoinedTotals(ctx, indicatorX, indicatorY, stateID)
	if err != nil {
		return nil, errors.Wrapf(err, "join indicators %d and %d", indicatorX, indicatorY)
	}

	xs := make([]float64, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	for _, row := range rows {
		x := safeFloat(row.X)
		y := safeFloat(row.Y)
		if x == nil || y == nil {
			continue
		}
		xs = append(xs, *x)
		ys = append(ys, *y)
	}

	if len(xs) < 2 {
		return nil, nil
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, nil
	}
	return &r, nil
}
