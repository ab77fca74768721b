package engine

import (
	"context"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"healthdash/domain/indicator"
	"healthdash/internal/errors"
	"healthdash/ports"
)

// AggregationEngine computes per-indicator extremal, central-tendency and
// dispersion statistics at state or district granularity.
type AggregationEngine struct {
	gateway ports.DataGateway
}

// NewAggregationEngine creates a new aggregation engine
func NewAggregationEngine(gateway ports.DataGateway) *AggregationEngine {
	return &AggregationEngine{gateway: gateway}
}

// ComputeStats returns one Stat per requested indicator id, in input order.
// Indicators are independent, so they are computed concurrently; the result
// slice is indexed by input position to keep output deterministic.
func (e *AggregationEngine) ComputeStats(ctx context.Context, req indicator.SelectionRequest) ([]indicator.Stat, error) {
	column, err := req.CategoryType.Column()
	if err != nil {
		return nil, errors.ValidationError(err.Error())
	}
	if len(req.SelectedIndicators) == 0 {
		return nil, errors.ValidationError("at least 1 indicator required")
	}

	results := make([]indicator.Stat, len(req.SelectedIndicators))
	g, gctx := errgroup.WithContext(ctx)

	for i, indicatorID := range req.SelectedIndicators {
		i, indicatorID := i, indicatorID
		g.Go(func() error {
			stat, err := e.computeOne(gctx, indicatorID, column, req)
			if err != nil {
				return err
			}
			results[i] = stat
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *AggregationEngine) computeOne(ctx context.Context, indicatorID int64, column string, req indicator.SelectionRequest) (indicator.Stat, error) {
	stat := indicator.Stat{
		IndicatorID: indicatorID,
		Level:       req.Level(),
	}

	name, err := e.gateway.IndicatorName(ctx, indicatorID)
	if err != nil {
		return stat, errors.Wrapf(err, "lookup indicator %d", indicatorID)
	}
	stat.IndicatorName = name

	rows, err := e.gateway.CategoryRows(ctx, indicatorID, column, req.SelectedState)
	if err != nil {
		return stat, errors.Wrapf(err, "scan rows for indicator %d", indicatorID)
	}

	var (
		values  []float64
		minRow  *ports.CategoryRow
		maxRow  *ports.CategoryRow
		minVal  float64
		maxVal  float64
		minText string
		maxText string
	)

	for i := range rows {
		row := rows[i]
		parsed := safeFloat(row.Value)
		if parsed == nil {
			// Unparsable stored text contributes a null, never aborts.
			continue
		}
		v := *parsed
		values = append(values, v)

		// Ties break lexicographically by location name so repeated runs on
		// unchanged data report the same owner.
		if minRow == nil || v < minVal || (v == minVal && row.LocationName < minRow.LocationName) {
			minRow, minVal, minText = &rows[i], v, *row.Value
		}
		if maxRow == nil || v > maxVal || (v == maxVal && row.LocationName < maxRow.LocationName) {
			maxRow, maxVal, maxText = &rows[i], v, *row.Value
		}
	}

	if minRow != nil {
		composite := indicator.ComposeValueLocation(minText, minRow.LocationName)
		stat.MinValue = &composite
		stat.Lowest = &minVal
		loc := minRow.LocationName
		stat.LowestLocation = &loc
	}
	if maxRow != nil {
		composite := indicator.ComposeValueLocation(maxText, maxRow.LocationName)
		stat.MaxValue = &composite
		stat.Highest = &maxVal
		loc := maxRow.LocationName
		stat.HighestLocation = &loc
	}

	if len(values) > 0 {
		if mean, err := stats.Mean(values); err == nil {
			stat.Mean = &mean
		}
	}
	// Sample standard deviation (divisor n-1); a single observation has no
	// dispersion, so the field stays null.
	if len(values) >= 2 {
		if sd, err := stats.StandardDeviationSample(values); err == nil {
			stat.StdDev = &sd
		}
	}

	baseline, err := e.gateway.BaselineAverage(ctx, indicatorID, req.SelectedState)
	if err != nil {
		return stat, errors.Wrapf(err, "baseline for indicator %d", indicatorID)
	}
	stat.BaselineAvg = baseline

	return stat, nil
}
