package app

import (
	"context"

	"healthdash/adapters/stats/engine"
	"healthdash/domain/indicator"
)

// DashboardService fronts the statistics engines and applies presentation
// rounding. Engines keep full precision internally; the two-decimal rounding
// happens here, once, at the boundary.
type DashboardService struct {
	agg  *engine.AggregationEngine
	corr *engine.CorrelationEngine
}

// NewDashboardService creates the statistics service.
func NewDashboardService(agg *engine.AggregationEngine, corr *engine.CorrelationEngine) *DashboardService {
	return &DashboardService{agg: agg, corr: corr}
}

// Stats computes per-indicator aggregation for the selection, rounded for
// display.
func (s *DashboardService) Stats(ctx context.Context, req indicator.SelectionRequest) ([]indicator.Stat, error) {
	stats, err := s.agg.ComputeStats(ctx, req)
	if err != nil {
		return nil, err
	}
	for i := range stats {
		roundPtr(stats[i].Mean)
		roundPtr(stats[i].StdDev)
		roundPtr(stats[i].BaselineAvg)
	}
	return stats, nil
}

// Correlations computes pairwise coefficients for the selection, rounded for
// display.
func (s *DashboardService) Correlations(ctx context.Context, req indicator.SelectionRequest) ([]indicator.Correlation, error) {
	correlations, err := s.corr.ComputeCorrelations(ctx, req)
	if err != nil {
		return nil, err
	}
	for i := range correlations {
		roundPtr(correlations[i].Correlation)
	}
	return correlations, nil
}

func roundPtr(v *float64) {
	if v != nil {
		*v = engine.Round2(*v)
	}
}
