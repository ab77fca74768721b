package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthdash/adapters/llm"
	"healthdash/adapters/stats/engine"
	"healthdash/domain/indicator"
	"healthdash/internal/config"
	apperrors "healthdash/internal/errors"
	"healthdash/internal/narrative"
	"healthdash/internal/testkit"
)

func newServices(narrator *llm.MockNarrator) (*DashboardService, *SummaryService) {
	gw := testkit.NewSeededGateway()
	dashboard := NewDashboardService(engine.NewAggregationEngine(gw), engine.NewCorrelationEngine(gw))
	validator := narrative.NewValidator(narrative.DefaultQualityConfig())
	narCfg := config.NarratorConfig{
		Temperature: 0.5, TopP: 0.9, RepeatPenalty: 1.1,
		MaxTokens: 500, Timeout: 5 * time.Second,
	}
	return dashboard, NewSummaryService(dashboard, narrator, validator, narCfg)
}

func nationalRequest(ids ...int64) indicator.SelectionRequest {
	return indicator.SelectionRequest{
		SelectedIndicators: ids,
		CategoryType:       indicator.CategoryTotal,
	}
}

func TestStatsRoundsAtBoundary(t *testing.T) {
	dashboard, _ := newServices(&llm.MockNarrator{})
	stats, err := dashboard.Stats(context.Background(), nationalRequest(testkit.IndicatorAnemia))
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.NotNil(t, stats[0].Mean)
	// (57.2+61.8+44.1+39.5)/4 = 50.65 survives rounding unchanged
	assert.Equal(t, 50.65, *stats[0].Mean)
	require.NotNil(t, stats[0].StdDev)
	assert.Equal(t, engine.Round2(*stats[0].StdDev), *stats[0].StdDev)
}

func TestCorrelationsRoundsAtBoundary(t *testing.T) {
	dashboard, _ := newServices(&llm.MockNarrator{})
	correlations, err := dashboard.Correlations(context.Background(),
		nationalRequest(testkit.IndicatorAnemia, testkit.IndicatorStunting))
	require.NoError(t, err)
	require.Len(t, correlations, 1)
	require.NotNil(t, correlations[0].Correlation)
	assert.Equal(t, engine.Round2(*correlations[0].Correlation), *correlations[0].Correlation)
}

func TestSummarizeAcceptedNarrative(t *testing.T) {
	narrator := &llm.MockNarrator{Response: narrative.SummaryHeader + "\n\n" +
		"Anemia prevalence among women is lowest in Westfall at 39.5 and peaks at 61.8 in Eastland, " +
		"above the national baseline of 50.7. Stunting tracks the same geography, with Westfall again " +
		"recording the strongest outcome."}
	_, summaries := newServices(narrator)

	out, err := summaries.Summarize(context.Background(),
		nationalRequest(testkit.IndicatorAnemia, testkit.IndicatorStunting))
	require.NoError(t, err)

	assert.Equal(t, 1, narrator.Calls)
	assert.Contains(t, narrator.LastRequest.Prompt, "Westfall")
	assert.Contains(t, out, "Westfall")
	assert.True(t, strings.Contains(out, narrative.SummaryHeader))
}

func TestSummarizeRejectedNarrativeSynthesizes(t *testing.T) {
	narrator := &llm.MockNarrator{Response: "Looks fine."}
	_, summaries := newServices(narrator)

	out, err := summaries.Summarize(context.Background(),
		nationalRequest(testkit.IndicatorAnemia, testkit.IndicatorStunting))
	require.NoError(t, err)

	assert.Contains(t, out, "### Highlights")
	assert.Contains(t, out, "Westfall")
}

func TestSummarizeNarratorFailureFallsBack(t *testing.T) {
	narrator := &llm.MockNarrator{Err: errors.New("connection refused")}
	_, summaries := newServices(narrator)

	out, err := summaries.Summarize(context.Background(), nationalRequest(testkit.IndicatorAnemia))
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Contains(t, out, narrative.SummaryHeader)
	assert.Contains(t, out, "anemia burden")
}

func TestSummarizeInvalidCategoryReturnsError(t *testing.T) {
	_, summaries := newServices(&llm.MockNarrator{})
	_, err := summaries.Summarize(context.Background(), indicator.SelectionRequest{
		SelectedIndicators: []int64{testkit.IndicatorAnemia},
		CategoryType:       "Tribal",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSummarizeDistrictScope(t *testing.T) {
	narrator := &llm.MockNarrator{Err: errors.New("down")}
	_, summaries := newServices(narrator)

	state := testkit.StateNorthID
	out, err := summaries.Summarize(context.Background(), indicator.SelectionRequest{
		SelectedIndicators: []int64{testkit.IndicatorAnemia},
		CategoryType:       indicator.CategoryST,
		SelectedState:      &state,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Contains(t, narrator.LastRequest.Prompt, "district level")
}
