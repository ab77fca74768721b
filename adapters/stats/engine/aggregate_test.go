package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthdash/domain/indicator"
	"healthdash/internal/errors"
	"healthdash/internal/testkit"
	"healthdash/ports"
)

func int64Ptr(v int64) *int64 { return &v }
func strPtr(s string) *string { return &s }
func nilStr() *string         { return nil }

func TestComputeStats_NationalScope(t *testing.T) {
	gw := testkit.NewSeededGateway()
	eng := NewAggregationEngine(gw)

	req := indicator.SelectionRequest{
		SelectedIndicators: []int64{testkit.IndicatorAnemia, testkit.IndicatorStunting},
		CategoryType:       indicator.CategoryTotal,
	}

	stats, err := eng.ComputeStats(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	anemia := stats[0]
	assert.Equal(t, testkit.IndicatorAnemia, anemia.IndicatorID)
	require.NotNil(t, anemia.IndicatorName)
	assert.Equal(t, "Anemia prevalence among women (%)", *anemia.IndicatorName)
	assert.Equal(t, indicator.LevelState, anemia.Level)

	require.NotNil(t, anemia.MinValue)
	assert.Equal(t, "39.5 (Westfall)", *anemia.MinValue)
	require.NotNil(t, anemia.MaxValue)
	assert.Equal(t, "61.8 (Eastland)", *anemia.MaxValue)

	require.NotNil(t, anemia.Mean)
	assert.InDelta(t, 50.65, *anemia.Mean, 0.001)
	require.NotNil(t, anemia.StdDev)
	assert.Greater(t, *anemia.StdDev, 0.0)

	require.NotNil(t, anemia.BaselineAvg)
	assert.InDelta(t, 50.7, *anemia.BaselineAvg, 0.001)

	// Results preserve input order.
	assert.Equal(t, testkit.IndicatorStunting, stats[1].IndicatorID)
}

func TestComputeStats_DistrictScope(t *testing.T) {
	gw := testkit.NewSeededGateway()
	eng := NewAggregationEngine(gw)

	req := indicator.SelectionRequest{
		SelectedIndicators: []int64{testkit.IndicatorAnemia},
		CategoryType:       indicator.CategoryST,
		SelectedState:      int64Ptr(testkit.StateNorthID),
	}

	stats, err := eng.ComputeStats(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	st := stats[0]
	assert.Equal(t, indicator.LevelDistrict, st.Level)
	require.NotNil(t, st.MinValue)
	assert.Equal(t, "58.0 (Alder)", *st.MinValue)
	require.NotNil(t, st.MaxValue)
	assert.Equal(t, "67.5 (Cedarvale)", *st.MaxValue)
	require.NotNil(t, st.BaselineAvg)
	assert.InDelta(t, 57.2, *st.BaselineAvg, 0.001)
}

func TestComputeStats_AllRowsNullStillReportsIndicator(t *testing.T) {
	gw := testkit.NewMemoryGateway()
	gw.IndicatorNames[201] = "Institutional births (%)"
	for _, loc := range []string{"Alder", "Birchwood"} {
		gw.AddDistrictRow(201, "st", 5, ports.CategoryRow{LocationName: loc, Value: strPtr("*")})
	}
	eng := NewAggregationEngine(gw)

	req := indicator.SelectionRequest{
		SelectedIndicators: []int64{201},
		CategoryType:       indicator.CategoryST,
		SelectedState:      int64Ptr(5),
	}

	stats, err := eng.ComputeStats(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	st := stats[0]
	require.NotNil(t, st.IndicatorName)
	assert.Equal(t, "Institutional births (%)", *st.IndicatorName)
	assert.Nil(t, st.MinValue)
	assert.Nil(t, st.MaxValue)
	assert.Nil(t, st.Mean)
	assert.Nil(t, st.StdDev)
}

func TestComputeStats_UnknownIndicatorGetsNullName(t *testing.T) {
	gw := testkit.NewSeededGateway()
	eng := NewAggregationEngine(gw)

	req := indicator.SelectionRequest{
		SelectedIndicators: []int64{9999},
		CategoryType:       indicator.CategoryTotal,
	}

	stats, err := eng.ComputeStats(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Nil(t, stats[0].IndicatorName)
	assert.Nil(t, stats[0].MinValue)
}

func TestComputeStats_InvalidCategoryRejected(t *testing.T) {
	gw := testkit.NewSeededGateway()
	eng := NewAggregationEngine(gw)

	req := indicator.SelectionRequest{
		SelectedIndicators: []int64{testkit.IndicatorAnemia},
		CategoryType:       indicator.CategoryType("Urban"),
	}

	_, err := eng.ComputeStats(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
}

func TestComputeStats_SampleStandardDeviation(t *testing.T) {
	gw := testkit.NewMemoryGateway()
	gw.IndicatorNames[401] = "Low birth weight (%)"
	gw.AddStateRow(401, "total", ports.CategoryRow{LocationName: "Alpha State", Value: strPtr("2")})
	gw.AddStateRow(401, "total", ports.CategoryRow{LocationName: "Beta State", Value: strPtr("4")})
	eng := NewAggregationEngine(gw)

	req := indicator.SelectionRequest{
		SelectedIndicators: []int64{401},
		CategoryType:       indicator.CategoryTotal,
	}

	stats, err := eng.ComputeStats(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	// Divisor n-1: for {2, 4} the sample standard deviation is sqrt(2),
	// not the population value of 1.
	require.NotNil(t, stats[0].StdDev)
	assert.InDelta(t, 1.4142135623730951, *stats[0].StdDev, 1e-12)
}

func TestComputeStats_SingleValueHasNoStdDev(t *testing.T) {
	gw := testkit.NewMemoryGateway()
	gw.IndicatorNames[402] = "Low birth weight (%)"
	gw.AddStateRow(402, "total", ports.CategoryRow{LocationName: "Alpha State", Value: strPtr("7.5")})
	gw.AddStateRow(402, "total", ports.CategoryRow{LocationName: "Beta State", Value: strPtr("*")})
	eng := NewAggregationEngine(gw)

	req := indicator.SelectionRequest{
		SelectedIndicators: []int64{402},
		CategoryType:       indicator.CategoryTotal,
	}

	stats, err := eng.ComputeStats(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	require.NotNil(t, stats[0].Mean)
	assert.InDelta(t, 7.5, *stats[0].Mean, 1e-9)
	assert.Nil(t, stats[0].StdDev)
}

func TestComputeStats_TieBreaksLexicographically(t *testing.T) {
	gw := testkit.NewMemoryGateway()
	gw.IndicatorNames[301] = "Tobacco use (%)"
	for _, r := range []struct {
		loc string
		val string
	}{
		{"Zebra State", "20.0"},
		{"Alpha State", "20.0"},
		{"Mid State", "25.0"},
	} {
		gw.AddStateRow(301, "total", ports.CategoryRow{LocationName: r.loc, Value: strPtr(r.val)})
	}
	eng := NewAggregationEngine(gw)

	req := indicator.SelectionRequest{
		SelectedIndicators: []int64{301},
		CategoryType:       indicator.CategoryTotal,
	}

	stats, err := eng.ComputeStats(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, stats[0].MinValue)
	assert.Equal(t, "20.0 (Alpha State)", *stats[0].MinValue)
}

func TestComputeStats_Idempotent(t *testing.T) {
	gw := testkit.NewSeededGateway()
	eng := NewAggregationEngine(gw)

	req := indicator.SelectionRequest{
		SelectedIndicators: []int64{testkit.IndicatorAnemia, testkit.IndicatorDiabetes, testkit.IndicatorStunting},
		CategoryType:       indicator.CategoryTotal,
	}

	first, err := eng.ComputeStats(context.Background(), req)
	require.NoError(t, err)
	second, err := eng.ComputeStats(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSafeFloat(t *testing.T) {
	cases := []struct {
		name string
		in   *string
		want *float64
	}{
		{"nil", nilStr(), nil},
		{"empty", strPtr(""), nil},
		{"placeholder", strPtr("*"), nil},
		{"text", strPtr("NA"), nil},
		{"padded", strPtr(" 42.5 "), float64Ptr(42.5)},
		{"integer", strPtr("7"), float64Ptr(7)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := safeFloat(tc.in)
			if tc.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tc.want, *got)
			}
		})
	}
}

func float64Ptr(v float64) *float64 { return &v }
