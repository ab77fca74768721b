package narrative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthdash/domain/indicator"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }

func TestNormalizePrefersSeparatedFields(t *testing.T) {
	stats := []indicator.Stat{{
		IndicatorID:     101,
		IndicatorName:   strPtr("Anemia prevalence"),
		Lowest:          f64Ptr(39.5),
		LowestLocation:  strPtr("Westfall"),
		Highest:         f64Ptr(61.8),
		HighestLocation: strPtr("Eastland"),
		MinValue:        strPtr("0.0 (Bogus)"),
		MaxValue:        strPtr("99.9 (Bogus)"),
		BaselineAvg:     f64Ptr(50.7),
		Level:           indicator.LevelState,
	}}

	out := Normalize(stats)
	require.Len(t, out, 1)
	assert.Equal(t, "Anemia prevalence", out[0].IndicatorName)
	assert.Equal(t, "39.5", out[0].LowestValue)
	assert.Equal(t, "Westfall", out[0].LowestLocation)
	assert.Equal(t, "61.8", out[0].HighestValue)
	assert.Equal(t, "Eastland", out[0].HighestLocation)
	assert.Equal(t, "50.7", out[0].Baseline)
}

func TestNormalizeFallsBackToComposite(t *testing.T) {
	stats := []indicator.Stat{{
		IndicatorID: 102,
		MinValue:    strPtr("12.4 (Alder)"),
		MaxValue:    strPtr("44.0 (Cedarvale)"),
		Level:       indicator.LevelDistrict,
	}}

	out := Normalize(stats)
	require.Len(t, out, 1)
	assert.Equal(t, SentinelName, out[0].IndicatorName)
	assert.Equal(t, "12.4", out[0].LowestValue)
	assert.Equal(t, "Alder", out[0].LowestLocation)
	assert.Equal(t, "44.0", out[0].HighestValue)
	assert.Equal(t, "Cedarvale", out[0].HighestLocation)
	assert.Equal(t, SentinelValue, out[0].Baseline)
}

func TestNormalizeMalformedEntriesBecomeSentinels(t *testing.T) {
	stats := []indicator.Stat{{
		IndicatorID: 103,
		MinValue:    strPtr("garbage"),
		MaxValue:    nil,
		Level:       indicator.LevelState,
	}}

	out := Normalize(stats)
	require.Len(t, out, 1)
	assert.Equal(t, SentinelValue, out[0].LowestValue)
	assert.Equal(t, SentinelLocation, out[0].LowestLocation)
	assert.Equal(t, SentinelValue, out[0].HighestValue)
	assert.Equal(t, SentinelLocation, out[0].HighestLocation)
}

func TestNormalizeNeverDropsEntries(t *testing.T) {
	stats := []indicator.Stat{
		{IndicatorID: 1, Level: indicator.LevelState},
		{IndicatorID: 2, Level: indicator.LevelState},
		{IndicatorID: 3, Level: indicator.LevelState},
	}
	assert.Len(t, Normalize(stats), 3)
}

func TestSplitValueLocation(t *testing.T) {
	cases := []struct {
		in       string
		value    string
		location string
		ok       bool
	}{
		{"39.5 (Westfall)", "39.5", "Westfall", true},
		{"12.4 (North West Delhi)", "12.4", "North West Delhi", true},
		{"1.2 (3.4) (Alder)", "1.2 (3.4)", "Alder", true},
		{"garbage", "", "", false},
		{"(Westfall)", "", "", false},
		{"39.5 ()", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range cases {
		v, loc, ok := SplitValueLocation(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.value, v, tc.in)
		assert.Equal(t, tc.location, loc, tc.in)
	}
}
