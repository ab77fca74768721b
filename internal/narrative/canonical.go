package narrative

import (
	"strconv"
	"strings"

	"healthdash/domain/indicator"
)

// Sentinel values for entries that could not be parsed. Partial information
// is preferred over dropping an entry.
const (
	SentinelValue    = "N/A"
	SentinelLocation = "Unknown"
	SentinelName     = "Unknown indicator"
)

// CanonicalStat is the normalized shape consumed by templating: value and
// location separated, decoupled from the raw aggregation field names.
type CanonicalStat struct {
	IndicatorID     int64
	IndicatorName   string
	LowestValue     string
	LowestLocation  string
	HighestValue    string
	HighestLocation string
	Baseline        string
	Level           string
}

// Normalize maps raw aggregation output to canonical stats. It tolerates both
// the separated extreme fields and the combined "value (location)" composite;
// malformed entries degrade to sentinels rather than being dropped.
func Normalize(stats []indicator.Stat) []CanonicalStat {
	out := make([]CanonicalStat, 0, len(stats))
	for _, s := range stats {
		c := CanonicalStat{
			IndicatorID:     s.IndicatorID,
			IndicatorName:   SentinelName,
			LowestValue:     SentinelValue,
			LowestLocation:  SentinelLocation,
			HighestValue:    SentinelValue,
			HighestLocation: SentinelLocation,
			Baseline:        SentinelValue,
			Level:           s.Level,
		}
		if s.IndicatorName != nil && strings.TrimSpace(*s.IndicatorName) != "" {
			c.IndicatorName = strings.TrimSpace(*s.IndicatorName)
		}

		c.LowestValue, c.LowestLocation = extractExtreme(s.Lowest, s.LowestLocation, s.MinValue)
		c.HighestValue, c.HighestLocation = extractExtreme(s.Highest, s.HighestLocation, s.MaxValue)

		if s.BaselineAvg != nil {
			c.Baseline = formatValue(*s.BaselineAvg)
		}

		out = append(out, c)
	}
	return out
}

// extractExtreme prefers the separated fields and falls back to parsing the
// composite string; both absent or malformed yields sentinels.
func extractExtreme(value *float64, location *string, composite *string) (string, string) {
	if value != nil && location != nil && strings.TrimSpace(*location) != "" {
		return formatValue(*value), strings.TrimSpace(*location)
	}
	if composite != nil {
		if v, loc, ok := SplitValueLocation(*composite); ok {
			return v, loc
		}
	}
	return SentinelValue, SentinelLocation
}

// SplitValueLocation parses the dashboard's "value (location)" composite.
// The location is taken from the last parenthesized group so values that
// themselves contain parentheses are handled.
func SplitValueLocation(s string) (value, location string, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	open := strings.LastIndex(s, "(")
	if open <= 0 {
		return "", "", false
	}
	value = strings.TrimSpace(s[:open])
	location = strings.TrimSpace(s[open+1 : len(s)-1])
	if value == "" || location == "" {
		return "", "", false
	}
	return value, location, true
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
