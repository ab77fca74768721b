package engine

import (
	"math"
	"strconv"
	"strings"
)

// safeFloat parses a stored text value. The NFHS columns are varchar and
// occasionally carry placeholders like "*" or "NA"; parse failures become
// nils, never errors.
func safeFloat(raw *string) *float64 {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Round2 rounds a coefficient to two decimal places. Applied only at the
// service boundary so intermediate math keeps full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
