package staticdata

import (
	"encoding/json"
	"fmt"
	"os"

	"healthdash/internal/logging"
)

var logger = logging.NewDefault("StaticData")

// BlockedDistricts is the set of cluster district ids excluded from every
// district-level scan. Loaded once at startup; read-only afterwards.
type BlockedDistricts map[int64]bool

// ScaleRange fixes a chart axis for one indicator.
type ScaleRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ScaleTable maps indicator id to its fixed axis range. Loaded once at
// startup; read-only afterwards.
type ScaleTable map[int64]ScaleRange

// LoadBlockedDistricts reads the cluster district id list. A missing or
// unreadable file degrades to an empty set with a warning; the dashboard
// keeps serving with no exclusions.
func LoadBlockedDistricts(path string) BlockedDistricts {
	out := BlockedDistricts{}
	if path == "" {
		return out
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("blocked districts file unavailable, continuing without exclusions: %v", err)
		return out
	}
	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		logger.Warn("blocked districts file malformed, continuing without exclusions: %v", err)
		return out
	}
	for _, id := range ids {
		out[id] = true
	}
	logger.Info("loaded %d blocked district ids from %s", len(out), path)
	return out
}

// LoadScaleTable reads the per-indicator chart scale ranges. The file maps
// indicator id (as a JSON object key) to {min, max}. A missing or malformed
// file degrades to an empty table with a warning; charts fall back to
// auto-scaling.
func LoadScaleTable(path string) ScaleTable {
	out := ScaleTable{}
	if path == "" {
		return out
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("scale table unavailable, charts will auto-scale: %v", err)
		return out
	}
	var byKey map[string]ScaleRange
	if err := json.Unmarshal(raw, &byKey); err != nil {
		logger.Warn("scale table malformed, charts will auto-scale: %v", err)
		return out
	}
	for key, rng := range byKey {
		var id int64
		if _, err := fmt.Sscanf(key, "%d", &id); err != nil {
			logger.Warn("skipping non-numeric scale key %q", key)
			continue
		}
		out[id] = rng
	}
	logger.Info("loaded %d scale ranges from %s", len(out), path)
	return out
}

// Lookup returns the fixed range for an indicator, if one exists.
func (t ScaleTable) Lookup(indicatorID int64) (ScaleRange, bool) {
	rng, ok := t[indicatorID]
	return rng, ok
}
