package indicator

import (
	"fmt"
	"strings"
)

// CategoryType selects which demographic sub-population column is read.
// The set is closed: ST, Non-ST and Total are the only valid values.
type CategoryType string

const (
	CategoryST    CategoryType = "ST"
	CategoryNonST CategoryType = "Non-ST"
	CategoryTotal CategoryType = "Total"
)

// Column maps the category to its data-store column through an explicit
// dispatch rather than reflective attribute access.
func (c CategoryType) Column() (string, error) {
	switch c {
	case CategoryST:
		return "st", nil
	case CategoryNonST:
		return "non_st", nil
	case CategoryTotal:
		return "total", nil
	default:
		return "", fmt.Errorf("invalid category_type: %s", string(c))
	}
}

// Valid reports whether the category belongs to the closed enumeration.
func (c CategoryType) Valid() bool {
	_, err := c.Column()
	return err == nil
}

// Granularity labels for aggregation output.
const (
	LevelState    = "state"
	LevelDistrict = "district"
)

// SelectionRequest is the input to every core operation: an ordered list of
// indicator ids, a category discriminator and an optional state scope.
// Absent state means national-level aggregation over states; a present state
// means district-level aggregation filtered to that state.
type SelectionRequest struct {
	SelectedIndicators []int64      `json:"selected_indicators"`
	CategoryType       CategoryType `json:"category_type"`
	SelectedState      *int64       `json:"selected_state,omitempty"`
}

// Level returns the granularity label implied by the scope.
func (r SelectionRequest) Level() string {
	if r.SelectedState != nil {
		return LevelDistrict
	}
	return LevelState
}

// Stat is one aggregation result per indicator. MinValue and MaxValue carry
// the dashboard's composite "value (location)" strings; the parsed fields are
// populated alongside for in-process consumers and are not serialized.
type Stat struct {
	IndicatorID   int64    `json:"indicator_id"`
	IndicatorName *string  `json:"indicator_name"`
	MinValue      *string  `json:"min_value"`
	MaxValue      *string  `json:"max_value"`
	Mean          *float64 `json:"mean"`
	StdDev        *float64 `json:"standard deviation"`
	BaselineAvg   *float64 `json:"baseline_avg"`
	Level         string   `json:"level"`

	// Separated extremes, when the aggregation computed them directly.
	Lowest          *float64 `json:"-"`
	LowestLocation  *string  `json:"-"`
	Highest         *float64 `json:"-"`
	HighestLocation *string  `json:"-"`
}

// Correlation is one result per unordered pair of distinct indicators.
// The coefficient is nil when the underlying computation is undefined.
type Correlation struct {
	IndicatorXID   int64    `json:"indicator_x_id"`
	IndicatorXName *string  `json:"indicator_x_name"`
	IndicatorYID   int64    `json:"indicator_y_id"`
	IndicatorYName *string  `json:"indicator_y_name"`
	Correlation    *float64 `json:"correlation"`
	Level          string   `json:"level"`
}

// ComposeValueLocation renders the dashboard's "value (location)" composite.
func ComposeValueLocation(rawValue, location string) string {
	return fmt.Sprintf("%s (%s)", strings.TrimSpace(rawValue), strings.TrimSpace(location))
}

// State is a row of the states catalog.
type State struct {
	StateID      int64  `json:"state_id" db:"state_id"`
	StateName    string `json:"state_name" db:"state_name"`
	StateAcronym string `json:"state_acronym" db:"state_acronym"`
}

// District is a row of the districts catalog.
type District struct {
	DistrictID   int64  `json:"district_id" db:"district_id"`
	StateID      int64  `json:"state_id" db:"state_id"`
	DistrictName string `json:"district_name" db:"district_name"`
}

// Meta is a row of the indicators catalog.
type Meta struct {
	IndicatorID     int64  `json:"indicator_id" db:"indicator_id"`
	IndicatorName   string `json:"indicator_name" db:"indicator_name"`
	IndicatorTypeID int64  `json:"indicator_type_id" db:"indicator_type_id"`
	IndicatorType   string `json:"indicator_type" db:"indicator_type"`
}

// Category is a row of the categories catalog.
type Category struct {
	CategoriesID int64  `json:"categories_id" db:"categories_id"`
	Categories   string `json:"categories" db:"categories"`
}
