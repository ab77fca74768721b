package testkit

import (
	"healthdash/domain/indicator"
	"healthdash/ports"
)

// Seeded fixture ids shared across tests.
const (
	IndicatorAnemia   int64 = 101
	IndicatorStunting int64 = 102
	IndicatorDiabetes int64 = 103

	StateNorthID int64 = 5
)

func strPtr(s string) *string { return &s }

// NewSeededGateway builds a MemoryGateway with a small NFHS-like fixture:
// three indicators across four states, plus district rows for one state.
func NewSeededGateway() *MemoryGateway {
	g := NewMemoryGateway()

	g.IndicatorNames[IndicatorAnemia] = "Anemia prevalence among women (%)"
	g.IndicatorNames[IndicatorStunting] = "Children under 5 who are stunted (%)"
	g.IndicatorNames[IndicatorDiabetes] = "Adults with elevated blood sugar (%)"

	g.MetaCatalog = []indicator.Meta{
		{IndicatorID: IndicatorAnemia, IndicatorName: g.IndicatorNames[IndicatorAnemia], IndicatorTypeID: 1, IndicatorType: "Nutrition"},
		{IndicatorID: IndicatorStunting, IndicatorName: g.IndicatorNames[IndicatorStunting], IndicatorTypeID: 1, IndicatorType: "Nutrition"},
		{IndicatorID: IndicatorDiabetes, IndicatorName: g.IndicatorNames[IndicatorDiabetes], IndicatorTypeID: 2, IndicatorType: "Non-communicable"},
	}

	g.StateCatalog = []indicator.State{
		{StateID: 5, StateName: "Northstate", StateAcronym: "NS"},
		{StateID: 6, StateName: "Eastland", StateAcronym: "EL"},
		{StateID: 7, StateName: "Southmark", StateAcronym: "SM"},
		{StateID: 8, StateName: "Westfall", StateAcronym: "WF"},
	}

	g.DistrictCatalog = []indicator.District{
		{DistrictID: 51, StateID: 5, DistrictName: "Alder"},
		{DistrictID: 52, StateID: 5, DistrictName: "Birchwood"},
		{DistrictID: 53, StateID: 5, DistrictName: "Cedarvale"},
	}

	g.CategoryCatalog = []indicator.Category{
		{CategoriesID: 1, Categories: "Nutrition"},
		{CategoriesID: 2, Categories: "Non-communicable diseases"},
	}
	g.CategoryLinks[1] = []int64{IndicatorAnemia, IndicatorStunting}
	g.CategoryLinks[2] = []int64{IndicatorDiabetes}

	// State-level readings. Anemia rises west to east; stunting tracks it,
	// diabetes runs the other way. One placeholder value exercises the
	// parse-failure path.
	type reading struct {
		locID int64
		loc   string
		acr   string
		val   string
	}
	seedState := func(indicatorID int64, column string, rows []reading) {
		for _, r := range rows {
			v := r.val
			g.AddStateRow(indicatorID, column, ports.CategoryRow{
				LocationID:   r.locID,
				LocationName: r.loc,
				Acronym:      r.acr,
				Value:        &v,
			})
		}
	}

	seedState(IndicatorAnemia, "total", []reading{
		{5, "Northstate", "NS", "57.2"},
		{6, "Eastland", "EL", "61.8"},
		{7, "Southmark", "SM", "44.1"},
		{8, "Westfall", "WF", "39.5"},
	})
	seedState(IndicatorStunting, "total", []reading{
		{5, "Northstate", "NS", "38.4"},
		{6, "Eastland", "EL", "41.0"},
		{7, "Southmark", "SM", "30.2"},
		{8, "Westfall", "WF", "27.9"},
	})
	seedState(IndicatorDiabetes, "total", []reading{
		{5, "Northstate", "NS", "11.3"},
		{6, "Eastland", "EL", "9.8"},
		{7, "Southmark", "SM", "15.6"},
		{8, "Westfall", "WF", "*"},
	})

	seedState(IndicatorAnemia, "st", []reading{
		{5, "Northstate", "NS", "63.0"},
		{6, "Eastland", "EL", "66.4"},
		{7, "Southmark", "SM", "49.9"},
		{8, "Westfall", "WF", "45.2"},
	})

	// District rows within Northstate.
	seedDistrict := func(indicatorID int64, column string, rows []reading) {
		for _, r := range rows {
			v := r.val
			g.AddDistrictRow(indicatorID, column, StateNorthID, ports.CategoryRow{
				LocationID:   r.locID,
				LocationName: r.loc,
				Value:        &v,
			})
		}
	}
	seedDistrict(IndicatorAnemia, "total", []reading{
		{51, "Alder", "", "52.7"},
		{52, "Birchwood", "", "59.3"},
		{53, "Cedarvale", "", "61.1"},
	})
	seedDistrict(IndicatorAnemia, "st", []reading{
		{51, "Alder", "", "58.0"},
		{52, "Birchwood", "", "64.8"},
		{53, "Cedarvale", "", "67.5"},
	})
	seedDistrict(IndicatorStunting, "total", []reading{
		{51, "Alder", "", "35.2"},
		{52, "Birchwood", "", "39.8"},
		{53, "Cedarvale", "", "41.6"},
	})

	g.NationalBaselines[IndicatorAnemia] = 50.7
	g.NationalBaselines[IndicatorStunting] = 34.4
	g.NationalBaselines[IndicatorDiabetes] = 12.2
	g.StateBaselines[IndicatorAnemia] = map[int64]float64{StateNorthID: 57.2}
	g.StateBaselines[IndicatorStunting] = map[int64]float64{StateNorthID: 38.4}

	return g
}
