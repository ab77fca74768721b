package ui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"healthdash/domain/core"
	"healthdash/domain/indicator"
	"healthdash/internal/errors"
)

// handleIndicatorStats serves POST /indicator-stats.
func (a *App) handleIndicatorStats(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeSelection(w, r)
	if !ok {
		return
	}
	stats, err := a.dashboard.Stats(r.Context(), req)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

// handleIndicatorCorrelation serves POST /indicator-correlation.
func (a *App) handleIndicatorCorrelation(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeSelection(w, r)
	if !ok {
		return
	}
	correlations, err := a.dashboard.Correlations(r.Context(), req)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"correlations": correlations})
}

// handleIndicatorSummary serves POST /indicator-summary. The response carries
// the raw markdown and a polished HTML rendering.
func (a *App) handleIndicatorSummary(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeSelection(w, r)
	if !ok {
		return
	}
	summary, err := a.summaries.Summarize(r.Context(), req)
	if err != nil {
		a.writeError(w, err)
		return
	}
	polished := PolishSummary(summary)
	a.writeJSON(w, http.StatusOK, map[string]any{
		"summary_id":   core.SummaryID(core.NewID()),
		"generated_at": core.Now(),
		"summary":      polished,
		"summary_html": RenderHTML(polished),
	})
}

// handleStatsExport serves POST /indicator-stats/export as an xlsx download.
func (a *App) handleStatsExport(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeSelection(w, r)
	if !ok {
		return
	}
	stats, err := a.dashboard.Stats(r.Context(), req)
	if err != nil {
		a.writeError(w, err)
		return
	}
	data, err := a.exporter.ExportStats(stats)
	if err != nil {
		a.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="indicator_stats.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleStatesByIndicators serves POST /getStatesByIndicators: per-indicator
// chart rows keyed by the category value. A selected state switches the scan
// to that state's districts.
func (a *App) handleStatesByIndicators(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeSelection(w, r)
	if !ok {
		return
	}
	column, err := req.CategoryType.Column()
	if err != nil {
		a.writeError(w, errors.ValidationError(err.Error()))
		return
	}

	categoryKey := string(req.CategoryType)
	indicatorData := make([]map[string]any, 0, len(req.SelectedIndicators))
	for _, id := range req.SelectedIndicators {
		name, err := a.data.IndicatorName(r.Context(), id)
		if err != nil {
			a.writeError(w, err)
			return
		}
		rows, err := a.data.CategoryRows(r.Context(), id, column, req.SelectedState)
		if err != nil {
			a.writeError(w, err)
			return
		}

		points := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			if req.SelectedState != nil {
				points = append(points, map[string]any{
					"district_name": row.LocationName,
					categoryKey:     parseValue(row.Value),
				})
			} else {
				points = append(points, map[string]any{
					"state_name":    row.LocationName,
					"state_acronym": row.Acronym,
					categoryKey:     parseValue(row.Value),
				})
			}
		}
		indicatorData = append(indicatorData, map[string]any{
			"indicator_id":   id,
			"indicator_name": name,
			"data":           points,
		})
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"indicator_data": indicatorData})
}

// handleDistrictsByIndicators serves POST /getDistrictsByIndicators: district
// rows with ids, for map overlays.
func (a *App) handleDistrictsByIndicators(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeSelection(w, r)
	if !ok {
		return
	}
	column, err := req.CategoryType.Column()
	if err != nil {
		a.writeError(w, errors.ValidationError(err.Error()))
		return
	}
	if req.SelectedState == nil {
		a.writeError(w, errors.ValidationError("selected_state is required"))
		return
	}

	categoryKey := string(req.CategoryType)
	indicatorData := make([]map[string]any, 0, len(req.SelectedIndicators))
	for _, id := range req.SelectedIndicators {
		name, err := a.data.IndicatorName(r.Context(), id)
		if err != nil {
			a.writeError(w, err)
			return
		}
		rows, err := a.data.CategoryRows(r.Context(), id, column, req.SelectedState)
		if err != nil {
			a.writeError(w, err)
			return
		}

		points := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			points = append(points, map[string]any{
				"district_name": row.LocationName,
				"district_id":   row.LocationID,
				"state_id":      row.StateID,
				categoryKey:     parseValue(row.Value),
			})
		}
		indicatorData = append(indicatorData, map[string]any{
			"indicator_id":   id,
			"indicator_name": name,
			"data":           points,
		})
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"indicator_data": indicatorData})
}

// handleIndicatorScale serves GET /indicator-scale/{id} from the fixed chart
// scale table.
func (a *App) handleIndicatorScale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		a.writeError(w, errors.ValidationError("indicator id must be numeric"))
		return
	}
	rng, ok := a.scales.Lookup(id)
	if !ok {
		a.writeError(w, errors.NotFound(fmt.Sprintf("scale for indicator %d", id)))
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{
		"indicator_id": id,
		"min":          rng.Min,
		"max":          rng.Max,
	})
}

func (a *App) handleStates(w http.ResponseWriter, r *http.Request) {
	states, err := a.catalog.States(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, states)
}

// handleDistricts serves GET /Districts, optionally filtered by ?state_id=.
func (a *App) handleDistricts(w http.ResponseWriter, r *http.Request) {
	var stateID *int64
	if raw := strings.TrimSpace(r.URL.Query().Get("state_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			a.writeError(w, errors.ValidationError("state_id must be numeric"))
			return
		}
		stateID = &id
	}
	districts, err := a.catalog.Districts(r.Context(), stateID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, districts)
}

func (a *App) handleIndicators(w http.ResponseWriter, r *http.Request) {
	indicators, err := a.catalog.Indicators(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, indicators)
}

func (a *App) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.catalog.Categories(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, categories)
}

// handleReceiveCategories serves POST /receiveCategories: the indicators
// belonging to one category from the categories dropdown.
func (a *App) handleReceiveCategories(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SelectedValue int64 `json:"selected_value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.writeError(w, errors.ValidationError("malformed request body"))
		return
	}
	metas, err := a.catalog.IndicatorsByCategory(r.Context(), body.SelectedValue)
	if err != nil {
		a.writeError(w, err)
		return
	}
	list := make([]map[string]any, 0, len(metas))
	for _, m := range metas {
		list = append(list, map[string]any{
			"indicator_id":   m.IndicatorID,
			"indicator_name": m.IndicatorName,
		})
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"state_indicators": list})
}

func (a *App) decodeSelection(w http.ResponseWriter, r *http.Request) (indicator.SelectionRequest, bool) {
	var req indicator.SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, errors.ValidationError("malformed request body"))
		return req, false
	}
	return req, true
}

func (a *App) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are gone; nothing left to do but record it.
		uiLog.Error("failed to encode response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeValidationError:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeExternalService:
		status = http.StatusBadGateway
	}
	a.writeJSON(w, status, map[string]any{"detail": err.Error()})
}

// parseValue mirrors the chart contract: stored text parses to a number or
// serializes as null.
func parseValue(raw *string) *float64 {
	if raw == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil {
		return nil
	}
	return &v
}
