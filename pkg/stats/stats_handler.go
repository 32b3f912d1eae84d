package stats

import (
	"errors"
	"net/http"

	"github.com/learningjourney/journey/internal/rest"
	"github.com/learningjourney/journey/internal/utils"
	"github.com/learningjourney/journey/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

type DailyStatsDTO struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

type StatsSummaryDTO struct {
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	Days      []DailyStatsDTO `json:"days"`
	Learned   int             `json:"learned"`
	Frozen    int             `json:"frozen"`
	Missed    int             `json:"missed"`
}

type StatsHandler struct {
	statsService     StatsService
	csvStatsRenderer StatsRenderer
	calendar         calendar.Calendar
	clock            utils.Clock
}

func NewStatsHandler(statsService StatsService, csvStatsRenderer StatsRenderer, cal calendar.Calendar, clock utils.Clock) *StatsHandler {
	return &StatsHandler{statsService, csvStatsRenderer, cal, clock}
}

// GetStats returns the day statuses of [fromDate, toDate). Both default to the current month.
// With "Accept: text/csv" the result is rendered as CSV.
func (handler *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	monthStart := handler.calendar.StartOfMonth(handler.clock.Now())
	fromDate, err := rest.ParseDate(r.URL.Query().Get("fromDate"), handler.calendar.Location, monthStart)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid fromDate format", "fromDate must be YYYY-MM-DD or RFC3339")
		return
	}
	toDate, err := rest.ParseDate(r.URL.Query().Get("toDate"), handler.calendar.Location, handler.calendar.AddMonths(handler.calendar.StartOfMonth(fromDate), 1))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid toDate format", "toDate must be YYYY-MM-DD or RFC3339")
		return
	}

	stats, err := handler.statsService.GetStats(r.Context(), fromDate, toDate)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid range", err.Error())
			return
		}
		log.Errorf("failed to build stats: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to get stats", "")
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		csv, err := handler.csvStatsRenderer.RenderStats(stats)
		if err != nil {
			rest.WriteError(w, http.StatusInternalServerError, "Failed to render stats", "")
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv: %v", err)
		}
		return
	}
	rest.WriteJSON(w, http.StatusOK, convertToJsonResponse(stats))
}

func convertToJsonResponse(stats StatsSummary) StatsSummaryDTO {
	days := make([]DailyStatsDTO, 0, len(stats.Days))
	for _, day := range stats.Days {
		days = append(days, DailyStatsDTO{Date: day.Date.Format(rest.DateFormat), Status: string(day.Status)})
	}
	return StatsSummaryDTO{
		StartDate: stats.StartDate.Format(rest.DateFormat),
		EndDate:   stats.EndDate.Format(rest.DateFormat),
		Days:      days,
		Learned:   stats.Learned,
		Frozen:    stats.Frozen,
		Missed:    stats.Missed,
	}
}
