package calendar_view

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/learningjourney/journey/internal/rest"
	"github.com/learningjourney/journey/internal/utils"
	"github.com/learningjourney/journey/pkg/calendar"
	"github.com/learningjourney/journey/pkg/day_log"
	log "github.com/sirupsen/logrus"
)

const defaultSectionsAround = 2

// StatusReader resolves the logged status of a day.
type StatusReader interface {
	StatusForDate(date time.Time) day_log.DayStatus
}

type DayDTO struct {
	Date             string `json:"date"`
	IsInCurrentMonth bool   `json:"isInCurrentMonth"`
	IsToday          bool   `json:"isToday"`
	Status           string `json:"status"`
}

type MonthDTO struct {
	Month string   `json:"month"`
	Title string   `json:"title"`
	Days  []DayDTO `json:"days"`
}

type WeekDTO struct {
	Month     string   `json:"month"`
	Title     string   `json:"title"`
	Offset    int      `json:"offset"`
	WeekCount int      `json:"weekCount"`
	Days      []DayDTO `json:"days"`
}

type MoveWeekRequest struct {
	Month  string `json:"month" validate:"required,datetime=2006-01-02"`
	Offset int    `json:"offset" validate:"gte=0,lte=5"`
	Delta  int    `json:"delta" validate:"gte=-6,lte=6"`
}

type sectionsQuery struct {
	Previous int `json:"previous" validate:"gte=0,lte=24"`
	Next     int `json:"next" validate:"gte=0,lte=24"`
}

type Handler struct {
	calendar  calendar.Calendar
	statuses  StatusReader
	clock     utils.Clock
	validator *rest.Validator
}

func NewHandler(cal calendar.Calendar, statuses StatusReader, clock utils.Clock, validator *rest.Validator) *Handler {
	return &Handler{calendar: cal, statuses: statuses, clock: clock, validator: validator}
}

// GetMonth returns the 6x7 grid of a month with the status of every day. The month is taken
// from year+month (month picker) or from date, defaulting to the current month.
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	anchor, err := h.anchorFromQuery(r)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month", err.Error())
		return
	}
	log.Debugf("Building month grid for %s", anchor.Format(rest.DateFormat))
	rest.WriteJSON(w, http.StatusOK, h.monthToDTO(anchor))
}

// GetWeek returns one week of the browsed month. Without an explicit offset the week holding
// today is shown when browsing the current month.
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	anchor, err := h.anchorFromQuery(r)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month", err.Error())
		return
	}

	offsetParam := r.URL.Query().Get("offset")
	var offset int
	if offsetParam == "" {
		offset = h.calendar.DefaultWeekOffset(anchor, h.clock.Now(), 0)
	} else {
		offset, err = strconv.Atoi(offsetParam)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid offset", err.Error())
			return
		}
	}
	rest.WriteJSON(w, http.StatusOK, h.weekToDTO(anchor, offset))
}

// MoveWeek steps the visible week forwards or backwards, crossing month boundaries.
func (h *Handler) MoveWeek(w http.ResponseWriter, r *http.Request) {
	var req MoveWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	if err := h.validator.Validate(req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid week move", err.Error())
		return
	}
	month, err := rest.ParseDate(req.Month, h.calendar.Location, time.Time{})
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month", err.Error())
		return
	}

	anchor, offset := h.calendar.MoveWeek(month, req.Offset, req.Delta)
	rest.WriteJSON(w, http.StatusOK, h.weekToDTO(anchor, offset))
}

// GetMonthSections returns titled month grids around a month for the scrolling calendar.
func (h *Handler) GetMonthSections(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	around, err := rest.ParseDate(query.Get("around"), h.calendar.Location, h.clock.Now())
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", err.Error())
		return
	}
	q := sectionsQuery{Previous: defaultSectionsAround, Next: defaultSectionsAround}
	if q.Previous, err = intParam(query.Get("previous"), q.Previous); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid previous", err.Error())
		return
	}
	if q.Next, err = intParam(query.Get("next"), q.Next); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid next", err.Error())
		return
	}
	if err := h.validator.Validate(q); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid range", err.Error())
		return
	}

	sections := h.calendar.MonthSections(around, q.Previous, q.Next)
	result := make([]MonthDTO, 0, len(sections))
	for _, section := range sections {
		result = append(result, MonthDTO{
			Month: section.MonthStart.Format(rest.DateFormat),
			Title: section.Title,
			Days:  h.gridToDTO(section.Days),
		})
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) anchorFromQuery(r *http.Request) (time.Time, error) {
	query := r.URL.Query()
	if query.Get("year") != "" || query.Get("month") != "" {
		year, err := strconv.Atoi(query.Get("year"))
		if err != nil {
			return time.Time{}, err
		}
		month, err := strconv.Atoi(query.Get("month"))
		if err != nil {
			return time.Time{}, err
		}
		return h.calendar.SelectMonth(year, time.Month(month))
	}
	date, err := rest.ParseDate(query.Get("date"), h.calendar.Location, h.clock.Now())
	if err != nil {
		return time.Time{}, err
	}
	return h.calendar.StartOfMonth(date), nil
}

func (h *Handler) monthToDTO(anchor time.Time) MonthDTO {
	monthStart := h.calendar.StartOfMonth(anchor)
	return MonthDTO{
		Month: monthStart.Format(rest.DateFormat),
		Title: calendar.MonthTitle(monthStart),
		Days:  h.gridToDTO(h.calendar.MonthGrid(monthStart)),
	}
}

func (h *Handler) weekToDTO(anchor time.Time, offset int) WeekDTO {
	monthStart := h.calendar.StartOfMonth(anchor)
	week, index := h.calendar.VisibleWeek(monthStart, offset)
	days := make([]DayDTO, 0, calendar.DaysInWeek)
	for _, day := range week {
		days = append(days, h.dayToDTO(day, h.calendar.SameMonth(day, monthStart)))
	}
	return WeekDTO{
		Month:     monthStart.Format(rest.DateFormat),
		Title:     calendar.MonthTitle(monthStart),
		Offset:    index,
		WeekCount: len(h.calendar.WeeksIntersectingMonth(monthStart)),
		Days:      days,
	}
}

func (h *Handler) gridToDTO(grid calendar.MonthGrid) []DayDTO {
	days := make([]DayDTO, 0, len(grid))
	for _, day := range grid {
		days = append(days, h.dayToDTO(day.Date, day.IsInCurrentMonth))
	}
	return days
}

func (h *Handler) dayToDTO(day time.Time, inMonth bool) DayDTO {
	return DayDTO{
		Date:             day.Format(rest.DateFormat),
		IsInCurrentMonth: inMonth,
		IsToday:          h.calendar.SameDay(day, h.clock.Now()),
		Status:           string(h.statuses.StatusForDate(day)),
	}
}

func intParam(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}
