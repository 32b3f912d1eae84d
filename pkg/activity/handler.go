package activity

import (
	"errors"
	"net/http"

	"github.com/learningjourney/journey/internal/rest"
	"github.com/learningjourney/journey/internal/utils"
	"github.com/learningjourney/journey/pkg/calendar"
	"github.com/learningjourney/journey/pkg/day_log"
	log "github.com/sirupsen/logrus"
)

type SummaryDTO struct {
	HabitName       string `json:"habitName"`
	Plan            string `json:"plan"`
	WindowStart     string `json:"windowStart"`
	WindowEnd       string `json:"windowEnd"`
	Today           string `json:"today"`
	TodayStatus     string `json:"todayStatus"`
	LearnedDays     int    `json:"learnedDays"`
	FrozenDays      int    `json:"frozenDays"`
	FreezeAllowance int    `json:"freezeAllowance"`
	FreezesUsed     int    `json:"freezesUsed"`
	FreezesLeft     int    `json:"freezesLeft"`
	Streak          int    `json:"streak"`
}

type DayDTO struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

type Handler struct {
	service  Service
	calendar calendar.Calendar
	clock    utils.Clock
}

func NewHandler(service Service, cal calendar.Calendar, clock utils.Clock) *Handler {
	return &Handler{service: service, calendar: cal, clock: clock}
}

// GetSummary returns statistics for the plan window containing today.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		log.Errorf("failed to build activity summary: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to get activity summary", "")
		return
	}
	rest.WriteJSON(w, http.StatusOK, SummaryToDTO(summary))
}

// LogLearned marks today as learned.
func (h *Handler) LogLearned(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.LogLearned(r.Context())
	h.writeLogged(w, entry, err)
}

// LogFrozen spends a freeze on today.
func (h *Handler) LogFrozen(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.LogFrozen(r.Context())
	h.writeLogged(w, entry, err)
}

func (h *Handler) writeLogged(w http.ResponseWriter, entry day_log.Entry, err error) {
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyLogged):
			rest.WriteError(w, http.StatusConflict, "Today is already logged", err.Error())
		case errors.Is(err, ErrNoFreezesLeft):
			rest.WriteError(w, http.StatusConflict, "No freezes left", err.Error())
		default:
			log.Errorf("failed to log day: %v", err)
			rest.WriteError(w, http.StatusInternalServerError, "Failed to log day", "")
		}
		return
	}
	rest.WriteJSON(w, http.StatusCreated, EntryToDTO(entry))
}

// GetDay returns the status of a single day. Without a date, today is used.
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date, err := rest.ParseDate(r.URL.Query().Get("date"), h.calendar.Location, h.clock.Now())
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", err.Error())
		return
	}
	status, err := h.service.StatusForDate(r.Context(), date)
	if err != nil {
		log.Errorf("failed to get day status: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to get day status", "")
		return
	}
	rest.WriteJSON(w, http.StatusOK, EntryToDTO(day_log.Entry{Day: h.calendar.StartOfDay(date), Status: status}))
}

func EntryToDTO(entry day_log.Entry) DayDTO {
	return DayDTO{Date: entry.Day.Format(rest.DateFormat), Status: string(entry.Status)}
}

func SummaryToDTO(s Summary) SummaryDTO {
	return SummaryDTO{
		HabitName:       s.HabitName,
		Plan:            s.Plan.String(),
		WindowStart:     s.Window.Start.Format(rest.DateFormat),
		WindowEnd:       s.Window.End.Format(rest.DateFormat),
		Today:           s.Today.Format(rest.DateFormat),
		TodayStatus:     string(s.TodayStatus),
		LearnedDays:     s.LearnedDays,
		FrozenDays:      s.FrozenDays,
		FreezeAllowance: s.FreezeAllowance,
		FreezesUsed:     s.FreezesUsed,
		FreezesLeft:     s.FreezesLeft,
		Streak:          s.Streak,
	}
}
