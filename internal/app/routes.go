package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/learningjourney/journey/internal/rest"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Activity
	r.HandleFunc("/api/activity", deps.ActivityHandler.GetSummary).Methods("GET")
	r.HandleFunc("/api/activity/learned", deps.ActivityHandler.LogLearned).Methods("POST")
	r.HandleFunc("/api/activity/frozen", deps.ActivityHandler.LogFrozen).Methods("POST")
	r.HandleFunc("/api/activity/day", deps.ActivityHandler.GetDay).Methods("GET")

	// Calendar
	r.HandleFunc("/api/calendar/month", deps.CalendarHandler.GetMonth).Methods("GET")
	r.HandleFunc("/api/calendar/week", deps.CalendarHandler.GetWeek).Methods("GET")
	r.HandleFunc("/api/calendar/week/move", deps.CalendarHandler.MoveWeek).Methods("POST")
	r.HandleFunc("/api/calendar/months", deps.CalendarHandler.GetMonthSections).Methods("GET")

	// Stats
	r.HandleFunc("/api/stats", deps.StatsHandler.GetStats).Methods("GET")

	// Goal
	r.HandleFunc("/api/goal", deps.GoalHandler.GetGoal).Methods("GET")
	r.HandleFunc("/api/goal", deps.GoalHandler.UpdateGoal).Methods("PUT")
	r.HandleFunc("/api/goal/onboarding", deps.GoalHandler.CompleteOnboarding).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rest.WriteError(w, http.StatusNotFound, "Not found", r.URL.Path)
	})
}
