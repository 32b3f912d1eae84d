package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/learningjourney/journey/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

const DateFormat = "2006-01-02"

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSON encodes body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

// WriteError answers with an ErrorResponse.
func WriteError(w http.ResponseWriter, status int, message string, details string) {
	WriteJSON(w, status, ErrorResponse{Error: message, Details: details})
}

// ParseDate accepts either an RFC3339 timestamp or a plain YYYY-MM-DD date. A plain date yields the
// first instant of that day in loc. An empty value yields fallback.
func ParseDate(value string, loc *time.Location, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	parsed, err := time.Parse(DateFormat, value)
	if err != nil {
		return time.Time{}, err
	}
	return calendar.New(loc, time.Sunday).Date(parsed.Date()), nil
}
