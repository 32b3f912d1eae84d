package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)
	fallback := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	t.Run("empty value yields fallback", func(t *testing.T) {
		date, err := ParseDate("", warsaw, fallback)

		require.NoError(t, err)
		assert.Equal(t, fallback, date)
	})

	t.Run("plain date is read in the given zone", func(t *testing.T) {
		date, err := ParseDate("2025-03-10", warsaw, fallback)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, warsaw), date)
	})

	t.Run("plain date on a day without midnight", func(t *testing.T) {
		santiago, err := time.LoadLocation("America/Santiago")
		require.NoError(t, err)

		date, err := ParseDate("2024-09-08", santiago, fallback)

		require.NoError(t, err)
		assert.Equal(t, 8, date.Day())
		assert.Equal(t, 1, date.Hour())
	})

	t.Run("timestamp keeps its offset", func(t *testing.T) {
		date, err := ParseDate("2025-03-10T23:30:00Z", warsaw, fallback)

		require.NoError(t, err)
		assert.True(t, date.Equal(time.Date(2025, time.March, 10, 23, 30, 0, 0, time.UTC)))
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := ParseDate("10/03/2025", warsaw, fallback)

		assert.Error(t, err)
	})
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, http.StatusConflict, "Today is already logged", "learned")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, ErrorResponse{Error: "Today is already logged", Details: "learned"}, body)
}

func TestValidator(t *testing.T) {
	type request struct {
		Name  string `json:"name" validate:"required,max=5"`
		Plan  string `json:"plan" validate:"oneof=Week Month"`
		Count int    `json:"count" validate:"gte=1,lte=3"`
		Day   string `json:"day" validate:"omitempty,datetime=2006-01-02"`
	}
	v := NewValidator()

	t.Run("valid request", func(t *testing.T) {
		assert.NoError(t, v.Validate(request{Name: "Go", Plan: "Week", Count: 2, Day: "2025-03-10"}))
	})

	t.Run("reports fields by json name", func(t *testing.T) {
		err := v.Validate(request{Name: "", Plan: "Day", Count: 4, Day: "March"})

		require.Error(t, err)
		assert.Equal(t,
			"count must be at most 3; day must match the 2006-01-02 layout; name is required; plan must be one of: Week Month",
			err.Error())
	})

	t.Run("max length", func(t *testing.T) {
		err := v.Validate(request{Name: "Golang", Plan: "Month", Count: 1})

		assert.EqualError(t, err, "name must not exceed 5 characters")
	})
}
