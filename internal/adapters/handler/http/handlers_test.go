package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-kcal/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-kcal/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/services"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/stats"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/workers"
)

const testUserID = "user-1"

func fixedClock() time.Time {
	return time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC)
}

// setupDomainRouter wires the real services over in-memory repositories and
// replaces the JWT middleware with a fixed user.
func setupDomainRouter(t *testing.T) (*gin.Engine, *repository.InMemoryDailyLogRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logs := repository.NewInMemoryDailyLogRepository()
	profiles := repository.NewInMemoryProfileRepository()
	snapshots := repository.NewInMemoryStatsRepository()

	statsSvc := services.NewStatsService(logs, profiles, snapshots, fixedClock, time.UTC, 7)
	worker := workers.NewStatsWorker(statsSvc, 10, nil)

	router := gin.New()
	api := router.Group("", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, testUserID)
		c.Next()
	})
	NewIntakeHandler(services.NewIntakeService(logs, worker, fixedClock, time.UTC)).RegisterRoutes(api)
	NewProfileHandler(services.NewProfileService(profiles, worker, fixedClock)).RegisterRoutes(api)
	NewStatsHandler(statsSvc).RegisterRoutes(api)
	return router, logs
}

func send(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body == "" {
		buf = &bytes.Buffer{}
	} else {
		buf = bytes.NewBufferString(body)
	}
	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedDay(t *testing.T, logs *repository.InMemoryDailyLogRepository, date string, kcal float64) {
	t.Helper()
	log, err := domain.NewDailyLog(testUserID, date, fixedClock())
	require.NoError(t, err)
	entry, err := domain.NewIntakeEntry(domain.NewIntakeEntryParams{
		UserID: testUserID, DateISO: date, CustomName: "seed", KcalPerUnit: kcal, Units: 1, Meal: domain.MealLunch,
	}, fixedClock(), time.UTC)
	require.NoError(t, err)
	require.NoError(t, log.AddEntry(*entry, fixedClock()))
	require.NoError(t, logs.Save(t.Context(), log))
}

func TestIntakeHandler_AddEntry(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantTotal  float64
	}{
		{
			name:       "Defaults to today",
			body:       `{"food_id":"apple","kcal_per_unit":95,"units":2}`,
			wantStatus: http.StatusCreated,
			wantTotal:  190,
		},
		{
			name:       "Missing name",
			body:       `{"kcal_per_unit":95,"units":2}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Missing units",
			body:       `{"food_id":"apple","kcal_per_unit":95}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Negative kcal",
			body:       `{"food_id":"apple","kcal_per_unit":-1,"units":1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Invalid meal",
			body:       `{"food_id":"apple","kcal_per_unit":95,"units":1,"meal":"brunch"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Invalid date",
			body:       `{"date":"2024-02-30","food_id":"apple","kcal_per_unit":95,"units":1}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupDomainRouter(t)

			w := send(router, http.MethodPost, "/intake/entries", tt.body)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusCreated {
				return
			}
			var log domain.DailyLog
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &log))
			assert.Equal(t, "2024-01-04", log.DateISO)
			assert.Equal(t, tt.wantTotal, log.TotalKcal)
		})
	}
}

func TestIntakeHandler_EntryLifecycle(t *testing.T) {
	router, logs := setupDomainRouter(t)
	seedDay(t, logs, "2024-01-03", 500)

	stored, err := logs.GetByDate(t.Context(), testUserID, "2024-01-03")
	require.NoError(t, err)
	entryID := stored.Entries[0].ID

	t.Run("Unknown entry", func(t *testing.T) {
		w := send(router, http.MethodPut, "/intake/entries/nope", `{"date":"2024-01-03","units":2}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Entry on a day never logged", func(t *testing.T) {
		w := send(router, http.MethodDelete, "/intake/entries/"+entryID+"?date=2023-12-31", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Update units", func(t *testing.T) {
		w := send(router, http.MethodPut, "/intake/entries/"+entryID+"?date=2024-01-03", `{"units":3}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_kcal":1500`)
	})

	t.Run("Stale version", func(t *testing.T) {
		w := send(router, http.MethodPut, "/intake/entries/"+entryID, `{"date":"2024-01-03","units":1,"version":1}`)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "version conflict")
	})

	t.Run("Delete", func(t *testing.T) {
		w := send(router, http.MethodDelete, "/intake/entries/"+entryID+"?date=2024-01-03", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"entries":[]`)
	})
}

func TestIntakeHandler_Days(t *testing.T) {
	router, logs := setupDomainRouter(t)
	seedDay(t, logs, "2024-01-02", 1800)

	t.Run("Single missing day is an empty log", func(t *testing.T) {
		w := send(router, http.MethodGet, "/intake/days/2024-01-01", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_kcal":0`)
	})

	t.Run("Dates keep request order", func(t *testing.T) {
		w := send(router, http.MethodGet, "/intake/days?dates=2024-01-03,2024-01-02", "")
		require.Equal(t, http.StatusOK, w.Code)
		var days []domain.DailyLog
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &days))
		require.Len(t, days, 2)
		assert.Equal(t, "2024-01-03", days[0].DateISO)
		assert.Equal(t, 1800.0, days[1].TotalKcal)
	})

	t.Run("Range too large", func(t *testing.T) {
		w := send(router, http.MethodGet, "/intake/days?from=2022-01-01&to=2024-01-01", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Neither dates nor range", func(t *testing.T) {
		w := send(router, http.MethodGet, "/intake/days", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Reset of an empty day is a no-op", func(t *testing.T) {
		w := send(router, http.MethodPost, "/intake/days/2024-01-01/reset", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Undo on an empty day", func(t *testing.T) {
		w := send(router, http.MethodPost, "/intake/days/2024-01-01/undo", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProfileHandler(t *testing.T) {
	router, _ := setupDomainRouter(t)

	w := send(router, http.MethodPut, "/profile", `{"name":"Ana","sex":"female","age":25,"weight_kg":60,"height_cm":165,"activity":"sedentary"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = send(router, http.MethodGet, "/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	var profile domain.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, 1614.0, profile.TDEE)

	w = send(router, http.MethodPut, "/profile", `{"name":"Ana","sex":"other","age":25,"weight_kg":60,"height_cm":165,"activity":"sedentary"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsHandler(t *testing.T) {
	router, logs := setupDomainRouter(t)
	for date, kcal := range map[string]float64{
		"2024-01-01": 1900,
		"2024-01-02": 2050,
		"2024-01-03": 1850,
		"2024-01-04": 1980,
	} {
		seedDay(t, logs, date, kcal)
	}

	t.Run("Weekly window", func(t *testing.T) {
		w := send(router, http.MethodGet, "/stats/weekly?end_date=2024-01-04&days=4", "")
		require.Equal(t, http.StatusOK, w.Code)
		var summary domain.WeeklyStatsSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.Equal(t, 7780.0, summary.TotalKcal)
		assert.Equal(t, 75.0, summary.Compliance)
		assert.Equal(t, 1, summary.CurrentStreak)
		assert.Equal(t, 2, summary.LongestStreak)
	})

	t.Run("Bad query values", func(t *testing.T) {
		for _, q := range []string{"days=abc", "days=-1", "days=367", "end_date=2024-13-01"} {
			w := send(router, http.MethodGet, "/stats/weekly?"+q, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, q)
		}
	})

	t.Run("Streaks", func(t *testing.T) {
		w := send(router, http.MethodGet, "/stats/streaks", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"current_streak":1,"longest_streak":2}`, w.Body.String())
	})

	t.Run("Calendar", func(t *testing.T) {
		w := send(router, http.MethodGet, "/stats/calendar?year=2024&month=1", "")
		require.Equal(t, http.StatusOK, w.Code)
		var cal domain.MonthCalendar
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cal))
		assert.Equal(t, domain.DayStatusWithin, cal.Cells[0].Status)
		assert.Equal(t, domain.DayStatusNear, cal.Cells[2].Status)

		w = send(router, http.MethodGet, "/stats/calendar?month=13", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Snapshot is computed on first access", func(t *testing.T) {
		w := send(router, http.MethodGet, "/stats/weekly/snapshot", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"period_end":"2024-01-04"`)
	})
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrapped: %w", domain.ErrInvalidDate), http.StatusBadRequest},
		{stats.ErrInvalidWindowLength, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrUnauthorized, http.StatusForbidden},
		{domain.ErrProfileNotFound, http.StatusNotFound},
		{domain.ErrLogConflict, http.StatusConflict},
		{domain.ErrEmailAlreadyExists, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			handleError(c, tt.err)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
