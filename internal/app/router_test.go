package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icd201_backend/internal/config"
	"icd201_backend/internal/model"
	"icd201_backend/internal/planner"
	"icd201_backend/pkg/database"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "0", Mode: gin.TestMode},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())},
		Storage:  config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		Planner:  config.PlannerConfig{ConflictPolicy: planner.PolicyCount, HoursPerDay: 8, Greeting: "ICD201 Course Schema API"},
	}
	db, err := database.InitDB(&cfg.Database)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return New(cfg, db, nil)
}

func do(t *testing.T, a *App, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestHandshakeAndHealth(t *testing.T) {
	a := newTestApp(t)

	w := do(t, a, http.MethodGet, "/api/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ICD201 Course Schema API", decode(t, w, nil).Message)

	w = do(t, a, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	decode(t, w, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "disabled", health.Components["cache"])
	assert.Equal(t, "local", health.Components["archive"])
}

func TestUnitRoutes(t *testing.T) {
	a := newTestApp(t)

	w := do(t, a, http.MethodGet, "/api/units", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var units []model.Unit
	decode(t, w, &units)
	require.Len(t, units, 4)
	assert.Len(t, units[0].Lessons, 3)

	// 带结尾斜杠的列表路径直接返回，不重定向
	w = do(t, a, http.MethodGet, "/api/units/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &units)
	assert.Len(t, units, 4)

	w = do(t, a, http.MethodGet, "/api/units/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, a, http.MethodGet, "/api/units/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a, http.MethodPost, "/api/units", map[string]interface{}{"duration": 4})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w, nil).Message, "title is required")

	w = do(t, a, http.MethodPost, "/api/units/2/lessons", map[string]interface{}{"title": "Atelier", "duration": 2, "resources": []string{"iPad"}})
	require.Equal(t, http.StatusCreated, w.Code)
	var unit model.Unit
	decode(t, w, &unit)
	assert.Len(t, unit.Lessons, 4)

	w = do(t, a, http.MethodDelete, "/api/units/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, a, http.MethodGet, "/api/calendar/events?unit_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var events []model.CalendarEvent
	decode(t, w, &events)
	assert.Empty(t, events)
}

func TestCalendarRoutes(t *testing.T) {
	a := newTestApp(t)

	w := do(t, a, http.MethodGet, "/api/calendar/events?resource_id=imprimantes3D", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var events []model.CalendarEvent
	decode(t, w, &events)
	require.Len(t, events, 1)
	assert.Equal(t, "2025-02-12", events[0].Date)

	w = do(t, a, http.MethodGet, "/api/calendar/events?unit_id=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a, http.MethodPost, "/api/calendar/events", map[string]interface{}{
		"title": "Révision", "unit_id": 1, "date": "15/01/2025", "duration": 2,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w, nil).Message, "date must use the YYYY-MM-DD format")

	w = do(t, a, http.MethodPost, "/api/calendar/events", map[string]interface{}{
		"title": "Révision", "unit_id": 1, "date": "2025-01-16", "duration": 2, "resources": []string{"laser"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a, http.MethodGet, "/api/calendar/weeks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var weeks []planner.Week
	decode(t, w, &weeks)
	require.Len(t, weeks, 18)
	assert.Len(t, weeks[4].Events, 1)

	w = do(t, a, http.MethodGet, "/api/calendar/day/2025-01-22", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &events)
	assert.Len(t, events, 1)

	w = do(t, a, http.MethodPut, "/api/calendar/events/1", map[string]interface{}{"unit_id": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a, http.MethodPut, "/api/calendar/events/1", map[string]interface{}{"unit_id": 2, "clear_lesson": true})
	require.Equal(t, http.StatusOK, w.Code)
	var moved model.CalendarEvent
	decode(t, w, &moved)
	assert.Equal(t, uint(2), moved.UnitID)
	assert.Nil(t, moved.LessonID)

	w = do(t, a, http.MethodGet, "/api/calendar/conflicts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report struct {
		Conflicts []planner.Contention `json:"conflicts"`
		Policy    string               `json:"policy"`
	}
	decode(t, w, &report)
	assert.Empty(t, report.Conflicts)
	assert.Equal(t, planner.PolicyCount, report.Policy)
}

func TestResourceDeleteRoute(t *testing.T) {
	a := newTestApp(t)

	w := do(t, a, http.MethodGet, "/api/resources/ordinateurs/usage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var usage planner.ResourceUsage
	decode(t, w, &usage)
	assert.Equal(t, 83, usage.TotalHours)

	w = do(t, a, http.MethodGet, "/api/resources/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resources []model.Resource
	decode(t, w, &resources)
	assert.Len(t, resources, 4)

	w = do(t, a, http.MethodPost, "/api/resources", map[string]interface{}{"id": "iPad", "name": "iPad", "quantity": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a, http.MethodDelete, "/api/resources/imprimantes3D", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, a, http.MethodGet, "/api/resources/imprimantes3D/usage", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, a, http.MethodGet, "/api/calendar/events?resource_id=imprimantes3D", nil)
	var events []model.CalendarEvent
	decode(t, w, &events)
	assert.Empty(t, events)
}

func TestSettingsRoutes(t *testing.T) {
	a := newTestApp(t)

	w := do(t, a, http.MethodPut, "/api/settings", map[string]interface{}{"total_weeks": 0, "start_date": "2025-02-30"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a, http.MethodPut, "/api/settings", map[string]interface{}{"total_weeks": 10})
	require.Equal(t, http.StatusOK, w.Code)
	var settings model.CourseSettings
	decode(t, w, &settings)
	assert.Equal(t, 10, settings.TotalWeeks)

	w = do(t, a, http.MethodGet, "/api/calendar/weeks", nil)
	var weeks []planner.Week
	decode(t, w, &weeks)
	assert.Len(t, weeks, 10)

	w = do(t, a, http.MethodGet, "/api/stats/overview", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var overview map[string]interface{}
	decode(t, w, &overview)
	assert.EqualValues(t, 4, overview["units_count"])
	assert.Contains(t, overview, "duration_drift")
}

func TestExportRoutes(t *testing.T) {
	a := newTestApp(t)

	w := do(t, a, http.MethodPost, "/api/export/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	disposition := w.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, "attachment; filename=schema_cours_icd201_"), disposition)
	assert.True(t, strings.HasSuffix(disposition, ".pdf"), disposition)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = do(t, a, http.MethodPost, "/api/export/xlsx", map[string]interface{}{"detail_level": "summary"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasSuffix(w.Header().Get("Content-Disposition"), ".xlsx"))

	w = do(t, a, http.MethodPost, "/api/export/preview", map[string]interface{}{"detail_level": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a, http.MethodPost, "/api/export/preview", map[string]interface{}{"selected_units": []uint{42}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, a, http.MethodPost, "/api/export/preview", map[string]interface{}{"include_schedule": false})
	require.Equal(t, http.StatusOK, w.Code)
	var preview map[string]interface{}
	decode(t, w, &preview)
	assert.NotContains(t, preview, "calendar_summary")
	assert.Contains(t, preview, "resource_usage")

	w = do(t, a, http.MethodGet, "/api/export/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsRoute(t *testing.T) {
	a := newTestApp(t)
	do(t, a, http.MethodGet, "/api/units", nil)

	w := do(t, a, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
