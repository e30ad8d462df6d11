package facade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icd201_backend/internal/app"
	"icd201_backend/internal/config"
	"icd201_backend/internal/export"
	"icd201_backend/internal/model"
	"icd201_backend/internal/planner"
	"icd201_backend/pkg/database"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func respond(status int, body string, header http.Header) roundTripperFunc {
	return func(r *http.Request) (*http.Response, error) {
		if header == nil {
			header = http.Header{"Content-Type": []string{"application/json"}}
		}
		return &http.Response{
			StatusCode: status,
			Header:     header,
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    r,
		}, nil
	}
}

func fakeClient(rt http.RoundTripper) *HTTPClient {
	return NewHTTPClient("http://planner.test/", time.Second, WithTransport(rt))
}

func TestClientUnwrapsEnvelope(t *testing.T) {
	var path string
	c := fakeClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		path = r.URL.Path
		return respond(200, `{"code":200,"message":"success","data":{"id":7,"title":"Projet","duration":6,"lessons":[]}}`, nil)(r)
	}))

	unit, err := c.GetUnit(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "/api/units/7", path)
	assert.Equal(t, uint(7), unit.ID)
	assert.Equal(t, "Projet", unit.Title)
}

func TestClientEncodesFilter(t *testing.T) {
	var query string
	c := fakeClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		query = r.URL.RawQuery
		return respond(200, `{"code":200,"message":"success","data":[]}`, nil)(r)
	}))

	unitID := uint(2)
	events, err := c.ListEvents(context.Background(), planner.EventFilter{UnitID: &unitID, ResourceID: "iPad"})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, "resource_id=iPad&unit_id=2", query)
}

func TestClientClassifiesErrors(t *testing.T) {
	ctx := context.Background()

	c := fakeClient(respond(404, `{"code":404,"message":"Unit not found"}`, nil))
	_, err := c.GetUnit(ctx, 99)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Unit not found", err.Error())

	c = fakeClient(respond(400, `{"code":400,"message":"invalid date"}`, nil))
	_, err = c.CreateEvent(ctx, model.EventInput{Title: "X", UnitID: 1, Date: "demain", Duration: 1})
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "invalid date", err.Error())

	c = fakeClient(respond(500, ``, nil))
	_, err = c.ListUnits(ctx)
	assert.Equal(t, KindServer, KindOf(err))
	assert.Equal(t, MsgServer, err.Error())

	c = fakeClient(respond(200, `not json`, nil))
	_, err = c.ListResources(ctx)
	assert.Equal(t, KindUnexpected, KindOf(err))

	refused := errors.New("connection refused")
	c = fakeClient(roundTripperFunc(func(*http.Request) (*http.Response, error) { return nil, refused }))
	_, err = c.GetSettings(ctx)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Equal(t, MsgNetwork, err.Error())
	assert.True(t, errors.Is(err, refused))

	conn := c.CheckConnection(ctx)
	assert.False(t, conn.Connected)
	assert.NotEmpty(t, conn.Error)
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, 50*time.Millisecond)
	_, err := c.ListUnits(context.Background())
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestClientExportFilename(t *testing.T) {
	header := http.Header{
		"Content-Type":        []string{"application/pdf"},
		"Content-Disposition": []string{"attachment; filename=schema_cours_icd201_2025-03-01.pdf"},
	}
	c := fakeClient(respond(200, "%PDF-1.3", header))
	doc, err := c.ExportDocument(context.Background(), export.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "schema_cours_icd201_2025-03-01.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, []byte("%PDF-1.3"), doc.Data)

	fixed := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	c = NewHTTPClient("http://planner.test", 0,
		WithTransport(respond(200, "%PDF-1.3", http.Header{})),
		WithClock(func() time.Time { return fixed }))
	doc, err = c.ExportDocument(context.Background(), export.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "schema_cours_icd201_2025-06-01.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
}

func newServer(t *testing.T) *httptest.Server {
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

	srv := httptest.NewServer(app.New(cfg, db, nil).Router)
	t.Cleanup(func() {
		srv.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return srv
}

func TestClientAgainstServer(t *testing.T) {
	srv := newServer(t)
	c := NewHTTPClient(srv.URL, 0)
	ctx := context.Background()

	conn := c.CheckConnection(ctx)
	require.True(t, conn.Connected, conn.Error)
	assert.Equal(t, "ICD201 Course Schema API", conn.Message)

	created, err := c.CreateUnit(ctx, model.UnitInput{Title: "Projet", Duration: 6, Objectives: []string{"Livrer"}})
	require.NoError(t, err)
	got, err := c.GetUnit(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Projet", got.Title)
	assert.Equal(t, []string{"Livrer"}, got.Objectives)

	unit, err := c.AddLesson(ctx, created.ID, model.LessonInput{Title: "Kick-off", Duration: 2, Resources: []string{"iPad"}})
	require.NoError(t, err)
	require.Len(t, unit.Lessons, 1)

	lessonID := unit.Lessons[0].ID
	event, err := c.CreateEvent(ctx, model.EventInput{
		Title: "Kick-off", UnitID: created.ID, LessonID: &lessonID,
		Date: "2025-03-10", Duration: 2, Resources: []string{"iPad"},
	})
	require.NoError(t, err)
	gotEvent, err := c.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", gotEvent.Date)
	assert.Equal(t, []string{"iPad"}, gotEvent.Resources)

	events, err := c.ListEvents(ctx, planner.EventFilter{UnitID: &created.ID})
	require.NoError(t, err)
	assert.Len(t, events, 1)

	_, err = c.GetUnit(ctx, 999)
	assert.True(t, IsNotFound(err))

	_, err = c.CreateResource(ctx, model.ResourceInput{ID: "iPad", Name: "Doublon", Quantity: 1})
	assert.Equal(t, KindValidation, KindOf(err))

	doc, err := c.ExportDocument(ctx, export.DefaultOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc.Filename, "schema_cours_icd201_"))
	assert.Equal(t, "%PDF", string(doc.Data[:4]))

	require.NoError(t, c.DeleteResource(ctx, "iPad"))
	_, err = c.GetResourceUsage(ctx, "iPad")
	assert.True(t, IsNotFound(err))
	gotEvent, err = c.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, gotEvent.Resources)
}
