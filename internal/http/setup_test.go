package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/linkshelf/internal/audit"
	"github.com/mrlokans/linkshelf/internal/database"
	dbaudit "github.com/mrlokans/linkshelf/internal/database/audit"
	"github.com/mrlokans/linkshelf/internal/database/bookmarks"
	"github.com/mrlokans/linkshelf/internal/database/tags"
	"github.com/mrlokans/linkshelf/internal/events"
	"github.com/mrlokans/linkshelf/internal/importers"
	"github.com/mrlokans/linkshelf/internal/notify"
	"github.com/mrlokans/linkshelf/internal/parsers"
	"github.com/mrlokans/linkshelf/internal/services"
	"github.com/mrlokans/linkshelf/internal/settingsstore"
	"github.com/mrlokans/linkshelf/internal/tasks"
)

const scenarioDoc = `{"title": "", "children": [
	{"title": "Work", "children": [{"title": "Site", "uri": "https://x", "dateAdded": 1000}]},
	{"title": "Top", "uri": "https://y", "dateAdded": 2000}
]}`

type testEnv struct {
	dir       string
	db        *database.Database
	bookmarks *bookmarks.Repository
	tags      *tags.Repository
	service   *services.ImportService
	registry  *parsers.Registry
	audit     *audit.Service
	broker    *events.Broker
	notes     *notify.Recorder
	router    *gin.Engine
}

func setupTestEnv(t *testing.T, taskClient *tasks.Client) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	db, err := database.NewTestDatabase(filepath.Join(dir, "linkshelf.db"))
	require.NoError(t, err)

	env := &testEnv{
		dir:       dir,
		db:        db,
		bookmarks: bookmarks.NewRepository(db.DB),
		tags:      tags.NewRepository(db.DB),
		audit:     audit.NewService(dbaudit.NewRepository(db.DB)),
		broker:    events.NewBroker(8),
		notes:     &notify.Recorder{},
	}
	t.Cleanup(func() {
		env.audit.Wait()
		db.Close()
	})

	registry := parsers.NewRegistry()
	registry.Reload(nil, time.Minute)
	env.registry = registry

	env.service = services.NewImportService(services.ImportServiceConfig{
		Registry:       registry,
		Pipeline:       importers.NewPipeline(env.bookmarks, 50, env.broker),
		Notifier:       notify.Multi{env.audit, env.broker, env.notes},
		Store:          settingsstore.New(filepath.Join(dir, "parsers.json")),
		Failures:       audit.NewAuditor(filepath.Join(dir, "audit")),
		DefaultTimeout: time.Minute,
	})

	env.router = NewRouter(RouterConfig{
		Parsers:       env.service,
		Importer:      env.service,
		Bookmarks:     env.bookmarks,
		Tags:          env.tags,
		Database:      db,
		Notifications: env.audit,
		Broker:        env.broker,
		TaskClient:    taskClient,
		UploadDir:     filepath.Join(dir, "uploads"),
		Version:       "test",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "uploads"), 0o755))
	return env
}

func (e *testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// importScenario stores https://x (tagged Work) and https://y.
func (e *testEnv) importScenario(t *testing.T) {
	t.Helper()
	path := e.writeFile(t, "bookmarks.json", scenarioDoc)
	w := e.do(t, http.MethodPost, "/api/import", ImportRequest{FilePath: path})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
