package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aerogrow/config"
	"aerogrow/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-0123456789"

// setupTestDB installs a fresh in-memory database as config.DB.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.NewDBConnection(config.DatabaseSettings{
		Type: config.SqliteDbType,
		DSN:  "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, MigrateModels(db))
	require.NoError(t, config.InitAutomationState(db))

	config.DB = db
	t.Cleanup(func() {
		config.DB = nil
		_ = config.CloseDB(db)
	})
	return db
}

func testSettings() *config.Settings {
	return &config.Settings{
		Server: config.ServerSettings{Port: "8080", AllowedOrigins: []string{"*"}},
		Auth:   config.AuthSettings{JWTSecret: testSecret, TokenTTL: time.Hour},
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, *Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	t.Cleanup(hub.Close)
	return SetupRouter(testSettings(), hub, nil), hub
}

func testToken(t *testing.T, userID uint) string {
	t.Helper()
	token, err := middlewares.IssueToken([]byte(testSecret), userID, time.Hour)
	require.NoError(t, err)
	return token
}

// doJSON sends body as JSON. A non-empty token is sent as a bearer header.
func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type jsonBody = map[string]interface{}

func countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, config.DB.Model(model).Count(&count).Error)
	return count
}
