package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"aerogrow/config"
	"aerogrow/models"
	"aerogrow/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func insertReadings(t *testing.T, db *gorm.DB, ages ...time.Duration) {
	t.Helper()
	now := time.Now().UTC()
	for _, age := range ages {
		reading := models.InitialSensorData(now.Add(-age))
		require.NoError(t, db.Create(&reading).Error)
	}
}

func TestGetSensorData(t *testing.T) {
	db := setupTestDB(t)
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/sensor-data", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No sensor data available", decodeBody[jsonBody](t, w)["error"])

	insertReadings(t, db, 2*time.Hour, time.Minute)
	w = doJSON(t, r, http.MethodGet, "/api/sensor-data", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	latest := decodeBody[models.SensorData](t, w)
	assert.Equal(t, uint(2), latest.ID)
	assert.Equal(t, 23.5, latest.Temperature)
}

func TestSensorHistory(t *testing.T) {
	db := setupTestDB(t)
	r, _ := newTestRouter(t)
	insertReadings(t, db, 48*time.Hour, 2*time.Hour, time.Hour)

	w := doJSON(t, r, http.MethodGet, "/api/sensor-history", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	history := decodeBody[[]models.SensorData](t, w)
	require.Len(t, history, 2)
	assert.True(t, history[0].Timestamp.Before(history[1].Timestamp), "oldest first")

	w = doJSON(t, r, http.MethodGet, "/api/sensor-history?hours=72", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]models.SensorData](t, w), 3)

	w = doJSON(t, r, http.MethodGet, "/api/sensor-history?hours=3000000", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]models.SensorData](t, w), 3, "a huge window returns everything")

	w = doJSON(t, r, http.MethodGet, "/api/sensor-history/export", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "timestamp,temperature,humidity"))
	assert.True(t, strings.HasSuffix(lines[0], ",alerts"))
	assert.Contains(t, lines[1], ",23.5,68,85,76,active,on,")
}

func TestNotifications(t *testing.T) {
	db := setupTestDB(t)
	r, _ := newTestRouter(t)
	token := testToken(t, 1)

	var ids []uint
	for _, msg := range []string{"first", "second", "third"} {
		n, err := createNotification(db, models.LevelInfo, msg)
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}

	w := doJSON(t, r, http.MethodGet, "/api/notifications?limit=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	recent := decodeBody[[]models.Notification](t, w)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].Message)

	unread := func() float64 {
		w := doJSON(t, r, http.MethodGet, "/api/notifications/count", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		return decodeBody[jsonBody](t, w)["count"].(float64)
	}
	assert.Equal(t, float64(3), unread())

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/notifications/read/%d", ids[0]), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody[jsonBody](t, w)["success"])
	assert.Equal(t, float64(2), unread())

	w = doJSON(t, r, http.MethodPost, "/api/notifications/read/9999", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody[jsonBody](t, w)["success"])

	w = doJSON(t, r, http.MethodPost, "/api/notifications/read/abc", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/notifications/read-all", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, unread())
}

func TestAutomationEndpoints(t *testing.T) {
	setupTestDB(t)
	r, _ := newTestRouter(t)
	token := testToken(t, 1)

	w := doJSON(t, r, http.MethodGet, "/api/automation", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeBody[jsonBody](t, w)
	assert.Equal(t, "mixed", state["plantType"])
	assert.Equal(t, true, state["temperatureControl"])

	w = doJSON(t, r, http.MethodPut, "/api/automation", jsonBody{"plantType": "basil"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	state = decodeBody[jsonBody](t, w)
	assert.Equal(t, "basil", state["plantType"])
	assert.Equal(t, true, state["temperatureControl"])

	w = doJSON(t, r, http.MethodPut, "/api/automation", jsonBody{"plantType": "cactus"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/automation", nil, "")
	state = decodeBody[jsonBody](t, w)
	assert.Equal(t, "basil", state["plantType"])
	rng := state["temperatureRange"].(map[string]interface{})
	assert.Equal(t, 24.0, rng["optimal"])
}

func TestReceiveData(t *testing.T) {
	setupTestDB(t)
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	t.Cleanup(hub.Close)
	pub := &recordingPublisher{}
	r := SetupRouter(testSettings(), hub, pub)
	token := testToken(t, 1)

	w := doJSON(t, r, http.MethodPost, "/api/sensor-data", jsonBody{"temperature": 22, "humidity": 60}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/sensor-data", jsonBody{"temperature": 22}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code, "humidity is required")

	w = doJSON(t, r, http.MethodPost, "/api/sensor-data", jsonBody{"temperature": 22, "humidity": 140}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/sensor-data", jsonBody{"temperature": 22, "humidity": 60, "pumpStatus": "broken"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, countRows(t, &models.SensorData{}))

	w = doJSON(t, r, http.MethodPost, "/api/sensor-data", jsonBody{"temperature": 22, "humidity": 60, "waterLevel": 20}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decodeBody[struct {
		Reading models.SensorData `json:"reading"`
	}](t, w).Reading
	assert.NotZero(t, first.ID)
	assert.Equal(t, 22.0, first.Temperature)
	assert.Equal(t, 20.0, first.WaterLevel)
	assert.Equal(t, 76.0, first.NutrientLevel, "missing fields start from the initial reading")
	assert.True(t, first.IsAbnormal)
	assert.Equal(t, int64(1), countRows(t, &models.Notification{}))
	require.Equal(t, 1, pub.count())
	assert.Equal(t, first.ID, pub.readings[0].ID)

	w = doJSON(t, r, http.MethodPost, "/api/sensor-data", jsonBody{"temperature": 22.5, "humidity": 61}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, int64(1), countRows(t, &models.Notification{}), "a standing breach alerts once")

	latest, err := latestReading(config.DB)
	require.NoError(t, err)
	assert.Equal(t, 22.5, latest.Temperature)
	assert.Equal(t, 20.0, latest.WaterLevel, "carried over from the previous reading")
	assert.Equal(t, 2, pub.count())
}

func TestReadingMaintenance(t *testing.T) {
	db := setupTestDB(t)
	r, _ := newTestRouter(t)

	admin := models.User{Username: "root", Password: "x", Role: models.RoleAdmin}
	operator := models.User{Username: "operator", Password: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&operator).Error)
	token := testToken(t, operator.ID)

	insertReadings(t, db, 2*time.Hour, time.Hour, time.Minute)
	var readings []models.SensorData
	require.NoError(t, db.Order("id asc").Find(&readings).Error)

	w := doJSON(t, r, http.MethodGet, "/api/sensor-data/abnormal/count", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeBody[jsonBody](t, w)["count"])

	path := fmt.Sprintf("/api/sensor-data/%d", readings[0].ID)
	w = doJSON(t, r, http.MethodPut, path, jsonBody{"waterLevel": 10}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPut, path, jsonBody{"waterLevel": 10}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeBody[struct {
		UpdatedRecord models.SensorData `json:"updatedRecord"`
	}](t, w).UpdatedRecord
	assert.Equal(t, 10.0, updated.WaterLevel)
	assert.Equal(t, 23.5, updated.Temperature)
	assert.True(t, updated.IsAbnormal)

	w = doJSON(t, r, http.MethodPut, path, jsonBody{"waterLevel": 400}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, r, http.MethodPut, "/api/sensor-data/999", jsonBody{"waterLevel": 10}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, r, http.MethodPut, "/api/sensor-data/abc", jsonBody{"waterLevel": 10}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/sensor-data/abnormal/count", nil, "")
	assert.Equal(t, float64(1), decodeBody[jsonBody](t, w)["count"])

	w = doJSON(t, r, http.MethodGet, "/api/sensor-data/abnormal", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	abnormal := decodeBody[[]jsonBody](t, w)
	require.Len(t, abnormal, 1)
	assert.Equal(t, float64(readings[0].ID), abnormal[0]["id"])
	assert.Equal(t, utils.AlertWaterLevel, abnormal[0]["type"])

	w = doJSON(t, r, http.MethodDelete, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(2), countRows(t, &models.SensorData{}))

	w = doJSON(t, r, http.MethodDelete, "/api/sensor-data", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, int64(2), countRows(t, &models.SensorData{}))

	w = doJSON(t, r, http.MethodDelete, "/api/sensor-data", nil, testToken(t, admin.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(2), decodeBody[jsonBody](t, w)["deletedCount"])
	assert.Zero(t, countRows(t, &models.SensorData{}))
}
