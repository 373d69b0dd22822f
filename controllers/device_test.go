package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"aerogrow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceTowerMustExist(t *testing.T) {
	setupTestDB(t)
	r, _ := newTestRouter(t)
	token := testToken(t, 1)

	w := doJSON(t, r, http.MethodPost, "/api/devices", jsonBody{"name": "Probe", "type": "sensor", "towerId": 42}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Tower not found", decodeBody[jsonBody](t, w)["error"])

	assert.Zero(t, countRows(t, &models.Device{}))
}

func TestDeviceCRUD(t *testing.T) {
	db := setupTestDB(t)
	r, _ := newTestRouter(t)
	token := testToken(t, 1)

	tower := models.Tower{Name: "T1", Type: "indoor", Status: "active", AddressingType: models.AddressingNone}
	require.NoError(t, db.Create(&tower).Error)

	w := doJSON(t, r, http.MethodPost, "/api/devices", jsonBody{"name": "Probe", "type": "sensor", "towerId": tower.ID}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	device := decodeBody[models.Device](t, w)
	assert.Equal(t, "offline", device.Status)
	assert.Nil(t, device.LastSeen)

	w = doJSON(t, r, http.MethodPost, "/api/devices", jsonBody{"name": "Loose", "type": "light"}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/devices?towerId=%d", tower.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	filtered := decodeBody[[]models.Device](t, w)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Probe", filtered[0].Name)

	w = doJSON(t, r, http.MethodGet, "/api/devices?towerId=x", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	path := fmt.Sprintf("/api/devices/%d", device.ID)
	w = doJSON(t, r, http.MethodPut, path+"/status", jsonBody{"status": "online"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	online := decodeBody[models.Device](t, w)
	assert.Equal(t, "online", online.Status)
	require.NotNil(t, online.LastSeen)

	w = doJSON(t, r, http.MethodPut, path, jsonBody{"name": "Probe 2", "type": "sensor", "towerId": 999}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, path, jsonBody{"name": "Probe 2", "type": "sensor"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Probe 2", decodeBody[models.Device](t, w).Name)

	w = doJSON(t, r, http.MethodDelete, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
