package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"aerogrow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	setupTestDB(t)
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", jsonBody{"username": "geo", "password": "secret1", "email": "geo@example.com"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody[jsonBody](t, w)
	user := created["user"].(map[string]interface{})
	assert.Equal(t, "geo", user["username"])
	assert.Equal(t, models.RoleUser, user["role"])
	assert.NotContains(t, user, "password")

	w = doJSON(t, r, http.MethodPost, "/api/auth/signup", jsonBody{"username": "geo", "password": "secret2"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/signup", jsonBody{"username": "ab", "password": "secret1"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", jsonBody{"username": "geo", "password": "wrong-one"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", jsonBody{"username": "geo", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := decodeBody[jsonBody](t, w)["token"].(string)
	require.NotEmpty(t, token)

	w = doJSON(t, r, http.MethodGet, "/api/auth/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "geo", decodeBody[models.User](t, w).Username)

	w = doJSON(t, r, http.MethodGet, "/api/auth/profile?token="+token, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/auth/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/auth/profile", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPromoteToAdmin(t *testing.T) {
	db := setupTestDB(t)
	r, _ := newTestRouter(t)

	email := "field@example.com"
	admin := models.User{Username: "root", Password: "x", Role: models.RoleAdmin}
	field := models.User{Username: "field", Password: "x", Role: models.RoleUser, Email: &email}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&field).Error)

	w := doJSON(t, r, http.MethodPost, "/api/auth/promote", jsonBody{"email": email}, testToken(t, field.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/promote", jsonBody{"email": "nobody@example.com"}, testToken(t, admin.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/promote", jsonBody{"email": email}, testToken(t, admin.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var promoted models.User
	require.NoError(t, db.First(&promoted, field.ID).Error)
	assert.Equal(t, models.RoleAdmin, promoted.Role)
}

func TestUsersEndpoints(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedDefaults(db))
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/users", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	users := decodeBody[[]models.User](t, w)
	require.Len(t, users, 1)
	assert.Equal(t, "alex", users[0].Username)
	assert.Equal(t, models.RoleGeologist, users[0].Role)

	w = doJSON(t, r, http.MethodGet, "/api/users/5", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/users/zero", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDemoteToUser(t *testing.T) {
	db := setupTestDB(t)
	r, _ := newTestRouter(t)

	rootEmail, otherEmail := "root@example.com", "other@example.com"
	admin := models.User{Username: "root", Password: "x", Role: models.RoleAdmin, Email: &rootEmail}
	other := models.User{Username: "other", Password: "x", Role: models.RoleAdmin, Email: &otherEmail}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&other).Error)

	w := doJSON(t, r, http.MethodPost, "/api/auth/demote", jsonBody{"email": rootEmail}, testToken(t, admin.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code, "admins keep their own role")

	w = doJSON(t, r, http.MethodPost, "/api/auth/demote", jsonBody{"email": "nobody@example.com"}, testToken(t, admin.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/demote", jsonBody{"email": otherEmail}, testToken(t, admin.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var demoted models.User
	require.NoError(t, db.First(&demoted, other.ID).Error)
	assert.Equal(t, models.RoleUser, demoted.Role)

	w = doJSON(t, r, http.MethodPost, "/api/auth/demote", jsonBody{"email": rootEmail}, testToken(t, other.ID))
	assert.Equal(t, http.StatusForbidden, w.Code, "demoted user lost admin rights")
}

func TestDeleteUserAccount(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedDefaults(db))
	r, _ := newTestRouter(t)

	admin := models.User{Username: "root", Password: "x", Role: models.RoleAdmin}
	field := models.User{Username: "field", Password: "x", Role: models.RoleGeologist}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&field).Error)
	adminToken := testToken(t, admin.ID)

	w := doJSON(t, r, http.MethodPost, "/api/detect-minerals", jsonBody{
		"imageData": strings.Repeat("x", 2048),
		"userId":    field.ID,
	}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, int64(1), countRows(t, &models.Scan{}))
	require.NotZero(t, countRows(t, &models.Mineral{}))

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/users/%d", field.ID), nil, testToken(t, field.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/users/%d", admin.ID), nil, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/users/999", nil, adminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/users/%d", field.ID), nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody[jsonBody](t, w)
	assert.Equal(t, float64(1), body["deletedScans"])
	assert.Equal(t, "field", body["deletedUser"].(map[string]interface{})["username"])

	for _, model := range []interface{}{&models.Scan{}, &models.Mineral{}, &models.MlAnalysis{}, &models.ScanHistory{}} {
		assert.Zero(t, countRows(t, model))
	}
	assert.Equal(t, int64(2), countRows(t, &models.User{}), "alex and root remain")
}
