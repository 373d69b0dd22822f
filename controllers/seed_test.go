package controllers

import (
	"testing"

	"aerogrow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedDefaults(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SeedDefaults(db))
	require.NoError(t, SeedDefaults(db), "second run is a no-op")

	assert.Equal(t, int64(6), countRows(t, &models.Device{}))
	assert.Equal(t, int64(1), countRows(t, &models.SensorData{}))
	assert.Equal(t, int64(2), countRows(t, &models.Notification{}))
	assert.Equal(t, int64(3), countRows(t, &models.MlModel{}))
	assert.Equal(t, int64(1), countRows(t, &models.User{}))

	reading, err := latestReading(db)
	require.NoError(t, err)
	assert.Equal(t, 23.5, reading.Temperature)
	assert.Equal(t, 68.0, reading.Humidity)
	assert.Equal(t, models.LightOn, reading.LightStatus)

	model, err := activeModel(db)
	require.NoError(t, err)
	assert.Equal(t, "MineralNetV1", model.Name)
	assert.Equal(t, 0.927, model.Accuracy)

	var rare models.MlModel
	require.NoError(t, db.Where("name = ?", "RareMineralDetector").First(&rare).Error)
	assert.False(t, rare.IsActive)
	assert.Equal(t, []string{"iridium", "platinum", "palladium"}, rare.SpecializedFor())

	var user models.User
	require.NoError(t, db.First(&user).Error)
	assert.Equal(t, models.RoleGeologist, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(defaultPassword)))
}

func TestSeedKeepsExistingRows(t *testing.T) {
	db := setupTestDB(t)

	device := models.Device{Name: "Custom", Type: "sensor", Status: "online"}
	require.NoError(t, db.Create(&device).Error)

	require.NoError(t, SeedDefaults(db))
	assert.Equal(t, int64(1), countRows(t, &models.Device{}))
	assert.Equal(t, int64(3), countRows(t, &models.MlModel{}))
}
