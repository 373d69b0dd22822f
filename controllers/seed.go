package controllers

import (
	"fmt"
	"time"

	"aerogrow/logger"
	"aerogrow/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultUsername = "alex"
	defaultPassword = "password123"
)

func strPtr(s string) *string { return &s }

// SeedDefaults inserts the starter dataset. Each group is only inserted
// when its table is empty, so running it again is a no-op.
func SeedDefaults(db *gorm.DB) error {
	now := time.Now().UTC()

	return db.Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			name  string
			model interface{}
			rows  func() (interface{}, error)
		}{
			{"devices", &models.Device{}, func() (interface{}, error) {
				devices := defaultDevices()
				return &devices, nil
			}},
			{"sensor data", &models.SensorData{}, func() (interface{}, error) {
				initial := models.InitialSensorData(now)
				return &initial, nil
			}},
			{"notifications", &models.Notification{}, func() (interface{}, error) {
				notifications := defaultNotifications(now)
				return &notifications, nil
			}},
			{"ml models", &models.MlModel{}, func() (interface{}, error) {
				mlModels := defaultMlModels(now)
				return &mlModels, nil
			}},
			{"users", &models.User{}, defaultUser},
		}

		for _, step := range steps {
			var count int64
			if err := tx.Model(step.model).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to count %s: %w", step.name, err)
			}
			if count > 0 {
				continue
			}

			rows, err := step.rows()
			if err != nil {
				return err
			}
			if err := tx.Create(rows).Error; err != nil {
				return fmt.Errorf("failed to seed %s: %w", step.name, err)
			}
			logger.Get().Info("Seeded default data", "table", step.name)
		}
		return nil
	})
}

func defaultDevices() []models.Device {
	return []models.Device{
		{Name: "Main Hub", Type: "hub", Status: "online", Location: strPtr("Control Center")},
		{Name: "Temperature Sensor 1", Type: "sensor", Status: "online", Location: strPtr("Zone A")},
		{Name: "Humidity Sensor 1", Type: "sensor", Status: "online", Location: strPtr("Zone A")},
		{Name: "Water Level Sensor", Type: "sensor", Status: "online", Location: strPtr("Reservoir")},
		{Name: "Nutrient Pump", Type: "pump", Status: "online", Location: strPtr("Reservoir")},
		{Name: "LED Light Array 1", Type: "light", Status: "online", Location: strPtr("Zone A")},
	}
}

func defaultNotifications(now time.Time) []models.Notification {
	return []models.Notification{
		{Timestamp: now, Level: models.LevelInfo, Message: "Fertilizer level is low. Consider refilling soon."},
		{Timestamp: now, Level: models.LevelWarning, Message: "Temperature fluctuation detected in Zone A."},
	}
}

func defaultMlModels(now time.Time) []models.MlModel {
	return []models.MlModel{
		{
			Name:      "MineralNetV1",
			Version:   "1.0.0",
			Accuracy:  0.927,
			IsActive:  true,
			UpdatedAt: now,
			Parameters: map[string]interface{}{
				"layers":     24,
				"optimizer":  "adam",
				"inputShape": []int{224, 224, 3},
			},
		},
		{
			Name:      "RareMineralDetector",
			Version:   "0.9.5",
			Accuracy:  0.883,
			UpdatedAt: now,
			Parameters: map[string]interface{}{
				"layers":         32,
				"optimizer":      "sgd",
				"inputShape":     []int{299, 299, 3},
				"specializedFor": []string{"iridium", "platinum", "palladium"},
			},
		},
		{
			Name:      "GeologicalMapper",
			Version:   "1.2.0",
			Accuracy:  0.912,
			UpdatedAt: now,
			Parameters: map[string]interface{}{
				"layers":         18,
				"optimizer":      "rmsprop",
				"inputShape":     []int{512, 512, 3},
				"specializedFor": []string{"terrain", "formations", "structures"},
			},
		},
	}
}

func defaultUser() (interface{}, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash default password: %w", err)
	}
	return &models.User{
		Username: defaultUsername,
		Password: string(hashed),
		FullName: strPtr("Alex Morgan"),
		Role:     models.RoleGeologist,
	}, nil
}
