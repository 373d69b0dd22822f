package controllers

import (
	"aerogrow/models"

	"gorm.io/gorm"
)

// MigrateModels runs the database migrations. Referenced tables come
// before the tables that point at them.
func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AutomationSetting{},
		&models.Tower{},
		&models.Device{},
		&models.SensorData{},
		&models.Notification{},
		&models.Activity{},
		&models.MlModel{},
		&models.Scan{},
		&models.Mineral{},
		&models.MlAnalysis{},
		&models.ScanHistory{},
	)
}
