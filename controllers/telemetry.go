package controllers

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"aerogrow/config"
	"aerogrow/logger"
	"aerogrow/models"
	"aerogrow/utils"

	"gorm.io/gorm"
)

// ErrNoSensorData is returned when no reading has been stored yet.
var ErrNoSensorData = errors.New("no sensor data available")

// telemetryMu serializes read-modify-write cycles on the latest reading so
// a command and a simulation tick never derive from the same row.
var telemetryMu sync.Mutex

func latestReading(db *gorm.DB) (models.SensorData, error) {
	var data models.SensorData
	err := db.Order("timestamp desc").Order("id desc").First(&data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return data, ErrNoSensorData
	}
	if err != nil {
		return data, fmt.Errorf("failed to load latest reading: %w", err)
	}
	return data, nil
}

func recordActivity(db *gorm.DB, kind, description, icon string) error {
	activity := models.Activity{
		Timestamp:   time.Now().UTC(),
		Type:        kind,
		Description: description,
	}
	if icon != "" {
		activity.Icon = &icon
	}
	if err := db.Create(&activity).Error; err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

func createNotification(db *gorm.DB, level, message string) (models.Notification, error) {
	n := models.Notification{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
	}
	if err := db.Create(&n).Error; err != nil {
		return n, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

// storeReading saves next as the newest reading, broadcasts it, raises a
// notification for every threshold newly breached since prev and hands the
// reading to publisher. Callers hold telemetryMu. hub and publisher may be nil.
func storeReading(db *gorm.DB, hub *Hub, publisher ReadingPublisher, prev models.SensorData, next *models.SensorData) error {
	log := logger.Get()

	next.ID = 0
	next.IsAbnormal = utils.CheckAbnormality(*next)
	if err := db.Create(next).Error; err != nil {
		return fmt.Errorf("failed to save reading: %w", err)
	}
	if hub != nil {
		hub.Broadcast(models.Message{Type: models.MessageSensorData, Data: *next})
	}

	for _, alert := range utils.NewAlerts(prev, *next) {
		n, err := createNotification(db, alert.Level, alert.Message)
		if err != nil {
			log.Error("Failed to store alert", "kind", alert.Kind, "error", err)
			continue
		}
		if hub != nil {
			hub.Broadcast(models.Message{Type: models.MessageNotification, Data: n})
		}
	}

	if publisher != nil {
		if err := publisher.PublishReading(*next); err != nil {
			log.Warn("Failed to publish reading", "error", err)
		}
	}
	return nil
}

// ExecuteCommand applies an actuator command to the latest reading, stores
// the result as a new reading with an activity entry and broadcasts it.
func ExecuteCommand(hub *Hub, target, action string) (models.SensorData, error) {
	telemetryMu.Lock()
	defer telemetryMu.Unlock()

	current, err := latestReading(config.DB)
	if err != nil {
		return current, err
	}

	next, description, err := utils.ApplyCommand(current, target, action)
	if err != nil {
		return current, err
	}
	next.Timestamp = time.Now().UTC()
	next.IsAbnormal = utils.CheckAbnormality(next)

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&next).Error; err != nil {
			return fmt.Errorf("failed to save reading: %w", err)
		}
		return recordActivity(tx, "command", description, target)
	})
	if err != nil {
		return current, err
	}

	logger.Get().Info("Command applied", "target", target, "action", action, "reading_id", next.ID)
	if hub != nil {
		hub.Broadcast(models.Message{Type: models.MessageSensorData, Data: next})
	}
	return next, nil
}
