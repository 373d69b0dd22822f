package config

import (
	"errors"
	"fmt"
	"sync"

	"aerogrow/models"
	"aerogrow/utils"

	"gorm.io/gorm"
)

// AutomationState is the cached copy of the persisted automation setting.
type AutomationState struct {
	PlantType          string `json:"plantType"`
	TemperatureControl bool   `json:"temperatureControl"`
}

var (
	currentAutomation = AutomationState{PlantType: utils.DefaultPlant, TemperatureControl: true}
	automationMutex   sync.Mutex
)

const automationSettingID = 1 // single global setting

// ErrUnknownPlant is returned when a plant type has no temperature profile.
var ErrUnknownPlant = errors.New("unknown plant type")

// InitAutomationState loads the automation setting from the database
// or creates the default entry if one doesn't exist.
func InitAutomationState(db *gorm.DB) error {
	automationMutex.Lock()
	defer automationMutex.Unlock()

	var setting models.AutomationSetting
	err := db.First(&setting, automationSettingID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load automation setting: %w", err)
		}
		setting = models.AutomationSetting{
			ID:                 automationSettingID,
			PlantType:          utils.DefaultPlant,
			TemperatureControl: true,
		}
		if err := db.Create(&setting).Error; err != nil {
			return fmt.Errorf("failed to create automation setting: %w", err)
		}
	}

	currentAutomation.PlantType = setting.PlantType
	currentAutomation.TemperatureControl = setting.TemperatureControl
	return nil
}

// GetAutomationState returns the current cached automation state.
func GetAutomationState() AutomationState {
	automationMutex.Lock()
	defer automationMutex.Unlock()
	return currentAutomation
}

// SetAutomationState updates the automation state in both the database and the cache.
func SetAutomationState(db *gorm.DB, plantType string, temperatureControl bool) error {
	_, err := UpdateAutomationState(db, &plantType, &temperatureControl)
	return err
}

// UpdateAutomationState applies the non-nil fields to the current state
// and persists the result. The read, the write and the cache update happen
// under one lock, so concurrent partial updates never drop a field.
func UpdateAutomationState(db *gorm.DB, plantType *string, temperatureControl *bool) (AutomationState, error) {
	automationMutex.Lock()
	defer automationMutex.Unlock()

	next := currentAutomation
	if plantType != nil {
		next.PlantType = *plantType
	}
	if temperatureControl != nil {
		next.TemperatureControl = *temperatureControl
	}
	if !utils.KnownPlant(next.PlantType) {
		return currentAutomation, fmt.Errorf("%w: %s", ErrUnknownPlant, next.PlantType)
	}

	setting := models.AutomationSetting{
		ID:                 automationSettingID,
		PlantType:          next.PlantType,
		TemperatureControl: next.TemperatureControl,
	}
	if err := db.Save(&setting).Error; err != nil {
		return currentAutomation, fmt.Errorf("failed to save automation setting: %w", err)
	}

	currentAutomation = next
	return next, nil
}
