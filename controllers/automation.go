package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"aerogrow/config"
	"aerogrow/logger"
	"aerogrow/utils"

	"github.com/gin-gonic/gin"
)

// GetAutomation returns the active plant profile and climate control switch.
func GetAutomation(c *gin.Context) {
	state := config.GetAutomationState()
	r := utils.PlantRangeFor(state.PlantType)
	c.JSON(http.StatusOK, gin.H{
		"plantType":          state.PlantType,
		"temperatureControl": state.TemperatureControl,
		"temperatureRange":   r,
		"plantTypes":         utils.PlantTypes(),
	})
}

// UpdateAutomation changes the plant profile and/or the climate control
// switch. Omitted fields keep their current value.
func UpdateAutomation(c *gin.Context) {
	var req struct {
		PlantType          *string `json:"plantType"`
		TemperatureControl *bool   `json:"temperatureControl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	state, err := config.UpdateAutomationState(config.DB, req.PlantType, req.TemperatureControl)
	if err != nil {
		if errors.Is(err, config.ErrUnknownPlant) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Get().Error("Failed to update automation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update automation"})
		return
	}

	description := fmt.Sprintf("Automation set to %s, temperature control %s", state.PlantType, onOff(state.TemperatureControl))
	if err := recordActivity(config.DB, "automation", description, "thermometer"); err != nil {
		logger.Get().Warn("Failed to record automation activity", "error", err)
	}
	c.JSON(http.StatusOK, state)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
