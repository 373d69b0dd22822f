package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"aerogrow/config"
	"aerogrow/logger"
	"aerogrow/middlewares"
	"aerogrow/models"
	"aerogrow/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetSensorData returns the latest reading.
func GetSensorData(c *gin.Context) {
	data, err := latestReading(config.DB)
	if errors.Is(err, ErrNoSensorData) {
		c.JSON(http.StatusOK, gin.H{"error": "No sensor data available"})
		return
	}
	if err != nil {
		logger.Get().Error("Failed to fetch sensor data", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sensor data"})
		return
	}
	c.JSON(http.StatusOK, data)
}

// sensorFields carries the reading fields a device or an operator may set.
// Omitted fields keep their current value.
type sensorFields struct {
	Temperature    *float64 `json:"temperature" binding:"omitempty,gte=-40,lte=80"`
	Humidity       *float64 `json:"humidity" binding:"omitempty,gte=0,lte=100"`
	WaterLevel     *float64 `json:"waterLevel" binding:"omitempty,gte=0,lte=100"`
	NutrientLevel  *float64 `json:"nutrientLevel" binding:"omitempty,gte=0,lte=100"`
	PumpStatus     *string  `json:"pumpStatus" binding:"omitempty,oneof=active inactive warning"`
	LightStatus    *string  `json:"lightStatus" binding:"omitempty,oneof=on off dimmed"`
	ReservoirLevel *float64 `json:"reservoirLevel" binding:"omitempty,gte=0"`
	LightIntensity *float64 `json:"lightIntensity" binding:"omitempty,gte=0,lte=100"`
	WaterFlowRate  *float64 `json:"waterFlowRate" binding:"omitempty,gte=0"`
}

func (f sensorFields) apply(data *models.SensorData) {
	setFloat := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	setFloat(&data.Temperature, f.Temperature)
	setFloat(&data.Humidity, f.Humidity)
	setFloat(&data.WaterLevel, f.WaterLevel)
	setFloat(&data.NutrientLevel, f.NutrientLevel)
	setFloat(&data.ReservoirLevel, f.ReservoirLevel)
	setFloat(&data.LightIntensity, f.LightIntensity)
	setFloat(&data.WaterFlowRate, f.WaterFlowRate)
	if f.PumpStatus != nil {
		data.PumpStatus = *f.PumpStatus
	}
	if f.LightStatus != nil {
		data.LightStatus = *f.LightStatus
	}
}

// ReceiveData stores a reading pushed by a device. Temperature and
// humidity are required; other fields default to the latest reading. The
// reading is broadcast, checked for new threshold breaches and published.
func ReceiveData(hub *Hub, publisher ReadingPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sensorFields
		if err := c.ShouldBindJSON(&req); err != nil || req.Temperature == nil || req.Humidity == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
			return
		}

		telemetryMu.Lock()
		defer telemetryMu.Unlock()

		now := time.Now().UTC()
		current, err := latestReading(config.DB)
		if errors.Is(err, ErrNoSensorData) {
			current = models.InitialSensorData(now)
			current.PlantType = config.GetAutomationState().PlantType
		} else if err != nil {
			logger.Get().Error("Failed to load latest reading", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store sensor data"})
			return
		}

		next := current
		req.apply(&next)
		next.Timestamp = now
		if err := storeReading(config.DB, hub, publisher, current, &next); err != nil {
			logger.Get().Error("Failed to store sensor data", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store sensor data"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Data received successfully", "reading": next})
	}
}

// UpdateRecord corrects the measured fields of a stored reading.
func UpdateRecord(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid record ID")
	if !ok {
		return
	}

	var req sensorFields
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var record models.SensorData
	if err := config.DB.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update record"})
		return
	}

	req.apply(&record)
	record.IsAbnormal = utils.CheckAbnormality(record)
	if err := config.DB.Save(&record).Error; err != nil {
		logger.Get().Error("Failed to update reading", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update record"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Record updated successfully", "updatedRecord": record})
}

// DeleteRecord deletes a single reading.
func DeleteRecord(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid record ID")
	if !ok {
		return
	}

	result := config.DB.Delete(&models.SensorData{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete record"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
}

// DeleteAllRecords wipes the reading history. The route is guarded by
// RequireAdmin. The simulation idles until a new reading is received.
func DeleteAllRecords(c *gin.Context) {
	telemetryMu.Lock()
	defer telemetryMu.Unlock()

	result := config.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.SensorData{})
	if result.Error != nil {
		logger.Get().Error("Failed to delete readings", "error", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete records"})
		return
	}

	logger.Get().Info("Reading history deleted", "count", result.RowsAffected, "by", c.GetUint(middlewares.UserIDKey))
	c.JSON(http.StatusOK, gin.H{"message": "All records deleted successfully", "deletedCount": result.RowsAffected})
}

// GetAbnormalCount returns the number of stored readings that breach a threshold.
func GetAbnormalCount(c *gin.Context) {
	var count int64
	if err := config.DB.Model(&models.SensorData{}).Where(map[string]interface{}{"is_abnormal": true}).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count abnormal readings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// GetAbnormalHistory lists abnormal readings newest first with the breached
// alert kinds, ?limit= (default 50).
func GetAbnormalHistory(c *gin.Context) {
	var records []models.SensorData
	err := config.DB.Where(map[string]interface{}{"is_abnormal": true}).
		Order("timestamp desc").Order("id desc").
		Limit(queryInt(c, "limit", 50)).
		Find(&records).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch abnormal readings"})
		return
	}

	response := make([]gin.H, 0, len(records))
	for _, record := range records {
		response = append(response, gin.H{
			"id":        record.ID,
			"timestamp": record.Timestamp.Format(time.RFC3339),
			"type":      utils.GetAbnormalType(record),
		})
	}
	c.JSON(http.StatusOK, response)
}

// maxHistoryHours bounds ?hours= so the window start cannot overflow;
// it reaches further back than any stored reading.
const maxHistoryHours = 100000

func sensorHistory(c *gin.Context) ([]models.SensorData, error) {
	hours := queryInt(c, "hours", 24)
	if hours > maxHistoryHours {
		hours = maxHistoryHours
	}
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)

	var records []models.SensorData
	err := config.DB.Where("timestamp >= ?", since).Order("timestamp asc").Order("id asc").Find(&records).Error
	return records, err
}

// GetSensorHistory returns readings of the last ?hours= hours (default 24),
// oldest first.
func GetSensorHistory(c *gin.Context) {
	records, err := sensorHistory(c)
	if err != nil {
		logger.Get().Error("Failed to fetch sensor history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sensor history"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// DownloadCSV sends the sensor history as a CSV file. The alerts column
// lists the thresholds each reading breaches.
func DownloadCSV(c *gin.Context) {
	records, err := sensorHistory(c)
	if err != nil {
		logger.Get().Error("Failed to export sensor history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sensor history"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=sensor_data.csv")
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{
		"timestamp", "temperature", "humidity", "water_level", "nutrient_level",
		"pump_status", "light_status", "reservoir_level", "water_used", "plant_type", "alerts",
	})
	for _, record := range records {
		writer.Write([]string{
			record.Timestamp.Format(time.RFC3339),
			fmt.Sprintf("%.1f", record.Temperature),
			fmt.Sprintf("%.0f", record.Humidity),
			fmt.Sprintf("%.0f", record.WaterLevel),
			fmt.Sprintf("%.0f", record.NutrientLevel),
			record.PumpStatus,
			record.LightStatus,
			fmt.Sprintf("%.1f", record.ReservoirLevel),
			fmt.Sprintf("%.1f", record.WaterUsed),
			record.PlantType,
			utils.GetAbnormalType(record),
		})
	}
}

// GetNotifications returns the newest notifications, ?limit= (default 10).
func GetNotifications(c *gin.Context) {
	var notifications []models.Notification
	err := config.DB.Order("timestamp desc").Order("id desc").Limit(queryInt(c, "limit", 10)).Find(&notifications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// GetUnreadCount returns the number of unread notifications.
func GetUnreadCount(c *gin.Context) {
	var count int64
	if err := config.DB.Model(&models.Notification{}).Where(map[string]interface{}{"read": false}).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notification count"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkNotificationRead flags one notification as read. success is false
// when the notification does not exist.
func MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	result := config.DB.Model(&models.Notification{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification as read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": result.RowsAffected > 0})
}

func MarkAllNotificationsRead(c *gin.Context) {
	err := config.DB.Model(&models.Notification{}).Where(map[string]interface{}{"read": false}).Update("read", true).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark all notifications as read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetActivities returns the newest activity entries, ?limit= (default 10).
func GetActivities(c *gin.Context) {
	var activities []models.Activity
	err := config.DB.Order("timestamp desc").Order("id desc").Limit(queryInt(c, "limit", 10)).Find(&activities).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activities"})
		return
	}
	c.JSON(http.StatusOK, activities)
}
