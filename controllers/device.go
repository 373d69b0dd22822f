package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"aerogrow/config"
	"aerogrow/logger"
	"aerogrow/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errUnknownTower = errors.New("tower does not exist")

// GetDevices lists devices, optionally only those of ?towerId=.
func GetDevices(c *gin.Context) {
	query := config.DB.Order("id asc")
	if raw := c.Query("towerId"); raw != "" {
		towerID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tower ID"})
			return
		}
		query = query.Where("tower_id = ?", towerID)
	}

	var devices []models.Device
	if err := query.Find(&devices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch devices"})
		return
	}
	c.JSON(http.StatusOK, devices)
}

func findDevice(c *gin.Context) (models.Device, bool) {
	var device models.Device
	id, ok := parseID(c, "id", "Invalid device ID")
	if !ok {
		return device, false
	}

	if err := config.DB.First(&device, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
			return device, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch device"})
		return device, false
	}
	return device, true
}

func GetDevice(c *gin.Context) {
	device, ok := findDevice(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, device)
}

func checkTower(tx *gorm.DB, towerID *uint) error {
	if towerID == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Tower{}).Where("id = ?", *towerID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errUnknownTower
	}
	return nil
}

// saveDevice stores device after checking its tower and records an activity.
func saveDevice(c *gin.Context, device *models.Device, create bool, description string) bool {
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := checkTower(tx, device.TowerID); err != nil {
			return err
		}
		var err error
		if create {
			err = tx.Create(device).Error
		} else {
			err = tx.Save(device).Error
		}
		if err != nil {
			return err
		}
		return recordActivity(tx, "device", description, "device")
	})
	if errors.Is(err, errUnknownTower) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tower not found"})
		return false
	}
	if err != nil {
		logger.Get().Error("Failed to save device", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save device"})
		return false
	}
	return true
}

func CreateDevice(c *gin.Context) {
	var device models.Device
	if err := c.ShouldBindJSON(&device); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid device data"})
		return
	}
	device.ID = 0
	if device.Status == "" {
		device.Status = "offline"
	}

	if !saveDevice(c, &device, true, fmt.Sprintf("Device %q added", device.Name)) {
		return
	}
	c.JSON(http.StatusCreated, device)
}

// UpdateDevice applies the request body to the device and stamps lastSeen.
func UpdateDevice(c *gin.Context) {
	device, ok := findDevice(c)
	if !ok {
		return
	}

	input := device
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid device data"})
		return
	}
	input.ID = device.ID
	now := time.Now().UTC()
	input.LastSeen = &now

	if !saveDevice(c, &input, false, fmt.Sprintf("Device %q updated", input.Name)) {
		return
	}
	c.JSON(http.StatusOK, input)
}

// UpdateDeviceStatus sets only the status field, e.g. online/offline
// reported by a device heartbeat.
func UpdateDeviceStatus(c *gin.Context) {
	device, ok := findDevice(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	device.Status = req.Status
	now := time.Now().UTC()
	device.LastSeen = &now

	if !saveDevice(c, &device, false, fmt.Sprintf("Device %q is now %s", device.Name, device.Status)) {
		return
	}
	c.JSON(http.StatusOK, device)
}

func DeleteDevice(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid device ID")
	if !ok {
		return
	}

	var found bool
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Device{}, id)
		if result.Error != nil || result.RowsAffected == 0 {
			return result.Error
		}
		found = true
		return recordActivity(tx, "device", "Device deleted", "device")
	})
	if err != nil {
		logger.Get().Error("Failed to delete device", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete device"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
