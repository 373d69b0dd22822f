package controllers

import (
	"errors"
	"net/http"
	"time"

	"aerogrow/config"
	"aerogrow/logger"
	"aerogrow/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetScans lists scans. With ?limit= only the most recent ones are returned.
func GetScans(c *gin.Context) {
	var scans []models.Scan
	query := config.DB.Order("timestamp desc").Order("id desc")
	if limit := queryInt(c, "limit", 0); limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&scans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch scans"})
		return
	}
	c.JSON(http.StatusOK, scans)
}

func GetScan(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid scan ID")
	if !ok {
		return
	}

	var scan models.Scan
	if err := config.DB.First(&scan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Scan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch scan"})
		return
	}
	c.JSON(http.StatusOK, scan)
}

func GetUserScans(c *gin.Context) {
	userID, ok := parseID(c, "id", "Invalid user ID")
	if !ok {
		return
	}

	var scans []models.Scan
	if err := config.DB.Where("user_id = ?", userID).Order("timestamp desc").Find(&scans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch scans"})
		return
	}
	c.JSON(http.StatusOK, scans)
}

// CreateScan stores a scan and records a "created" history entry.
func CreateScan(c *gin.Context) {
	var scan models.Scan
	if err := c.ShouldBindJSON(&scan); err != nil || scan.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scan data"})
		return
	}
	scan.ID = 0
	if scan.Timestamp.IsZero() {
		scan.Timestamp = time.Now().UTC()
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&scan).Error; err != nil {
			return err
		}
		return tx.Create(&models.ScanHistory{
			ScanID:    scan.ID,
			UserID:    scan.UserID,
			Action:    models.ActionCreated,
			Timestamp: time.Now().UTC(),
			Metadata:  map[string]interface{}{"location": scan.Location},
		}).Error
	})
	if err != nil {
		logger.Get().Error("Failed to create scan", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scan data"})
		return
	}
	c.JSON(http.StatusCreated, scan)
}

func GetMinerals(c *gin.Context) {
	var minerals []models.Mineral
	if err := config.DB.Order("id asc").Find(&minerals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch minerals"})
		return
	}
	c.JSON(http.StatusOK, minerals)
}

func GetScanMinerals(c *gin.Context) {
	scanID, ok := parseID(c, "id", "Invalid scan ID")
	if !ok {
		return
	}

	var minerals []models.Mineral
	if err := config.DB.Where("scan_id = ?", scanID).Order("id asc").Find(&minerals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch minerals"})
		return
	}
	c.JSON(http.StatusOK, minerals)
}

func CreateMineral(c *gin.Context) {
	var mineral models.Mineral
	if err := c.ShouldBindJSON(&mineral); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mineral data"})
		return
	}
	mineral.ID = 0
	if mineral.DetectionDate.IsZero() {
		mineral.DetectionDate = time.Now().UTC()
	}

	if err := config.DB.Create(&mineral).Error; err != nil {
		logger.Get().Error("Failed to create mineral", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mineral data"})
		return
	}
	c.JSON(http.StatusCreated, mineral)
}

func GetScanHistory(c *gin.Context) {
	scanID, ok := parseID(c, "id", "Invalid scan ID")
	if !ok {
		return
	}

	var history []models.ScanHistory
	if err := config.DB.Where("scan_id = ?", scanID).Order("timestamp desc").Order("id desc").Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch scan history"})
		return
	}
	c.JSON(http.StatusOK, history)
}

func GetUserScanHistory(c *gin.Context) {
	userID, ok := parseID(c, "id", "Invalid user ID")
	if !ok {
		return
	}

	var history []models.ScanHistory
	if err := config.DB.Where("user_id = ?", userID).Order("timestamp desc").Order("id desc").Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch scan history"})
		return
	}
	c.JSON(http.StatusOK, history)
}

func CreateScanHistory(c *gin.Context) {
	var entry models.ScanHistory
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid history data"})
		return
	}
	entry.ID = 0
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if err := config.DB.Create(&entry).Error; err != nil {
		logger.Get().Error("Failed to create scan history", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid history data"})
		return
	}
	c.JSON(http.StatusCreated, entry)
}
