package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"aerogrow/config"
	"aerogrow/logger"
	"aerogrow/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func GetTowers(c *gin.Context) {
	var towers []models.Tower
	if err := config.DB.Order("id asc").Find(&towers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch towers"})
		return
	}
	c.JSON(http.StatusOK, towers)
}

func GetTower(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid tower ID")
	if !ok {
		return
	}

	var tower models.Tower
	if err := config.DB.First(&tower, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tower not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tower"})
		return
	}
	c.JSON(http.StatusOK, tower)
}

func CreateTower(c *gin.Context) {
	var tower models.Tower
	if err := c.ShouldBindJSON(&tower); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tower data"})
		return
	}
	tower.ID = 0
	if tower.Status == "" {
		tower.Status = "active"
	}
	if tower.AddressingType == "" {
		tower.AddressingType = models.AddressingNone
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tower).Error; err != nil {
			return err
		}
		return recordActivity(tx, "tower", fmt.Sprintf("Tower %q created", tower.Name), "tower")
	})
	if err != nil {
		logger.Get().Error("Failed to create tower", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tower"})
		return
	}
	c.JSON(http.StatusCreated, tower)
}

// UpdateTower replaces the tower's fields with the request body and stamps
// updatedAt. The ID and creation time are kept.
func UpdateTower(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid tower ID")
	if !ok {
		return
	}

	var tower models.Tower
	if err := config.DB.First(&tower, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tower not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tower"})
		return
	}

	// Start from the stored row so omitted fields keep their values.
	input := tower
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tower data"})
		return
	}
	input.ID = tower.ID
	input.CreatedAt = tower.CreatedAt
	input.UpdatedAt = time.Now().UTC()

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&input).Error; err != nil {
			return err
		}
		return recordActivity(tx, "tower", fmt.Sprintf("Tower %q updated", input.Name), "tower")
	})
	if err != nil {
		logger.Get().Error("Failed to update tower", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tower"})
		return
	}
	c.JSON(http.StatusOK, input)
}

// DeleteTower removes the tower and detaches its devices.
func DeleteTower(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid tower ID")
	if !ok {
		return
	}

	var found bool
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Device{}).Where("tower_id = ?", id).Update("tower_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Tower{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		found = true
		return recordActivity(tx, "tower", "Tower deleted", "tower")
	})
	if err != nil {
		logger.Get().Error("Failed to delete tower", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tower"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tower not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
