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

func GetMlModels(c *gin.Context) {
	var mlModels []models.MlModel
	if err := config.DB.Order("id asc").Find(&mlModels).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ML models"})
		return
	}
	c.JSON(http.StatusOK, mlModels)
}

func activeModel(db *gorm.DB) (models.MlModel, error) {
	var model models.MlModel
	err := db.Where(map[string]interface{}{"is_active": true}).Order("updated_at desc").First(&model).Error
	return model, err
}

func GetActiveMlModel(c *gin.Context) {
	model, err := activeModel(config.DB)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active ML model found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ML model"})
		return
	}
	c.JSON(http.StatusOK, model)
}

func deactivateModels(tx *gorm.DB, except uint) error {
	return tx.Model(&models.MlModel{}).
		Where("id <> ? AND is_active = ?", except, true).
		Update("is_active", false).Error
}

// CreateMlModel stores a model. A model created active becomes the only
// active one.
func CreateMlModel(c *gin.Context) {
	var model models.MlModel
	if err := c.ShouldBindJSON(&model); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ML model data"})
		return
	}
	model.ID = 0

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		if model.IsActive {
			return deactivateModels(tx, model.ID)
		}
		return nil
	})
	if err != nil {
		logger.Get().Error("Failed to create ML model", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ML model data"})
		return
	}
	c.JSON(http.StatusCreated, model)
}

// SetActiveMlModel activates the model and deactivates every other one.
func SetActiveMlModel(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid ML model ID")
	if !ok {
		return
	}

	var model models.MlModel
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model, id).Error; err != nil {
			return err
		}
		if err := deactivateModels(tx, model.ID); err != nil {
			return err
		}
		model.IsActive = true
		model.UpdatedAt = time.Now().UTC()
		return tx.Save(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ML model not found"})
			return
		}
		logger.Get().Error("Failed to activate ML model", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate ML model"})
		return
	}
	c.JSON(http.StatusOK, model)
}

func GetMlAnalyses(c *gin.Context) {
	var analyses []models.MlAnalysis
	if err := config.DB.Order("analysis_date desc").Order("id desc").Find(&analyses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analyses"})
		return
	}
	c.JSON(http.StatusOK, analyses)
}

func GetMlAnalysis(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid analysis ID")
	if !ok {
		return
	}

	var analysis models.MlAnalysis
	if err := config.DB.First(&analysis, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analysis"})
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func GetScanAnalyses(c *gin.Context) {
	scanID, ok := parseID(c, "id", "Invalid scan ID")
	if !ok {
		return
	}

	var analyses []models.MlAnalysis
	if err := config.DB.Where("scan_id = ?", scanID).Order("analysis_date desc").Find(&analyses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analyses"})
		return
	}
	c.JSON(http.StatusOK, analyses)
}

// CreateMlAnalysis stores an analysis and, when the scan exists, records
// an "analyzed" history entry for the scan's owner.
func CreateMlAnalysis(c *gin.Context) {
	var analysis models.MlAnalysis
	if err := c.ShouldBindJSON(&analysis); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid analysis data"})
		return
	}
	analysis.ID = 0
	if analysis.AnalysisDate.IsZero() {
		analysis.AnalysisDate = time.Now().UTC()
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&analysis).Error; err != nil {
			return err
		}

		var scan models.Scan
		if err := tx.First(&scan, analysis.ScanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		return tx.Create(&models.ScanHistory{
			ScanID:    scan.ID,
			UserID:    scan.UserID,
			Action:    models.ActionAnalyzed,
			Timestamp: time.Now().UTC(),
			Metadata: map[string]interface{}{
				"modelId":    analysis.ModelID,
				"confidence": analysis.ConfidenceScore,
			},
		}).Error
	})
	if err != nil {
		logger.Get().Error("Failed to create analysis", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid analysis data"})
		return
	}
	c.JSON(http.StatusCreated, analysis)
}
