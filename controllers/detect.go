package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"aerogrow/config"
	"aerogrow/logger"
	"aerogrow/models"
	"aerogrow/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type detectRequest struct {
	ImageData string   `json:"imageData" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	UserID    uint     `json:"userId" binding:"required"`
	Location  *string  `json:"location"`
	ModelID   *uint    `json:"modelId"`
}

const autoScanConfidence = 0.85

// DetectMinerals runs the simulated classifier on an uploaded sample and
// stores the scan, the analysis, every detected mineral and a "scanned"
// history entry in one transaction.
func DetectMinerals(c *gin.Context) {
	var req detectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid detection request"})
		return
	}

	var (
		model models.MlModel
		err   error
	)
	if req.ModelID != nil {
		err = config.DB.First(&model, *req.ModelID).Error
	} else {
		model, err = activeModel(config.DB)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active ML model found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ML model"})
		return
	}

	start := time.Now()
	result := utils.DetectMinerals(req.ImageData, model, newRand())
	processingMs := float64(time.Since(start).Microseconds()) / 1000

	var lat, lng float64
	if req.Latitude != nil {
		lat = *req.Latitude
	}
	if req.Longitude != nil {
		lng = *req.Longitude
	}
	location := fmt.Sprintf("%v,%v", lat, lng)
	if req.Location != nil && *req.Location != "" {
		location = *req.Location
	}

	now := time.Now().UTC()
	description := "Automated mineral scan"
	scan := models.Scan{
		UserID:      req.UserID,
		Name:        "Scan " + now.Format("2006-01-02 15:04:05"),
		Location:    location,
		Latitude:    lat,
		Longitude:   lng,
		Description: &description,
		Confidence:  autoScanConfidence,
		Timestamp:   now,
		ImageData:   &req.ImageData,
		ModelID:     &model.ID,
	}

	results, err := toMap(result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode detection results"})
		return
	}
	analysis := models.MlAnalysis{
		ModelID:         model.ID,
		ConfidenceScore: result.OverallConfidence,
		AnalysisDate:    now,
		Results:         results,
		ProcessingTime:  &processingMs,
		Tags:            result.MineralNames(),
	}

	minerals := make([]models.Mineral, 0, len(result.Minerals))
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&scan).Error; err != nil {
			return fmt.Errorf("failed to create scan: %w", err)
		}

		analysis.ScanID = scan.ID
		if err := tx.Create(&analysis).Error; err != nil {
			return fmt.Errorf("failed to create analysis: %w", err)
		}

		for _, m := range result.Minerals {
			props := make(map[string]interface{}, len(m.Properties))
			for k, v := range m.Properties {
				props[k] = v
			}
			minerals = append(minerals, models.Mineral{
				ScanID:        scan.ID,
				Name:          m.Name,
				Confidence:    m.Confidence,
				Composition:   m.Composition,
				DetectionDate: now,
				Properties:    props,
			})
		}
		if len(minerals) > 0 {
			if err := tx.Create(&minerals).Error; err != nil {
				return fmt.Errorf("failed to create minerals: %w", err)
			}
		}

		return tx.Create(&models.ScanHistory{
			ScanID:    scan.ID,
			UserID:    req.UserID,
			Action:    models.ActionScanned,
			Timestamp: now,
			Metadata: map[string]interface{}{
				"mineralsDetected": len(result.Minerals),
				"confidence":       result.OverallConfidence,
				"modelUsed":        model.Name,
			},
			GeoLocation: req.Location,
		}).Error
	})
	if err != nil {
		logger.Get().Error("Mineral detection failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid detection request"})
		return
	}

	logger.Get().Info("Minerals detected", "scan_id", scan.ID, "model", model.Name, "minerals", len(result.Minerals))
	c.JSON(http.StatusOK, gin.H{
		"scan":              scan,
		"analysis":          analysis,
		"minerals":          result.Minerals,
		"overallConfidence": result.OverallConfidence,
	})
}

func toMap(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
