package controllers

import (
	"net/http"
	"strconv"
	"time"

	"aerogrow/config"
	"aerogrow/data"
	"aerogrow/logger"
	"aerogrow/models"
	"aerogrow/utils"

	"github.com/gin-gonic/gin"
)

// GetNetwork returns the dashboard network graph. ?layout=mindmap selects
// the organic layout; ?towers= sets the tower count (1..30, default 10).
// The grid layout also gets control links from the master controller.
func GetNetwork(c *gin.Context) {
	layout := utils.LayoutGrid
	if c.Query("layout") == utils.LayoutMindmap {
		layout = utils.LayoutMindmap
	}

	towers := utils.DefaultTowerCount
	if raw := c.Query("towers"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > utils.MaxTowerCount {
			c.JSON(http.StatusBadRequest, gin.H{"error": "towers must be between 1 and 30"})
			return
		}
		towers = n
	}

	base, err := data.LoadNetworkBase(layout)
	if err != nil {
		logger.Get().Error("Failed to load network base", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch network topology"})
		return
	}

	topology := utils.BuildTopology(base, layout, towers, newRand())
	if layout == utils.LayoutGrid {
		utils.EnsureControlLinks(&topology)
	}
	c.JSON(http.StatusOK, topology)
}

// GetFacilitySensors returns a computed environment reading for every
// tower of the facility.
func GetFacilitySensors(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid facility ID")
	if !ok {
		return
	}

	var towers []models.Tower
	if err := config.DB.Where("facility_id = ?", id).Order("id asc").Find(&towers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch facility sensor data"})
		return
	}
	if len(towers) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No towers found for this facility"})
		return
	}

	now := time.Now()
	rng := newRand()
	readings := make([]utils.FacilitySensorReading, 0, len(towers))
	for _, tower := range towers {
		readings = append(readings, utils.FacilityReading(tower, now, rng))
	}
	c.JSON(http.StatusOK, readings)
}
