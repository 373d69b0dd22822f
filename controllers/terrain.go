package controllers

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strconv"

	"aerogrow/config"
	"aerogrow/data"
	"aerogrow/logger"
	"aerogrow/utils"

	"github.com/gin-gonic/gin"
)

// terrainSettings is set by SetupRouter.
var terrainSettings config.TerrainSettings

const maxDXFLayerNames = 10

func loadGeology(c *gin.Context) (*data.Geology, bool) {
	geology, err := data.LoadGeology()
	if err != nil {
		logger.Get().Error("Failed to load geology dataset", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load geological data"})
		return nil, false
	}
	return geology, true
}

// GetElevation returns a generated height field with its metadata.
// ?size= sets the grid resolution (1..512, default 120).
func GetElevation(c *gin.Context) {
	size := utils.DefaultGridSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > utils.MaxGridSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be between 1 and 512"})
			return
		}
		size = n
	}

	geology, ok := loadGeology(c)
	if !ok {
		return
	}

	grid := utils.GenerateElevationGrid(size)
	c.JSON(http.StatusOK, gin.H{
		"metadata":  geology.Elevation,
		"gridSize":  size,
		"elevation": grid,
		"stats":     utils.ElevationStats(grid),
	})
}

func GetMiningSites(c *gin.Context) {
	geology, ok := loadGeology(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"region":                    geology.Region,
		"geologicalFormation":       geology.GeologicalFormation,
		"totalHistoricalProduction": geology.TotalHistoricalProduction,
		"sites":                     geology.HeritageSites,
		"workings":                  geology.Workings,
	})
}

func GetGeologicalData(c *gin.Context) {
	geology, ok := loadGeology(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"formations": geology.Formations,
		"structures": geology.Structures,
		"drillHoles": geology.DrillHoles,
	})
}

func GetTextures(c *gin.Context) {
	geology, ok := loadGeology(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"textures": geology.Textures})
}

// GetDXFLayers summarises the 3DFACE layers of the configured DXF drawing
// with the render material of every known layer. Without a drawing on disk
// the stored summary of the Bendigo zone drawing is returned.
func GetDXFLayers(c *gin.Context) {
	geology, ok := loadGeology(c)
	if !ok {
		return
	}

	layers, err := parseDXFFile(terrainSettings.DXFPath)
	if errors.Is(err, fs.ErrNotExist) {
		fallback := geology.DXF.Fallback
		c.JSON(http.StatusOK, gin.H{
			"status":     "success",
			"source":     "fallback",
			"layers":     fallback.Layers,
			"entities":   fallback.Entities,
			"layerNames": fallback.LayerNames,
			"materials":  layerMaterials(geology, fallback.LayerNames),
		})
		return
	}
	if err != nil {
		logger.Get().Error("Failed to parse DXF file", "path", terrainSettings.DXFPath, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse DXF file"})
		return
	}

	names := layers.Names
	if len(names) > maxDXFLayerNames {
		names = names[:maxDXFLayerNames]
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"source":     "file",
		"layers":     len(layers.Names),
		"entities":   layers.Entities,
		"layerNames": names,
		"layerFaces": layers.Faces,
		"materials":  layerMaterials(geology, layers.Names),
	})
}

func parseDXFFile(path string) (utils.DXFLayers, error) {
	if path == "" {
		return utils.DXFLayers{}, fs.ErrNotExist
	}
	f, err := os.Open(path)
	if err != nil {
		return utils.DXFLayers{}, err
	}
	defer f.Close()
	return utils.ParseDXF(f)
}

func layerMaterials(geology *data.Geology, names []string) map[string]data.LayerMaterial {
	out := make(map[string]data.LayerMaterial)
	for _, name := range names {
		if m, ok := geology.DXF.LayerMaterials[name]; ok {
			out[name] = m
		}
	}
	return out
}
