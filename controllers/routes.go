package controllers

import (
	"time"

	"aerogrow/config"
	"aerogrow/logger"
	"aerogrow/middlewares"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter builds the HTTP surface. Reads are public; every mutation
// except signup and login requires a bearer token. Readings received over
// HTTP are handed to publisher, which may be nil.
func SetupRouter(settings *config.Settings, hub *Hub, publisher ReadingPublisher) *gin.Engine {
	authSettings = settings.Auth
	terrainSettings = settings.Terrain

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     settings.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: !allowsAnyOrigin(settings.Server.AllowedOrigins),
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/ws", hub.HandleWebSocket)

	api := r.Group("/api")
	api.GET("/health", hub.Health)
	api.GET("/ws", hub.HandleWebSocket)

	// Public routes
	api.POST("/auth/signup", Signup)
	api.POST("/auth/login", Login)

	api.GET("/sensor-data", GetSensorData)
	api.GET("/sensor-data/abnormal", GetAbnormalHistory)
	api.GET("/sensor-data/abnormal/count", GetAbnormalCount)
	api.GET("/sensor-history", GetSensorHistory)
	api.GET("/sensor-history/export", DownloadCSV)
	api.GET("/notifications", GetNotifications)
	api.GET("/notifications/count", GetUnreadCount)
	api.GET("/activities", GetActivities)
	api.GET("/towers", GetTowers)
	api.GET("/towers/:id", GetTower)
	api.GET("/devices", GetDevices)
	api.GET("/devices/:id", GetDevice)
	api.GET("/network", GetNetwork)
	api.GET("/facilities/:id/sensors", GetFacilitySensors)
	api.GET("/automation", GetAutomation)

	api.GET("/users", GetUsers)
	api.GET("/users/:id", GetUser)
	api.GET("/users/:id/scans", GetUserScans)
	api.GET("/users/:id/scan-history", GetUserScanHistory)
	api.GET("/scans", GetScans)
	api.GET("/scans/:id", GetScan)
	api.GET("/scans/:id/minerals", GetScanMinerals)
	api.GET("/scans/:id/analyses", GetScanAnalyses)
	api.GET("/minerals", GetMinerals)
	api.GET("/ml-models", GetMlModels)
	api.GET("/ml-models/active", GetActiveMlModel)
	api.GET("/ml-analyses", GetMlAnalyses)
	api.GET("/ml-analyses/:id", GetMlAnalysis)
	api.GET("/scan-history/:id", GetScanHistory)

	api.GET("/terrain/elevation", GetElevation)
	api.GET("/terrain/mining-sites", GetMiningSites)
	api.GET("/terrain/geological-data", GetGeologicalData)
	api.GET("/terrain/textures", GetTextures)
	api.GET("/terrain/dxf", GetDXFLayers)
	api.GET("/dxf/parse", GetDXFLayers)

	// Protected routes using auth middleware
	auth := api.Group("/")
	auth.Use(middlewares.AuthMiddleware([]byte(settings.Auth.JWTSecret)))
	auth.GET("/auth/profile", GetProfile)
	auth.POST("/auth/promote", middlewares.RequireAdmin(), PromoteToAdmin)
	auth.POST("/auth/demote", middlewares.RequireAdmin(), DemoteToUser)
	auth.DELETE("/users/:id", middlewares.RequireAdmin(), DeleteUserAccount)

	auth.POST("/sensor-data", ReceiveData(hub, publisher))
	auth.PUT("/sensor-data/:id", UpdateRecord)
	auth.DELETE("/sensor-data/:id", DeleteRecord)
	auth.DELETE("/sensor-data", middlewares.RequireAdmin(), DeleteAllRecords)

	auth.POST("/notifications/read/:id", MarkNotificationRead)
	auth.POST("/notifications/read-all", MarkAllNotificationsRead)
	auth.POST("/towers", CreateTower)
	auth.PUT("/towers/:id", UpdateTower)
	auth.DELETE("/towers/:id", DeleteTower)
	auth.POST("/devices", CreateDevice)
	auth.PUT("/devices/:id", UpdateDevice)
	auth.PUT("/devices/:id/status", UpdateDeviceStatus)
	auth.DELETE("/devices/:id", DeleteDevice)
	auth.PUT("/automation", UpdateAutomation)

	auth.POST("/scans", CreateScan)
	auth.POST("/minerals", CreateMineral)
	auth.POST("/ml-models", CreateMlModel)
	auth.PATCH("/ml-models/:id/set-active", SetActiveMlModel)
	auth.POST("/ml-analyses", CreateMlAnalysis)
	auth.POST("/scan-history", CreateScanHistory)
	auth.POST("/detect-minerals", DetectMinerals)

	return r
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func requestLogger() gin.HandlerFunc {
	log := logger.Get().With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("Request served",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
