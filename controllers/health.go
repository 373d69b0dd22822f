package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports liveness and the WebSocket hub's client count.
func (h *Hub) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "aerogrow",
		"clients": h.ClientCount(),
		"dropped": h.Dropped(),
	})
}
