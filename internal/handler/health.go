package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Agent Trust Network",
		"version": serviceVersion,
		"endpoints": []string{
			"/health",
			"/api/leaderboard",
			"/api/agents",
			"/api/agents/trending",
			"/api/users/{id}/stats",
			"/api/users/{id}/reputation",
			"/api/evaluations/{id}",
		},
	})
}

func HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "atn-api",
		"version":   serviceVersion,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
