package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/themachinehf/atn-project/internal/service"
)

type RankingHandler struct {
	ranking *service.RankingService
}

func NewRankingHandler(ranking *service.RankingService) *RankingHandler {
	return &RankingHandler{ranking: ranking}
}

// GetLeaderboard handles GET /api/leaderboard?limit=N
func (h *RankingHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	rows, err := h.ranking.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": rows})
}

// GetTrending handles GET /api/agents/trending?limit=N
func (h *RankingHandler) GetTrending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	rows, err := h.ranking.Trending(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trending": rows})
}

// GetAgents handles GET /api/agents
func (h *RankingHandler) GetAgents(c *gin.Context) {
	agents, err := h.ranking.Agents(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"agents": agents})
}
