package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/themachinehf/atn-project/internal/service"
)

type UserHandler struct {
	ranking    *service.RankingService
	reputation *service.ReputationService
}

func NewUserHandler(ranking *service.RankingService, reputation *service.ReputationService) *UserHandler {
	return &UserHandler{ranking: ranking, reputation: reputation}
}

func parseUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}

// GetStats handles GET /api/users/:id/stats
func (h *UserHandler) GetStats(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	stats, err := h.ranking.Stats(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetBreakdown handles GET /api/users/:id/reputation
func (h *UserHandler) GetBreakdown(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	breakdown, err := h.ranking.Breakdown(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

type reputationUpdateRequest struct {
	UserID      int64  `json:"user_id" binding:"required"`
	ScoreChange int    `json:"score_change" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
}

// UpdateReputation handles POST /api/reputation/update — a direct score
// event outside the evaluation flow (task bonuses, manual adjustments).
func (h *UserHandler) UpdateReputation(c *gin.Context) {
	var req reputationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	newScore, err := h.reputation.ApplyDelta(c.Request.Context(), req.UserID, req.ScoreChange, req.Reason)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"user_id":   req.UserID,
		"new_score": newScore,
		"reason":    req.Reason,
	})
}
