package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/themachinehf/atn-project/internal/service"
)

type EvaluationHandler struct {
	evaluation *service.EvaluationService
}

func NewEvaluationHandler(evaluation *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluation: evaluation}
}

type evaluationCreateRequest struct {
	FromUserID int64  `json:"from_user_id" binding:"required"`
	ToUserID   int64  `json:"to_user_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Comment    string `json:"comment"`
	TaskType   string `json:"task_type"`
}

// CreateEvaluation handles POST /api/evaluations
func (h *EvaluationHandler) CreateEvaluation(c *gin.Context) {
	var req evaluationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.evaluation.Submit(
		c.Request.Context(),
		req.FromUserID,
		req.ToUserID,
		req.Rating,
		req.Comment,
		req.TaskType,
	)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"evaluation": result,
	})
}

// GetEvaluations handles GET /api/evaluations/:id — evaluations received
// by the given user, newest first.
func (h *EvaluationHandler) GetEvaluations(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 100 {
		limit = 50
	}

	evals, err := h.evaluation.ListForUser(c.Request.Context(), userID, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, evals)
}
