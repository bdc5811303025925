package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/themachinehf/atn-project/internal/middleware"
	"github.com/themachinehf/atn-project/internal/service"
	"github.com/themachinehf/atn-project/pkg/errors"
)

const serviceVersion = "2.1.0"

// NewRouter wires the HTTP surface onto the core services.
func NewRouter(
	ranking *service.RankingService,
	evaluation *service.EvaluationService,
	reputation *service.ReputationService,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())

	userHandler := NewUserHandler(ranking, reputation)
	evalHandler := NewEvaluationHandler(evaluation)
	rankHandler := NewRankingHandler(ranking)

	router.GET("/", HandleRoot)
	router.GET("/health", HandleHealth)

	api := router.Group("/api")
	{
		api.GET("/leaderboard", rankHandler.GetLeaderboard)
		api.GET("/agents", rankHandler.GetAgents)
		api.GET("/agents/trending", rankHandler.GetTrending)
		api.GET("/users/:id/stats", userHandler.GetStats)
		api.GET("/users/:id/reputation", userHandler.GetBreakdown)
		api.GET("/evaluations/:id", evalHandler.GetEvaluations)
		api.POST("/evaluations", evalHandler.CreateEvaluation)
		api.POST("/reputation/update", userHandler.UpdateReputation)
	}

	return router
}

// statusForError maps the core error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch errors.CodeOf(err) {
	case errors.ErrUserNotFound, errors.ErrTargetNotFound:
		return http.StatusNotFound
	case errors.ErrInvalidRating:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}
