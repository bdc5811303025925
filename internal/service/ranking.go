package service

import (
	"context"

	"github.com/themachinehf/atn-project/internal/models"
	"github.com/themachinehf/atn-project/internal/repository"
	"github.com/themachinehf/atn-project/pkg/errors"
)

// MaxLeaderboardLimit caps how many rows a single leaderboard query returns.
const MaxLeaderboardLimit = 100

// RankingService computes derived views over the ledger store. Every
// operation here is a pure read; nothing in this file mutates state.
type RankingService struct {
	userRepo *repository.UserRepository
	evalRepo *repository.EvaluationRepository
	logRepo  *repository.ReputationLogRepository
}

func NewRankingService(
	userRepo *repository.UserRepository,
	evalRepo *repository.EvaluationRepository,
	logRepo *repository.ReputationLogRepository,
) *RankingService {
	return &RankingService{
		userRepo: userRepo,
		evalRepo: evalRepo,
		logRepo:  logRepo,
	}
}

type LeaderboardRow struct {
	Rank            int     `json:"rank"`
	UserID          int64   `json:"user_id"`
	Username        string  `json:"username"`
	FirstName       string  `json:"first_name"`
	ReputationScore int     `json:"reputation_score"`
	TasksCompleted  int     `json:"tasks_completed"`
	AvgRating       float64 `json:"avg_rating"`
}

// Leaderboard returns the top users by score. Rank is the dense 1-based
// position in the returned ordering: tied scores get consecutive ranks.
// RankOf below uses competition ranking instead; both semantics are relied
// on by callers and are kept as distinct operations.
func (s *RankingService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	users, err := s.userRepo.ListTop(ctx, limit)
	if err != nil {
		return nil, errors.New(errors.ErrStoreFailure, "failed to list top users", err)
	}

	rows := make([]LeaderboardRow, 0, len(users))
	for i, user := range users {
		avg, err := s.evalRepo.AverageRatingFor(ctx, user.UserID)
		if err != nil {
			return nil, errors.New(errors.ErrStoreFailure, "failed to compute average rating", err)
		}
		rows = append(rows, LeaderboardRow{
			Rank:            i + 1,
			UserID:          user.UserID,
			Username:        user.Username,
			FirstName:       user.FirstName,
			ReputationScore: user.ReputationScore,
			TasksCompleted:  user.TasksCompleted,
			AvgRating:       avg,
		})
	}
	return rows, nil
}

// RankOf computes a user's competition rank: one plus the number of users
// with a strictly greater score, so tied users share a rank.
func (s *RankingService) RankOf(ctx context.Context, userID int64) (int, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, errors.New(errors.ErrStoreFailure, "failed to load user", err)
	}
	if user == nil {
		return 0, errors.New(errors.ErrUserNotFound, "user does not exist", nil)
	}

	above, err := s.userRepo.CountWithScoreAbove(ctx, user.ReputationScore)
	if err != nil {
		return 0, errors.New(errors.ErrStoreFailure, "failed to count higher scores", err)
	}
	return int(above) + 1, nil
}

// AvgRating returns the mean received rating for a user, 0 when none exist.
func (s *RankingService) AvgRating(ctx context.Context, userID int64) (float64, error) {
	avg, err := s.evalRepo.AverageRatingFor(ctx, userID)
	if err != nil {
		return 0, errors.New(errors.ErrStoreFailure, "failed to compute average rating", err)
	}
	return avg, nil
}

type TrendingRow struct {
	UserID          int64   `json:"user_id"`
	Username        string  `json:"username"`
	FirstName       string  `json:"first_name"`
	ReputationScore int     `json:"reputation_score"`
	AvgRating       float64 `json:"avg_rating"`
	EvaluationCount int64   `json:"evaluation_count"`
}

// Trending lists verified agents by recent activity, enriched with their
// received-rating aggregate.
func (s *RankingService) Trending(ctx context.Context, limit int) ([]TrendingRow, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	agents, err := s.userRepo.ListAgentsByActivity(ctx, limit)
	if err != nil {
		return nil, errors.New(errors.ErrStoreFailure, "failed to list agents", err)
	}

	rows := make([]TrendingRow, 0, len(agents))
	for _, agent := range agents {
		avg, err := s.evalRepo.AverageRatingFor(ctx, agent.UserID)
		if err != nil {
			return nil, errors.New(errors.ErrStoreFailure, "failed to compute average rating", err)
		}
		count, err := s.evalRepo.CountByTarget(ctx, agent.UserID)
		if err != nil {
			return nil, errors.New(errors.ErrStoreFailure, "failed to count evaluations", err)
		}
		rows = append(rows, TrendingRow{
			UserID:          agent.UserID,
			Username:        agent.Username,
			FirstName:       agent.FirstName,
			ReputationScore: agent.ReputationScore,
			AvgRating:       avg,
			EvaluationCount: count,
		})
	}
	return rows, nil
}

type UserStats struct {
	UserID          int64   `json:"user_id"`
	Username        string  `json:"username"`
	FirstName       string  `json:"first_name"`
	ReputationScore int     `json:"reputation_score"`
	TasksCompleted  int     `json:"tasks_completed"`
	IsAgent         bool    `json:"is_agent"`
	Rank            int     `json:"rank"`
	GradeTier       string  `json:"grade_tier"`
	TierProgress    float64 `json:"tier_progress"`
	AvgRating       float64 `json:"avg_rating"`
	EvaluationCount int64   `json:"evaluation_count"`
}

// Stats assembles the full derived view for a single user.
func (s *RankingService) Stats(ctx context.Context, userID int64) (*UserStats, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.New(errors.ErrStoreFailure, "failed to load user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user does not exist", nil)
	}

	rank, err := s.RankOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	avg, err := s.evalRepo.AverageRatingFor(ctx, userID)
	if err != nil {
		return nil, errors.New(errors.ErrStoreFailure, "failed to compute average rating", err)
	}
	count, err := s.evalRepo.CountByTarget(ctx, userID)
	if err != nil {
		return nil, errors.New(errors.ErrStoreFailure, "failed to count evaluations", err)
	}

	return &UserStats{
		UserID:          user.UserID,
		Username:        user.Username,
		FirstName:       user.FirstName,
		ReputationScore: user.ReputationScore,
		TasksCompleted:  user.TasksCompleted,
		IsAgent:         user.IsAgent,
		Rank:            rank,
		GradeTier:       GradeTier(user.ReputationScore),
		TierProgress:    ProgressToNextTier(user.ReputationScore),
		AvgRating:       avg,
		EvaluationCount: count,
	}, nil
}

type ScoreBreakdown struct {
	UserID          int64 `json:"user_id"`
	TotalScore      int   `json:"total_score"`
	TaskScore       int   `json:"task_score"`
	ResponseScore   int   `json:"response_score"`
	FeedbackScore   int   `json:"feedback_score"`
	BehaviorScore   int   `json:"behavior_score"`
	EvaluationCount int64 `json:"evaluation_count"`
}

// Breakdown reports the score split used by the profile surfaces. Only the
// task component is tracked today; the remaining components stay zero until
// response-time and behavior tracking land.
func (s *RankingService) Breakdown(ctx context.Context, userID int64) (*ScoreBreakdown, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.New(errors.ErrStoreFailure, "failed to load user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user does not exist", nil)
	}

	count, err := s.evalRepo.CountByTarget(ctx, userID)
	if err != nil {
		return nil, errors.New(errors.ErrStoreFailure, "failed to count evaluations", err)
	}

	return &ScoreBreakdown{
		UserID:          user.UserID,
		TotalScore:      user.ReputationScore,
		TaskScore:       user.TasksCompleted * 10,
		EvaluationCount: count,
	}, nil
}

// Agents lists all verified agents.
func (s *RankingService) Agents(ctx context.Context) ([]models.User, error) {
	agents, err := s.userRepo.ListAgents(ctx)
	if err != nil {
		return nil, errors.New(errors.ErrStoreFailure, "failed to list agents", err)
	}
	return agents, nil
}
