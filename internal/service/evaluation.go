package service

import (
	"context"

	"github.com/themachinehf/atn-project/internal/config"
	"github.com/themachinehf/atn-project/internal/models"
	"github.com/themachinehf/atn-project/internal/repository"
	"github.com/themachinehf/atn-project/pkg/errors"
	"github.com/themachinehf/atn-project/pkg/logger"

	"gorm.io/gorm"
)

const DefaultTaskType = "general"

// EvaluationService records peer evaluations and awards the implied score.
type EvaluationService struct {
	db             *gorm.DB
	userRepo       *repository.UserRepository
	evalRepo       *repository.EvaluationRepository
	reputation     *ReputationService
	pointsPerStar  int
	validateRaters bool
}

func NewEvaluationService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	evalRepo *repository.EvaluationRepository,
	reputation *ReputationService,
	cfg *config.ReputationConfig,
) *EvaluationService {
	return &EvaluationService{
		db:             db,
		userRepo:       userRepo,
		evalRepo:       evalRepo,
		reputation:     reputation,
		pointsPerStar:  cfg.PointsPerStar,
		validateRaters: cfg.ValidateEvaluator,
	}
}

type SubmitResult struct {
	EvaluationID uint64 `json:"evaluation_id"`
	ScoreAwarded int    `json:"score_awarded"`
	NewScore     int    `json:"new_score"`
}

// Submit validates and records an evaluation. The evaluation row, the target's
// score update and the ledger entry commit as one transaction; a failure in
// any step leaves no trace. The evaluator's tasks_completed counter is bumped
// afterwards as a separate non-score update.
func (s *EvaluationService) Submit(ctx context.Context, fromID, toID int64, rating int, comment, taskType string) (*SubmitResult, error) {
	if rating < 1 || rating > 5 {
		return nil, errors.New(errors.ErrInvalidRating, "rating must be between 1 and 5", nil)
	}

	target, err := s.userRepo.GetByID(ctx, toID)
	if err != nil {
		return nil, errors.New(errors.ErrStoreFailure, "failed to look up target", err)
	}
	if target == nil {
		return nil, errors.New(errors.ErrTargetNotFound, "evaluation target does not exist", nil)
	}

	if s.validateRaters {
		rater, err := s.userRepo.GetByID(ctx, fromID)
		if err != nil {
			return nil, errors.New(errors.ErrStoreFailure, "failed to look up evaluator", err)
		}
		if rater == nil {
			return nil, errors.New(errors.ErrUserNotFound, "evaluator does not exist", nil)
		}
	}

	if taskType == "" {
		taskType = DefaultTaskType
	}
	scoreAwarded := rating * s.pointsPerStar

	eval := &models.Evaluation{
		FromUserID: fromID,
		ToUserID:   toID,
		Rating:     rating,
		Comment:    comment,
		TaskType:   taskType,
	}

	var newScore int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.evalRepo.WithTx(tx).Create(ctx, eval); err != nil {
			return errors.New(errors.ErrStoreFailure, "failed to record evaluation", err)
		}

		var txErr error
		newScore, txErr = s.reputation.applyDelta(ctx, tx, toID, scoreAwarded, "Evaluation: "+taskType)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	// Participation reward for the rater. Unknown raters are tolerated when
	// validation is off; the update simply matches no row.
	if err := s.userRepo.IncrementTasks(ctx, fromID); err != nil {
		logger.WithFields(map[string]interface{}{
			"from_user_id": fromID,
		}).Warn("Failed to increment evaluator task counter:", err)
	}

	logger.WithFields(map[string]interface{}{
		"evaluation_id": eval.ID,
		"from_user_id":  fromID,
		"to_user_id":    toID,
		"rating":        rating,
		"task_type":     taskType,
		"score_awarded": scoreAwarded,
	}).Info("Evaluation recorded")

	return &SubmitResult{
		EvaluationID: eval.ID,
		ScoreAwarded: scoreAwarded,
		NewScore:     newScore,
	}, nil
}

// ListForUser returns evaluations received by a user, newest first.
func (s *EvaluationService) ListForUser(ctx context.Context, userID int64, limit int) ([]models.Evaluation, error) {
	evals, err := s.evalRepo.ListByTarget(ctx, userID, limit)
	if err != nil {
		return nil, errors.New(errors.ErrStoreFailure, "failed to list evaluations", err)
	}
	return evals, nil
}
