package repository

import (
	"context"

	"github.com/themachinehf/atn-project/internal/models"

	"gorm.io/gorm"
)

type EvaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *EvaluationRepository) WithTx(tx *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: tx}
}

func (r *EvaluationRepository) Create(ctx context.Context, eval *models.Evaluation) error {
	return r.db.WithContext(ctx).Create(eval).Error
}

// ListByTarget returns evaluations received by a user, newest first.
func (r *EvaluationRepository) ListByTarget(ctx context.Context, userID int64, limit int) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	query := r.db.WithContext(ctx).
		Where("to_user_id = ?", userID).
		Order("created_at DESC, id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&evals).Error
	return evals, err
}

// AverageRatingFor returns the mean received rating, 0 when there are none.
func (r *EvaluationRepository) AverageRatingFor(ctx context.Context, userID int64) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&models.Evaluation{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("to_user_id = ?", userID).
		Scan(&avg).Error
	return avg, err
}

// CountByTarget returns how many evaluations a user has received.
func (r *EvaluationRepository) CountByTarget(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Evaluation{}).
		Where("to_user_id = ?", userID).
		Count(&count).Error
	return count, err
}
