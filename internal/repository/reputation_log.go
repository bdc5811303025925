package repository

import (
	"context"

	"github.com/themachinehf/atn-project/internal/models"

	"gorm.io/gorm"
)

type ReputationLogRepository struct {
	db *gorm.DB
}

func NewReputationLogRepository(db *gorm.DB) *ReputationLogRepository {
	return &ReputationLogRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *ReputationLogRepository) WithTx(tx *gorm.DB) *ReputationLogRepository {
	return &ReputationLogRepository{db: tx}
}

// Create appends a ledger entry. Entries are immutable once written; there
// is deliberately no update or delete here.
func (r *ReputationLogRepository) Create(ctx context.Context, entry *models.ReputationLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByUser returns the newest entries first.
func (r *ReputationLogRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.ReputationLogEntry, error) {
	var entries []models.ReputationLogEntry
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&entries).Error
	return entries, err
}

// SumByUser computes the ledger ground truth for a user's score.
func (r *ReputationLogRepository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&models.ReputationLogEntry{}).
		Select("COALESCE(SUM(`change`), 0)").
		Where("user_id = ?", userID).
		Scan(&sum).Error
	return sum, err
}

// CountByUser returns the number of ledger entries for a user.
func (r *ReputationLogRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ReputationLogEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
