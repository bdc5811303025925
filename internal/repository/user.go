package repository

import (
	"context"
	"errors"
	"time"

	"github.com/themachinehf/atn-project/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// GetByID returns the user or nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername resolves a handle to a user, nil when absent.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Upsert creates the user on first interaction. For existing users only the
// identity and activity fields are refreshed; score and task counters are
// never touched here.
func (r *UserRepository) Upsert(ctx context.Context, userID int64, username, firstName string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			now := time.Now()
			user = models.User{
				UserID:       userID,
				Username:     username,
				FirstName:    firstName,
				RegisteredAt: now,
				LastActive:   now,
			}
			return tx.Create(&user).Error
		}
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&user).Updates(map[string]interface{}{
			"username":    username,
			"first_name":  firstName,
			"last_active": now,
		}).Error; err != nil {
			return err
		}
		user.Username = username
		user.FirstName = firstName
		user.LastActive = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetAgent flags the user as a verified agent.
func (r *UserRepository) SetAgent(ctx context.Context, userID int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("is_agent", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementTasks bumps tasks_completed by one. A no-op for unknown users.
func (r *UserRepository) IncrementTasks(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("tasks_completed", gorm.Expr("tasks_completed + 1")).Error
}

// ApplyScoreDelta adds delta to the cached score and refreshes last_active.
// Returns gorm.ErrRecordNotFound when the user does not exist. Callers must
// append the matching ledger entry in the same transaction.
func (r *UserRepository) ApplyScoreDelta(ctx context.Context, userID int64, delta int, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"reputation_score": gorm.Expr("reputation_score + ?", delta),
			"last_active":      now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListTop returns users ordered by score descending. Ties fall back to
// primary-key order, which is stable but carries no business meaning.
func (r *UserRepository) ListTop(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Order("reputation_score DESC, user_id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// ListAgents returns verified agents only.
func (r *UserRepository) ListAgents(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("is_agent = ?", true).
		Order("user_id ASC").
		Find(&users).Error
	return users, err
}

// ListAgentsByActivity returns verified agents ordered by recent activity.
func (r *UserRepository) ListAgentsByActivity(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("is_agent = ?", true).
		Order("last_active DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// CountWithScoreAbove counts users whose score strictly exceeds the given one.
func (r *UserRepository) CountWithScoreAbove(ctx context.Context, score int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("reputation_score > ?", score).
		Count(&count).Error
	return count, err
}

// ListPaginated pages through all users in primary-key order.
func (r *UserRepository) ListPaginated(ctx context.Context, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Order("user_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Count(&count).Error
	return count, err
}
