package service

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/themachinehf/atn-project/internal/models"
	"github.com/themachinehf/atn-project/internal/repository"
	"github.com/themachinehf/atn-project/pkg/errors"
	"github.com/themachinehf/atn-project/pkg/logger"

	"gorm.io/gorm"
)

// ReputationService is the only component allowed to mutate a user's
// reputation score. Every score change is written together with its
// ledger entry in one transaction.
type ReputationService struct {
	db       *gorm.DB
	userRepo *repository.UserRepository
	logRepo  *repository.ReputationLogRepository
}

func NewReputationService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	logRepo *repository.ReputationLogRepository,
) *ReputationService {
	return &ReputationService{
		db:       db,
		userRepo: userRepo,
		logRepo:  logRepo,
	}
}

// ApplyDelta adds a signed delta to the user's score, refreshes last_active
// and appends the matching ledger entry, all-or-nothing.
func (s *ReputationService) ApplyDelta(ctx context.Context, userID int64, delta int, reason string) (int, error) {
	var newScore int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		newScore, txErr = s.applyDelta(ctx, tx, userID, delta, reason)
		return txErr
	})
	if err != nil {
		return 0, err
	}

	logger.WithFields(map[string]interface{}{
		"user_id":   userID,
		"change":    delta,
		"reason":    reason,
		"new_score": newScore,
	}).Info("Reputation updated")

	return newScore, nil
}

// applyDelta performs the score update and ledger append inside the caller's
// transaction, so that evaluation submission can share one atomic unit.
func (s *ReputationService) applyDelta(ctx context.Context, tx *gorm.DB, userID int64, delta int, reason string) (int, error) {
	now := time.Now()

	users := s.userRepo.WithTx(tx)
	if err := users.ApplyScoreDelta(ctx, userID, delta, now); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errors.New(errors.ErrUserNotFound, "user does not exist", nil)
		}
		return 0, errors.New(errors.ErrStoreFailure, "failed to update score", err)
	}

	entry := &models.ReputationLogEntry{
		UserID:    userID,
		Change:    delta,
		Reason:    reason,
		Timestamp: now,
	}
	if err := s.logRepo.WithTx(tx).Create(ctx, entry); err != nil {
		return 0, errors.New(errors.ErrStoreFailure, "failed to append ledger entry", err)
	}

	user, err := users.GetByID(ctx, userID)
	if err != nil || user == nil {
		return 0, errors.New(errors.ErrStoreFailure, "failed to read back score", err)
	}
	return user.ReputationScore, nil
}

// Drift describes a user whose cached score disagrees with the ledger sum.
type Drift struct {
	UserID      int64 `json:"user_id"`
	StoredScore int   `json:"stored_score"`
	LedgerSum   int64 `json:"ledger_sum"`
}

// ReconcileUser compares the cached score with the ledger sum for one user.
// Returns nil when they agree.
func (s *ReputationService) ReconcileUser(ctx context.Context, userID int64) (*Drift, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.New(errors.ErrStoreFailure, "failed to load user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user does not exist", nil)
	}

	sum, err := s.logRepo.SumByUser(ctx, userID)
	if err != nil {
		return nil, errors.New(errors.ErrStoreFailure, "failed to sum ledger", err)
	}

	if int64(user.ReputationScore) == sum {
		return nil, nil
	}
	return &Drift{
		UserID:      user.UserID,
		StoredScore: user.ReputationScore,
		LedgerSum:   sum,
	}, nil
}

// ReconcileAll sweeps every user and reports those whose cached score has
// drifted from the ledger. A healthy system returns an empty slice.
func (s *ReputationService) ReconcileAll(ctx context.Context) ([]Drift, error) {
	const pageSize = 200

	var drifts []Drift
	for offset := 0; ; offset += pageSize {
		users, err := s.userRepo.ListPaginated(ctx, offset, pageSize)
		if err != nil {
			return nil, errors.New(errors.ErrStoreFailure, "failed to page users", err)
		}
		if len(users) == 0 {
			break
		}

		for _, user := range users {
			sum, err := s.logRepo.SumByUser(ctx, user.UserID)
			if err != nil {
				return nil, errors.New(errors.ErrStoreFailure, "failed to sum ledger", err)
			}
			if int64(user.ReputationScore) != sum {
				drifts = append(drifts, Drift{
					UserID:      user.UserID,
					StoredScore: user.ReputationScore,
					LedgerSum:   sum,
				})
			}
		}

		if len(users) < pageSize {
			break
		}
	}

	return drifts, nil
}

// History returns a user's ledger entries, newest first.
func (s *ReputationService) History(ctx context.Context, userID int64, limit int) ([]models.ReputationLogEntry, error) {
	entries, err := s.logRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, errors.New(errors.ErrStoreFailure, "failed to list ledger entries", err)
	}
	return entries, nil
}
