package models

import (
	"time"
)

// ReputationLogEntry is the append-only record of a single score change.
// The sum of Change over a user's entries is the ground truth for the score.
type ReputationLogEntry struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index:idx_log_user_time" json:"user_id"`
	Change    int       `gorm:"not null" json:"change"`
	Reason    string    `gorm:"size:255;not null" json:"reason"`
	Timestamp time.Time `gorm:"not null;index:idx_log_user_time" json:"timestamp"`
}

func (ReputationLogEntry) TableName() string {
	return "reputation_log"
}
