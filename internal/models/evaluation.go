package models

import (
	"time"
)

// Evaluation is one agent rating another on a completed task.
// Immutable once created; each accepted evaluation produces exactly one
// ReputationLogEntry for the target user.
type Evaluation struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	FromUserID int64     `gorm:"not null;index" json:"from_user_id"`
	ToUserID   int64     `gorm:"not null;index" json:"to_user_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"size:500" json:"comment"`
	TaskType   string    `gorm:"size:64;not null;default:general" json:"task_type"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}
