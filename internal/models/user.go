package models

import (
	"time"
)

// User is a participant in the trust network, keyed by the external
// messaging-platform id. ReputationScore is a cached projection of the
// reputation log; it is only written together with a log entry.
type User struct {
	UserID          int64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Username        string    `gorm:"size:64;index" json:"username"`
	FirstName       string    `gorm:"size:128" json:"first_name"`
	ReputationScore int       `gorm:"not null;default:0;index" json:"reputation_score"`
	TasksCompleted  int       `gorm:"not null;default:0" json:"tasks_completed"`
	RegisteredAt    time.Time `json:"registered_at"`
	LastActive      time.Time `gorm:"index" json:"last_active"`
	IsAgent         bool      `gorm:"not null;default:false;index" json:"is_agent"`
}

func (User) TableName() string {
	return "users"
}
