package repository

import (
	"context"
	"testing"
	"time"

	"github.com/themachinehf/atn-project/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.ReputationLogEntry{}, &models.Evaluation{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func TestUpsertCreatesUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user, err := repo.Upsert(ctx, 100, "machine", "The Machine")
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if user.UserID != 100 || user.Username != "machine" {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.ReputationScore != 0 || user.TasksCompleted != 0 {
		t.Errorf("new user should start at zero, got score=%d tasks=%d",
			user.ReputationScore, user.TasksCompleted)
	}
	if user.RegisteredAt.IsZero() || user.LastActive.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, 100, "machine", "The Machine"); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}

	// Give the user some state that a second upsert must not clobber.
	if err := repo.ApplyScoreDelta(ctx, 100, 42, time.Now()); err != nil {
		t.Fatalf("ApplyScoreDelta failed: %v", err)
	}
	if err := repo.IncrementTasks(ctx, 100); err != nil {
		t.Fatalf("IncrementTasks failed: %v", err)
	}

	user, err := repo.Upsert(ctx, 100, "machine2", "The Machine")
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	if user.Username != "machine2" {
		t.Errorf("expected handle refreshed to machine2, got %s", user.Username)
	}

	fetched, err := repo.GetByID(ctx, 100)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.ReputationScore != 42 {
		t.Errorf("upsert clobbered score: got %d, want 42", fetched.ReputationScore)
	}
	if fetched.TasksCompleted != 1 {
		t.Errorf("upsert clobbered tasks: got %d, want 1", fetched.TasksCompleted)
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 user row, got %d", count)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.GetByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetByID should not error on missing user, got %v", err)
	}
	if user != nil {
		t.Errorf("expected nil for missing user, got %+v", user)
	}
}

func TestGetByUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, 100, "machine", "The Machine"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	user, err := repo.GetByUsername(ctx, "machine")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if user == nil || user.UserID != 100 {
		t.Errorf("expected user 100, got %+v", user)
	}

	missing, err := repo.GetByUsername(ctx, "ghost")
	if err != nil {
		t.Fatalf("GetByUsername should not error on missing handle, got %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown handle, got %+v", missing)
	}
}

func TestApplyScoreDeltaNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	err := repo.ApplyScoreDelta(context.Background(), 999, 10, time.Now())
	if err != gorm.ErrRecordNotFound {
		t.Fatalf("expected gorm.ErrRecordNotFound, got %v", err)
	}
}

func TestSetAgentNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	err := repo.SetAgent(context.Background(), 999)
	if err != gorm.ErrRecordNotFound {
		t.Fatalf("expected gorm.ErrRecordNotFound, got %v", err)
	}
}

func TestListTopOrdering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seed := []struct {
		id    int64
		score int
	}{
		{1, 300},
		{2, 100},
		{3, 300},
	}
	for _, s := range seed {
		if _, err := repo.Upsert(ctx, s.id, "", "user"); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
		if s.score != 0 {
			if err := repo.ApplyScoreDelta(ctx, s.id, s.score, time.Now()); err != nil {
				t.Fatalf("ApplyScoreDelta failed: %v", err)
			}
		}
	}

	users, err := repo.ListTop(ctx, 10)
	if err != nil {
		t.Fatalf("ListTop failed: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	// Score descending, ties by primary key.
	if users[0].UserID != 1 || users[1].UserID != 3 || users[2].UserID != 2 {
		t.Errorf("unexpected order: %d, %d, %d", users[0].UserID, users[1].UserID, users[2].UserID)
	}
}
