package service

import (
	"context"
	"testing"

	"github.com/themachinehf/atn-project/internal/config"
	"github.com/themachinehf/atn-project/pkg/errors"
)

func TestSubmitEvaluation(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.seedUser(t, 1, "rater", "Rater", 0)
	env.seedUser(t, 2, "target", "Target", 100)

	result, err := env.evaluation.Submit(ctx, 1, 2, 5, "excellent work", "research")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if result.ScoreAwarded != 50 {
		t.Errorf("expected score awarded 50, got %d", result.ScoreAwarded)
	}
	if result.NewScore != 150 {
		t.Errorf("expected new score 150, got %d", result.NewScore)
	}
	if result.EvaluationID == 0 {
		t.Error("expected evaluation id to be assigned")
	}

	evals, err := env.evals.ListByTarget(ctx, 2, 0)
	if err != nil {
		t.Fatalf("failed to list evaluations: %v", err)
	}
	if len(evals) != 1 {
		t.Fatalf("expected exactly 1 evaluation, got %d", len(evals))
	}
	if evals[0].Rating != 5 || evals[0].TaskType != "research" {
		t.Errorf("unexpected evaluation row: %+v", evals[0])
	}

	entries, err := env.logs.ListByUser(ctx, 2, 1)
	if err != nil {
		t.Fatalf("failed to list ledger entries: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected a ledger entry for the target")
	}
	if entries[0].Change != 50 {
		t.Errorf("expected ledger change 50, got %d", entries[0].Change)
	}
	if entries[0].Reason != "Evaluation: research" {
		t.Errorf("unexpected ledger reason %q", entries[0].Reason)
	}

	env.assertLedgerInvariant(t, 2)

	// The rater earns a participation credit but no score.
	rater := env.mustGetUser(t, 1)
	if rater.TasksCompleted != 1 {
		t.Errorf("expected rater tasks_completed 1, got %d", rater.TasksCompleted)
	}
	if rater.ReputationScore != 0 {
		t.Errorf("rater score should be untouched, got %d", rater.ReputationScore)
	}
}

func TestSubmitInvalidRating(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.seedUser(t, 1, "rater", "Rater", 0)
	env.seedUser(t, 2, "target", "Target", 100)

	for _, rating := range []int{0, 6, -1} {
		_, err := env.evaluation.Submit(ctx, 1, 2, rating, "", "general")
		if !errors.HasCode(err, errors.ErrInvalidRating) {
			t.Fatalf("rating %d: expected INVALID_RATING, got %v", rating, err)
		}
	}

	// Rejected before any write: no rows, no ledger entries, no score change.
	count, err := env.evals.CountByTarget(ctx, 2)
	if err != nil {
		t.Fatalf("failed to count evaluations: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no evaluation rows, got %d", count)
	}
	if score := env.mustGetUser(t, 2).ReputationScore; score != 100 {
		t.Errorf("expected score unchanged at 100, got %d", score)
	}
	env.assertLedgerInvariant(t, 2)
}

func TestSubmitTargetNotFound(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.seedUser(t, 1, "rater", "Rater", 0)

	_, err := env.evaluation.Submit(ctx, 1, 99, 4, "", "general")
	if !errors.HasCode(err, errors.ErrTargetNotFound) {
		t.Fatalf("expected TARGET_NOT_FOUND, got %v", err)
	}

	// No side effects at all, including the rater's task counter.
	if tasks := env.mustGetUser(t, 1).TasksCompleted; tasks != 0 {
		t.Errorf("expected rater tasks_completed 0, got %d", tasks)
	}
}

func TestSubmitDefaultsTaskType(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.seedUser(t, 1, "rater", "Rater", 0)
	env.seedUser(t, 2, "target", "Target", 0)

	if _, err := env.evaluation.Submit(ctx, 1, 2, 3, "", ""); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	evals, err := env.evals.ListByTarget(ctx, 2, 1)
	if err != nil {
		t.Fatalf("failed to list evaluations: %v", err)
	}
	if evals[0].TaskType != "general" {
		t.Errorf("expected default task type %q, got %q", "general", evals[0].TaskType)
	}
}

func TestSubmitUnknownRaterAccepted(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.seedUser(t, 2, "target", "Target", 0)

	// Evaluator validation is off by default; unknown raters are accepted.
	result, err := env.evaluation.Submit(ctx, 777, 2, 4, "", "general")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.ScoreAwarded != 40 {
		t.Errorf("expected score awarded 40, got %d", result.ScoreAwarded)
	}
	env.assertLedgerInvariant(t, 2)
}

func TestSubmitValidatesEvaluatorWhenConfigured(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.seedUser(t, 2, "target", "Target", 0)

	strict := NewEvaluationService(env.db, env.users, env.evals, env.reputation,
		&config.ReputationConfig{PointsPerStar: 10, ValidateEvaluator: true})

	_, err := strict.Submit(ctx, 777, 2, 4, "", "general")
	if !errors.HasCode(err, errors.ErrUserNotFound) {
		t.Fatalf("expected USER_NOT_FOUND for unknown evaluator, got %v", err)
	}

	count, err := env.evals.CountByTarget(ctx, 2)
	if err != nil {
		t.Fatalf("failed to count evaluations: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no evaluation rows, got %d", count)
	}
}

func TestSubmitPointsPerStarConfigurable(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.seedUser(t, 1, "rater", "Rater", 0)
	env.seedUser(t, 2, "target", "Target", 0)

	cheap := NewEvaluationService(env.db, env.users, env.evals, env.reputation,
		&config.ReputationConfig{PointsPerStar: 2})

	result, err := cheap.Submit(ctx, 1, 2, 5, "", "general")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.ScoreAwarded != 10 {
		t.Errorf("expected score awarded 10 with points_per_star=2, got %d", result.ScoreAwarded)
	}
}
