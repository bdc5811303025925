package service

import (
	"context"
	"testing"

	"github.com/themachinehf/atn-project/pkg/errors"
)

func TestLeaderboardDenseRanks(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.seedUser(t, 1, "alpha", "Alpha", 300)
	env.seedUser(t, 2, "beta", "Beta", 300)
	env.seedUser(t, 3, "gamma", "Gamma", 100)

	rows, err := env.ranking.Leaderboard(ctx, 3)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	// Dense ordinal ranks even on ties: [1,2,3], never [1,1,3].
	for i, row := range rows {
		if row.Rank != i+1 {
			t.Errorf("row %d: expected rank %d, got %d", i, i+1, row.Rank)
		}
	}
	if rows[0].ReputationScore != 300 || rows[1].ReputationScore != 300 || rows[2].ReputationScore != 100 {
		t.Errorf("unexpected ordering: %+v", rows)
	}
	// Tie-break is stable primary-key order.
	if rows[0].UserID != 1 || rows[1].UserID != 2 {
		t.Errorf("expected stable tie-break by user id, got %d then %d", rows[0].UserID, rows[1].UserID)
	}
}

func TestRankOfCompetitionRanking(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.seedUser(t, 1, "alpha", "Alpha", 300)
	env.seedUser(t, 2, "beta", "Beta", 300)
	env.seedUser(t, 3, "gamma", "Gamma", 100)

	// Tied users share rank 1; the next distinct score skips to rank 3.
	for _, id := range []int64{1, 2} {
		rank, err := env.ranking.RankOf(ctx, id)
		if err != nil {
			t.Fatalf("RankOf(%d) failed: %v", id, err)
		}
		if rank != 1 {
			t.Errorf("RankOf(%d): expected 1, got %d", id, rank)
		}
	}

	rank, err := env.ranking.RankOf(ctx, 3)
	if err != nil {
		t.Fatalf("RankOf(3) failed: %v", err)
	}
	if rank != 3 {
		t.Errorf("RankOf(3): expected 3, got %d", rank)
	}
}

func TestRankOfUnknownUser(t *testing.T) {
	env := setupEnv(t)

	_, err := env.ranking.RankOf(context.Background(), 42)
	if !errors.HasCode(err, errors.ErrUserNotFound) {
		t.Fatalf("expected USER_NOT_FOUND, got %v", err)
	}
}

func TestLeaderboardLimitClamped(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.seedUser(t, 1, "alpha", "Alpha", 10)

	if _, err := env.ranking.Leaderboard(ctx, 500); err != nil {
		t.Fatalf("Leaderboard with oversized limit failed: %v", err)
	}
	if _, err := env.ranking.Leaderboard(ctx, 0); err != nil {
		t.Fatalf("Leaderboard with zero limit failed: %v", err)
	}
}

func TestAvgRatingZeroWithoutEvaluations(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.seedUser(t, 1, "alpha", "Alpha", 0)

	avg, err := env.ranking.AvgRating(ctx, 1)
	if err != nil {
		t.Fatalf("AvgRating failed: %v", err)
	}
	if avg != 0 {
		t.Errorf("expected 0 for user with no evaluations, got %f", avg)
	}
}

func TestAvgRatingMean(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.seedUser(t, 1, "rater", "Rater", 0)
	env.seedUser(t, 2, "target", "Target", 0)

	for _, rating := range []int{5, 4, 3} {
		if _, err := env.evaluation.Submit(ctx, 1, 2, rating, "", "general"); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	avg, err := env.ranking.AvgRating(ctx, 2)
	if err != nil {
		t.Fatalf("AvgRating failed: %v", err)
	}
	if avg != 4.0 {
		t.Errorf("expected average 4.0, got %f", avg)
	}
}

func TestTrendingAgentsOnly(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.seedUser(t, 1, "agent", "Agent", 50)
	env.seedUser(t, 2, "plain", "Plain", 500)
	if err := env.users.SetAgent(ctx, 1); err != nil {
		t.Fatalf("SetAgent failed: %v", err)
	}

	rows, err := env.ranking.Trending(ctx, 10)
	if err != nil {
		t.Fatalf("Trending failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only the agent, got %d rows", len(rows))
	}
	if rows[0].UserID != 1 {
		t.Errorf("expected agent user 1, got %d", rows[0].UserID)
	}
}

func TestStats(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.seedUser(t, 1, "rater", "Rater", 0)
	env.seedUser(t, 2, "target", "Target", 70)
	if _, err := env.evaluation.Submit(ctx, 1, 2, 5, "", "general"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	stats, err := env.ranking.Stats(ctx, 2)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.ReputationScore != 120 {
		t.Errorf("expected score 120, got %d", stats.ReputationScore)
	}
	if stats.GradeTier != "Trusted" {
		t.Errorf("expected Trusted tier, got %s", stats.GradeTier)
	}
	if stats.Rank != 1 {
		t.Errorf("expected rank 1, got %d", stats.Rank)
	}
	if stats.EvaluationCount != 1 {
		t.Errorf("expected 1 evaluation, got %d", stats.EvaluationCount)
	}
	if stats.AvgRating != 5.0 {
		t.Errorf("expected avg rating 5.0, got %f", stats.AvgRating)
	}
}

func TestStatsUnknownUser(t *testing.T) {
	env := setupEnv(t)

	_, err := env.ranking.Stats(context.Background(), 42)
	if !errors.HasCode(err, errors.ErrUserNotFound) {
		t.Fatalf("expected USER_NOT_FOUND, got %v", err)
	}
}

func TestBreakdown(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.seedUser(t, 1, "alpha", "Alpha", 200)
	if err := env.users.IncrementTasks(ctx, 1); err != nil {
		t.Fatalf("IncrementTasks failed: %v", err)
	}

	breakdown, err := env.ranking.Breakdown(ctx, 1)
	if err != nil {
		t.Fatalf("Breakdown failed: %v", err)
	}
	if breakdown.TotalScore != 200 {
		t.Errorf("expected total 200, got %d", breakdown.TotalScore)
	}
	if breakdown.TaskScore != 10 {
		t.Errorf("expected task score 10, got %d", breakdown.TaskScore)
	}
}
