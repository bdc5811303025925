package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/themachinehf/atn-project/internal/service"
	"github.com/themachinehf/atn-project/pkg/logger"
)

// ReconcileScheduler periodically verifies that every cached reputation
// score still equals its ledger sum. Drift is reported, never auto-repaired:
// a mismatch means a write bypassed the score mutator and needs a human.
type ReconcileScheduler struct {
	cron       *cron.Cron
	reputation *service.ReputationService
	cronExpr   string
}

func NewReconcileScheduler(reputation *service.ReputationService, cronExpr string) *ReconcileScheduler {
	return &ReconcileScheduler{
		cron:       cron.New(cron.WithSeconds()),
		reputation: reputation,
		cronExpr:   cronExpr,
	}
}

func (s *ReconcileScheduler) Start() error {
	_, err := s.cron.AddFunc(s.cronExpr, s.reconcile)
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("Ledger reconciliation scheduler started")
	return nil
}

func (s *ReconcileScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Ledger reconciliation scheduler stopped")
}

func (s *ReconcileScheduler) reconcile() {
	ctx := context.Background()

	drifts, err := s.reputation.ReconcileAll(ctx)
	if err != nil {
		logger.Error("Ledger reconciliation failed:", err)
		return
	}

	if len(drifts) == 0 {
		logger.Debug("Ledger reconciliation clean")
		return
	}

	for _, d := range drifts {
		logger.WithFields(map[string]interface{}{
			"user_id":      d.UserID,
			"stored_score": d.StoredScore,
			"ledger_sum":   d.LedgerSum,
		}).Error("Reputation score drifted from ledger")
	}
}

// TriggerManualReconcile runs one sweep outside the cron schedule.
func (s *ReconcileScheduler) TriggerManualReconcile(ctx context.Context) ([]service.Drift, error) {
	return s.reputation.ReconcileAll(ctx)
}
