package cron

import (
	"context"

	"github.com/stakefit/backend/internal/common"
	"github.com/stakefit/backend/internal/repository"
	"github.com/stakefit/backend/pkg/xcontext"
)

// ReconcileBalancesCronJob recomputes the materialized balances from the
// transaction log and repairs the drifted ones.
type ReconcileBalancesCronJob struct {
	balanceRepo     repository.BalanceRepository
	transactionRepo repository.TransactionRepository
}

func NewReconcileBalancesCronJob(
	balanceRepo repository.BalanceRepository,
	transactionRepo repository.TransactionRepository,
) *ReconcileBalancesCronJob {
	return &ReconcileBalancesCronJob{
		balanceRepo:     balanceRepo,
		transactionRepo: transactionRepo,
	}
}

func (job *ReconcileBalancesCronJob) Do(ctx context.Context) {
	// Balances are read before the log. A transaction appended in between
	// changes the balance, so the compare-and-set below skips the user.
	balances, err := job.balanceRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get all balances: %v", err)
		return
	}

	totals, err := job.transactionRepo.SumGroupByUser(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum transactions: %v", err)
		return
	}

	logTotals := map[string]int64{}
	for _, t := range totals {
		logTotals[t.UserID] = t.Total
	}

	for _, b := range balances {
		expected := logTotals[b.UserID]
		delete(logTotals, b.UserID)

		if b.Total == expected {
			continue
		}

		ok, err := job.repair(ctx, b.UserID, b.Total, expected)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot repair balance of %s: %v", b.UserID, err)
			continue
		}

		if !ok {
			// The balance changed in the meantime, compare it with a fresh
			// sum of the log of this user only.
			if err := job.reconcileUser(ctx, b.UserID); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot reconcile balance of %s: %v", b.UserID, err)
			}
		}
	}

	for userID := range logTotals {
		xcontext.Logger(ctx).Warnf("User %s has transactions but no balance", userID)
	}
}

func (job *ReconcileBalancesCronJob) reconcileUser(ctx context.Context, userID string) error {
	balance, err := job.balanceRepo.Get(ctx, userID)
	if err != nil {
		return err
	}

	expected, err := job.transactionRepo.SumByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if balance.Total == expected {
		return nil
	}

	ok, err := job.repair(ctx, userID, balance.Total, expected)
	if err != nil {
		return err
	}

	if !ok {
		xcontext.Logger(ctx).Debugf("Balance of %s is still changing, retry in the next run", userID)
	}

	return nil
}

func (job *ReconcileBalancesCronJob) repair(
	ctx context.Context, userID string, current, expected int64,
) (bool, error) {
	ok, err := job.balanceRepo.CompareAndSet(ctx, userID, current, expected)
	if err != nil || !ok {
		return false, err
	}

	xcontext.Logger(ctx).Warnf("Repaired balance of %s from %d to %d", userID, current, expected)
	common.IncCounter(common.BalanceDriftTotal)
	return true, nil
}
