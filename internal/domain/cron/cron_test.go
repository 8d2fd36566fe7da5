package cron

import (
	"context"
	"testing"
	"time"

	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/internal/repository"
	"github.com/stakefit/backend/pkg/testutil"
	"github.com/stakefit/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

type countJob struct {
	done chan struct{}
}

func (j *countJob) Do(context.Context) {
	select {
	case j.done <- struct{}{}:
	default:
	}
}

func TestCronJobManager(t *testing.T) {
	ctx, cancel := context.WithCancel(testutil.NewMockContext())
	defer cancel()

	m := NewCronJobManager(ctx)
	require.Error(t, m.Register(ctx, "not a spec", &countJob{}))

	job := &countJob{done: make(chan struct{}, 1)}
	require.NoError(t, m.Register(ctx, "@every 1s", job))

	stopped := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(stopped)
	}()

	select {
	case <-job.done:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "job has not run")
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "manager has not stopped")
	}
}

func TestCompleteChallengesCronJob(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	challengeRepo := repository.NewChallengeRepository()
	err := xcontext.DB(ctx).Model(&entity.Challenge{}).
		Where("id=?", testutil.Challenge2.ID).
		Update("end_at", time.Now().UTC().Add(-time.Hour)).Error
	require.NoError(t, err)

	NewCompleteChallengesCronJob(challengeRepo).Do(ctx)

	c, err := challengeRepo.GetByID(ctx, testutil.Challenge2.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ChallengeCompleted, c.Status)

	c, err = challengeRepo.GetByID(ctx, testutil.Challenge1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ChallengeActive, c.Status)
}

func TestReconcileBalancesCronJob(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	balanceRepo := repository.NewBalanceRepository()
	transactionRepo := repository.NewTransactionRepository()

	record := func(id, userID string, amount int64) {
		require.NoError(t, transactionRepo.Create(ctx, &entity.Transaction{
			ID:       id,
			UserID:   userID,
			Amount:   amount,
			Category: entity.TransactionEarn,
		}))
	}

	// user1 drifted, user2 is consistent.
	record("1", testutil.User1.ID, 50)
	record("2", testutil.User1.ID, -20)
	require.NoError(t, balanceRepo.Increase(ctx, testutil.User1.ID, 50))

	record("3", testutil.User2.ID, 10)
	require.NoError(t, balanceRepo.Increase(ctx, testutil.User2.ID, 10))

	// user3 has a balance row but no transaction.
	err := xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&entity.Balance{UserID: testutil.User3.ID, Total: 5}).Error
	require.NoError(t, err)

	NewReconcileBalancesCronJob(balanceRepo, transactionRepo).Do(ctx)

	for userID, expected := range map[string]int64{
		testutil.User1.ID: 30,
		testutil.User2.ID: 10,
		testutil.User3.ID: 0,
	} {
		b, err := balanceRepo.Get(ctx, userID)
		require.NoError(t, err)
		require.Equal(t, expected, b.Total, userID)
	}
}

// concurrentBalanceRepository records a new transaction of the user right
// before the first compare-and-set, like a check-in committed meanwhile.
type concurrentBalanceRepository struct {
	repository.BalanceRepository
	onFirstCAS func()
}

func (r *concurrentBalanceRepository) CompareAndSet(
	ctx context.Context, userID string, expected, total int64,
) (bool, error) {
	if r.onFirstCAS != nil {
		r.onFirstCAS()
		r.onFirstCAS = nil
	}

	return r.BalanceRepository.CompareAndSet(ctx, userID, expected, total)
}

func TestReconcileBalancesCronJob_ConcurrentTransaction(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	balanceRepo := repository.NewBalanceRepository()
	transactionRepo := repository.NewTransactionRepository()

	require.NoError(t, transactionRepo.Create(ctx, &entity.Transaction{
		ID: "1", UserID: testutil.User1.ID, Amount: 30, Category: entity.TransactionEarn,
	}))
	require.NoError(t, balanceRepo.Increase(ctx, testutil.User1.ID, 50))

	concurrentRepo := &concurrentBalanceRepository{BalanceRepository: balanceRepo}
	concurrentRepo.onFirstCAS = func() {
		require.NoError(t, transactionRepo.Create(ctx, &entity.Transaction{
			ID: "2", UserID: testutil.User1.ID, Amount: 15, Category: entity.TransactionEarn,
		}))
		require.NoError(t, balanceRepo.Increase(ctx, testutil.User1.ID, 15))
	}

	NewReconcileBalancesCronJob(concurrentRepo, transactionRepo).Do(ctx)

	b, err := balanceRepo.Get(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(45), b.Total)
}
