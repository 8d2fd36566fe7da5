package domain

import (
	"testing"

	"github.com/stakefit/backend/internal/model"
	"github.com/stakefit/backend/internal/repository"
	"github.com/stakefit/backend/pkg/errorx"
	"github.com/stakefit/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestLedgerDomain() *ledgerDomain {
	return NewLedgerDomain(repository.NewTransactionRepository(), repository.NewBalanceRepository())
}

func TestLedgerDomain_BalanceIsBasePlusSum(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	ctx = testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	domain := newTestLedgerDomain()

	resp, err := domain.GetBalance(ctx, &model.GetBalanceRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(1000), resp.Balance)

	amounts := []struct {
		amount   int64
		category string
	}{
		{amount: 50, category: "earn"},
		{amount: -30, category: "spend"},
		{amount: 20, category: "earn"},
	}

	for _, a := range amounts {
		_, err := domain.RecordTransaction(ctx, &model.RecordTransactionRequest{
			Amount:      a.amount,
			Category:    a.category,
			Description: "test",
		})
		require.NoError(t, err)
	}

	resp, err = domain.GetBalance(ctx, &model.GetBalanceRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(1040), resp.Balance)

	txResp, err := domain.GetTransactions(ctx, &model.GetTransactionsRequest{})
	require.NoError(t, err)
	require.Len(t, txResp.Transactions, 3)

	// Newest first.
	require.Equal(t, int64(20), txResp.Transactions[0].Amount)
	require.Equal(t, int64(50), txResp.Transactions[2].Amount)

	// Other users are not affected.
	otherResp, err := domain.GetBalance(
		testutil.NewMockContextWithUserID(ctx, testutil.User2.ID), &model.GetBalanceRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(1000), otherResp.Balance)
}

func TestLedgerDomain_RecordTransactionInvalidCategory(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	ctx = testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)

	_, err := newTestLedgerDomain().RecordTransaction(ctx, &model.RecordTransactionRequest{
		Amount:   10,
		Category: "gift",
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid category gift"), err)
}

func TestLedgerDomain_InsufficientBalance(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	ctx = testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	domain := newTestLedgerDomain()

	_, err := domain.RecordTransaction(ctx, &model.RecordTransactionRequest{
		Amount:   -1001,
		Category: "spend",
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Insufficient balance"), err)

	// Nothing is recorded by a rejected transaction.
	txResp, err := domain.GetTransactions(ctx, &model.GetTransactionsRequest{})
	require.NoError(t, err)
	require.Empty(t, txResp.Transactions)

	_, err = domain.RecordTransaction(ctx, &model.RecordTransactionRequest{
		Amount:   -1000,
		Category: "spend",
	})
	require.NoError(t, err)

	resp, err := domain.GetBalance(ctx, &model.GetBalanceRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(0), resp.Balance)
}

func TestLedgerDomain_PurchaseTokens(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	ctx = testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	domain := newTestLedgerDomain()

	_, err := domain.PurchaseTokens(ctx, &model.PurchaseTokensRequest{Amount: 0})
	require.Equal(t, errorx.New(errorx.BadRequest, "Amount must be positive"), err)

	resp, err := domain.PurchaseTokens(ctx, &model.PurchaseTokensRequest{Amount: 250})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	require.Equal(t, int64(1250), resp.Balance)

	txResp, err := domain.GetTransactions(ctx, &model.GetTransactionsRequest{})
	require.NoError(t, err)
	require.Len(t, txResp.Transactions, 1)
	require.Equal(t, "purchase", txResp.Transactions[0].Category)
	require.Equal(t, "Purchased 250 tokens", txResp.Transactions[0].Description)
}

func TestLedgerDomain_GetTransactionsLimit(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	ctx = testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)

	_, err := newTestLedgerDomain().GetTransactions(ctx, &model.GetTransactionsRequest{Limit: -1})
	require.Equal(t, errorx.New(errorx.BadRequest, "Limit must be positive"), err)

	_, err = newTestLedgerDomain().GetTransactions(ctx, &model.GetTransactionsRequest{Limit: 51})
	require.Equal(t, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (50)"), err)
}
