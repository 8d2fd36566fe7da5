package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stakefit/backend/internal/common"
	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/internal/model"
	"github.com/stakefit/backend/internal/repository"
	"github.com/stakefit/backend/pkg/enum"
	"github.com/stakefit/backend/pkg/errorx"
	"github.com/stakefit/backend/pkg/idutil"
	"github.com/stakefit/backend/pkg/xcontext"
)

type LedgerDomain interface {
	RecordTransaction(context.Context, *model.RecordTransactionRequest) (*model.RecordTransactionResponse, error)
	PurchaseTokens(context.Context, *model.PurchaseTokensRequest) (*model.PurchaseTokensResponse, error)
	GetBalance(context.Context, *model.GetBalanceRequest) (*model.GetBalanceResponse, error)
	GetTransactions(context.Context, *model.GetTransactionsRequest) (*model.GetTransactionsResponse, error)
}

// ledgerWriter appends transactions and keeps the materialized balance in
// sync. It must be called inside a database transaction.
type ledgerWriter struct {
	transactionRepo repository.TransactionRepository
	balanceRepo     repository.BalanceRepository
}

func (w *ledgerWriter) append(
	ctx context.Context,
	userID string,
	amount int64,
	category entity.TransactionCategory,
	description string,
	checkInID string,
) (*entity.Transaction, error) {
	tx := &entity.Transaction{
		ID:          idutil.NewSnowflake(),
		UserID:      userID,
		Amount:      amount,
		Category:    category,
		Description: description,
	}

	if checkInID != "" {
		tx.CheckInID = sql.NullString{Valid: true, String: checkInID}
	}

	if err := w.balanceRepo.Increase(ctx, userID, amount); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return nil, errorx.New(errorx.BadRequest, "Insufficient balance")
		}

		xcontext.Logger(ctx).Errorf("Cannot increase balance: %v", err)
		return nil, errorx.Classify(err)
	}

	if err := w.transactionRepo.Create(ctx, tx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create transaction: %v", err)
		return nil, errorx.Classify(err)
	}

	common.IncCounter(common.LedgerTransactionTotal, string(category))
	return tx, nil
}

type ledgerDomain struct {
	writer          *ledgerWriter
	transactionRepo repository.TransactionRepository
	balanceRepo     repository.BalanceRepository
}

func NewLedgerDomain(
	transactionRepo repository.TransactionRepository,
	balanceRepo repository.BalanceRepository,
) *ledgerDomain {
	return &ledgerDomain{
		writer:          &ledgerWriter{transactionRepo: transactionRepo, balanceRepo: balanceRepo},
		transactionRepo: transactionRepo,
		balanceRepo:     balanceRepo,
	}
}

func (d *ledgerDomain) RecordTransaction(
	ctx context.Context, req *model.RecordTransactionRequest,
) (*model.RecordTransactionResponse, error) {
	category, err := enum.ToEnum[entity.TransactionCategory](req.Category)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid category: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid category %s", req.Category)
	}

	tx, err := d.record(ctx, xcontext.RequestUserID(ctx), req.Amount, category, req.Description)
	if err != nil {
		return nil, err
	}

	return &model.RecordTransactionResponse{ID: tx.ID}, nil
}

func (d *ledgerDomain) PurchaseTokens(
	ctx context.Context, req *model.PurchaseTokensRequest,
) (*model.PurchaseTokensResponse, error) {
	if req.Amount <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Amount must be positive")
	}

	userID := xcontext.RequestUserID(ctx)
	tx, err := d.record(ctx, userID, req.Amount, entity.TransactionPurchase,
		fmt.Sprintf("Purchased %d tokens", req.Amount))
	if err != nil {
		return nil, err
	}

	balance, err := d.balanceOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.PurchaseTokensResponse{ID: tx.ID, Balance: balance}, nil
}

func (d *ledgerDomain) GetBalance(
	ctx context.Context, req *model.GetBalanceRequest,
) (*model.GetBalanceResponse, error) {
	balance, err := d.balanceOf(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		return nil, err
	}

	return &model.GetBalanceResponse{Balance: balance}, nil
}

func (d *ledgerDomain) GetTransactions(
	ctx context.Context, req *model.GetTransactionsRequest,
) (*model.GetTransactionsResponse, error) {
	limit, err := normalizeLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	transactions, err := d.transactionRepo.GetListByUserID(ctx, xcontext.RequestUserID(ctx), limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get transactions: %v", err)
		return nil, errorx.Classify(err)
	}

	clientTransactions := []model.Transaction{}
	for i := range transactions {
		clientTransactions = append(clientTransactions, model.ConvertTransaction(&transactions[i]))
	}

	return &model.GetTransactionsResponse{Transactions: clientTransactions}, nil
}

func (d *ledgerDomain) record(
	ctx context.Context,
	userID string,
	amount int64,
	category entity.TransactionCategory,
	description string,
) (*entity.Transaction, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	tx, err := d.writer.append(ctx, userID, amount, category, description, "")
	if err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Classify(err)
	}

	return tx, nil
}

// balanceOf returns the base balance plus the sum of all transaction amounts
// of the user.
func (d *ledgerDomain) balanceOf(ctx context.Context, userID string) (int64, error) {
	balance, err := d.balanceRepo.Get(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get balance: %v", err)
		return 0, errorx.Classify(err)
	}

	return entity.BaseBalance + balance.Total, nil
}
