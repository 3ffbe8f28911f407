package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsalinas/tally/internal/common"
	"github.com/jsalinas/tally/internal/model"
)

// TransactionService manages the lifecycle of single-leg transactions and
// keeps each account's balance consistent with it. Every mutation runs in
// one atomic storage unit; balance writes are compare-and-swap and lost
// races are retried a bounded number of times before surfacing ErrConflict.
type TransactionService struct {
	store Storage
	retry common.RetryOptions
}

// NewTransactionService creates a transaction service backed by the given storage.
func NewTransactionService(store Storage) *TransactionService {
	return &TransactionService{
		store: store,
		retry: common.RetryOptions{MaxAttempts: 3, InitialDelay: 20 * time.Millisecond},
	}
}

// TransactionInput carries the caller-controlled fields of a transaction.
type TransactionInput struct {
	DateTime    time.Time
	Description string
	Type        model.TransactionType
	Amount      decimal.Decimal
	AccountID   int64
	CategoryID  int64
}

func (in TransactionInput) validate() error {
	txn := model.Transaction{
		Amount:      in.Amount,
		Type:        in.Type,
		Description: in.Description,
	}
	return txn.Validate()
}

// Create posts a new transaction against one of the user's accounts,
// applying its effect to the account balance in the same atomic unit.
func (s *TransactionService) Create(ctx context.Context, in TransactionInput, userID int64) (*model.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.GetTransactionCategory(ctx, in.CategoryID); err != nil {
		return nil, fmt.Errorf("transaction category %d: %w", in.CategoryID, common.ErrInvalidArgument)
	}

	var id int64
	err := common.WithRetry(ctx, func() error {
		tx, err := s.store.BeginTx(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		account, err := tx.GetAccount(ctx, in.AccountID, userID)
		if err != nil {
			return err
		}

		if err := account.Apply(in.Amount, in.Type); err != nil {
			return err
		}
		if err := tx.UpdateAccountBalance(ctx, account); err != nil {
			return err
		}

		txn := &model.Transaction{
			Amount:      in.Amount,
			DateTime:    in.DateTime,
			CategoryID:  in.CategoryID,
			AccountID:   in.AccountID,
			Type:        in.Type,
			Description: in.Description,
		}
		if id, err = tx.InsertTransaction(ctx, txn); err != nil {
			return err
		}

		return tx.Commit()
	}, s.retry)
	if err != nil {
		return nil, err
	}

	slog.Debug("transaction created", "transaction_id", id, "account_id", in.AccountID, "type", string(in.Type))

	return s.store.GetTransaction(ctx, id)
}

// Update rewrites a transaction. The old effect is reversed against the old
// account, then the new effect is applied against the (possibly different)
// new account, as two discrete steps in one atomic unit. A diff-based
// single-step adjustment cannot handle amount, type and account all
// changing at once, so the order here is load-bearing.
func (s *TransactionService) Update(ctx context.Context, transactionID int64, in TransactionInput, userID int64) (*model.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.GetTransactionCategory(ctx, in.CategoryID); err != nil {
		return nil, fmt.Errorf("transaction category %d: %w", in.CategoryID, common.ErrInvalidArgument)
	}
	if err := s.rejectTransferLeg(ctx, transactionID, userID); err != nil {
		return nil, err
	}

	err := common.WithRetry(ctx, func() error {
		old, err := s.store.GetTransaction(ctx, transactionID)
		if err != nil {
			return err
		}

		tx, err := s.store.BeginTx(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		// Ownership rides on the account lookup: a transaction on another
		// user's account is indistinguishable from a missing one.
		oldAccount, err := tx.GetAccount(ctx, old.AccountID, userID)
		if err != nil {
			return err
		}
		if err := oldAccount.Reverse(old.Amount, old.Type); err != nil {
			return err
		}

		newAccount := oldAccount
		if in.AccountID != old.AccountID {
			if newAccount, err = tx.GetAccount(ctx, in.AccountID, userID); err != nil {
				return err
			}
		}
		if err := newAccount.Apply(in.Amount, in.Type); err != nil {
			return err
		}

		if err := tx.UpdateAccountBalance(ctx, oldAccount); err != nil {
			return err
		}
		if newAccount != oldAccount {
			if err := tx.UpdateAccountBalance(ctx, newAccount); err != nil {
				return err
			}
		}

		old.Amount = in.Amount
		old.DateTime = in.DateTime
		old.CategoryID = in.CategoryID
		old.AccountID = in.AccountID
		old.Type = in.Type
		old.Description = in.Description
		if err := tx.UpdateTransaction(ctx, old); err != nil {
			return err
		}

		return tx.Commit()
	}, s.retry)
	if err != nil {
		return nil, err
	}

	slog.Debug("transaction updated", "transaction_id", transactionID)

	return s.store.GetTransaction(ctx, transactionID)
}

// Delete reverses a transaction's effect and removes it in one atomic unit.
func (s *TransactionService) Delete(ctx context.Context, transactionID, userID int64) error {
	if err := s.rejectTransferLeg(ctx, transactionID, userID); err != nil {
		return err
	}

	err := common.WithRetry(ctx, func() error {
		txn, err := s.store.GetTransaction(ctx, transactionID)
		if err != nil {
			return err
		}

		tx, err := s.store.BeginTx(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		account, err := tx.GetAccount(ctx, txn.AccountID, userID)
		if err != nil {
			return err
		}
		if err := account.Reverse(txn.Amount, txn.Type); err != nil {
			return err
		}
		if err := tx.UpdateAccountBalance(ctx, account); err != nil {
			return err
		}
		if err := tx.DeleteTransaction(ctx, transactionID); err != nil {
			return err
		}

		return tx.Commit()
	}, s.retry)
	if err != nil {
		return err
	}

	slog.Debug("transaction deleted", "transaction_id", transactionID)
	return nil
}

// List returns the user's transactions, most recent first. With no filter
// it spans all of the user's accounts and an empty result is not an error;
// a filter naming a missing or foreign account is ErrNotFound.
func (s *TransactionService) List(ctx context.Context, userID int64, accountID, categoryID *int64) ([]model.Transaction, error) {
	if accountID != nil {
		if _, err := s.store.GetAccount(ctx, *accountID, userID); err != nil {
			return nil, err
		}
	} else if categoryID != nil {
		return nil, fmt.Errorf("%w: category filter requires an account filter", common.ErrInvalidArgument)
	}

	return s.store.ListTransactions(ctx, TransactionFilter{
		UserID:     userID,
		AccountID:  accountID,
		CategoryID: categoryID,
	})
}

// rejectTransferLeg refuses edits to transactions that are legs of one of
// the user's transfers; unwinding half a transfer would break its zero-sum
// books. The lookup is user-scoped, so a transaction that is someone
// else's leg passes here and fails the ownership check instead.
func (s *TransactionService) rejectTransferLeg(ctx context.Context, transactionID, userID int64) error {
	transfer, err := s.store.TransferForTransaction(ctx, transactionID, userID)
	if err != nil {
		return err
	}
	if transfer != nil {
		return fmt.Errorf("%w: transaction %d belongs to transfer %s and cannot be changed on its own",
			common.ErrInvalidArgument, transactionID, transfer.ReferenceNumber)
	}
	return nil
}
