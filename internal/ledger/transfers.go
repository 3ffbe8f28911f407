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

// TransferService moves money between two accounts of one user. A transfer
// is one atomic unit: the debit leg, the credit leg, both balance writes
// and the linking row commit together or not at all.
type TransferService struct {
	store Storage
	retry common.RetryOptions
	now   func() time.Time
}

// NewTransferService creates a transfer service backed by the given storage.
func NewTransferService(store Storage) *TransferService {
	return &TransferService{
		store: store,
		retry: common.RetryOptions{MaxAttempts: 3, InitialDelay: 20 * time.Millisecond},
		now:   time.Now,
	}
}

// TransferInput carries the caller-controlled fields of a transfer.
type TransferInput struct {
	DateTime      time.Time
	Description   string
	Amount        decimal.Decimal
	FromAccountID int64
	ToAccountID   int64
}

// Create executes a transfer. Preconditions are checked in a fixed order,
// first failure wins: source account, destination account, distinct
// accounts, sufficient source balance.
func (s *TransferService) Create(ctx context.Context, in TransferInput, userID int64) (*model.Transfer, error) {
	if err := model.ValidateAmount(in.Amount); err != nil {
		return nil, err
	}
	if len(in.Description) > model.MaxDescriptionLength {
		return nil, fmt.Errorf("%w: description exceeds %d characters", common.ErrInvalidArgument, model.MaxDescriptionLength)
	}

	var id int64
	err := common.WithRetry(ctx, func() error {
		tx, err := s.store.BeginTx(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		from, err := tx.GetAccount(ctx, in.FromAccountID, userID)
		if err != nil {
			return fmt.Errorf("source %w", err)
		}
		to, err := tx.GetAccount(ctx, in.ToAccountID, userID)
		if err != nil {
			return fmt.Errorf("destination %w", err)
		}
		if from.ID == to.ID {
			return fmt.Errorf("%w: source and destination accounts cannot be the same", common.ErrInvalidArgument)
		}

		// Debiting the source also enforces sufficient funds, keeping the
		// balance arithmetic in one place.
		if err := from.Apply(in.Amount, model.TypeDebit); err != nil {
			return err
		}
		if err := to.Apply(in.Amount, model.TypeCredit); err != nil {
			return err
		}
		if err := tx.UpdateAccountBalance(ctx, from); err != nil {
			return err
		}
		if err := tx.UpdateAccountBalance(ctx, to); err != nil {
			return err
		}

		debit := &model.Transaction{
			Amount:      in.Amount,
			DateTime:    in.DateTime,
			CategoryID:  model.TransferCategoryID,
			AccountID:   from.ID,
			Type:        model.TypeDebit,
			Description: annotateLeg("Transfer to "+to.Name, in.Description),
		}
		debitID, err := tx.InsertTransaction(ctx, debit)
		if err != nil {
			return err
		}

		credit := &model.Transaction{
			Amount:      in.Amount,
			DateTime:    in.DateTime,
			CategoryID:  model.TransferCategoryID,
			AccountID:   to.ID,
			Type:        model.TypeCredit,
			Description: annotateLeg("Transfer from "+from.Name, in.Description),
		}
		creditID, err := tx.InsertTransaction(ctx, credit)
		if err != nil {
			return err
		}

		transfer := &model.Transfer{
			Amount:              in.Amount,
			DateTime:            in.DateTime,
			FromAccountID:       from.ID,
			ToAccountID:         to.ID,
			UserID:              userID,
			Description:         in.Description,
			ReferenceNumber:     model.NewReferenceNumber(s.now()),
			DebitTransactionID:  &debitID,
			CreditTransactionID: &creditID,
		}
		if id, err = tx.InsertTransfer(ctx, transfer); err != nil {
			return err
		}

		return tx.Commit()
	}, s.retry)
	if err != nil {
		return nil, err
	}

	slog.Debug("transfer created",
		"transfer_id", id,
		"from_account_id", in.FromAccountID,
		"to_account_id", in.ToAccountID)

	return s.store.GetTransfer(ctx, id, userID)
}

// List returns all of the user's transfers, most recent first.
func (s *TransferService) List(ctx context.Context, userID int64) ([]model.Transfer, error) {
	return s.store.ListTransfers(ctx, userID)
}

// Get returns one of the user's transfers.
func (s *TransferService) Get(ctx context.Context, transferID, userID int64) (*model.Transfer, error) {
	return s.store.GetTransfer(ctx, transferID, userID)
}

func annotateLeg(prefix, description string) string {
	if description == "" {
		return prefix
	}
	return prefix + " - " + description
}
