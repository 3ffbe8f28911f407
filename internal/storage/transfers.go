package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jsalinas/tally/internal/common"
	"github.com/jsalinas/tally/internal/model"
)

const transferColumns = `t.id, t.amount, t.date_time, t.from_account_id, fa.name, t.to_account_id, ta.name,
	t.user_id, t.description, t.reference_number, t.debit_transaction_id, t.credit_transaction_id`

const transferJoins = `
	FROM transfers t
	JOIN accounts fa ON fa.id = t.from_account_id
	JOIN accounts ta ON ta.id = t.to_account_id`

// InsertTransfer adds the transfer linking row inside the atomic unit and
// returns its id.
func (t *sqliteTx) InsertTransfer(ctx context.Context, transfer *model.Transfer) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO transfers (amount, date_time, from_account_id, to_account_id, user_id,
			description, reference_number, debit_transaction_id, credit_transaction_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		transfer.Amount.String(), transfer.DateTime, transfer.FromAccountID, transfer.ToAccountID,
		transfer.UserID, transfer.Description, transfer.ReferenceNumber,
		transfer.DebitTransactionID, transfer.CreditTransactionID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transfer: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get transfer id: %w", err)
	}

	transfer.ID = id
	return id, nil
}

// ListTransfers returns the user's transfers, most recent first.
func (s *SQLiteStorage) ListTransfers(ctx context.Context, userID int64) ([]model.Transfer, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transferColumns+transferJoins+`
		WHERE t.user_id = ?
		ORDER BY t.date_time DESC, t.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer rows.Close()

	var transfers []model.Transfer
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, *transfer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfers: %w", err)
	}

	return transfers, nil
}

// GetTransfer returns a transfer by id, scoped to its owner.
func (s *SQLiteStorage) GetTransfer(ctx context.Context, transferID, userID int64) (*model.Transfer, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(transferID, "transferID"); err != nil {
		return nil, err
	}
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+transferColumns+transferJoins+`
		WHERE t.id = ? AND t.user_id = ?`, transferID, userID)

	transfer, err := scanTransfer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transfer %d: %w", transferID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer: %w", err)
	}

	return transfer, nil
}

// TransferForTransaction returns the user's transfer owning the given
// transaction as one of its legs, or nil if they have no such transfer.
// Scoping by user keeps another owner's transfer details out of reach.
func (s *SQLiteStorage) TransferForTransaction(ctx context.Context, transactionID, userID int64) (*model.Transfer, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(transactionID, "transactionID"); err != nil {
		return nil, err
	}
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+transferColumns+transferJoins+`
		WHERE (t.debit_transaction_id = ? OR t.credit_transaction_id = ?) AND t.user_id = ?`,
		transactionID, transactionID, userID)

	transfer, err := scanTransfer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // not a transfer leg
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer for transaction: %w", err)
	}

	return transfer, nil
}

func scanTransfer(row scanner) (*model.Transfer, error) {
	var transfer model.Transfer
	var amount string
	if err := row.Scan(&transfer.ID, &amount, &transfer.DateTime,
		&transfer.FromAccountID, &transfer.FromAccountName,
		&transfer.ToAccountID, &transfer.ToAccountName,
		&transfer.UserID, &transfer.Description, &transfer.ReferenceNumber,
		&transfer.DebitTransactionID, &transfer.CreditTransactionID); err != nil {
		return nil, err
	}

	var err error
	transfer.Amount, err = parseAmount(amount)
	if err != nil {
		return nil, err
	}

	return &transfer, nil
}
