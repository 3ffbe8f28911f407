package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jsalinas/tally/internal/common"
	"github.com/jsalinas/tally/internal/ledger"
	"github.com/jsalinas/tally/internal/model"
)

const transactionColumns = `t.id, t.amount, t.date_time, t.category_id, tc.name, t.account_id, a.name, t.type, t.description`

const transactionJoins = `
	FROM transactions t
	JOIN accounts a ON a.id = t.account_id
	JOIN transaction_categories tc ON tc.id = t.category_id`

// GetTransaction returns a transaction by id with its account and category
// names resolved. Ownership is not checked here; callers check the owning
// account.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "transactionID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+transactionJoins+` WHERE t.id = ?`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}

	return txn, nil
}

// ListTransactions returns the user's transactions, most recent first,
// optionally narrowed to one account and one category.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, filter ledger.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(filter.UserID, "userID"); err != nil {
		return nil, err
	}

	query := `SELECT ` + transactionColumns + transactionJoins + ` WHERE a.user_id = ?`
	args := []any{filter.UserID}

	if filter.AccountID != nil {
		query += ` AND t.account_id = ?`
		args = append(args, *filter.AccountID)
	}
	if filter.CategoryID != nil {
		query += ` AND t.category_id = ?`
		args = append(args, *filter.CategoryID)
	}

	query += ` ORDER BY t.date_time DESC, t.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// InsertTransaction adds a transaction row inside the atomic unit and
// returns its id.
func (t *sqliteTx) InsertTransaction(ctx context.Context, txn *model.Transaction) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO transactions (amount, date_time, category_id, account_id, type, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		txn.Amount.String(), txn.DateTime, txn.CategoryID, txn.AccountID, string(txn.Type), txn.Description)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get transaction id: %w", err)
	}

	txn.ID = id
	return id, nil
}

// UpdateTransaction overwrites a transaction's mutable fields inside the
// atomic unit.
func (t *sqliteTx) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	res, err := t.tx.ExecContext(ctx, `
		UPDATE transactions
		SET amount = ?, date_time = ?, category_id = ?, account_id = ?, type = ?, description = ?
		WHERE id = ?`,
		txn.Amount.String(), txn.DateTime, txn.CategoryID, txn.AccountID, string(txn.Type), txn.Description, txn.ID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("transaction %d: %w", txn.ID, common.ErrNotFound)
	}

	return nil
}

// DeleteTransaction removes a transaction row inside the atomic unit.
func (t *sqliteTx) DeleteTransaction(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "transactionID"); err != nil {
		return err
	}

	res, err := t.tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}

	return nil
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var txn model.Transaction
	var amount, txType string
	if err := row.Scan(&txn.ID, &amount, &txn.DateTime, &txn.CategoryID, &txn.CategoryName,
		&txn.AccountID, &txn.AccountName, &txType, &txn.Description); err != nil {
		return nil, err
	}

	var err error
	txn.Amount, err = parseAmount(amount)
	if err != nil {
		return nil, err
	}

	txn.Type = model.TransactionType(txType)
	if !txn.Type.Valid() {
		return nil, fmt.Errorf("corrupt transaction type %q in database", txType)
	}

	return &txn, nil
}
