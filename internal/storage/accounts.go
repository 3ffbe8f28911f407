package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jsalinas/tally/internal/common"
	"github.com/jsalinas/tally/internal/model"
)

const accountColumns = `a.id, a.name, a.category_id, c.name, a.balance, a.user_id, a.version, a.created_at`

// CreateAccount inserts a new account with a zero balance. Account names
// are unique per user and category.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, name string, categoryID, userID int64) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	if err := validateID(categoryID, "categoryID"); err != nil {
		return nil, err
	}
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (name, category_id, balance, user_id) VALUES (?, ?, '0', ?)`,
		name, categoryID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("account %q with this category already exists: %w", name, common.ErrDuplicateEntry)
		}
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get account id: %w", err)
	}

	return s.GetAccount(ctx, id, userID)
}

// GetAccount returns an account by id, scoped to its owner. A missing or
// foreign account is ErrNotFound either way, so ownership probing leaks
// nothing.
func (s *SQLiteStorage) GetAccount(ctx context.Context, accountID, userID int64) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getAccount(ctx, s.db, accountID, userID)
}

// GetAccount is the transaction-scoped variant used inside atomic units.
func (t *sqliteTx) GetAccount(ctx context.Context, accountID, userID int64) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getAccount(ctx, t.tx, accountID, userID)
}

func getAccount(ctx context.Context, q dbtx, accountID, userID int64) (*model.Account, error) {
	if err := validateID(accountID, "accountID"); err != nil {
		return nil, err
	}
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}

	row := q.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts a
		JOIN account_categories c ON c.id = a.category_id
		WHERE a.id = ? AND a.user_id = ?`, accountID, userID)

	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", accountID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	return account, nil
}

// UpdateAccount renames an account or moves it to another category. The
// balance is deliberately not touched here; only the CAS write path may
// change it.
func (s *SQLiteStorage) UpdateAccount(ctx context.Context, accountID int64, name string, categoryID, userID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}
	if err := validateID(categoryID, "categoryID"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET name = ?, category_id = ?
		WHERE id = ? AND user_id = ?`,
		name, categoryID, accountID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("account %q with this category already exists: %w", name, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to update account: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("account %d: %w", accountID, common.ErrNotFound)
	}

	return nil
}

// ListAccounts returns all of a user's accounts ordered by name.
func (s *SQLiteStorage) ListAccounts(ctx context.Context, userID int64) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts a
		JOIN account_categories c ON c.id = a.category_id
		WHERE a.user_id = ?
		ORDER BY a.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// UpdateAccountBalance writes the account's balance with a compare-and-swap
// on its version. A zero-row update means another writer got there first;
// the caller re-reads and retries or gives up with ErrConflict.
func (t *sqliteTx) UpdateAccountBalance(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	res, err := t.tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		account.Balance.String(), account.ID, account.Version)
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("account %d version %d: %w", account.ID, account.Version, common.ErrConflict)
	}

	account.Version++
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*model.Account, error) {
	var account model.Account
	var balance string
	if err := row.Scan(&account.ID, &account.Name, &account.CategoryID, &account.CategoryName,
		&balance, &account.UserID, &account.Version, &account.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	account.Balance, err = parseAmount(balance)
	if err != nil {
		return nil, err
	}

	return &account, nil
}
