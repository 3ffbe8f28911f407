package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jsalinas/tally/internal/common"
	"github.com/jsalinas/tally/internal/model"
)

// ListAccountCategories returns all account categories ordered by id.
func (s *SQLiteStorage) ListAccountCategories(ctx context.Context) ([]model.Category, error) {
	return s.listCategories(ctx, "account_categories")
}

// ListTransactionCategories returns all transaction categories ordered by id.
func (s *SQLiteStorage) ListTransactionCategories(ctx context.Context) ([]model.Category, error) {
	return s.listCategories(ctx, "transaction_categories")
}

// GetAccountCategory returns one account category by id.
func (s *SQLiteStorage) GetAccountCategory(ctx context.Context, id int64) (*model.Category, error) {
	return s.getCategory(ctx, "account_categories", id)
}

// GetTransactionCategory returns one transaction category by id.
func (s *SQLiteStorage) GetTransactionCategory(ctx context.Context, id int64) (*model.Category, error) {
	return s.getCategory(ctx, "transaction_categories", id)
}

// The table name is always one of the two fixed category tables, never
// user input.
func (s *SQLiteStorage) listCategories(ctx context.Context, table string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, name FROM %s ORDER BY id`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", table, err)
	}

	return categories, nil
}

func (s *SQLiteStorage) getCategory(ctx context.Context, table string, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "categoryID"); err != nil {
		return nil, err
	}

	var cat model.Category
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id, name FROM %s WHERE id = ?`, table), id).
		Scan(&cat.ID, &cat.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}
