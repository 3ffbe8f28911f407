package ledger

import (
	"context"
	"fmt"

	"github.com/jsalinas/tally/internal/common"
	"github.com/jsalinas/tally/internal/model"
)

// AccountService manages account records. It never touches balances;
// only the transaction and transfer services mutate those.
type AccountService struct {
	store Storage
}

// NewAccountService creates an account service backed by the given storage.
func NewAccountService(store Storage) *AccountService {
	return &AccountService{store: store}
}

// Create opens a new account for the user with a zero balance.
func (s *AccountService) Create(ctx context.Context, name string, categoryID, userID int64) (*model.Account, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", common.ErrInvalidArgument)
	}

	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetAccountCategory(ctx, categoryID); err != nil {
		return nil, fmt.Errorf("account category %d: %w", categoryID, common.ErrInvalidArgument)
	}

	return s.store.CreateAccount(ctx, name, categoryID, userID)
}

// Update renames an account or moves it to another category. Balances are
// only ever changed by posting transactions, never here.
func (s *AccountService) Update(ctx context.Context, accountID int64, name string, categoryID, userID int64) (*model.Account, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", common.ErrInvalidArgument)
	}
	if _, err := s.store.GetAccountCategory(ctx, categoryID); err != nil {
		return nil, fmt.Errorf("account category %d: %w", categoryID, common.ErrInvalidArgument)
	}

	if err := s.store.UpdateAccount(ctx, accountID, name, categoryID, userID); err != nil {
		return nil, err
	}

	return s.store.GetAccount(ctx, accountID, userID)
}

// Get returns one of the user's accounts.
func (s *AccountService) Get(ctx context.Context, accountID, userID int64) (*model.Account, error) {
	return s.store.GetAccount(ctx, accountID, userID)
}

// List returns all of the user's accounts.
func (s *AccountService) List(ctx context.Context, userID int64) ([]model.Account, error) {
	return s.store.ListAccounts(ctx, userID)
}
