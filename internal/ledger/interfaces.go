// Package ledger implements the double-entry bookkeeping core: the
// account, transaction, and transfer services and the balance-consistency
// rules they enforce.
package ledger

import (
	"context"

	"github.com/jsalinas/tally/internal/model"
)

// TransactionFilter scopes a transaction listing. UserID is mandatory;
// AccountID and CategoryID narrow the result when set.
type TransactionFilter struct {
	AccountID  *int64
	CategoryID *int64
	UserID     int64
}

// Storage defines the contract the ledger services need from the
// persistence layer.
type Storage interface {
	// Users
	CreateUser(ctx context.Context, name, email string) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	// Categories (read-only reference data)
	ListAccountCategories(ctx context.Context) ([]model.Category, error)
	ListTransactionCategories(ctx context.Context) ([]model.Category, error)
	GetAccountCategory(ctx context.Context, id int64) (*model.Category, error)
	GetTransactionCategory(ctx context.Context, id int64) (*model.Category, error)

	// Accounts
	CreateAccount(ctx context.Context, name string, categoryID, userID int64) (*model.Account, error)
	// UpdateAccount changes name and category only, never the balance.
	UpdateAccount(ctx context.Context, accountID int64, name string, categoryID, userID int64) error
	GetAccount(ctx context.Context, accountID, userID int64) (*model.Account, error)
	ListAccounts(ctx context.Context, userID int64) ([]model.Account, error)

	// Transactions
	GetTransaction(ctx context.Context, id int64) (*model.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)

	// Transfers
	ListTransfers(ctx context.Context, userID int64) ([]model.Transfer, error)
	GetTransfer(ctx context.Context, transferID, userID int64) (*model.Transfer, error)
	// TransferForTransaction returns the user's transfer one of whose legs
	// is the given transaction, or nil if no such transfer exists for them.
	TransferForTransaction(ctx context.Context, transactionID, userID int64) (*model.Transfer, error)

	// BeginTx starts an all-or-nothing write scope.
	BeginTx(ctx context.Context) (Tx, error)

	Close() error
}

// Tx is a single atomic write scope. Everything executed through it
// commits together or not at all.
type Tx interface {
	Commit() error
	Rollback() error

	GetAccount(ctx context.Context, accountID, userID int64) (*model.Account, error)
	// UpdateAccountBalance persists the account's balance with a
	// compare-and-swap on its version; a lost race yields ErrConflict.
	UpdateAccountBalance(ctx context.Context, account *model.Account) error

	InsertTransaction(ctx context.Context, txn *model.Transaction) (int64, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error

	InsertTransfer(ctx context.Context, transfer *model.Transfer) (int64, error)
}
