// Package model defines the core domain types for the ledger.
package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsalinas/tally/internal/common"
)

// TransactionType encodes the direction of a transaction's balance effect.
// The stored encoding is a single character, 'C' or 'D'.
type TransactionType string

const (
	// TypeCredit raises the account balance.
	TypeCredit TransactionType = "C"
	// TypeDebit lowers the account balance.
	TypeDebit TransactionType = "D"
)

// Valid reports whether the type is one of the two canonical codes.
func (t TransactionType) Valid() bool {
	return t == TypeCredit || t == TypeDebit
}

// ParseTransactionType converts a user-supplied code into a TransactionType.
// Accepts "C"/"D" in either case. The retired "I"/"E" income/expense codes
// are rejected with a pointer to the replacement.
func ParseTransactionType(s string) (TransactionType, error) {
	switch s {
	case "C", "c":
		return TypeCredit, nil
	case "D", "d":
		return TypeDebit, nil
	case "I", "i", "E", "e":
		return "", fmt.Errorf("%w: type %q is no longer supported, use 'C' (credit) or 'D' (debit)", common.ErrInvalidArgument, s)
	default:
		return "", fmt.Errorf("%w: transaction type must be 'C' (credit) or 'D' (debit), got %q", common.ErrInvalidArgument, s)
	}
}

// MaxDescriptionLength is the longest description accepted on
// transactions and transfers.
const MaxDescriptionLength = 500

// Transaction is a single-leg ledger entry against one account. Amount is
// always a positive magnitude; the balance effect's direction comes from Type.
type Transaction struct {
	DateTime     time.Time
	Description  string
	AccountName  string
	CategoryName string
	Type         TransactionType
	Amount       decimal.Decimal
	ID           int64
	AccountID    int64
	CategoryID   int64
}

// Validate checks the fields a caller controls. Account and category
// existence is checked against storage, not here.
func (t *Transaction) Validate() error {
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: transaction type must be 'C' or 'D', got %q", common.ErrInvalidArgument, string(t.Type))
	}
	if len(t.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", common.ErrInvalidArgument, MaxDescriptionLength)
	}
	return nil
}

// ValidateAmount enforces the money representation: positive, at most two
// decimal places.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", common.ErrInvalidArgument)
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: amount cannot have more than two decimal places", common.ErrInvalidArgument)
	}
	return nil
}

// ValidateDateTime enforces the accepted posting window: not in the
// future and no older than twelve months.
func ValidateDateTime(ts, now time.Time) error {
	if ts.After(now) {
		return fmt.Errorf("%w: transaction date cannot be in the future", common.ErrInvalidArgument)
	}
	if ts.Before(now.AddDate(0, -12, 0)) {
		return fmt.Errorf("%w: transaction date cannot be older than 12 months", common.ErrInvalidArgument)
	}
	return nil
}
