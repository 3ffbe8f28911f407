package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsalinas/tally/internal/common"
)

// Account is a single money holder owned by one user. Balance is derived
// state: the sum of credit amounts minus debit amounts over the
// transactions currently recorded against the account. Version backs the
// optimistic-concurrency check on every balance write.
type Account struct {
	CreatedAt    time.Time
	Name         string
	CategoryName string
	Balance      decimal.Decimal
	ID           int64
	CategoryID   int64
	UserID       int64
	Version      int64
}

// Apply records the balance effect of a transaction. A credit raises the
// balance; a debit lowers it and is refused when the balance cannot cover
// the amount.
func (a *Account) Apply(amount decimal.Decimal, txType TransactionType) error {
	switch txType {
	case TypeCredit:
		a.Balance = a.Balance.Add(amount)
	case TypeDebit:
		if a.Balance.LessThan(amount) {
			return fmt.Errorf("%w: debit of %s exceeds balance %s on account %q",
				common.ErrInsufficientFunds, amount, a.Balance, a.Name)
		}
		a.Balance = a.Balance.Sub(amount)
	default:
		return fmt.Errorf("%w: transaction type %q", common.ErrInvalidArgument, string(txType))
	}
	return nil
}

// Reverse undoes a previously applied effect. Reversing a credit needs the
// funds to still be present; if a later debit already spent them the books
// would go negative, which signals a conflicting mutation, so the reversal
// is refused.
func (a *Account) Reverse(amount decimal.Decimal, txType TransactionType) error {
	switch txType {
	case TypeCredit:
		if a.Balance.LessThan(amount) {
			return fmt.Errorf("%w: reversing a credit of %s exceeds balance %s on account %q",
				common.ErrInsufficientFunds, amount, a.Balance, a.Name)
		}
		a.Balance = a.Balance.Sub(amount)
	case TypeDebit:
		a.Balance = a.Balance.Add(amount)
	default:
		return fmt.Errorf("%w: transaction type %q", common.ErrInvalidArgument, string(txType))
	}
	return nil
}
