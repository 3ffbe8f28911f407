package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transfer moves money between two accounts of the same user. It is
// recorded as one debit transaction on the source, one credit transaction
// on the destination, and this linking row. Transfers are immutable once
// created; undoing one means creating a transfer in the opposite direction.
type Transfer struct {
	DateTime            time.Time
	Description         string
	ReferenceNumber     string
	FromAccountName     string
	ToAccountName       string
	Amount              decimal.Decimal
	DebitTransactionID  *int64
	CreditTransactionID *int64
	ID                  int64
	FromAccountID       int64
	ToAccountID         int64
	UserID              int64
}

// NewReferenceNumber generates the human-readable transfer reference:
// TXF-<UTC timestamp>-<8 uppercase random characters>.
func NewReferenceNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("TXF-%s-%s", now.UTC().Format("20060102150405"), suffix)
}
