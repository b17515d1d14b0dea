package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind classifies a transaction record.
type Kind string

const (
	KindInitial     Kind = "INITIAL"
	KindDeposit     Kind = "DEPOSIT"
	KindWithdrawal  Kind = "WITHDRAWAL"
	KindTransferIn  Kind = "TRANSFER_IN"
	KindTransferOut Kind = "TRANSFER_OUT"
)

// Transaction is an immutable record of one balance-affecting event. It is
// created only as the result of a successful Account or Ledger mutation and is
// never updated or deleted afterwards. Amount is always positive; BalanceAfter
// is the account balance at the instant the record was appended.
type Transaction struct {
	ID           string          `json:"id"`
	Kind         Kind            `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Description  string          `json:"description,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// newTransaction stamps a record with a fresh id and the current time.
func newTransaction(kind Kind, amount, balanceAfter decimal.Decimal, description string) Transaction {
	return Transaction{
		ID:           uuid.NewString(),
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		Description:  description,
		Timestamp:    time.Now().UTC(),
	}
}
