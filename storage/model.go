// Package storage implements the persistence gateways for ledger state. A
// Snapshot is a structural export of the whole bank: name, the account number
// counter, and every account with its transaction history. Gateways only move
// snapshots in and out of a backing store; they hold no business rules.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrPersistence marks gateway failures (missing file, malformed data, broken
// connection). It is always wrapped with detail; match it with errors.Is.
var ErrPersistence = errors.New("persistence failure")

// Gateway is implemented by every snapshot backend.
type Gateway interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
}

// SnapshotTransaction is one transaction record in serialized form.
type SnapshotTransaction struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Description  string          `json:"description,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// SnapshotAccount is one account in serialized form, history included.
type SnapshotAccount struct {
	AccountNumber string                `json:"account_number"`
	AccountHolder string                `json:"account_holder"`
	Balance       decimal.Decimal       `json:"balance"`
	IsActive      bool                  `json:"is_active"`
	Transactions  []SnapshotTransaction `json:"transactions,omitempty"`
}

// Snapshot is the full exported state of a ledger.
type Snapshot struct {
	BankName          string            `json:"bank_name"`
	NextAccountNumber int64             `json:"next_account_number"`
	Accounts          []SnapshotAccount `json:"accounts"`
}
