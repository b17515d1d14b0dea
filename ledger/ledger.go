// Package ledger implements the account ledger engine: accounts, their
// append-only transaction histories, and the all-or-nothing transfer protocol.
// The package is storage-agnostic and never performs I/O or logging; callers
// persist state through the storage gateways and surface errors themselves.
package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"go-bank-ledger/storage"
)

// firstAccountNumber is where the account number counter starts. Numbers are
// issued exactly once and never reused, even after an account is closed.
const firstAccountNumber = 1001

// Ledger owns the collection of accounts and issues account numbers. A single
// mutex serializes every operation, so a balance mutation and its transaction
// record are always observed together, and both legs of a transfer become
// visible at once. Read operations return detached copies; the internal
// *Account values never escape the lock.
type Ledger struct {
	mu         sync.Mutex
	name       string
	nextNumber int64
	accounts   map[string]*Account
	order      []string // account numbers in creation order
}

// Summary aggregates bank-wide statistics across all accounts, closed ones
// included.
type Summary struct {
	TotalAccounts     int             `json:"total_accounts"`
	ActiveAccounts    int             `json:"active_accounts"`
	TotalDeposits     decimal.Decimal `json:"total_deposits"`
	TotalTransactions int             `json:"total_transactions"`
}

// New creates an empty ledger with the given display name.
func New(name string) *Ledger {
	return &Ledger{
		name:       name,
		nextNumber: firstAccountNumber,
		accounts:   make(map[string]*Account),
	}
}

// Name returns the ledger's display name.
func (l *Ledger) Name() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.name
}

// CreateAccount allocates the next account number and opens an account for
// holder with the given initial balance. A negative initial balance fails with
// ErrInvalidAmount and a blank holder name with ErrEmptyHolder. When the
// initial balance is positive the account starts with one INITIAL record.
func (l *Ledger) CreateAccount(holder string, initial decimal.Decimal) (Account, error) {
	if strings.TrimSpace(holder) == "" {
		return Account{}, ErrEmptyHolder
	}
	if initial.IsNegative() {
		return Account{}, ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	number := strconv.FormatInt(l.nextNumber, 10)
	l.nextNumber++
	a := newAccount(number, holder, initial)
	l.accounts[number] = a
	l.order = append(l.order, number)
	return a.snapshot(), nil
}

// Account returns a snapshot of the account with the given number, or
// ErrNotFound.
func (l *Ledger) Account(number string) (Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.accounts[number]
	if !ok {
		return Account{}, ErrNotFound
	}
	return a.snapshot(), nil
}

// Deposit adds amount to the account and returns the updated snapshot.
func (l *Ledger) Deposit(number string, amount decimal.Decimal, description string) (Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.accounts[number]
	if !ok {
		return Account{}, ErrNotFound
	}
	if _, err := a.Deposit(amount, description); err != nil {
		return Account{}, err
	}
	return a.snapshot(), nil
}

// Withdraw removes amount from the account and returns the updated snapshot.
func (l *Ledger) Withdraw(number string, amount decimal.Decimal, description string) (Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.accounts[number]
	if !ok {
		return Account{}, ErrNotFound
	}
	if _, err := a.Withdraw(amount, description); err != nil {
		return Account{}, err
	}
	return a.snapshot(), nil
}

// Transfer moves amount from one account to another as a single atomic unit:
// either both legs are applied or neither is visible. Every failure condition
// is checked before any state changes, so a failed transfer leaves both
// accounts completely untouched. The debit leg records a TRANSFER_OUT
// referencing the destination and the credit leg a TRANSFER_IN referencing the
// source.
func (l *Ledger) Transfer(fromNumber, toNumber string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if fromNumber == toNumber {
		return ErrSameAccount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	from, ok := l.accounts[fromNumber]
	if !ok {
		return ErrNotFound
	}
	to, ok := l.accounts[toNumber]
	if !ok {
		return ErrNotFound
	}
	if !from.active || !to.active {
		return ErrAccountClosed
	}
	if amount.GreaterThan(from.balance) {
		return ErrInsufficientFunds
	}

	from.balance = from.balance.Sub(amount)
	from.append(KindTransferOut, amount, fmt.Sprintf("Transfer to account %s", toNumber))
	to.balance = to.balance.Add(amount)
	to.append(KindTransferIn, amount, fmt.Sprintf("Transfer from account %s", fromNumber))
	return nil
}

// CloseAccount deactivates the account and returns its final snapshot. Closing
// an already-closed account is a no-op; the account keeps its balance and
// history but rejects all further mutations.
func (l *Ledger) CloseAccount(number string) (Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.accounts[number]
	if !ok {
		return Account{}, ErrNotFound
	}
	a.Close()
	return a.snapshot(), nil
}

// History returns the most recent limit records of the account in
// chronological order, or the full history when limit <= 0.
func (l *Ledger) History(number string, limit int) ([]Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.accounts[number]
	if !ok {
		return nil, ErrNotFound
	}
	return a.History(limit), nil
}

// ListAccounts returns snapshots of all accounts in creation order, closed
// accounts included.
func (l *Ledger) ListAccounts() []Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Account, 0, len(l.order))
	for _, number := range l.order {
		out = append(out, l.accounts[number].snapshot())
	}
	return out
}

// TotalDeposits returns the sum of all account balances, closed accounts
// included.
func (l *Ledger) TotalDeposits() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalDepositsLocked()
}

func (l *Ledger) totalDepositsLocked() decimal.Decimal {
	total := decimal.Zero
	for _, a := range l.accounts {
		total = total.Add(a.balance)
	}
	return total
}

// Summary returns bank-wide statistics.
func (l *Ledger) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := Summary{
		TotalAccounts: len(l.accounts),
		TotalDeposits: l.totalDepositsLocked(),
	}
	for _, a := range l.accounts {
		if a.active {
			s.ActiveAccounts++
		}
		s.TotalTransactions += len(a.transactions)
	}
	return s
}

// Snapshot exports the full ledger state, transaction histories included, in
// the form the storage gateways persist.
func (l *Ledger) Snapshot() storage.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	snap := storage.Snapshot{
		BankName:          l.name,
		NextAccountNumber: l.nextNumber,
		Accounts:          make([]storage.SnapshotAccount, 0, len(l.order)),
	}
	for _, number := range l.order {
		a := l.accounts[number]
		sa := storage.SnapshotAccount{
			AccountNumber: a.number,
			AccountHolder: a.holder,
			Balance:       a.balance,
			IsActive:      a.active,
			Transactions:  make([]storage.SnapshotTransaction, 0, len(a.transactions)),
		}
		for _, tx := range a.transactions {
			sa.Transactions = append(sa.Transactions, storage.SnapshotTransaction{
				ID:           tx.ID,
				Kind:         string(tx.Kind),
				Amount:       tx.Amount,
				BalanceAfter: tx.BalanceAfter,
				Description:  tx.Description,
				Timestamp:    tx.Timestamp,
			})
		}
		snap.Accounts = append(snap.Accounts, sa)
	}
	return snap
}

// Restore replaces the ledger state with the contents of a snapshot. The
// account number counter is floored at its base so a truncated snapshot can
// never cause a number to be reissued below it.
func (l *Ledger) Restore(snap storage.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if snap.BankName != "" {
		l.name = snap.BankName
	}
	l.nextNumber = snap.NextAccountNumber
	if l.nextNumber < firstAccountNumber {
		l.nextNumber = firstAccountNumber
	}
	l.accounts = make(map[string]*Account, len(snap.Accounts))
	l.order = l.order[:0]
	for _, sa := range snap.Accounts {
		a := &Account{
			number:  sa.AccountNumber,
			holder:  sa.AccountHolder,
			balance: sa.Balance,
			active:  sa.IsActive,
		}
		for _, tx := range sa.Transactions {
			a.transactions = append(a.transactions, Transaction{
				ID:           tx.ID,
				Kind:         Kind(tx.Kind),
				Amount:       tx.Amount,
				BalanceAfter: tx.BalanceAfter,
				Description:  tx.Description,
				Timestamp:    tx.Timestamp,
			})
		}
		l.accounts[a.number] = a
		l.order = append(l.order, a.number)
		if n, err := strconv.ParseInt(a.number, 10, 64); err == nil && n >= l.nextNumber {
			l.nextNumber = n + 1
		}
	}
}
