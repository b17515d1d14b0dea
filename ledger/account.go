package ledger

import "github.com/shopspring/decimal"

// Account is a named balance with an append-only transaction history. The
// account number is assigned by the Ledger and never changes; the balance never
// goes negative; every balance mutation appends exactly one Transaction in the
// same step, so the balance always equals the BalanceAfter of the most recent
// record (or the initial balance when the history is empty).
//
// Account carries no locking of its own. The Ledger serializes all access; a
// standalone *Account must not be shared across goroutines.
type Account struct {
	number       string
	holder       string
	balance      decimal.Decimal
	active       bool
	transactions []Transaction
}

// newAccount is called by the Ledger once a number has been issued. An INITIAL
// record is appended only when the opening balance is positive.
func newAccount(number, holder string, initial decimal.Decimal) *Account {
	a := &Account{
		number:  number,
		holder:  holder,
		balance: initial,
		active:  true,
	}
	if initial.IsPositive() {
		a.append(KindInitial, initial, "Account opened")
	}
	return a
}

// Number returns the account number issued by the Ledger.
func (a *Account) Number() string { return a.number }

// Holder returns the account holder name.
func (a *Account) Holder() string { return a.holder }

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal { return a.balance }

// IsActive reports whether the account can still be mutated. Closed accounts
// never become active again.
func (a *Account) IsActive() bool { return a.active }

// TransactionCount returns the number of records in the history.
func (a *Account) TransactionCount() int { return len(a.transactions) }

// Deposit increases the balance and appends a DEPOSIT record. It returns the
// new balance, or ErrInvalidAmount / ErrAccountClosed without touching the
// account.
func (a *Account) Deposit(amount decimal.Decimal, description string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	if !a.active {
		return decimal.Decimal{}, ErrAccountClosed
	}
	a.balance = a.balance.Add(amount)
	a.append(KindDeposit, amount, description)
	return a.balance, nil
}

// Withdraw decreases the balance and appends a WITHDRAWAL record. It returns
// the new balance, or ErrInvalidAmount / ErrAccountClosed /
// ErrInsufficientFunds without touching the account.
func (a *Account) Withdraw(amount decimal.Decimal, description string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	if !a.active {
		return decimal.Decimal{}, ErrAccountClosed
	}
	if amount.GreaterThan(a.balance) {
		return decimal.Decimal{}, ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	a.append(KindWithdrawal, amount, description)
	return a.balance, nil
}

// Close deactivates the account. Closing is terminal and idempotent: closing an
// already-closed account is a no-op. The history and balance are preserved.
func (a *Account) Close() {
	a.active = false
}

// History returns the most recent limit records in chronological order, or the
// full history when limit <= 0. The returned slice is a copy.
func (a *Account) History(limit int) []Transaction {
	txs := a.transactions
	if limit > 0 && limit < len(txs) {
		txs = txs[len(txs)-limit:]
	}
	out := make([]Transaction, len(txs))
	copy(out, txs)
	return out
}

// append records a completed mutation. The balance must already reflect the
// event; BalanceAfter is taken from it.
func (a *Account) append(kind Kind, amount decimal.Decimal, description string) {
	a.transactions = append(a.transactions, newTransaction(kind, amount, a.balance, description))
}

// snapshot returns a detached copy safe to hand out without the Ledger lock.
// The history is deliberately dropped; readers use Ledger.History instead.
func (a *Account) snapshot() Account {
	cp := *a
	cp.transactions = nil
	return cp
}
