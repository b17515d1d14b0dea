// Package model defines the request and response bodies of the HTTP binding.
package model

import "github.com/shopspring/decimal"

// All monetary fields use github.com/shopspring/decimal rather than float64.
// Binary floating point cannot represent most decimal amounts exactly (0.1 has
// no finite binary expansion), and the rounding errors accumulate into wrong
// balances. The decimal package keeps every amount exact.

// Account is the wire representation of an account, without its history.
type Account struct {
	AccountNumber string          `json:"account_number"`
	AccountHolder string          `json:"account_holder"`
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"is_active"`
}

// CreateAccountRequest is the expected JSON body for opening an account. A
// missing initial_balance means zero.
type CreateAccountRequest struct {
	AccountHolder  string          `json:"account_holder"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// AmountRequest is the expected JSON body for deposits and withdrawals.
type AmountRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// TransferRequest is the expected JSON body for a transfer between accounts.
type TransferRequest struct {
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
}

// TransferResponse reports both accounts after a successful transfer.
type TransferResponse struct {
	Message     string  `json:"message"`
	FromAccount Account `json:"from_account"`
	ToAccount   Account `json:"to_account"`
}
