package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go-bank-ledger/ledger"
	"go-bank-ledger/model"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AccountHandler holds dependencies for account-related handlers. The persist
// hook is invoked after every successful mutation; a nil hook disables
// persistence.
type AccountHandler struct {
	ledger  *ledger.Ledger
	persist func() error
	log     *zap.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(l *ledger.Ledger, persist func() error, log *zap.Logger) *AccountHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountHandler{ledger: l, persist: persist, log: log}
}

// CreateAccountHandler opens a new account.
//
// Method: POST
// Path: /accounts
// Success: 201 Created with the account body
// Error: 400 Bad Request (invalid JSON, blank holder, negative initial balance)
func (h *AccountHandler) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acc, err := h.ledger.CreateAccount(req.AccountHolder, req.InitialBalance)
	if err != nil {
		writeError(w, err)
		return
	}

	h.log.Info("account created",
		zap.String("account_number", acc.Number()),
		zap.String("balance", acc.Balance().String()))
	persistState(h.persist, h.log)
	writeJSON(w, http.StatusCreated, toModelAccount(acc))
}

// ListAccountsHandler returns all accounts in creation order.
//
// Method: GET
// Path: /accounts
// Success: 200 OK
func (h *AccountHandler) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	accounts := h.ledger.ListAccounts()
	out := make([]model.Account, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, toModelAccount(acc))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetAccountHandler retrieves a single account.
//
// Method: GET
// Path: /accounts/{account_number}
// Success: 200 OK
// Error: 404 Not Found
func (h *AccountHandler) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	acc, err := h.ledger.Account(mux.Vars(r)["account_number"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toModelAccount(acc))
}

// DepositHandler deposits money into an account.
//
// Method: POST
// Path: /accounts/{account_number}/deposit
// Success: 200 OK with the updated account
// Error: 400 Bad Request (invalid JSON or non-positive amount)
// Error: 404 Not Found
// Error: 409 Conflict (account closed)
func (h *AccountHandler) DepositHandler(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, h.ledger.Deposit)
}

// WithdrawHandler withdraws money from an account.
//
// Method: POST
// Path: /accounts/{account_number}/withdraw
// Success: 200 OK with the updated account
// Error: 400 Bad Request (invalid JSON or non-positive amount)
// Error: 404 Not Found
// Error: 409 Conflict (account closed)
// Error: 422 Unprocessable Entity (insufficient funds)
func (h *AccountHandler) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, h.ledger.Withdraw)
}

// applyAmount decodes an AmountRequest and runs the given ledger mutation
// (deposit or withdraw) against the account named in the path.
func (h *AccountHandler) applyAmount(w http.ResponseWriter, r *http.Request,
	op func(string, decimal.Decimal, string) (ledger.Account, error)) {
	var req model.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	number := mux.Vars(r)["account_number"]
	acc, err := op(number, req.Amount, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	persistState(h.persist, h.log)
	writeJSON(w, http.StatusOK, toModelAccount(acc))
}

// CloseAccountHandler closes an account. The ledger treats closing twice as a
// no-op, but the API reports a conflict so clients notice the stale request.
//
// Method: POST
// Path: /accounts/{account_number}/close
// Success: 200 OK with the closed account
// Error: 404 Not Found
// Error: 409 Conflict (already closed)
func (h *AccountHandler) CloseAccountHandler(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["account_number"]

	acc, err := h.ledger.Account(number)
	if err != nil {
		writeError(w, err)
		return
	}
	if !acc.IsActive() {
		writeError(w, ledger.ErrAccountClosed)
		return
	}

	acc, err = h.ledger.CloseAccount(number)
	if err != nil {
		writeError(w, err)
		return
	}

	h.log.Info("account closed", zap.String("account_number", number))
	persistState(h.persist, h.log)
	writeJSON(w, http.StatusOK, toModelAccount(acc))
}

// HistoryHandler returns an account's transaction history in chronological
// order, optionally capped to the most recent ?limit=N records.
//
// Method: GET
// Path: /accounts/{account_number}/transactions
// Success: 200 OK
// Error: 400 Bad Request (malformed limit)
// Error: 404 Not Found
func (h *AccountHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = n
	}

	txs, err := h.ledger.History(mux.Vars(r)["account_number"], limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}
