package handler

import "github.com/gorilla/mux"

// NewRouter registers every endpoint of the HTTP binding. Each route maps 1:1
// to a ledger operation.
func NewRouter(accounts *AccountHandler, transfers *TransferHandler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/accounts", accounts.CreateAccountHandler).Methods("POST")
	r.HandleFunc("/accounts", accounts.ListAccountsHandler).Methods("GET")
	r.HandleFunc("/accounts/{account_number}", accounts.GetAccountHandler).Methods("GET")
	r.HandleFunc("/accounts/{account_number}/deposit", accounts.DepositHandler).Methods("POST")
	r.HandleFunc("/accounts/{account_number}/withdraw", accounts.WithdrawHandler).Methods("POST")
	r.HandleFunc("/accounts/{account_number}/close", accounts.CloseAccountHandler).Methods("POST")
	r.HandleFunc("/accounts/{account_number}/transactions", accounts.HistoryHandler).Methods("GET")

	r.HandleFunc("/transfer", transfers.TransferHandler).Methods("POST")
	r.HandleFunc("/summary", transfers.SummaryHandler).Methods("GET")
	r.HandleFunc("/health", transfers.HealthHandler).Methods("GET")

	return r
}
