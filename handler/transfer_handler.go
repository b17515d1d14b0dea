package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go-bank-ledger/ledger"
	"go-bank-ledger/model"

	"go.uber.org/zap"
)

// TransferHandler holds dependencies for transfer and bank-level handlers.
type TransferHandler struct {
	ledger  *ledger.Ledger
	persist func() error
	log     *zap.Logger
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(l *ledger.Ledger, persist func() error, log *zap.Logger) *TransferHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TransferHandler{ledger: l, persist: persist, log: log}
}

// TransferHandler moves money between two accounts. Both legs are applied
// atomically by the ledger; a failed transfer leaves both accounts untouched.
//
// Method: POST
// Path: /transfer
// Success: 200 OK with both updated accounts
// Error: 400 Bad Request (invalid JSON, non-positive amount, same account)
// Error: 404 Not Found (either account unresolved)
// Error: 409 Conflict (either account closed)
// Error: 422 Unprocessable Entity (insufficient funds)
func (h *TransferHandler) TransferHandler(w http.ResponseWriter, r *http.Request) {
	var req model.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.ledger.Transfer(req.FromAccount, req.ToAccount, req.Amount); err != nil {
		writeError(w, err)
		return
	}

	h.log.Info("transfer completed",
		zap.String("from_account", req.FromAccount),
		zap.String("to_account", req.ToAccount),
		zap.String("amount", req.Amount.String()))
	persistState(h.persist, h.log)

	from, _ := h.ledger.Account(req.FromAccount)
	to, _ := h.ledger.Account(req.ToAccount)
	writeJSON(w, http.StatusOK, model.TransferResponse{
		Message: fmt.Sprintf("Successfully transferred %s from account %s to %s",
			req.Amount.String(), req.FromAccount, req.ToAccount),
		FromAccount: toModelAccount(from),
		ToAccount:   toModelAccount(to),
	})
}

// SummaryHandler returns bank-wide statistics.
//
// Method: GET
// Path: /summary
// Success: 200 OK
func (h *TransferHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ledger.Summary())
}

// HealthHandler is a liveness probe.
//
// Method: GET
// Path: /health
// Success: 200 OK
func (h *TransferHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
