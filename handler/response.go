package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-bank-ledger/ledger"
	"go-bank-ledger/model"

	"go.uber.org/zap"
)

// toModelAccount converts a ledger snapshot into its wire representation.
func toModelAccount(a ledger.Account) model.Account {
	return model.Account{
		AccountNumber: a.Number(),
		AccountHolder: a.Holder(),
		Balance:       a.Balance(),
		IsActive:      a.IsActive(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("error writing JSON response", zap.Error(err))
	}
}

// writeError maps domain errors onto HTTP statuses: validation failures are
// client errors, unresolved accounts are 404, business rejections that depend
// on current state get 409/422.
func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusForError(err))
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrAccountClosed):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrSameAccount),
		errors.Is(err, ledger.ErrEmptyHolder):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// persistState runs the snapshot hook after a successful mutation. A failed
// save is logged but never fails the request; the in-memory ledger is the
// source of truth.
func persistState(persist func() error, log *zap.Logger) {
	if persist == nil {
		return
	}
	if err := persist(); err != nil {
		log.Warn("failed to persist ledger snapshot", zap.Error(err))
	}
}
