package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"reelist/services/accounts"
)

// AccountsHandler serves account registration. Login and logout are handled
// by the auth middleware's own routes under /auth.
type AccountsHandler struct {
	accounts *accounts.Service
}

// NewAccountsHandler creates a new accounts handler.
func NewAccountsHandler(svc *accounts.Service) *AccountsHandler {
	return &AccountsHandler{accounts: svc}
}

// Register attaches the account routes to the router.
func (h *AccountsHandler) Register(r *mux.Router) {
	r.HandleFunc("/signup", h.Signup).Methods(http.MethodPost)
}

// Signup creates a new account.
// POST /api/signup
func (h *AccountsHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrEmailTaken):
			jsonError(w, "Email already registered", http.StatusConflict)
		case errors.Is(err, accounts.ErrInvalidEmail), errors.Is(err, accounts.ErrWeakPassword):
			jsonError(w, err.Error(), http.StatusBadRequest)
		default:
			slog.Error("signup failed", "err", err)
			jsonError(w, "Signup failed", http.StatusInternalServerError)
		}
		return
	}
	jsonResponse(w, user, http.StatusCreated)
}
