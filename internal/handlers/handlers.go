package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"lobby/internal/middleware"
	"lobby/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, code string) {
	respondJSON(w, status, map[string]string{"error": code})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{services.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{services.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{services.ErrInsufficientFunds, http.StatusBadRequest, "insufficient_funds"},
	{services.ErrNotDemo, http.StatusBadRequest, "not_demo"},
	{services.ErrAlreadyClaimed, http.StatusBadRequest, "already_claimed"},
	{services.ErrCooldownActive, http.StatusBadRequest, "cooldown_active"},
	{services.ErrUsernameTaken, http.StatusConflict, "username_taken"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{services.ErrDemoCreationFailed, http.StatusServiceUnavailable, "demo_creation_failed"},
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			respondError(w, e.status, e.code)
			return
		}
	}
	accountID, _ := middleware.AccountIDFromContext(r.Context())
	code := "internal_error"
	if errors.Is(err, services.ErrAccountNotFound) {
		code = "account_not_found"
	}
	h.log.Error().Err(err).
		Str("account_id", accountID).
		Str("path", r.URL.Path).
		Msg("request failed")
	respondError(w, http.StatusInternalServerError, code)
}

func requestMeta(r *http.Request) services.RequestMeta {
	return services.RequestMeta{IP: r.RemoteAddr, UserAgent: r.UserAgent()}
}

func currentAccount(r *http.Request) string {
	accountID, _ := middleware.AccountIDFromContext(r.Context())
	return accountID
}
