package handlers

import (
	"net/http"
	"strconv"
	"time"

	"lobby/internal/auth"
	"lobby/internal/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type accountResponse struct {
	Account models.Account `json:"account"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_input")
		return
	}
	account, err := h.accounts.Register(r.Context(), req.Username, req.Password, requestMeta(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.startSession(w, r, http.StatusCreated, account)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_input")
		return
	}
	account, err := h.accounts.Login(r.Context(), req.Username, req.Password, requestMeta(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.startSession(w, r, http.StatusOK, account)
}

func (h *Handler) CreateDemo(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.CreateDemo(r.Context(), requestMeta(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.startSession(w, r, http.StatusCreated, account)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.CurrentUser(r.Context(), currentAccount(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, accountResponse{Account: account})
}

func (h *Handler) Upgrade(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_input")
		return
	}
	account, err := h.accounts.UpgradeDemo(r.Context(), currentAccount(r), req.Username, req.Password, requestMeta(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.startSession(w, r, http.StatusOK, account)
}

func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_input")
			return
		}
		limit = value
	}
	logs, err := h.accounts.Activity(r.Context(), currentAccount(r), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"activity": logs})
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, status int, account models.Account) {
	token, err := auth.GenerateToken(h.cfg.SessionSecret, account.ID, h.cfg.SessionTTL)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	http.SetCookie(w, h.sessionCookie(token, int(h.cfg.SessionTTL/time.Second)))
	respondJSON(w, status, accountResponse{Account: account})
}

func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
