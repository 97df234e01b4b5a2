package handlers

import (
	"context"
	"net/http"
	"strconv"

	"lobby/internal/models"
	"lobby/internal/money"
	"lobby/internal/services"
)

type amountRequest struct {
	Amount money.Chips `json:"amount"`
}

type postingResponse struct {
	Account     models.Account     `json:"account"`
	Transaction models.Transaction `json:"transaction"`
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.ledger.Deposit)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.ledger.Withdraw)
}

func (h *Handler) move(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, accountID string, amount int64) (services.Posting, error)) {
	var req amountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	posting, err := op(r.Context(), currentAccount(r), req.Amount.Int64())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, postingResponse{Account: posting.Account, Transaction: posting.Transaction})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := intParam(query.Get("page"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_input")
		return
	}
	limit, err := intParam(query.Get("limit"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_input")
		return
	}
	history, err := h.ledger.History(r.Context(), currentAccount(r), models.Kind(query.Get("kind")), page, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ledger.Stats(r.Context(), currentAccount(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) SelfCheck(w http.ResponseWriter, r *http.Request) {
	check, err := h.ledger.SelfCheck(r.Context(), currentAccount(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, check)
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
