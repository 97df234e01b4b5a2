package handlers

import (
	"net/http"

	"lobby/internal/money"
	"lobby/internal/slots"
)

type spinRequest struct {
	Bet       money.Chips `json:"bet"`
	MachineID string      `json:"machine_id"`
}

func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	var req spinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	result, err := h.games.Spin(r.Context(), currentAccount(r), req.Bet.Int64(), req.MachineID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) Paytable(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"paytable": slots.Paytable(),
		"max_bet":  h.cfg.SlotsMaxBet,
	})
}
