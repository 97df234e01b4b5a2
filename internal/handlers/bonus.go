package handlers

import (
	"net/http"
	"time"
)

func (h *Handler) CheckInStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.bonuses.CheckInStatus(r.Context(), currentAccount(r), h.now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

func (h *Handler) ClaimCheckIn(w http.ResponseWriter, r *http.Request) {
	result, err := h.bonuses.ClaimCheckIn(r.Context(), currentAccount(r), h.now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type wheelStatusResponse struct {
	CanSpin           bool       `json:"can_spin"`
	TimeUntilNextSpin int64      `json:"time_until_next_spin"`
	LastSpinAt        *time.Time `json:"last_spin_at"`
}

func (h *Handler) WheelStatus(w http.ResponseWriter, r *http.Request) {
	state, err := h.bonuses.WheelStatus(r.Context(), currentAccount(r), h.now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, wheelStatusResponse{
		CanSpin:           state.CanSpin,
		TimeUntilNextSpin: state.TimeUntilNextSpin.Milliseconds(),
		LastSpinAt:        state.LastSpinAt,
	})
}

func (h *Handler) WheelPrizes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]int64{"prizes": h.bonuses.WheelPrizes()})
}

func (h *Handler) SpinWheel(w http.ResponseWriter, r *http.Request) {
	result, err := h.bonuses.SpinWheel(r.Context(), currentAccount(r), h.now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
