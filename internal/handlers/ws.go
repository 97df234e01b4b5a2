package handlers

import "net/http"

func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	h.ws.Serve(w, r, currentAccount(r))
}
