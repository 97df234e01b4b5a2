package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

type BalanceUpdate struct {
	AccountID     string `json:"account_id"`
	Balance       int64  `json:"balance"`
	Reason        string `json:"reason"`
	TransactionID string `json:"transaction_id,omitempty"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	log     zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		log:     log,
	}
}

func (h *Hub) Register(accountID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[accountID] == nil {
		h.clients[accountID] = make(map[*Client]struct{})
	}
	h.clients[accountID][client] = struct{}{}
}

func (h *Hub) Unregister(accountID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[accountID]
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, accountID)
	}
}

// Publish never blocks: a client whose queue is full misses the update.
func (h *Hub) Publish(update BalanceUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		h.log.Error().Err(err).Str("account_id", update.AccountID).Msg("encode balance update")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[update.AccountID] {
		select {
		case client.send <- payload:
		default:
			h.log.Warn().Str("account_id", update.AccountID).Msg("balance update dropped for slow client")
		}
	}
}

func (h *Hub) Subscribers(accountID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[accountID])
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for accountID, set := range h.clients {
		for client := range set {
			close(client.send)
		}
		delete(h.clients, accountID)
	}
}
