package live

import "time"

// Event is the single wire shape fanned out to sync clients.
// Type is one of "favorite.update", "favorite.delete", "listen.add"
// or "new_mixes".
type Event struct {
	Type   string    `json:"type"`
	UserID string    `json:"user_id,omitempty"`
	MixURL string    `json:"mix_url,omitempty"`
	Status string    `json:"status,omitempty"`
	Count  int       `json:"count,omitempty"`
	At     time.Time `json:"at"`
}
