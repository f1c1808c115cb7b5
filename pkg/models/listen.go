package models

import "time"

type ListenEntry struct {
	UserID string    `json:"user_id"`
	MixURL string    `json:"mix_url"`
	At     time.Time `json:"at"`
}
