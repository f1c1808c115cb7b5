package models

import "time"

type FavoriteItem struct {
	UserID    string    `json:"user_id"`
	MixURL    string    `json:"mix_url"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}
