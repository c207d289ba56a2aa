package model

import "time"

// SavedItem is a listing a user pinned to their watchlist, with the
// valuation snapshot taken at save time.
type SavedItem struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	ExternalID     string      `json:"external_id"`
	Marketplace    Marketplace `json:"marketplace"`
	DeclaredTitle  string      `json:"title_vague"`
	RealTitle      string      `json:"title_real,omitempty"`
	ListedPrice    float64     `json:"price_listed,omitempty"`
	EstimatedPrice float64     `json:"price_estimated,omitempty"`
	ImageURL       string      `json:"image_url,omitempty"`
	MarketURL      string      `json:"market_url,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}
