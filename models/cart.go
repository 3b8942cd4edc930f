package models

import "time"

// CartItem is a priced service waiting for checkout.
type CartItem struct {
	ID          string          `json:"id"`
	ServiceID   string          `json:"serviceId"`
	ServiceName string          `json:"serviceName"`
	Selection   OptionSelection `json:"selection"`
	Details     BookingDetails  `json:"details"`
	Breakdown   PriceBreakdown  `json:"breakdown"`
	AddedAt     time.Time       `json:"addedAt"`
}

// Cart is keyed by the browser session cookie, not by user.
type Cart struct {
	SessionID string     `json:"sessionId"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	Currency  string     `json:"currency"`
	Formatted string     `json:"formatted"`
}
