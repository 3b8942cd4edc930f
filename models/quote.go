package models

import "time"

// QuoteSession holds a booking flow between service selection and confirmation.
type QuoteSession struct {
	ID        string          `json:"id"`
	ServiceID string          `json:"serviceId"`
	Selection OptionSelection `json:"selection"`
	Details   BookingDetails  `json:"details"`
	Breakdown PriceBreakdown  `json:"breakdown"`
	Formatted string          `json:"formatted"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// QuoteRequest starts or updates a quote session.
type QuoteRequest struct {
	ServiceID string          `json:"serviceId"`
	Selection OptionSelection `json:"selection"`
	Details   BookingDetails  `json:"details"`
}

// ConfirmRequest turns a quote session into a chore.
type ConfirmRequest struct {
	QuoteID      string     `json:"quoteId" binding:"required"`
	Address      *Address   `json:"address,omitempty"`
	ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}
