package models

import "time"

// Address is where a chore is performed.
type Address struct {
	Street   string `json:"street" bson:"street"`
	City     string `json:"city" bson:"city"`
	Province string `json:"province" bson:"province"`
	Postal   string `json:"postal" bson:"postal"`
}

// Complete reports whether every address line is filled in.
func (a Address) Complete() bool {
	return a.Street != "" && a.City != "" && a.Province != "" && a.Postal != ""
}

// Chore is a booking submitted to the backend.
type Chore struct {
	ServiceID    string         `json:"serviceId"`
	ServiceName  string         `json:"serviceName"`
	Option       string         `json:"option,omitempty"`
	Details      BookingDetails `json:"details"`
	Address      Address        `json:"address"`
	ScheduledFor *time.Time     `json:"scheduledFor,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	Price        PriceBreakdown `json:"price"`
}

// ChoreReceipt is the backend's acknowledgement of a submitted chore.
type ChoreReceipt struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
