package models

import "time"

// WorkerApplicationRequest is submitted by a customer applying to work.
type WorkerApplicationRequest struct {
	FullName   string   `json:"fullName" binding:"required"`
	Email      string   `json:"email" binding:"required,email"`
	Phone      string   `json:"phone" binding:"required"`
	City       string   `json:"city" binding:"required"`
	Services   []string `json:"services" binding:"required,min=1"`
	Experience string   `json:"experience,omitempty"`
}

// WorkerApplication is the backend's record of an application.
type WorkerApplication struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WorkerBooking is a chore assigned to, or offered to, a worker.
type WorkerBooking struct {
	ID           string         `json:"id"`
	ServiceName  string         `json:"serviceName"`
	Status       string         `json:"status"`
	Address      Address        `json:"address"`
	ScheduledFor *time.Time     `json:"scheduledFor,omitempty"`
	Details      BookingDetails `json:"details"`
	Total        float64        `json:"total"`
}

// WorkerBookingUpdate changes the state of a worker booking.
type WorkerBookingUpdate struct {
	Status string `json:"status" binding:"required,oneof=accepted declined in_progress completed"`
	Notes  string `json:"notes,omitempty"`
}

// WorkerDocument is an identity or certification document on file.
type WorkerDocument struct {
	ID         string    `json:"id,omitempty"`
	Kind       string    `json:"kind"`
	FileName   string    `json:"fileName"`
	URL        string    `json:"url"`
	PublicID   string    `json:"publicId,omitempty"`
	Status     string    `json:"status,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}
