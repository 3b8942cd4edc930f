package backend

import (
	"context"
	"net/http"
	"net/url"

	"choreify/models"
)

func (c *Client) GetProfile(ctx context.Context, token string) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, token, http.MethodGet, "/profile/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, req models.ProfileUpdateRequest) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, token, http.MethodPut, "/profile", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateChore submits a booking.
func (c *Client) CreateChore(ctx context.Context, token string, chore models.Chore) (*models.ChoreReceipt, error) {
	var r models.ChoreReceipt
	if err := c.do(ctx, token, http.MethodPost, "/chores", chore, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) ApplyAsWorker(ctx context.Context, token string, req models.WorkerApplicationRequest) (*models.WorkerApplication, error) {
	var app models.WorkerApplication
	if err := c.do(ctx, token, http.MethodPost, "/worker/apply", req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// GetWorkerApplications lists the applications filed under email, newest first.
func (c *Client) GetWorkerApplications(ctx context.Context, token, email string) ([]models.WorkerApplication, error) {
	var apps []models.WorkerApplication
	path := "/worker-applications?email=" + url.QueryEscape(email)
	if err := c.do(ctx, token, http.MethodGet, path, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *Client) ListWorkerBookings(ctx context.Context, token string) ([]models.WorkerBooking, error) {
	var bookings []models.WorkerBooking
	if err := c.do(ctx, token, http.MethodGet, "/worker/bookings", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) UpdateWorkerBooking(ctx context.Context, token, id string, update models.WorkerBookingUpdate) (*models.WorkerBooking, error) {
	var b models.WorkerBooking
	if err := c.do(ctx, token, http.MethodPatch, "/worker/bookings/"+pathEscape(id), update, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) ListWorkerDocuments(ctx context.Context, token string) ([]models.WorkerDocument, error) {
	var docs []models.WorkerDocument
	if err := c.do(ctx, token, http.MethodGet, "/worker/documents", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// CreateWorkerDocument records an already uploaded document.
func (c *Client) CreateWorkerDocument(ctx context.Context, token string, doc models.WorkerDocument) (*models.WorkerDocument, error) {
	var out models.WorkerDocument
	if err := c.do(ctx, token, http.MethodPost, "/worker/documents", doc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
