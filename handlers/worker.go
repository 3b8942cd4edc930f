package handlers

import (
	"context"
	"fmt"
	"net/http"

	"choreify/middleware"
	"choreify/models"
	"choreify/services/storage"
	"choreify/utils"

	"github.com/gin-gonic/gin"
)

const maxDocumentSize = 10 << 20

// WorkerBackend is the worker portal's view of the REST backend.
type WorkerBackend interface {
	ApplyAsWorker(ctx context.Context, token string, req models.WorkerApplicationRequest) (*models.WorkerApplication, error)
	GetWorkerApplications(ctx context.Context, token, email string) ([]models.WorkerApplication, error)
	ListWorkerBookings(ctx context.Context, token string) ([]models.WorkerBooking, error)
	UpdateWorkerBooking(ctx context.Context, token, id string, update models.WorkerBookingUpdate) (*models.WorkerBooking, error)
	ListWorkerDocuments(ctx context.Context, token string) ([]models.WorkerDocument, error)
}

type WorkerHandler struct {
	Backend   WorkerBackend
	Documents *storage.DocumentService
}

func NewWorkerHandler(backend WorkerBackend, documents *storage.DocumentService) *WorkerHandler {
	return &WorkerHandler{Backend: backend, Documents: documents}
}

// ApplicationStatus handles GET /api/worker/application-status.
func (h *WorkerHandler) ApplicationStatus(c *gin.Context) {
	s := middleware.CurrentSession(c)
	apps, err := h.Backend.GetWorkerApplications(c.Request.Context(), s.AccessToken, s.User.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	var latest *models.WorkerApplication
	for i := range apps {
		if latest == nil || apps[i].CreatedAt.After(latest.CreatedAt) {
			latest = &apps[i]
		}
	}
	c.JSON(http.StatusOK, gin.H{"application": latest, "applications": apps})
}

// Apply handles POST /api/worker/apply.
func (h *WorkerHandler) Apply(c *gin.Context) {
	var req models.WorkerApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	app, err := h.Backend.ApplyAsWorker(c.Request.Context(), middleware.CurrentSession(c).AccessToken, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// ListBookings handles GET /api/worker/bookings.
func (h *WorkerHandler) ListBookings(c *gin.Context) {
	bookings, err := h.Backend.ListWorkerBookings(c.Request.Context(), middleware.CurrentSession(c).AccessToken)
	if err != nil {
		respondError(c, err)
		return
	}
	if bookings == nil {
		bookings = []models.WorkerBooking{}
	}
	c.JSON(http.StatusOK, bookings)
}

// UpdateBooking handles PATCH /api/worker/bookings/:id.
func (h *WorkerHandler) UpdateBooking(c *gin.Context) {
	var update models.WorkerBookingUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Backend.UpdateWorkerBooking(c.Request.Context(), middleware.CurrentSession(c).AccessToken, c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListDocuments handles GET /api/worker/documents.
func (h *WorkerHandler) ListDocuments(c *gin.Context) {
	docs, err := h.Backend.ListWorkerDocuments(c.Request.Context(), middleware.CurrentSession(c).AccessToken)
	if err != nil {
		respondError(c, err)
		return
	}
	if docs == nil {
		docs = []models.WorkerDocument{}
	}
	c.JSON(http.StatusOK, docs)
}

// UploadDocument handles POST /api/worker/documents as multipart form data
// with fields "kind" and "file".
func (h *WorkerHandler) UploadDocument(c *gin.Context) {
	kind := c.PostForm("kind")
	if !storage.DocumentKinds[kind] {
		utils.JSONError(c, http.StatusBadRequest, "Invalid document kind", fmt.Sprintf("unsupported kind %q", kind))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "File not provided", err.Error())
		return
	}
	if fileHeader.Size > maxDocumentSize {
		utils.JSONError(c, http.StatusRequestEntityTooLarge, "File is too large", "documents are limited to 10 MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Failed to read file", err.Error())
		return
	}
	defer file.Close()

	doc, err := h.Documents.Upload(c.Request.Context(), middleware.CurrentSession(c), kind, storage.Upload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}
