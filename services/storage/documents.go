package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"choreify/models"

	"go.uber.org/zap"
)

// DocumentKinds are the worker documents the portal accepts.
var DocumentKinds = map[string]bool{
	"government_id":      true,
	"proof_of_address":   true,
	"background_check":   true,
	"insurance":          true,
	"certification":      true,
	"work_authorization": true,
}

// DocumentBackend records uploaded documents with the REST backend.
type DocumentBackend interface {
	CreateWorkerDocument(ctx context.Context, token string, doc models.WorkerDocument) (*models.WorkerDocument, error)
}

// DocumentService uploads worker documents and registers them with the backend.
type DocumentService struct {
	store   FileStore
	backend DocumentBackend
	folder  string
	logger  *zap.Logger
}

func NewDocumentService(store FileStore, backend DocumentBackend, folder string, logger *zap.Logger) *DocumentService {
	return &DocumentService{store: store, backend: backend, folder: folder, logger: logger}
}

// Upload stores f and records it for the session's user. If the backend
// rejects the record the uploaded file is removed again.
func (s *DocumentService) Upload(ctx context.Context, session *models.Session, kind string, f Upload) (*models.WorkerDocument, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if !DocumentKinds[kind] {
		return nil, fmt.Errorf("unsupported document kind %q", kind)
	}

	folder := path.Join(s.folder, session.User.ID, kind)
	stored, err := s.store.Upload(ctx, folder, f)
	if err != nil {
		return nil, err
	}

	doc, err := s.backend.CreateWorkerDocument(ctx, session.AccessToken, models.WorkerDocument{
		Kind:       kind,
		FileName:   path.Base(f.FileName),
		URL:        stored.URL,
		PublicID:   stored.PublicID,
		Status:     "pending",
		UploadedAt: time.Now().UTC(),
	})
	if err != nil {
		if derr := s.store.Delete(ctx, stored.PublicID); derr != nil {
			s.logger.Error("Failed to remove orphaned upload", zap.String("publicID", stored.PublicID), zap.Error(derr))
		}
		return nil, err
	}

	s.logger.Info("Worker document uploaded",
		zap.String("userID", session.User.ID),
		zap.String("kind", kind),
		zap.String("publicID", stored.PublicID))
	return doc, nil
}
