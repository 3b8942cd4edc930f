package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"

	gcs "cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// FirebaseStore implements FileStore using a Firebase Storage bucket.
type FirebaseStore struct {
	client     *gcs.Client
	bucketName string
	logger     *zap.Logger
}

// NewFirebaseStore creates a FirebaseStore. An empty credentials path uses
// application default credentials.
func NewFirebaseStore(ctx context.Context, credentialsFile, bucketName string, logger *zap.Logger) (*FirebaseStore, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("firebase storage: bucket name is required")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &FirebaseStore{client: client, bucketName: bucketName, logger: logger}, nil
}

func (s *FirebaseStore) Upload(ctx context.Context, folder string, f Upload) (*StoredFile, error) {
	objectPath := path.Join(folder, uniqueName(f.FileName)+path.Ext(f.FileName))
	w := s.client.Bucket(s.bucketName).Object(objectPath).NewWriter(ctx)

	w.ObjectAttrs.ContentType = f.ContentType
	if w.ObjectAttrs.ContentType == "" {
		w.ObjectAttrs.ContentType = mime.TypeByExtension(path.Ext(f.FileName))
	}

	if _, err := io.Copy(w, f.Body); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to copy file to storage: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	return &StoredFile{
		PublicID: objectPath,
		URL:      fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media", s.bucketName, url.QueryEscape(objectPath)),
	}, nil
}

func (s *FirebaseStore) Delete(ctx context.Context, publicID string) error {
	if err := s.client.Bucket(s.bucketName).Object(publicID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Close releases the storage client.
func (s *FirebaseStore) Close() error {
	return s.client.Close()
}
