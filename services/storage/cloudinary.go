package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CloudinaryStore implements FileStore using Cloudinary.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	logger *zap.Logger
}

// NewCloudinaryStore creates a CloudinaryStore from account credentials.
func NewCloudinaryStore(cloudName, apiKey, apiSecret string, logger *zap.Logger) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	logger.Info("Cloudinary store initialized", zap.String("cloudName", cloudName))
	return &CloudinaryStore{cld: cld, logger: logger}, nil
}

// Upload stores the file under folder with a unique public id.
func (s *CloudinaryStore) Upload(ctx context.Context, folder string, f Upload) (*StoredFile, error) {
	params := uploader.UploadParams{
		Folder:       folder,
		PublicID:     uniqueName(f.FileName),
		ResourceType: "auto",
	}
	result, err := s.cld.Upload.Upload(ctx, f.Body, params)
	if err != nil {
		return nil, fmt.Errorf("CloudinaryStore: failed to upload file: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("CloudinaryStore: upload rejected: %s", result.Error.Message)
	}
	if result.PublicID == "" {
		return nil, fmt.Errorf("CloudinaryStore: no public ID returned")
	}
	return &StoredFile{PublicID: result.PublicID, URL: result.SecureURL}, nil
}

// Delete removes a file given its public ID.
func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("CloudinaryStore: failed to delete file: %w", err)
	}
	return nil
}

// uniqueName keeps a readable stem from the original file name.
func uniqueName(fileName string) string {
	stem := strings.TrimSuffix(path.Base(fileName), path.Ext(fileName))
	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, stem)
	if stem == "" || stem == "." || stem == "-" {
		stem = "document"
	}
	return stem + "-" + uuid.New().String()[:8]
}
