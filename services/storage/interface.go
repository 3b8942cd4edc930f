package storage

import (
	"context"
	"io"
)

// Upload is a file received from the browser.
type Upload struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

// StoredFile identifies an uploaded file.
type StoredFile struct {
	PublicID string
	URL      string
}

// FileStore defines the operations document uploads need from a storage provider.
type FileStore interface {
	Upload(ctx context.Context, folder string, f Upload) (*StoredFile, error)
	Delete(ctx context.Context, publicID string) error
}
