// Package storage archives generated export files on the local filesystem so
// the HTTP surface can list and re-download past exports.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// FileInfo contains metadata about a stored export.
type FileInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Path        string    `json:"path"` // internal storage path
	CreatedAt   time.Time `json:"created_at"`
}

// Storage is the archive interface for generated exports.
type Storage interface {
	// Save stores a generated file and returns its metadata.
	Save(ctx context.Context, filename string, contentType string, r io.Reader) (*FileInfo, error)

	// Open retrieves a stored file by its ID.
	Open(ctx context.Context, fileID uuid.UUID) (io.ReadCloser, *FileInfo, error)

	// Delete removes a stored file by its ID.
	Delete(ctx context.Context, fileID uuid.UUID) error

	// List returns all stored files.
	List(ctx context.Context) ([]*FileInfo, error)

	// GetInfo returns metadata without opening the file.
	GetInfo(ctx context.Context, fileID uuid.UUID) (*FileInfo, error)
}
