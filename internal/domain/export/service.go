package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clinsalud/registro-clinico/internal/domain/record"
	"github.com/clinsalud/registro-clinico/pkg/storage"
)

// Format selects an export writer.
type Format string

const (
	FormatExcel Format = "xlsx"
	FormatCSV   Format = "csv"
)

var contentTypes = map[Format]string{
	FormatExcel: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatCSV:   "text/csv",
}

// ErrUnsupportedFormat is returned for formats without a writer.
var ErrUnsupportedFormat = fmt.Errorf("unsupported export format")

// Service generates export files from committed rows and archives them.
type Service struct {
	store  storage.Storage
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates an export service backed by the given archive.
func NewService(store storage.Storage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Export renders the rows in the requested format and saves the file.
func (s *Service) Export(ctx context.Context, format Format, rows []record.Row) (*storage.FileInfo, error) {
	var buf bytes.Buffer

	switch format {
	case FormatExcel:
		if err := WriteExcel(&buf, rows); err != nil {
			return nil, err
		}
	case FormatCSV:
		if err := WriteCSV(&buf, rows); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	filename := fmt.Sprintf("registro_%s.%s", s.now().Format("20060102_150405"), format)
	info, err := s.store.Save(ctx, filename, contentTypes[format], &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to archive export: %w", err)
	}

	s.logger.Info("export generated",
		slog.String("file_id", info.ID.String()),
		slog.String("filename", info.Name),
		slog.String("format", string(format)),
		slog.Int("rows", len(rows)),
		slog.Int64("bytes", info.Size),
	)
	return info, nil
}

// List returns the archived exports.
func (s *Service) List(ctx context.Context) ([]*storage.FileInfo, error) {
	return s.store.List(ctx)
}

// Open retrieves an archived export for download.
func (s *Service) Open(ctx context.Context, fileID uuid.UUID) (io.ReadCloser, *storage.FileInfo, error) {
	return s.store.Open(ctx, fileID)
}
