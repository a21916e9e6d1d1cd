package roster

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// Service owns the roster lifecycle: loading padrón files, swapping the
// lookup index and keeping the search surface in sync.
type Service struct {
	index  *Index
	search *Search
	logger *slog.Logger
}

// NewService creates a roster service with an empty roster.
func NewService(logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	search, err := NewSearch()
	if err != nil {
		return nil, err
	}
	return &Service{
		index:  NewIndex(),
		search: search,
		logger: logger,
	}, nil
}

// LoadFile reads a padrón file from disk and replaces the roster wholesale.
func (s *Service) LoadFile(path string) (*LoadResult, error) {
	result, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	s.install(result, filepath.Base(path))
	return result, nil
}

// Load reads a padrón from a stream (e.g. an uploaded file); the filename is
// only used to pick the CSV or XLSX parser.
func (s *Service) Load(r io.Reader, filename string) (*LoadResult, error) {
	var (
		result *LoadResult
		err    error
	)
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		result, err = LoadCSV(r)
	} else {
		result, err = LoadExcel(r)
	}
	if err != nil {
		return nil, err
	}
	s.install(result, filename)
	return result, nil
}

func (s *Service) install(result *LoadResult, source string) {
	duplicates := s.index.Replace(result.Entries)
	if duplicates > 0 {
		// First occurrence wins; shadowed rows stay invisible to Lookup.
		s.logger.Warn("roster has duplicate identifiers",
			slog.String("source", source),
			slog.Int("duplicates", duplicates),
		)
	}

	if err := s.search.Rebuild(result.Entries); err != nil {
		s.logger.Error("failed to rebuild roster search index", slog.Any("error", err))
	}

	s.logger.Info("roster loaded",
		slog.String("source", source),
		slog.Int("entries", result.ParsedRows),
		slog.Int("skipped", result.SkippedRows),
	)
}

// Lookup resolves an identifier through the exact-match index.
func (s *Service) Lookup(identifier string) (name, benefit string) {
	return s.index.Lookup(identifier)
}

// Entries returns the loaded roster in file order.
func (s *Service) Entries() []Entry { return s.index.Entries() }

// Len reports the number of loaded entries.
func (s *Service) Len() int { return s.index.Len() }

// SearchByName searches roster names through the Bleve index.
func (s *Service) SearchByName(query string, limit int) ([]NameHit, error) {
	return s.search.ByName(query, limit)
}

// SuggestIdentifiers returns fuzzy identifier suggestions for near-miss input.
func (s *Service) SuggestIdentifiers(input string, limit int) []string {
	return s.search.SuggestIdentifiers(input, limit)
}

// Close releases the search index.
func (s *Service) Close() error {
	if err := s.search.Close(); err != nil {
		return fmt.Errorf("failed to close roster search: %w", err)
	}
	return nil
}
