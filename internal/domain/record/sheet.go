package record

import (
	"errors"
	"sync"
)

// DefaultRows is the size of the editing pool the registry starts with.
const DefaultRows = 30

var (
	// ErrRowOutOfRange is returned for a position outside the fixed pool.
	ErrRowOutOfRange = errors.New("row position out of range")
	// ErrUnknownField is returned when an edit names a field that does not
	// exist or is derived (bmi, category).
	ErrUnknownField = errors.New("unknown or derived field")
)

// Sheet is the fixed-size pool of editable rows. Rows have no identity
// beyond their position: they are created blank, mutated cell by cell and
// only ever removed by a bulk Clear that recreates the whole pool.
type Sheet struct {
	mu     sync.RWMutex
	rows   []Row
	engine *Engine
}

// NewSheet creates a sheet of size blank rows wired to the trigger engine.
// A non-positive size falls back to DefaultRows.
func NewSheet(engine *Engine, size int) *Sheet {
	if size <= 0 {
		size = DefaultRows
	}
	s := &Sheet{engine: engine, rows: make([]Row, size)}
	for i := range s.rows {
		s.rows[i] = emptyRow()
	}
	return s
}

// Commit applies an edited cell value to the row at pos and fires the
// field's trigger rules, returning the updated row.
func (s *Sheet) Commit(pos int, field Field, value string) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos < 0 || pos >= len(s.rows) {
		return Row{}, ErrRowOutOfRange
	}
	if !s.engine.Commit(&s.rows[pos], field, value) {
		return Row{}, ErrUnknownField
	}
	return s.rows[pos], nil
}

// Row returns a copy of the row at pos.
func (s *Sheet) Row(pos int) (Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if pos < 0 || pos >= len(s.rows) {
		return Row{}, ErrRowOutOfRange
	}
	return s.rows[pos], nil
}

// Rows returns a copy of the full pool in grid order, blank rows included.
func (s *Sheet) Rows() []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Committed returns only the rows with a non-empty identifier, the set that
// participates in aggregation and export.
func (s *Sheet) Committed() []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Row, 0, len(s.rows))
	for _, r := range s.rows {
		if r.Committed() {
			out = append(out, r)
		}
	}
	return out
}

// Clear recreates the full pool of blank rows at the same size.
func (s *Sheet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		s.rows[i] = emptyRow()
	}
}

// Size reports the fixed row count.
func (s *Sheet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}
