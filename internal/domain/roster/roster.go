// Package roster holds the externally supplied patient reference table
// (padrón) and resolves identifiers typed into the grid to display fields.
package roster

import (
	"strings"
	"sync"
)

// Entry is one reference record from the padrón file.
type Entry struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Benefit    string `json:"benefit"`
}

// Index provides exact-match identifier lookup over the loaded roster.
// Matching is exact on trimmed strings: identifiers are structured data, so
// the index is stricter than the free-text classifier.
//
// The table is replaced wholesale when a collaborator reloads the padrón;
// Replace and Lookup are safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	entries []Entry
	byID    map[string]Entry
}

// NewIndex returns an empty index. Lookups against it miss (empty fields).
func NewIndex() *Index {
	return &Index{byID: make(map[string]Entry)}
}

// Replace swaps in a new roster. Identifiers are trimmed before indexing.
// When the file carries duplicate identifiers the first occurrence wins;
// the number of shadowed duplicates is returned so the caller can warn.
func (ix *Index) Replace(entries []Entry) (duplicates int) {
	byID := make(map[string]Entry, len(entries))
	kept := make([]Entry, 0, len(entries))

	for _, e := range entries {
		e.Identifier = strings.TrimSpace(e.Identifier)
		kept = append(kept, e)
		if e.Identifier == "" {
			continue
		}
		if _, exists := byID[e.Identifier]; exists {
			duplicates++
			continue
		}
		byID[e.Identifier] = e
	}

	ix.mu.Lock()
	ix.entries = kept
	ix.byID = byID
	ix.mu.Unlock()
	return duplicates
}

// Lookup resolves an identifier to its display fields. A miss (empty
// roster, empty identifier, or no exact match) degrades to empty strings,
// never an error.
func (ix *Index) Lookup(identifier string) (name, benefit string) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", ""
	}

	ix.mu.RLock()
	e, ok := ix.byID[identifier]
	ix.mu.RUnlock()
	if !ok {
		return "", ""
	}
	return e.Name, e.Benefit
}

// Entries returns a copy of the loaded roster in file order.
func (ix *Index) Entries() []Entry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]Entry, len(ix.entries))
	copy(out, ix.entries)
	return out
}

// Len reports the number of loaded entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}
