package roster

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// NameHit is one roster entry returned by a name search, with its relevance
// score from the index.
type NameHit struct {
	Entry Entry   `json:"entry"`
	Score float64 `json:"score"`
}

// Search is a read-only lookup-assist surface over the roster: full-text name
// search backed by an in-memory Bleve index, and fuzzy identifier suggestions
// for near-miss input. It never participates in Index.Lookup; autocomplete
// matching stays exact.
type Search struct {
	mu          sync.RWMutex
	index       bleve.Index
	identifiers []string
}

// NewSearch creates an empty in-memory search surface.
func NewSearch() (*Search, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create roster search index: %w", err)
	}
	return &Search{index: index}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	nameMapping := bleve.NewTextFieldMapping()
	nameMapping.Analyzer = simple.Name

	idMapping := bleve.NewTextFieldMapping()
	idMapping.Analyzer = keyword.Name

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("identifier", idMapping)
	docMapping.AddFieldMappingsAt("name", nameMapping)
	docMapping.AddFieldMappingsAt("benefit", nameMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Rebuild replaces the search contents with the given roster. The previous
// index is closed and a fresh in-memory one is batch-loaded.
func (s *Search) Rebuild(entries []Entry) error {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("failed to rebuild roster search index: %w", err)
	}

	batch := index.NewBatch()
	identifiers := make([]string, 0, len(entries))
	for i, e := range entries {
		if e.Identifier != "" {
			identifiers = append(identifiers, e.Identifier)
		}
		doc := map[string]any{
			"identifier": e.Identifier,
			"name":       e.Name,
			"benefit":    e.Benefit,
		}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			_ = index.Close()
			return fmt.Errorf("failed to index roster entry %d: %w", i, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return fmt.Errorf("failed to load roster search batch: %w", err)
	}

	s.mu.Lock()
	old := s.index
	s.index = index
	s.identifiers = identifiers
	s.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

// ByName searches roster names and returns up to limit hits ranked by
// relevance.
func (s *Search) ByName(query string, limit int) ([]NameHit, error) {
	if limit <= 0 {
		limit = 10
	}

	q := bleve.NewMatchQuery(query)
	q.SetField("name")

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"identifier", "name", "benefit"}

	s.mu.RLock()
	index := s.index
	s.mu.RUnlock()

	res, err := index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("roster name search failed: %w", err)
	}

	hits := make([]NameHit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		hits = append(hits, NameHit{
			Entry: Entry{
				Identifier: fieldString(hit.Fields, "identifier"),
				Name:       fieldString(hit.Fields, "name"),
				Benefit:    fieldString(hit.Fields, "benefit"),
			},
			Score: hit.Score,
		})
	}
	return hits, nil
}

// SuggestIdentifiers ranks roster identifiers by fuzzy similarity to the
// typed input, for "did you mean" hints after a lookup miss.
func (s *Search) SuggestIdentifiers(input string, limit int) []string {
	if input == "" {
		return nil
	}
	if limit <= 0 {
		limit = 5
	}

	s.mu.RLock()
	identifiers := s.identifiers
	s.mu.RUnlock()

	ranks := fuzzy.RankFindFold(input, identifiers)
	sort.Sort(ranks)

	out := make([]string, 0, limit)
	for _, r := range ranks {
		out = append(out, r.Target)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Close releases the underlying index.
func (s *Search) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	return err
}

func fieldString(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}
