package news

import (
	"sync"

	"news-pulse/internal/types"
)

// Store holds the fetched articles for one query in fetch order. Articles are
// immutable once added; fetch order is the stable tie-break for all downstream
// pairwise comparisons.
type Store struct {
	mu       sync.RWMutex
	articles []types.Article
	ids      map[string]struct{}
}

// NewStore creates an empty article store
func NewStore() *Store {
	return &Store{
		ids: make(map[string]struct{}),
	}
}

// Add appends an article. Two articles may never share an id.
func (s *Store) Add(a types.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ids[a.ID]; exists {
		return &types.DuplicateArticleError{ID: a.ID}
	}
	s.ids[a.ID] = struct{}{}
	s.articles = append(s.articles, a)
	return nil
}

// All returns the articles in fetch order
func (s *Store) All() []types.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

// Len returns the number of stored articles
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.articles)
}
