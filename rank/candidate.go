package rank

import (
	"errors"
	"sort"
	"sync"
)

// Error values for consistent error handling by callers.
var (
	ErrNotFound           = errors.New("candidate not found")
	ErrInvalidCandidateID = errors.New("invalid candidate id")
)

// Candidate is a reference string that can be ranked against a query.
type Candidate struct {
	// ID identifies the candidate in results. It breaks ranking ties.
	ID string

	// Text is the reference searched for the query.
	Text string
}

// FromStrings builds candidates whose ID is their text.
func FromStrings(texts []string) []Candidate {
	if len(texts) == 0 {
		return nil
	}
	out := make([]Candidate, len(texts))
	for i, text := range texts {
		out[i] = Candidate{ID: text, Text: text}
	}
	return out
}

// Store defines candidate storage operations.
type Store interface {
	// Add stores a candidate and returns its resolved ID.
	Add(c Candidate) (string, error)
	// Get returns a candidate by ID.
	Get(id string) (Candidate, error)
	// Remove deletes a candidate by ID.
	Remove(id string) error
	// List returns all candidates in stable ID order.
	List() ([]Candidate, error)
}

// InMemoryStore stores candidates in memory.
type InMemoryStore struct {
	mu         sync.RWMutex
	candidates map[string]Candidate
}

// NewInMemoryStore creates an empty candidate store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		candidates: make(map[string]Candidate),
	}
}

// Add stores c, replacing any candidate with the same ID. An empty ID is
// resolved to the candidate's text.
func (s *InMemoryStore) Add(c Candidate) (string, error) {
	if c.ID == "" {
		c.ID = c.Text
	}
	if c.ID == "" {
		return "", ErrInvalidCandidateID
	}

	s.mu.Lock()
	s.candidates[c.ID] = c
	s.mu.Unlock()

	return c.ID, nil
}

// Get returns a candidate by ID.
func (s *InMemoryStore) Get(id string) (Candidate, error) {
	if id == "" {
		return Candidate{}, ErrInvalidCandidateID
	}

	s.mu.RLock()
	c, ok := s.candidates[id]
	s.mu.RUnlock()

	if !ok {
		return Candidate{}, ErrNotFound
	}
	return c, nil
}

// Remove deletes a candidate by ID.
func (s *InMemoryStore) Remove(id string) error {
	if id == "" {
		return ErrInvalidCandidateID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.candidates[id]; !ok {
		return ErrNotFound
	}
	delete(s.candidates, id)
	return nil
}

// List returns all candidates sorted by ID.
func (s *InMemoryStore) List() ([]Candidate, error) {
	s.mu.RLock()
	result := make([]Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		result = append(result, c)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Len returns the number of stored candidates.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.candidates)
}
