package catalog

import (
	"fmt"
	"sync"

	apperrors "github.com/agbru/squash/internal/errors"
)

// Selector holds the single chosen format of a catalog. Choosing a format
// replaces the previous choice.
type Selector struct {
	mu       sync.RWMutex
	catalog  *Catalog
	selected int
}

// NewSelector starts on initial, or on the auto sentinel when initial is
// not in the catalog.
func NewSelector(c *Catalog, initial string) *Selector {
	s := &Selector{catalog: c}
	if i := c.IndexOf(initial); i >= 0 {
		s.selected = i
	}
	return s
}

// Select chooses id. Identifiers outside the catalog are rejected with a
// ValidationError and leave the selection unchanged.
func (s *Selector) Select(id string) error {
	i := s.catalog.IndexOf(id)
	if i < 0 {
		return apperrors.ValidationError{Field: "format", Message: fmt.Sprintf("unknown format %q", id)}
	}
	s.mu.Lock()
	s.selected = i
	s.mu.Unlock()
	return nil
}

// Move shifts the selection by delta with wrap-around and returns the new
// choice.
func (s *Selector) Move(delta int) FormatDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.catalog.Len()
	s.selected = ((s.selected+delta)%n + n) % n
	return s.catalog.At(s.selected)
}

// Selected returns the chosen descriptor.
func (s *Selector) Selected() FormatDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.At(s.selected)
}

// Index returns the position of the chosen descriptor.
func (s *Selector) Index() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Catalog returns the catalog the selector chooses from.
func (s *Selector) Catalog() *Catalog { return s.catalog }
