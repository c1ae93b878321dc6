package catalog

import "github.com/qyinm/savorytui/types"

// Store holds the full item collection and the derived collection the
// current view shows, together with the paginator over the latter.
type Store struct {
	all     []types.MenuItem
	derived []types.MenuItem
	pager   *Paginator
}

// NewStore creates an empty store paging by pageSize.
func NewStore(pageSize int) *Store {
	return &Store{pager: NewPaginator(pageSize)}
}

// SetAll replaces the full collection. The derived collection is left alone.
func (s *Store) SetAll(items []types.MenuItem) {
	s.all = clone(items)
}

// All returns a copy of the full collection.
func (s *Store) All() []types.MenuItem {
	return clone(s.all)
}

// Derived returns a copy of the derived collection.
func (s *Store) Derived() []types.MenuItem {
	return clone(s.derived)
}

// SetDerived replaces the derived collection and resets paging to page 1.
func (s *Store) SetDerived(items []types.MenuItem) {
	s.derived = clone(items)
	s.pager.reset(s.derived)
}

// Paginator returns the paginator over the derived collection.
func (s *Store) Paginator() *Paginator {
	return s.pager
}

func clone[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
