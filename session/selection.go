// Package session holds the client-side state for one console session: the
// current task, its transcript segments and output files, the two selection
// sets over them, and the workflow step machine that gates progression.
// Nothing in this package is persisted; the whole session is rebuilt from
// the server on the next run.
package session

// Identifiable is anything that can live in a Selection, keyed by identity.
type Identifiable interface {
	Identity() string
}

// Selection is an ordered-insertion set of identifiable items. Adds are
// idempotent: selecting the same identity twice keeps a single entry, in
// its original position. All operations are total; there are no error
// conditions.
type Selection[T Identifiable] struct {
	order []string
	items map[string]T
}

// NewSelection creates an empty selection.
func NewSelection[T Identifiable]() *Selection[T] {
	return &Selection[T]{items: make(map[string]T)}
}

// Select adds item to the set. Returns false if the identity was already
// present (the existing entry wins).
func (s *Selection[T]) Select(item T) bool {
	id := item.Identity()
	if _, ok := s.items[id]; ok {
		return false
	}
	s.items[id] = item
	s.order = append(s.order, id)
	return true
}

// Unselect removes the item with the given identity. No-op if absent.
func (s *Selection[T]) Unselect(id string) {
	if _, ok := s.items[id]; !ok {
		return
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Toggle flips membership for item and reports whether it is now selected.
func (s *Selection[T]) Toggle(item T) bool {
	id := item.Identity()
	if _, ok := s.items[id]; ok {
		s.Unselect(id)
		return false
	}
	s.Select(item)
	return true
}

// SelectAll adds every candidate not already present, in order.
func (s *Selection[T]) SelectAll(candidates []T) {
	for _, c := range candidates {
		s.Select(c)
	}
}

// Clear empties the set.
func (s *Selection[T]) Clear() {
	s.order = s.order[:0]
	clear(s.items)
}

// IsSelected reports membership by identity.
func (s *Selection[T]) IsSelected(id string) bool {
	_, ok := s.items[id]
	return ok
}

// Len returns the number of selected items.
func (s *Selection[T]) Len() int { return len(s.order) }

// IDs returns the selected identities in insertion order.
func (s *Selection[T]) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Items returns the selected items in insertion order.
func (s *Selection[T]) Items() []T {
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// Prune removes every entry whose identity is not accepted by keep and
// returns the number removed. Called after the backing list is replaced so
// the set never references items that no longer exist.
func (s *Selection[T]) Prune(keep func(id string) bool) int {
	removed := 0
	kept := s.order[:0]
	for _, id := range s.order {
		if keep(id) {
			kept = append(kept, id)
			continue
		}
		delete(s.items, id)
		removed++
	}
	s.order = kept
	return removed
}
