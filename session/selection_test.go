package session

import (
	"testing"

	"clipdeck/api"
)

func seg(id string) api.Segment {
	return api.Segment{ID: id, Start: 0, End: 1, Text: id}
}

func TestSelectionIdempotentAdd(t *testing.T) {
	s := NewSelection[api.Segment]()

	if !s.Select(seg("a")) {
		t.Error("first select should report added")
	}
	if s.Select(seg("a")) {
		t.Error("second select of same id should report not added")
	}
	if s.Select(seg("a")) {
		t.Error("third select of same id should report not added")
	}

	if s.Len() != 1 {
		t.Errorf("expected 1 entry after repeated selects, got %d", s.Len())
	}
	if got := s.IDs(); len(got) != 1 || got[0] != "a" {
		t.Errorf("expected [a], got %v", got)
	}
}

func TestSelectionMixedSequence(t *testing.T) {
	// Any sequence of select/unselect keeps each id at most once.
	s := NewSelection[api.Segment]()
	s.Select(seg("a"))
	s.Select(seg("b"))
	s.Select(seg("a"))
	s.Unselect("a")
	s.Select(seg("c"))
	s.Select(seg("b"))
	s.Select(seg("a"))

	ids := s.IDs()
	seen := map[string]int{}
	for _, id := range ids {
		seen[id]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("id %q appears %d times", id, n)
		}
	}
	// Re-adding "a" after removal puts it at the end.
	if ids[len(ids)-1] != "a" {
		t.Errorf("expected a at end after re-add, got %v", ids)
	}
}

func TestSelectionUnselectAbsent(t *testing.T) {
	s := NewSelection[api.Segment]()
	s.Select(seg("a"))
	s.Unselect("missing")

	if s.Len() != 1 || !s.IsSelected("a") {
		t.Error("unselect of absent id should be a no-op")
	}
}

func TestSelectionSelectAllThenClear(t *testing.T) {
	s := NewSelection[api.Segment]()
	s.Select(seg("b"))

	s.SelectAll([]api.Segment{seg("a"), seg("b"), seg("c")})
	if s.Len() != 3 {
		t.Errorf("expected 3 after selectAll, got %d", s.Len())
	}
	// b keeps its original position.
	if ids := s.IDs(); ids[0] != "b" {
		t.Errorf("expected b first, got %v", ids)
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("expected empty set after clear, got %d", s.Len())
	}
	if s.IsSelected("a") || s.IsSelected("b") {
		t.Error("expected no membership after clear")
	}
}

func TestSelectionToggle(t *testing.T) {
	s := NewSelection[api.Segment]()

	if !s.Toggle(seg("a")) {
		t.Error("first toggle should select")
	}
	if s.Toggle(seg("a")) {
		t.Error("second toggle should unselect")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty set, got %d", s.Len())
	}
}

func TestSelectionPrune(t *testing.T) {
	s := NewSelection[api.Segment]()
	s.SelectAll([]api.Segment{seg("a"), seg("b"), seg("c"), seg("d")})

	keep := map[string]bool{"b": true, "d": true}
	removed := s.Prune(func(id string) bool { return keep[id] })

	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if got := s.IDs(); len(got) != 2 || got[0] != "b" || got[1] != "d" {
		t.Errorf("expected [b d], got %v", got)
	}
	if s.IsSelected("a") || s.IsSelected("c") {
		t.Error("pruned ids should not be selected")
	}
}

func TestSelectionItemsOrder(t *testing.T) {
	s := NewSelection[api.OutputFile]()
	s.Select(api.OutputFile{ID: "f2", Name: "two"})
	s.Select(api.OutputFile{ID: "f1", Name: "one"})

	items := s.Items()
	if len(items) != 2 || items[0].Name != "two" || items[1].Name != "one" {
		t.Errorf("expected insertion order preserved, got %v", items)
	}
}
