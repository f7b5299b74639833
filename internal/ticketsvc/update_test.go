package ticketsvc

import (
	"testing"

	"github.com/banton/stompy-ticketing/internal/types"
)

func TestDiffFields_NoChangesWhenValuesMatch(t *testing.T) {
	current := types.Ticket{Title: "X", Priority: types.PriorityMedium}
	title := "X"
	priority := types.PriorityMedium

	changes := diffFields(current, UpdateFields{Title: &title, Priority: &priority})
	if len(changes) != 0 {
		t.Errorf("expected no changes, got %v", changes)
	}
}

func TestDiffFields_DetectsTitleChange(t *testing.T) {
	current := types.Ticket{Title: "old"}
	title := "new"

	changes := diffFields(current, UpdateFields{Title: &title})
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	if changes[0].column != "title" {
		t.Errorf("column = %q, want %q", changes[0].column, "title")
	}
	if changes[0].old == nil || *changes[0].old != "old" {
		t.Errorf("old = %v, want %q", changes[0].old, "old")
	}
	if changes[0].new == nil || *changes[0].new != "new" {
		t.Errorf("new = %v, want %q", changes[0].new, "new")
	}
}

func TestDiffFields_AssigneeNilToValueIsAChange(t *testing.T) {
	current := types.Ticket{Assignee: nil}
	assignee := "alice"

	changes := diffFields(current, UpdateFields{Assignee: &assignee})
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	if changes[0].column != "assignee" {
		t.Errorf("column = %q, want %q", changes[0].column, "assignee")
	}
	if changes[0].old != nil {
		t.Errorf("old = %v, want nil", changes[0].old)
	}
}

func TestDiffFields_TagsIgnoresOrder(t *testing.T) {
	current := types.Ticket{Tags: []string{"a", "b"}}

	changes := diffFields(current, UpdateFields{TagsSet: true, Tags: []string{"b", "a"}})
	if len(changes) != 0 {
		t.Errorf("expected no changes, got %v", changes)
	}
}

func TestDiffFields_TagsSetToEmptyIsAChange(t *testing.T) {
	current := types.Ticket{Tags: []string{"a"}}

	changes := diffFields(current, UpdateFields{TagsSet: true, Tags: nil})
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	if changes[0].column != "tags" {
		t.Errorf("column = %q, want %q", changes[0].column, "tags")
	}
}

func TestTagsEqual(t *testing.T) {
	if !tagsEqual(nil, nil) {
		t.Error("tagsEqual(nil, nil) = false, want true")
	}
	if !tagsEqual([]string{"a", "b"}, []string{"b", "a"}) {
		t.Error("tagsEqual should ignore order")
	}
	if tagsEqual([]string{"a"}, []string{"a", "a"}) {
		t.Error("tagsEqual should respect multiplicity")
	}
}
