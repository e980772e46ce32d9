package compose

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/shaiso/Caseflow/internal/domain"
)

type fakeSource struct {
	shared map[uuid.UUID]*domain.SharedStep
	calls  int
}

func (f *fakeSource) SharedStepWithDefinitions(_ context.Context, id uuid.UUID) (*domain.SharedStep, error) {
	f.calls++
	s, ok := f.shared[id]
	if !ok {
		return nil, errors.New("shared step not found")
	}
	return s, nil
}

func sharedWithDefs(id uuid.UUID, name string, actions ...string) *domain.SharedStep {
	s := &domain.SharedStep{ID: id, Name: name, Description: "description of " + name}
	for i, action := range actions {
		s.Definitions = append(s.Definitions, domain.SharedDefinitionStep{
			ID:           uuid.New(),
			SharedStepID: id,
			Order:        i + 1,
			ActionType:   action,
		})
	}
	return s
}

func TestCompose_MixedTree(t *testing.T) {
	sharedID := uuid.New()
	src := &fakeSource{shared: map[uuid.UUID]*domain.SharedStep{
		sharedID: sharedWithDefs(sharedID, "Login", "navigate", "type"),
	}}
	c := NewComposer(src)

	steps := []domain.Step{
		domain.RegularStep{ID: uuid.New(), Order: 1, ActionType: "navigate", ActionParams: map[string]any{"url": "https://example.com"}},
		domain.SharedReferenceStep{ID: uuid.New(), Order: 2, SharedStepID: sharedID},
	}

	nodes, err := c.Compose(context.Background(), steps)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("got %d top-level nodes, want 2", len(nodes))
	}

	if nodes[0].Type != domain.StepTypeRegular {
		t.Errorf("first node type = %q, want regular", nodes[0].Type)
	}
	if nodes[0].ActionType != "navigate" {
		t.Errorf("first node action_type = %q", nodes[0].ActionType)
	}
	if len(nodes[0].Steps) != 0 {
		t.Errorf("regular step should have no nested steps, got %d", len(nodes[0].Steps))
	}

	ref := nodes[1]
	if ref.Type != domain.StepTypeSharedReference {
		t.Fatalf("second node type = %q, want shared_reference", ref.Type)
	}
	if ref.SharedStepID == nil || *ref.SharedStepID != sharedID {
		t.Errorf("shared_step_id is not set")
	}
	if ref.SharedStepName != "Login" {
		t.Errorf("shared step name = %q", ref.SharedStepName)
	}
	if len(ref.Steps) != 2 {
		t.Fatalf("got %d nested steps, want 2", len(ref.Steps))
	}
	for i, nested := range ref.Steps {
		// Вложенные определения отдаются как обычные шаги.
		if nested.Type != domain.StepTypeRegular {
			t.Errorf("nested step %d type = %q, want regular", i, nested.Type)
		}
		if nested.Order != i+1 {
			t.Errorf("nested step %d order = %d", i, nested.Order)
		}
		if len(nested.Steps) != 0 {
			t.Errorf("nested step %d should have no children", i)
		}
	}
}

func TestCompose_SkipsDefinitionRows(t *testing.T) {
	c := NewComposer(&fakeSource{})

	steps := []domain.Step{
		domain.SharedDefinitionStep{ID: uuid.New(), Order: 1, ActionType: "click"},
		domain.RegularStep{ID: uuid.New(), Order: 2, ActionType: "refresh"},
	}

	nodes, err := c.Compose(context.Background(), steps)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1 (definition row skipped)", len(nodes))
	}
	if nodes[0].ActionType != "refresh" {
		t.Errorf("wrong node survived: %q", nodes[0].ActionType)
	}
}

func TestCompose_MemoizesSharedLookups(t *testing.T) {
	firstID := uuid.New()
	secondID := uuid.New()
	src := &fakeSource{shared: map[uuid.UUID]*domain.SharedStep{
		firstID:  sharedWithDefs(firstID, "Login", "navigate"),
		secondID: sharedWithDefs(secondID, "Logout", "click"),
	}}
	c := NewComposer(src)

	steps := []domain.Step{
		domain.SharedReferenceStep{ID: uuid.New(), Order: 1, SharedStepID: firstID},
		domain.SharedReferenceStep{ID: uuid.New(), Order: 2, SharedStepID: secondID},
		domain.SharedReferenceStep{ID: uuid.New(), Order: 3, SharedStepID: firstID},
		domain.SharedReferenceStep{ID: uuid.New(), Order: 4, SharedStepID: firstID},
	}

	nodes, err := c.Compose(context.Background(), steps)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(nodes) != 4 {
		t.Fatalf("got %d nodes, want 4", len(nodes))
	}
	if src.calls != 2 {
		t.Errorf("source called %d times, want 2 (one per distinct shared step)", src.calls)
	}
	if nodes[0].SharedStepName != nodes[2].SharedStepName || nodes[0].SharedStepName != nodes[3].SharedStepName {
		t.Errorf("repeated references expanded differently")
	}
}

func TestCompose_SourceErrorPropagates(t *testing.T) {
	c := NewComposer(&fakeSource{})

	steps := []domain.Step{
		domain.SharedReferenceStep{ID: uuid.New(), Order: 1, SharedStepID: uuid.New()},
	}

	if _, err := c.Compose(context.Background(), steps); err == nil {
		t.Fatal("expected source error")
	}
}

func TestCompose_EmptyList(t *testing.T) {
	c := NewComposer(&fakeSource{})
	nodes, err := c.Compose(context.Background(), nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(nodes) != 0 {
		t.Fatalf("expected empty node list, got %d", len(nodes))
	}
}
