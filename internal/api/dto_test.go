package api

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/shaiso/Caseflow/internal/domain"
	"github.com/shaiso/Caseflow/internal/stepcheck"
)

func TestPrepareCaseDrafts(t *testing.T) {
	sharedID := uuid.New()

	steps := []StepRequest{
		{ActionType: "navigate", ActionParams: map[string]any{"url": "https://example.com", "junk": true}},
		{Type: "shared_reference", SharedStepID: &sharedID},
	}

	drafts, err := prepareCaseDrafts(steps)
	if err != nil {
		t.Fatalf("prepareCaseDrafts: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2", len(drafts))
	}

	if drafts[0].Type != domain.StepTypeRegular {
		t.Errorf("first draft type = %q", drafts[0].Type)
	}
	if _, leaked := drafts[0].ActionParams["junk"]; leaked {
		t.Error("non-whitelisted parameter leaked into the draft")
	}

	if !drafts[1].IsReference() {
		t.Error("second draft should be a reference")
	}
	if drafts[1].SharedStepID == nil || *drafts[1].SharedStepID != sharedID {
		t.Error("reference lost its shared_step_id")
	}
}

func TestPrepareCaseDrafts_RejectsDefinition(t *testing.T) {
	_, err := prepareCaseDrafts([]StepRequest{
		{Type: "shared_definition", ActionType: "click"},
	})

	var vErr *stepcheck.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Field != "step_type" {
		t.Errorf("error field = %q, want step_type", vErr.Field)
	}
}

func TestPrepareCaseDrafts_InvalidStepReportsPosition(t *testing.T) {
	_, err := prepareCaseDrafts([]StepRequest{
		{ActionType: "navigate"},
		{ActionType: "teleport"},
	})

	if !errors.Is(err, stepcheck.ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	var vErr *stepcheck.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatal("expected ValidationError")
	}
	if vErr.Step != "2" {
		t.Errorf("step identifier = %q, want \"2\"", vErr.Step)
	}
}

func TestPrepareDefinitionDrafts(t *testing.T) {
	drafts, err := prepareDefinitionDrafts([]StepRequest{
		{ActionType: "click", ActionParams: map[string]any{"selector": "#ok"}},
	})
	if err != nil {
		t.Fatalf("prepareDefinitionDrafts: %v", err)
	}
	if drafts[0].Type != domain.StepTypeSharedDefinition {
		t.Errorf("definition draft type = %q", drafts[0].Type)
	}
}

func TestPrepareDefinitionDrafts_RejectsReference(t *testing.T) {
	sharedID := uuid.New()
	_, err := prepareDefinitionDrafts([]StepRequest{
		{Type: "shared_reference", SharedStepID: &sharedID},
	})

	var vErr *stepcheck.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// Непереданные поля запроса на обновление shared step должны оставаться
// nil: nil-поле сохраняет прежнее значение, а nil-список шагов не должен
// приводить к замене определений.
func TestUpdateSharedStepRequest_OmittedFieldsDecodeAsNil(t *testing.T) {
	var req UpdateSharedStepRequest
	if err := json.Unmarshal([]byte(`{"name":"Login"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if req.Name == nil || *req.Name != "Login" {
		t.Errorf("name = %v, want Login", req.Name)
	}
	if req.Description != nil {
		t.Errorf("omitted description decoded as %q, want nil", *req.Description)
	}
	if req.Steps != nil {
		t.Errorf("omitted steps decoded as %d entries, want nil", len(*req.Steps))
	}
}

func TestUpdateSharedStepRequest_ExplicitEmptyStepsStayPresent(t *testing.T) {
	var req UpdateSharedStepRequest
	if err := json.Unmarshal([]byte(`{"steps":[]}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Явный пустой список — просьба стереть определения, а не "не трогать".
	if req.Steps == nil {
		t.Fatal("explicit empty steps list decoded as nil")
	}
	if len(*req.Steps) != 0 {
		t.Errorf("got %d steps, want 0", len(*req.Steps))
	}
	if req.Name != nil {
		t.Errorf("omitted name decoded as %q, want nil", *req.Name)
	}
}
