package stepcheck

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shaiso/Caseflow/internal/catalog"
	"github.com/shaiso/Caseflow/internal/domain"
)

func TestValidate_InvalidAction(t *testing.T) {
	_, _, err := Validate("1", "teleport", nil, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if !errors.Is(err, ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
	if vErr.Step != "1" {
		t.Errorf("expected step identifier 1, got %q", vErr.Step)
	}
}

func TestValidate_ParamWhitelist(t *testing.T) {
	tests := []struct {
		name       string
		actionType string
		params     map[string]any
		wantKeys   []string
	}{
		{
			name:       "navigate keeps only url",
			actionType: "navigate",
			params:     map[string]any{"url": "https://example.com", "selector": "#x", "junk": 1},
			wantKeys:   []string{"url"},
		},
		{
			name:       "type keeps selector and value",
			actionType: "type",
			params:     map[string]any{"selector": "#input", "value": "hi", "url": "nope"},
			wantKeys:   []string{"selector", "value"},
		},
		{
			name:       "back keeps nothing",
			actionType: "back",
			params:     map[string]any{"url": "x", "selector": "y"},
			wantKeys:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, _, err := Validate("", tt.actionType, tt.params, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(params) != len(tt.wantKeys) {
				t.Fatalf("expected %d params, got %d: %v", len(tt.wantKeys), len(params), params)
			}
			for _, k := range tt.wantKeys {
				if _, ok := params[k]; !ok {
					t.Errorf("expected param %q to survive cleanup", k)
				}
			}
		})
	}
}

// Для каждого действия каталога очистка не пропускает ключи вне whitelist.
func TestValidate_NeverLeaksUnknownParams(t *testing.T) {
	dirty := map[string]any{
		"url": "u", "selector": "s", "value": "v", "text": "t",
		"direction": "down", "timeout": 5, "key": "Enter",
		"targetSelector": "ts", "unknown": "x",
	}

	for _, action := range catalog.Actions() {
		params, _, err := Validate("", action.Value, dirty, nil)
		if err != nil {
			t.Fatalf("action %s: unexpected error: %v", action.Value, err)
		}

		allowed, ok := catalog.ParamKeys(action.Value)
		if !ok {
			t.Fatalf("action %s has no whitelist", action.Value)
		}
		allowedSet := make(map[string]bool, len(allowed))
		for _, k := range allowed {
			allowedSet[k] = true
		}

		for k := range params {
			if !allowedSet[k] {
				t.Errorf("action %s: param %q leaked through cleanup", action.Value, k)
			}
		}
	}
}

// Регистронезависимое совпадение с каталогом при отсутствии строки
// в whitelist даёт защитный fallback: параметры проходят как есть.
func TestValidate_UnknownCasePassthrough(t *testing.T) {
	params, _, err := Validate("", "NAVIGATE", map[string]any{"anything": "goes"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params["anything"] != "goes" {
		t.Errorf("expected passthrough params, got %v", params)
	}
}

func TestValidate_Assertions(t *testing.T) {
	tests := []struct {
		name       string
		actionType string
		assertions any
		wantErr    error
	}{
		{
			name:       "not an array",
			actionType: "click",
			assertions: map[string]any{"assertionType": "elementDisplayed"},
			wantErr:    ErrInvalidAssertionFormat,
		},
		{
			name:       "unknown assertion type",
			actionType: "click",
			assertions: []any{map[string]any{"assertionType": "elementGlows"}},
			wantErr:    ErrInvalidAssertion,
		},
		{
			name:       "missing assertion type is a format error",
			actionType: "click",
			assertions: []any{map[string]any{"selector": "#x"}},
			wantErr:    ErrInvalidAssertionFormat,
		},
		{
			name:       "non-string assertion type is a format error",
			actionType: "click",
			assertions: []any{map[string]any{"assertionType": 7, "selector": "#x"}},
			wantErr:    ErrInvalidAssertionFormat,
		},
		{
			name:       "assertion not allowed for action",
			actionType: "navigate",
			assertions: []any{map[string]any{"assertionType": "valueEquals", "selector": "#x", "expectedValue": "v"}},
			wantErr:    ErrAssertionNotAllowed,
		},
		{
			name:       "missing selector",
			actionType: "click",
			assertions: []any{map[string]any{"assertionType": "elementDisplayed"}},
			wantErr:    ErrMissingRequiredField,
		},
		{
			name:       "blank selector after trim",
			actionType: "click",
			assertions: []any{map[string]any{"assertionType": "elementDisplayed", "selector": "   "}},
			wantErr:    ErrMissingRequiredField,
		},
		{
			name:       "missing expected value",
			actionType: "click",
			assertions: []any{map[string]any{"assertionType": "textEquals", "selector": "#x"}},
			wantErr:    ErrMissingRequiredField,
		},
		{
			name:       "missing attribute name",
			actionType: "hover",
			assertions: []any{map[string]any{"assertionType": "hasAttribute", "selector": "#x"}},
			wantErr:    ErrMissingRequiredField,
		},
		{
			name:       "valid assertion",
			actionType: "click",
			assertions: []any{map[string]any{"assertionType": "elementDisplayed", "selector": "#btn"}},
			wantErr:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cleaned, err := Validate("", tt.actionType, nil, tt.assertions)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(cleaned) != 1 {
					t.Fatalf("expected 1 assertion, got %d", len(cleaned))
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_PressKey(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]any
		wantErr error
	}{
		{name: "valid key", params: map[string]any{"key": "Enter"}, wantErr: nil},
		{name: "invalid key", params: map[string]any{"key": "NotAKey"}, wantErr: ErrInvalidKeyOption},
		// Любая присутствующая строка — кандидат: проверяется как клавиша,
		// а не отсеивается как пустая.
		{name: "whitespace key is an invalid candidate", params: map[string]any{"key": "   "}, wantErr: ErrInvalidKeyOption},
		{name: "missing key", params: map[string]any{}, wantErr: ErrMissingRequiredField},
		{name: "non-string key", params: map[string]any{"key": 13}, wantErr: ErrMissingRequiredField},
		{name: "key stripped by whitelist", params: map[string]any{"selector": "#x"}, wantErr: ErrMissingRequiredField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, _, err := Validate("", "pressKey", tt.params, nil)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if params["key"] != "Enter" {
					t.Errorf("expected key to survive cleanup, got %v", params)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPrepare_Regular(t *testing.T) {
	draft, err := Prepare("2", Input{
		ActionType:   "navigate",
		ActionParams: map[string]any{"url": "https://example.com", "junk": true},
		Assertions: []any{
			map[string]any{"assertionType": "urlContains", "expectedValue": "example"},
		},
		CustomExpectedResult: "<p>Page opens</p>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if draft.Type != domain.StepTypeRegular {
		t.Errorf("expected regular draft, got %s", draft.Type)
	}
	if _, ok := draft.ActionParams["junk"]; ok {
		t.Error("junk param should be stripped")
	}
	if len(draft.Assertions) != 1 || draft.Assertions[0].Type != "urlContains" {
		t.Errorf("unexpected assertions: %v", draft.Assertions)
	}
	if draft.CustomExpectedResult != "<p>Page opens</p>" {
		t.Errorf("custom expected result lost: %q", draft.CustomExpectedResult)
	}
}

func TestPrepare_SharedReference(t *testing.T) {
	id := uuid.New()
	draft, err := Prepare("1", Input{
		Type:         domain.StepTypeSharedReference,
		SharedStepID: &id,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !draft.IsReference() {
		t.Error("expected reference draft")
	}
	if draft.SharedStepID == nil || *draft.SharedStepID != id {
		t.Error("shared step id lost")
	}

	// Ссылка без shared_step_id невалидна
	_, err = Prepare("1", Input{Type: domain.StepTypeSharedReference})
	if !errors.Is(err, ErrMissingRequiredField) {
		t.Errorf("expected ErrMissingRequiredField, got %v", err)
	}
}
