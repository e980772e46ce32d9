package catalog

import "testing"

func TestIsValidAction(t *testing.T) {
	tests := []struct {
		name       string
		actionType string
		want       bool
	}{
		{name: "known action", actionType: "navigate", want: true},
		{name: "case insensitive", actionType: "NAVIGATE", want: true},
		{name: "mixed case", actionType: "PressKey", want: true},
		{name: "unknown action", actionType: "teleport", want: false},
		{name: "empty", actionType: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidAction(tt.actionType); got != tt.want {
				t.Errorf("IsValidAction(%q) = %v, want %v", tt.actionType, got, tt.want)
			}
		})
	}
}

func TestAssertionByValue(t *testing.T) {
	def, ok := AssertionByValue("hasAttribute")
	if !ok {
		t.Fatal("hasAttribute should exist in catalog")
	}
	if !def.NeedsSelector {
		t.Error("hasAttribute should require a selector")
	}
	if def.NeedsValue {
		t.Error("hasAttribute should not require a value")
	}
	if !def.NeedsAttribute {
		t.Error("hasAttribute should require an attribute name")
	}

	// Поиск проверки чувствителен к регистру, в отличие от действий
	if _, ok := AssertionByValue("HasAttribute"); ok {
		t.Error("assertion lookup should be case sensitive")
	}
}

func TestIsAssertionAllowed(t *testing.T) {
	tests := []struct {
		name          string
		actionType    string
		assertionType string
		want          bool
	}{
		{name: "navigate allows urlEquals", actionType: "navigate", assertionType: "urlEquals", want: true},
		{name: "navigate forbids valueEquals", actionType: "navigate", assertionType: "valueEquals", want: false},
		{name: "type allows valueContains", actionType: "type", assertionType: "valueContains", want: true},
		{name: "unknown action allows nothing", actionType: "teleport", assertionType: "elementDisplayed", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAssertionAllowed(tt.actionType, tt.assertionType); got != tt.want {
				t.Errorf("IsAssertionAllowed(%q, %q) = %v, want %v",
					tt.actionType, tt.assertionType, got, tt.want)
			}
		})
	}
}

// Каждое действие каталога должно иметь строку в матрице и whitelist
// параметров, а каждая проверка из матрицы — существовать в каталоге.
func TestMatrixConsistency(t *testing.T) {
	for _, action := range Actions() {
		if _, ok := ParamKeys(action.Value); !ok {
			t.Errorf("action %s has no param whitelist", action.Value)
		}

		allowed := AllowedAssertions(action.Value)
		if len(allowed) == 0 {
			t.Errorf("action %s allows no assertions", action.Value)
		}
		for _, a := range allowed {
			if !IsValidAssertion(a) {
				t.Errorf("action %s allows unknown assertion %s", action.Value, a)
			}
		}
	}
}

func TestKeys(t *testing.T) {
	if !IsValidKey("Enter") {
		t.Error("Enter should be a valid key")
	}
	if IsValidKey("NotAKey") {
		t.Error("NotAKey should not be a valid key")
	}
	if IsValidKey("enter") {
		t.Error("key lookup should be case sensitive")
	}
	if len(Keys()) != 10 {
		t.Errorf("expected 10 key options, got %d", len(Keys()))
	}
}

func TestCopiesAreIsolated(t *testing.T) {
	actions := Actions()
	actions[0].Value = "mutated"
	if Actions()[0].Value == "mutated" {
		t.Error("Actions() should return a copy")
	}

	allowed := AllowedAssertions("navigate")
	allowed[0] = "mutated"
	if AllowedAssertions("navigate")[0] == "mutated" {
		t.Error("AllowedAssertions() should return a copy")
	}
}
