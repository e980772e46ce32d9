package catalog

import "strings"

// ActionDefinition — описание допустимого действия шага.
type ActionDefinition struct {
	// Value — ключ действия, например "navigate".
	Value string `json:"value"`

	// Label — человекочитаемое название.
	Label string `json:"label"`

	// Platform — платформа: "both", "web" или "mobile".
	Platform string `json:"platform"`

	// Icon — иконка для UI.
	Icon string `json:"icon"`
}

// AssertionDefinition — описание допустимой проверки.
type AssertionDefinition struct {
	// Value — ключ проверки, например "textEquals".
	Value string `json:"value"`

	// Label — человекочитаемое название.
	Label string `json:"label"`

	// NeedsSelector — проверке обязателен селектор элемента.
	NeedsSelector bool `json:"needsSelector"`

	// NeedsValue — проверке обязательно ожидаемое значение.
	NeedsValue bool `json:"needsValue"`

	// NeedsAttribute — проверке обязательно имя атрибута.
	NeedsAttribute bool `json:"needsAttribute"`
}

// KeyOption — допустимая клавиша для действия pressKey.
type KeyOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Канонические определения действий.
var actionDefinitions = []ActionDefinition{
	{Value: "navigate", Label: "Navigate to URL", Platform: "both", Icon: "🌐"},
	{Value: "click", Label: "Click / Tap", Platform: "both", Icon: "👆"},
	{Value: "type", Label: "Type Text", Platform: "both", Icon: "⌨️"},
	{Value: "clear", Label: "Clear Input", Platform: "both", Icon: "🧹"},
	{Value: "select", Label: "Select Option", Platform: "both", Icon: "📋"},
	{Value: "scroll", Label: "Scroll", Platform: "both", Icon: "📜"},
	{Value: "swipe", Label: "Swipe", Platform: "mobile", Icon: "👉"},
	{Value: "wait", Label: "Wait (Duration)", Platform: "both", Icon: "⏱️"},
	{Value: "waitForElement", Label: "Wait for Element", Platform: "both", Icon: "⏳"},
	{Value: "pressKey", Label: "Press Key", Platform: "both", Icon: "⌨️"},
	{Value: "longPress", Label: "Long Press / Hold", Platform: "both", Icon: "👆⏱️"},
	{Value: "doubleClick", Label: "Double Click / Tap", Platform: "both", Icon: "👆👆"},
	{Value: "hover", Label: "Hover", Platform: "web", Icon: "🖱️"},
	{Value: "dragDrop", Label: "Drag and Drop", Platform: "both", Icon: "↔️"},
	{Value: "back", Label: "Go Back", Platform: "both", Icon: "◀️"},
	{Value: "refresh", Label: "Refresh Page", Platform: "web", Icon: "🔄"},
}

// Канонические определения проверок.
var assertionDefinitions = []AssertionDefinition{
	{Value: "elementDisplayed", Label: "Element is Visible", NeedsSelector: true},
	{Value: "elementNotDisplayed", Label: "Element is Hidden", NeedsSelector: true},
	{Value: "elementExists", Label: "Element Exists", NeedsSelector: true},
	{Value: "elementClickable", Label: "Element is Clickable", NeedsSelector: true},
	{Value: "elementInViewport", Label: "Element in Viewport", NeedsSelector: true},
	{Value: "textEquals", Label: "Text Equals", NeedsSelector: true, NeedsValue: true},
	{Value: "textContains", Label: "Text Contains", NeedsSelector: true, NeedsValue: true},
	{Value: "valueEquals", Label: "Value Equals", NeedsSelector: true, NeedsValue: true},
	{Value: "valueContains", Label: "Value Contains", NeedsSelector: true, NeedsValue: true},
	{Value: "urlEquals", Label: "URL Equals", NeedsValue: true},
	{Value: "urlContains", Label: "URL Contains", NeedsValue: true},
	{Value: "titleEquals", Label: "Title Equals", NeedsValue: true},
	{Value: "titleContains", Label: "Title Contains", NeedsValue: true},
	{Value: "hasClass", Label: "Has CSS Class", NeedsSelector: true, NeedsValue: true},
	{Value: "hasAttribute", Label: "Has Attribute", NeedsSelector: true, NeedsAttribute: true},
	{Value: "isEnabled", Label: "Is Enabled", NeedsSelector: true},
	{Value: "isDisabled", Label: "Is Disabled", NeedsSelector: true},
	{Value: "isSelected", Label: "Is Selected / Checked", NeedsSelector: true},
}

// Допустимые клавиши для действия pressKey.
var keyOptions = []KeyOption{
	{Value: "Enter", Label: "Enter"},
	{Value: "Tab", Label: "Tab"},
	{Value: "Escape", Label: "Escape"},
	{Value: "Backspace", Label: "Backspace"},
	{Value: "Delete", Label: "Delete"},
	{Value: "ArrowUp", Label: "Arrow Up"},
	{Value: "ArrowDown", Label: "Arrow Down"},
	{Value: "ArrowLeft", Label: "Arrow Left"},
	{Value: "ArrowRight", Label: "Arrow Right"},
	{Value: "Space", Label: "Space"},
}

// Actions возвращает копию списка определений действий.
func Actions() []ActionDefinition {
	out := make([]ActionDefinition, len(actionDefinitions))
	copy(out, actionDefinitions)
	return out
}

// Assertions возвращает копию списка определений проверок.
func Assertions() []AssertionDefinition {
	out := make([]AssertionDefinition, len(assertionDefinitions))
	copy(out, assertionDefinitions)
	return out
}

// Keys возвращает копию списка допустимых клавиш.
func Keys() []KeyOption {
	out := make([]KeyOption, len(keyOptions))
	copy(out, keyOptions)
	return out
}

// IsValidAction проверяет, что действие есть в каталоге.
// Сравнение без учёта регистра.
func IsValidAction(actionType string) bool {
	for i := range actionDefinitions {
		if strings.EqualFold(actionDefinitions[i].Value, actionType) {
			return true
		}
	}
	return false
}

// AssertionByValue возвращает определение проверки по ключу.
func AssertionByValue(assertionType string) (AssertionDefinition, bool) {
	for i := range assertionDefinitions {
		if assertionDefinitions[i].Value == assertionType {
			return assertionDefinitions[i], true
		}
	}
	return AssertionDefinition{}, false
}

// IsValidAssertion проверяет, что проверка есть в каталоге.
func IsValidAssertion(assertionType string) bool {
	_, ok := AssertionByValue(assertionType)
	return ok
}

// IsValidKey проверяет, что клавиша допустима для pressKey.
func IsValidKey(key string) bool {
	for i := range keyOptions {
		if keyOptions[i].Value == key {
			return true
		}
	}
	return false
}
