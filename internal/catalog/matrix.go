package catalog

// Матрица совместимости: какие проверки допустимы для какого действия.
// Неизвестное действие даёт пустой список — ни одна проверка не пройдёт.
var allowedAssertions = map[string][]string{
	"navigate": {
		"urlContains", "urlEquals", "titleContains", "titleEquals",
		"elementDisplayed", "elementExists",
	},
	"click": {
		"elementDisplayed", "elementNotDisplayed", "elementExists",
		"textContains", "textEquals", "urlContains", "hasClass",
		"isEnabled", "isDisabled",
	},
	"type": {
		"valueEquals", "valueContains", "elementDisplayed", "hasClass",
		"isEnabled", "textContains",
	},
	"clear":  {"valueEquals", "elementDisplayed"},
	"select": {"valueEquals", "isSelected", "textEquals", "elementDisplayed"},
	"scroll": {"elementDisplayed", "elementInViewport", "elementExists"},
	"swipe": {
		"elementDisplayed", "elementNotDisplayed", "elementExists",
		"hasAttribute",
	},
	"wait": {
		"elementDisplayed", "elementExists", "elementClickable",
		"hasAttribute",
	},
	"waitForElement": {
		"elementDisplayed", "elementExists", "elementClickable",
		"hasAttribute",
	},
	"pressKey": {
		"elementDisplayed", "valueContains", "textContains", "urlContains",
	},
	"longPress":   {"elementDisplayed", "textContains", "hasClass", "elementExists"},
	"doubleClick": {"elementDisplayed", "textContains", "hasClass", "elementExists"},
	"hover":       {"elementDisplayed", "hasClass", "hasAttribute", "textContains"},
	"dragDrop":    {"elementDisplayed", "hasClass", "elementExists"},
	"back":        {"urlContains", "elementDisplayed", "titleContains"},
	"refresh":     {"elementDisplayed", "elementExists"},
}

// Whitelist параметров: какие ключи action_params переживают очистку
// для каждого действия. Действие без строки в таблице — неизвестное;
// для него параметры пропускаются без изменений (защитный fallback,
// срабатывать не должен, поскольку каталог проверяется раньше).
var actionParamKeys = map[string][]string{
	"navigate":       {"url"},
	"click":          {"selector", "text"},
	"doubleClick":    {"selector", "text"},
	"longPress":      {"selector", "text"},
	"type":           {"selector", "value"},
	"clear":          {"selector"},
	"hover":          {"selector"},
	"select":         {"selector", "value"},
	"scroll":         {"direction", "selector"},
	"swipe":          {"direction", "selector"},
	"wait":           {"timeout"},
	"waitForElement": {"selector", "timeout"},
	"pressKey":       {"key"},
	"dragDrop":       {"selector", "targetSelector"},
	"back":           {},
	"refresh":        {},
}

// AllowedAssertions возвращает список проверок, допустимых для действия.
// Для неизвестного действия — пустой список.
func AllowedAssertions(actionType string) []string {
	allowed := allowedAssertions[actionType]
	out := make([]string, len(allowed))
	copy(out, allowed)
	return out
}

// IsAssertionAllowed проверяет, допустима ли проверка для действия.
func IsAssertionAllowed(actionType, assertionType string) bool {
	for _, allowed := range allowedAssertions[actionType] {
		if allowed == assertionType {
			return true
		}
	}
	return false
}

// ParamKeys возвращает whitelist ключей параметров действия.
// Вторым значением возвращает false для действия без строки в таблице.
func ParamKeys(actionType string) ([]string, bool) {
	keys, ok := actionParamKeys[actionType]
	if !ok {
		return nil, false
	}
	out := make([]string, len(keys))
	copy(out, keys)
	return out, true
}
