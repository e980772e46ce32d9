package stepcheck

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shaiso/Caseflow/internal/catalog"
	"github.com/shaiso/Caseflow/internal/domain"
)

// Input — сырые данные шага от клиента.
//
// ActionParams и Assertions приходят как распакованный JSON:
// проверка "assertions должны быть списком" — часть валидации,
// а не десериализации.
type Input struct {
	// Type — вариант шага. Пустое значение трактуется как regular.
	Type domain.StepType

	// ActionType — заявленный тип действия.
	ActionType string

	// ActionParams — параметры действия до очистки.
	ActionParams map[string]any

	// Assertions — проверки как распакованный JSON (ожидается список).
	Assertions any

	// CustomExpectedResult — произвольный ожидаемый результат.
	CustomExpectedResult string

	// SharedStepID — ссылка на shared step (только для shared_reference).
	SharedStepID *uuid.UUID
}

// Validate проверяет один шаг против каталога и возвращает очищенные
// параметры и нормализованные проверки.
//
// step — идентификатор шага для сообщений об ошибках (обычно 1-based
// позиция в списке), может быть пустым.
//
// Порядок проверок:
//  1. тип действия существует в каталоге (без учёта регистра)
//  2. параметры проецируются на whitelist действия; для действия без
//     строки в whitelist-таблице параметры проходят без изменений
//  3. каждая проверка: существует в каталоге, допустима для действия,
//     обязательные поля заполнены (после trim)
//  4. pressKey: параметр key должен присутствовать строкой и быть
//     одной из допустимых клавиш; любая присутствующая строка
//     проверяется как кандидат
func Validate(step, actionType string, params map[string]any, assertions any) (map[string]any, []domain.Assertion, error) {
	if !catalog.IsValidAction(actionType) {
		return nil, nil, NewValidationError(step, "action_type",
			fmt.Sprintf("invalid action type: %s", actionType), ErrInvalidAction)
	}

	cleanParams := cleanActionParams(actionType, params)

	cleanAssertions, err := validateAssertions(step, actionType, assertions)
	if err != nil {
		return nil, nil, err
	}

	// Дополнительная валидация отдельных действий
	if actionType == "pressKey" {
		key, ok := cleanParams["key"].(string)
		if !ok {
			return nil, nil, NewValidationError(step, "key",
				"pressKey action requires a 'key' parameter", ErrMissingRequiredField)
		}
		if !catalog.IsValidKey(key) {
			return nil, nil, NewValidationError(step, "key",
				fmt.Sprintf("invalid key %q for pressKey action", key), ErrInvalidKeyOption)
		}
	}

	return cleanParams, cleanAssertions, nil
}

// Prepare валидирует входные данные шага и строит черновик для записи.
//
// Для shared_reference данные действия не проверяются (их нет),
// но обязательна ссылка на shared step. Позицию шага черновик не несёт.
func Prepare(step string, in Input) (domain.StepDraft, error) {
	stepType := in.Type
	if stepType == "" {
		stepType = domain.StepTypeRegular
	}

	if stepType == domain.StepTypeSharedReference {
		if in.SharedStepID == nil || *in.SharedStepID == uuid.Nil {
			return domain.StepDraft{}, NewValidationError(step, "shared_step_id",
				"shared step reference requires a shared_step_id", ErrMissingRequiredField)
		}
		return domain.StepDraft{
			Type:         domain.StepTypeSharedReference,
			SharedStepID: in.SharedStepID,
		}, nil
	}

	params, assertions, err := Validate(step, in.ActionType, in.ActionParams, in.Assertions)
	if err != nil {
		return domain.StepDraft{}, err
	}

	return domain.StepDraft{
		Type:                 stepType,
		ActionType:           in.ActionType,
		ActionParams:         params,
		Assertions:           assertions,
		CustomExpectedResult: in.CustomExpectedResult,
	}, nil
}

// cleanActionParams проецирует параметры на whitelist действия.
// Для действия без строки в таблице параметры копируются как есть
// (защитный fallback: такое действие уже прошло проверку каталога
// только за счёт регистронезависимого сравнения).
func cleanActionParams(actionType string, params map[string]any) map[string]any {
	cleaned := make(map[string]any)

	keys, ok := catalog.ParamKeys(actionType)
	if !ok {
		for k, v := range params {
			cleaned[k] = v
		}
		return cleaned
	}

	for _, key := range keys {
		if v, exists := params[key]; exists {
			cleaned[key] = v
		}
	}
	return cleaned
}

// validateAssertions разбирает и проверяет список проверок шага.
func validateAssertions(step, actionType string, assertions any) ([]domain.Assertion, error) {
	if assertions == nil {
		return []domain.Assertion{}, nil
	}

	items, ok := assertions.([]any)
	if !ok {
		return nil, NewValidationError(step, "assertions",
			"assertions must be an array", ErrInvalidAssertionFormat)
	}

	cleaned := make([]domain.Assertion, 0, len(items))
	for _, item := range items {
		assertion, err := parseAssertion(step, item)
		if err != nil {
			return nil, err
		}

		if !catalog.IsValidAssertion(assertion.Type) {
			return nil, NewValidationError(step, "assertions",
				fmt.Sprintf("invalid assertion type: %s", assertion.Type), ErrInvalidAssertion)
		}

		if !catalog.IsAssertionAllowed(actionType, assertion.Type) {
			return nil, NewValidationError(step, "assertions",
				fmt.Sprintf("assertion %q is not allowed for action %q", assertion.Type, actionType),
				ErrAssertionNotAllowed)
		}

		def, _ := catalog.AssertionByValue(assertion.Type)

		if def.NeedsSelector && strings.TrimSpace(assertion.Selector) == "" {
			return nil, NewValidationError(step, "selector",
				fmt.Sprintf("assertion %q requires a selector", assertion.Type),
				ErrMissingRequiredField)
		}
		if def.NeedsValue && strings.TrimSpace(assertion.ExpectedValue) == "" {
			return nil, NewValidationError(step, "expectedValue",
				fmt.Sprintf("assertion %q requires an expectedValue", assertion.Type),
				ErrMissingRequiredField)
		}
		if def.NeedsAttribute && strings.TrimSpace(assertion.AttributeName) == "" {
			return nil, NewValidationError(step, "attributeName",
				fmt.Sprintf("assertion %q requires an attributeName", assertion.Type),
				ErrMissingRequiredField)
		}

		cleaned = append(cleaned, assertion)
	}

	return cleaned, nil
}

// parseAssertion разбирает один элемент списка проверок.
// Объект без строкового assertionType — ошибка формата, а не
// "неизвестный тип проверки".
func parseAssertion(step string, item any) (domain.Assertion, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return domain.Assertion{}, NewValidationError(step, "assertions",
			"invalid assertion format", ErrInvalidAssertionFormat)
	}
	assertionType, ok := obj["assertionType"].(string)
	if !ok {
		return domain.Assertion{}, NewValidationError(step, "assertions",
			"invalid assertion format", ErrInvalidAssertionFormat)
	}

	return domain.Assertion{
		Type:           assertionType,
		Selector:       stringField(obj, "selector"),
		ExpectedValue:  stringField(obj, "expectedValue"),
		AttributeName:  stringField(obj, "attributeName"),
		AttributeValue: stringField(obj, "attributeValue"),
	}, nil
}

// stringField извлекает строковое значение из распакованного JSON объекта.
func stringField(obj map[string]any, key string) string {
	if v, ok := obj[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
