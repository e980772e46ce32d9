package stepcheck

import "errors"

// Ошибки валидации шага.
var (
	// ErrInvalidAction — неизвестный тип действия.
	ErrInvalidAction = errors.New("invalid action type")

	// ErrInvalidAssertion — неизвестный тип проверки.
	ErrInvalidAssertion = errors.New("invalid assertion type")

	// ErrAssertionNotAllowed — проверка недопустима для действия шага.
	ErrAssertionNotAllowed = errors.New("assertion not allowed for action")

	// ErrMissingRequiredField — не заполнено обязательное поле.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidKeyOption — недопустимая клавиша для действия pressKey.
	ErrInvalidKeyOption = errors.New("invalid key option")

	// ErrInvalidAssertionFormat — проверки переданы не списком
	// или элемент списка имеет неверную форму.
	ErrInvalidAssertionFormat = errors.New("invalid assertion format")
)

// ValidationError — ошибка валидации с контекстом.
type ValidationError struct {
	Step    string // идентификатор шага в списке (для сообщений), может быть пустым
	Field   string // поле, вызвавшее ошибку
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	if e.Step != "" {
		return "step " + e.Step + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError создаёт новую ошибку валидации.
func NewValidationError(step, field, message string, err error) *ValidationError {
	return &ValidationError{
		Step:    step,
		Field:   field,
		Message: message,
		Err:     err,
	}
}
