package domain

import (
	"time"

	"github.com/google/uuid"
)

// CaseStatus — статус последнего прогона тест-кейса.
type CaseStatus string

// Статусы тест-кейса.
const (
	CaseStatusPending CaseStatus = "pending"
	CaseStatusPassed  CaseStatus = "passed"
	CaseStatusFailed  CaseStatus = "failed"
	CaseStatusSkipped CaseStatus = "skipped"
)

// TestCase — тест-кейс: упорядоченный набор шагов с метаданными.
//
// ExecutionOrder — дробный ключ порядка выполнения. Значение само по себе
// смысла не имеет, важен только относительный порядок. Меняется только
// аллокатором порядка (reorder, duplicate) и ребалансировщиком.
type TestCase struct {
	// ID — внутренний идентификатор.
	ID uuid.UUID `json:"id"`

	// Code — человекочитаемый код кейса, например "TC-0042".
	Code string `json:"case_id"`

	// Title — название кейса.
	Title string `json:"title"`

	// Description — описание.
	Description string `json:"description,omitempty"`

	// Suite — набор, к которому относится кейс.
	Suite string `json:"suite"`

	// Priority — приоритет: "low", "medium", "high", "critical".
	Priority string `json:"priority"`

	// Tags — произвольные теги.
	Tags []string `json:"tags,omitempty"`

	// Status — статус последнего прогона.
	Status CaseStatus `json:"last_status"`

	// ExecutionOrder — дробный ключ порядка выполнения.
	ExecutionOrder float64 `json:"execution_order"`

	// CreatedBy — автор кейса (идентификатор уже аутентифицированного
	// пользователя, разрешается вышестоящим слоем).
	CreatedBy uuid.UUID `json:"created_by,omitempty"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего изменения.
	UpdatedAt time.Time `json:"updated_at"`
}

// CopyTitle возвращает заголовок для дубликата кейса.
func (tc *TestCase) CopyTitle() string {
	return tc.Title + " (Copy)"
}
