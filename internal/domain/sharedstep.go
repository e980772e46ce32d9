package domain

import (
	"time"

	"github.com/google/uuid"
)

// SharedStep — именованная переиспользуемая группа шагов.
//
// На shared step ссылаются по id шаги-ссылки (SharedReferenceStep) из
// любых тест-кейсов. Имя уникально без учёта регистра. Список определений
// заменяется только целиком (delete-all-then-reinsert, без частичных
// патчей).
type SharedStep struct {
	// ID — идентификатор shared step.
	ID uuid.UUID `json:"id"`

	// Name — уникальное имя (без учёта регистра).
	Name string `json:"name"`

	// Description — описание.
	Description string `json:"description,omitempty"`

	// CreatedBy — автор.
	CreatedBy uuid.UUID `json:"created_by,omitempty"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего изменения.
	UpdatedAt time.Time `json:"updated_at"`

	// Definitions — упорядоченный список шагов-определений.
	Definitions []SharedDefinitionStep `json:"definitions,omitempty"`
}

// SharedStepSummary — сводка shared step для списков.
type SharedStepSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`

	// StepCount — количество шагов-определений.
	StepCount int64 `json:"step_count"`

	// RefCount — количество ссылок из тест-кейсов (производное значение).
	RefCount int64 `json:"ref_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
