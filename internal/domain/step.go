package domain

import (
	"time"

	"github.com/google/uuid"
)

// StepType — тег варианта шага в хранилище.
type StepType string

// Варианты шагов.
const (
	// StepTypeRegular — обычный шаг, принадлежит тест-кейсу.
	StepTypeRegular StepType = "regular"

	// StepTypeSharedDefinition — шаг-определение, принадлежит shared step
	// (никогда не принадлежит тест-кейсу).
	StepTypeSharedDefinition StepType = "shared_definition"

	// StepTypeSharedReference — ссылка из тест-кейса на shared step.
	// Не несёт собственных данных действия.
	StepTypeSharedReference StepType = "shared_reference"
)

// Assertion — одна проверка, прикреплённая к шагу.
//
// Обязательность полей определяется каталогом:
// AssertionDefinition.NeedsSelector / NeedsValue / NeedsAttribute.
type Assertion struct {
	// Type — ключ проверки из каталога (например "textEquals").
	Type string `json:"assertionType"`

	// Selector — селектор элемента (если требуется).
	Selector string `json:"selector,omitempty"`

	// ExpectedValue — ожидаемое значение (если требуется).
	ExpectedValue string `json:"expectedValue,omitempty"`

	// AttributeName — имя атрибута (если требуется).
	AttributeName string `json:"attributeName,omitempty"`

	// AttributeValue — ожидаемое значение атрибута (опционально).
	AttributeValue string `json:"attributeValue,omitempty"`
}

// Step — закрытое объединение вариантов шага.
//
// Конкретные типы: RegularStep, SharedReferenceStep, SharedDefinitionStep.
// Закрытость гарантирует на уровне типов, что определение shared step
// не может оказаться владельцем-тест-кейсом и наоборот.
type Step interface {
	// StepID возвращает идентификатор шага.
	StepID() uuid.UUID

	// StepOrder возвращает 1-based позицию в списке владельца.
	StepOrder() int

	// Kind возвращает тег варианта.
	Kind() StepType

	sealedStep()
}

// RegularStep — самодостаточный шаг тест-кейса.
type RegularStep struct {
	ID                   uuid.UUID
	CaseID               uuid.UUID
	Order                int
	ActionType           string
	ActionParams         map[string]any
	Assertions           []Assertion
	CustomExpectedResult string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (s RegularStep) StepID() uuid.UUID { return s.ID }
func (s RegularStep) StepOrder() int    { return s.Order }
func (s RegularStep) Kind() StepType    { return StepTypeRegular }
func (s RegularStep) sealedStep()       {}

// SharedReferenceStep — ссылка тест-кейса на shared step.
type SharedReferenceStep struct {
	ID           uuid.UUID
	CaseID       uuid.UUID
	Order        int
	SharedStepID uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (s SharedReferenceStep) StepID() uuid.UUID { return s.ID }
func (s SharedReferenceStep) StepOrder() int    { return s.Order }
func (s SharedReferenceStep) Kind() StepType    { return StepTypeSharedReference }
func (s SharedReferenceStep) sealedStep()       {}

// SharedDefinitionStep — шаг-определение внутри shared step.
// По форме совпадает с RegularStep, но владелец — shared step.
type SharedDefinitionStep struct {
	ID                   uuid.UUID
	SharedStepID         uuid.UUID
	Order                int
	ActionType           string
	ActionParams         map[string]any
	Assertions           []Assertion
	CustomExpectedResult string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (s SharedDefinitionStep) StepID() uuid.UUID { return s.ID }
func (s SharedDefinitionStep) StepOrder() int    { return s.Order }
func (s SharedDefinitionStep) Kind() StepType    { return StepTypeSharedDefinition }
func (s SharedDefinitionStep) sealedStep()       {}

// StepDraft — проверенный черновик шага, готовый к записи.
//
// Создаётся валидатором (stepcheck) из входных данных клиента.
// step_order черновик не несёт: позиция назначается репозиторием
// как 1-based индекс в списке при записи.
type StepDraft struct {
	// Type — вариант шага.
	Type StepType

	// ActionType — ключ действия из каталога (пусто для ссылок).
	ActionType string

	// ActionParams — очищенные параметры действия.
	ActionParams map[string]any

	// Assertions — нормализованные проверки.
	Assertions []Assertion

	// CustomExpectedResult — произвольный ожидаемый результат (rich text).
	CustomExpectedResult string

	// SharedStepID — ссылка на shared step (только для StepTypeSharedReference).
	SharedStepID *uuid.UUID
}

// IsReference возвращает true для черновика-ссылки.
func (d *StepDraft) IsReference() bool {
	return d.Type == StepTypeSharedReference
}
