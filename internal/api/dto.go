package api

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Caseflow/internal/compose"
	"github.com/shaiso/Caseflow/internal/domain"
	"github.com/shaiso/Caseflow/internal/stepcheck"
)

// Step DTOs

// StepRequest — один шаг в запросе на создание/замену шагов.
// Assertions остаются распакованным JSON: их форму проверяет валидатор.
type StepRequest struct {
	Type                 string         `json:"step_type,omitempty"`
	ActionType           string         `json:"action_type,omitempty"`
	ActionParams         map[string]any `json:"action_params,omitempty"`
	Assertions           any            `json:"assertions,omitempty"`
	CustomExpectedResult string         `json:"custom_expected_result,omitempty"`
	SharedStepID         *uuid.UUID     `json:"shared_step_id,omitempty"`
}

// prepareCaseDrafts валидирует шаги тест-кейса и строит черновики.
// Шаги-определения в кейсе недопустимы: они принадлежат shared step.
func prepareCaseDrafts(steps []StepRequest) ([]domain.StepDraft, error) {
	drafts := make([]domain.StepDraft, 0, len(steps))
	for i, s := range steps {
		label := strconv.Itoa(i + 1)
		if domain.StepType(s.Type) == domain.StepTypeSharedDefinition {
			return nil, stepcheck.NewValidationError(label, "step_type",
				"shared_definition steps cannot be attached to a test case", nil)
		}
		draft, err := stepcheck.Prepare(label, stepcheck.Input{
			Type:                 domain.StepType(s.Type),
			ActionType:           s.ActionType,
			ActionParams:         s.ActionParams,
			Assertions:           s.Assertions,
			CustomExpectedResult: s.CustomExpectedResult,
			SharedStepID:         s.SharedStepID,
		})
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// prepareDefinitionDrafts валидирует шаги-определения shared step.
// Ссылки внутри shared step недопустимы: вложенность не поддерживается.
func prepareDefinitionDrafts(steps []StepRequest) ([]domain.StepDraft, error) {
	drafts := make([]domain.StepDraft, 0, len(steps))
	for i, s := range steps {
		label := strconv.Itoa(i + 1)
		if domain.StepType(s.Type) == domain.StepTypeSharedReference {
			return nil, stepcheck.NewValidationError(label, "step_type",
				"shared steps cannot reference other shared steps", nil)
		}
		draft, err := stepcheck.Prepare(label, stepcheck.Input{
			ActionType:           s.ActionType,
			ActionParams:         s.ActionParams,
			Assertions:           s.Assertions,
			CustomExpectedResult: s.CustomExpectedResult,
		})
		if err != nil {
			return nil, err
		}
		draft.Type = domain.StepTypeSharedDefinition
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// TestCase DTOs

// CreateCaseRequest — запрос на создание тест-кейса.
type CreateCaseRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Suite       string        `json:"suite,omitempty"`
	Priority    string        `json:"priority,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Steps       []StepRequest `json:"steps,omitempty"`
}

// UpdateCaseRequest — запрос на частичное обновление тест-кейса.
// nil-поля не трогаются; Steps != nil целиком заменяет список шагов.
type UpdateCaseRequest struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Suite       *string        `json:"suite,omitempty"`
	Priority    *string        `json:"priority,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Status      *string        `json:"last_status,omitempty"`
	Steps       *[]StepRequest `json:"steps,omitempty"`
}

// ReplaceStepsRequest — запрос на полную замену шагов кейса.
type ReplaceStepsRequest struct {
	Steps []StepRequest `json:"steps"`
}

// ReorderRequest — запрос на перемещение кейсов между якорями.
type ReorderRequest struct {
	PrevID   *string  `json:"prevId,omitempty"`
	NextID   *string  `json:"nextId,omitempty"`
	MovedIDs []string `json:"movedIds"`
}

// BulkDeleteRequest — запрос на массовое удаление кейсов.
type BulkDeleteRequest struct {
	CaseIDs []string `json:"case_ids"`
}

// CaseResponse — ответ с тест-кейсом без шагов.
type CaseResponse struct {
	ID             uuid.UUID         `json:"id"`
	CaseID         string            `json:"case_id"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	Suite          string            `json:"suite,omitempty"`
	Priority       string            `json:"priority,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	Status         domain.CaseStatus `json:"last_status"`
	ExecutionOrder float64           `json:"execution_order"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// CaseDetailResponse — тест-кейс с собранным деревом шагов.
type CaseDetailResponse struct {
	CaseResponse
	Steps []compose.Node `json:"steps"`
}

// CaseFromDomain конвертирует domain.TestCase в CaseResponse.
func CaseFromDomain(tc domain.TestCase) CaseResponse {
	return CaseResponse{
		ID:             tc.ID,
		CaseID:         tc.Code,
		Title:          tc.Title,
		Description:    tc.Description,
		Suite:          tc.Suite,
		Priority:       tc.Priority,
		Tags:           tc.Tags,
		Status:         tc.Status,
		ExecutionOrder: tc.ExecutionOrder,
		CreatedAt:      tc.CreatedAt,
		UpdatedAt:      tc.UpdatedAt,
	}
}

// SharedStep DTOs

// CreateSharedStepRequest — запрос на создание shared step.
type CreateSharedStepRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Steps       []StepRequest `json:"steps,omitempty"`
}

// UpdateSharedStepRequest — запрос на частичное обновление shared step.
// nil-поля не трогаются; Steps != nil целиком заменяет определения.
type UpdateSharedStepRequest struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Steps       *[]StepRequest `json:"steps,omitempty"`
}

// DefinitionStepResponse — шаг-определение в ответе.
type DefinitionStepResponse struct {
	ID                   uuid.UUID          `json:"id"`
	StepOrder            int                `json:"step_order"`
	ActionType           string             `json:"action_type"`
	ActionParams         map[string]any     `json:"action_params,omitempty"`
	Assertions           []domain.Assertion `json:"assertions,omitempty"`
	CustomExpectedResult string             `json:"custom_expected_result,omitempty"`
}

// SharedStepResponse — ответ с shared step и его определениями.
type SharedStepResponse struct {
	ID          uuid.UUID                `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Steps       []DefinitionStepResponse `json:"steps"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// SharedStepSummaryResponse — сводка shared step для списка.
type SharedStepSummaryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StepCount   int64     `json:"step_count"`
	RefCount    int64     `json:"ref_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SharedStepFromDomain конвертирует domain.SharedStep в SharedStepResponse.
func SharedStepFromDomain(ss domain.SharedStep) SharedStepResponse {
	resp := SharedStepResponse{
		ID:          ss.ID,
		Name:        ss.Name,
		Description: ss.Description,
		Steps:       make([]DefinitionStepResponse, 0, len(ss.Definitions)),
		CreatedAt:   ss.CreatedAt,
		UpdatedAt:   ss.UpdatedAt,
	}
	for _, def := range ss.Definitions {
		resp.Steps = append(resp.Steps, DefinitionStepResponse{
			ID:                   def.ID,
			StepOrder:            def.Order,
			ActionType:           def.ActionType,
			ActionParams:         def.ActionParams,
			Assertions:           def.Assertions,
			CustomExpectedResult: def.CustomExpectedResult,
		})
	}
	return resp
}

// SharedStepSummaryFromDomain конвертирует сводку shared step.
func SharedStepSummaryFromDomain(s domain.SharedStepSummary) SharedStepSummaryResponse {
	return SharedStepSummaryResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		StepCount:   s.StepCount,
		RefCount:    s.RefCount,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
