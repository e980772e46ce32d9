package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shaiso/Caseflow/internal/domain"
)

// stepColumns — общий список колонок для выборок шагов.
const stepColumns = `id, case_id, shared_step_id, step_type, step_order, action_type,
	       action_params, assertions, custom_expected_result, created_at, updated_at`

// scanStep читает одну строку шага и собирает нужный вариант по step_type.
func scanStep(rows pgx.Rows) (domain.Step, error) {
	var (
		id           uuid.UUID
		caseID       *uuid.UUID
		sharedStepID *uuid.UUID
		stepType     domain.StepType
		order        int
		actionType   *string
		paramsJSON   []byte
		assertJSON   []byte
		expected     *string
		createdAt    time.Time
		updatedAt    time.Time
	)
	err := rows.Scan(&id, &caseID, &sharedStepID, &stepType, &order, &actionType,
		&paramsJSON, &assertJSON, &expected, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan step: %w", err)
	}

	var params map[string]any
	if paramsJSON != nil {
		if err := json.Unmarshal(paramsJSON, &params); err != nil {
			return nil, fmt.Errorf("unmarshal action_params: %w", err)
		}
	}
	var assertions []domain.Assertion
	if assertJSON != nil {
		if err := json.Unmarshal(assertJSON, &assertions); err != nil {
			return nil, fmt.Errorf("unmarshal assertions: %w", err)
		}
	}

	switch stepType {
	case domain.StepTypeRegular:
		s := domain.RegularStep{
			ID:           id,
			Order:        order,
			ActionParams: params,
			Assertions:   assertions,
			CreatedAt:    createdAt,
			UpdatedAt:    updatedAt,
		}
		if caseID != nil {
			s.CaseID = *caseID
		}
		if actionType != nil {
			s.ActionType = *actionType
		}
		if expected != nil {
			s.CustomExpectedResult = *expected
		}
		return s, nil

	case domain.StepTypeSharedReference:
		s := domain.SharedReferenceStep{
			ID:        id,
			Order:     order,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		}
		if caseID != nil {
			s.CaseID = *caseID
		}
		if sharedStepID != nil {
			s.SharedStepID = *sharedStepID
		}
		return s, nil

	case domain.StepTypeSharedDefinition:
		s := domain.SharedDefinitionStep{
			ID:           id,
			Order:        order,
			ActionParams: params,
			Assertions:   assertions,
			CreatedAt:    createdAt,
			UpdatedAt:    updatedAt,
		}
		if sharedStepID != nil {
			s.SharedStepID = *sharedStepID
		}
		if actionType != nil {
			s.ActionType = *actionType
		}
		if expected != nil {
			s.CustomExpectedResult = *expected
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown step_type %q", stepType)
	}
}

// insertCaseStep записывает черновик шага тест-кейса с 1-based позицией.
//
// Перед вставкой ссылки строка shared step блокируется: удаление shared
// step держит ту же блокировку, поэтому ссылка на удаляемый shared step
// не проскочит между его проверкой ссылок и удалением. Заодно так
// отлавливаются ссылки на несуществующий shared step.
func insertCaseStep(ctx context.Context, tx pgx.Tx, caseID uuid.UUID, order int, draft domain.StepDraft) error {
	if draft.Type == domain.StepTypeSharedReference && draft.SharedStepID != nil {
		var locked uuid.UUID
		err := tx.QueryRow(ctx, `
			SELECT id FROM shared_steps WHERE id = $1 FOR UPDATE
		`, *draft.SharedStepID).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("shared step %s: %w", *draft.SharedStepID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock shared step: %w", err)
		}
	}

	paramsJSON, err := json.Marshal(draft.ActionParams)
	if err != nil {
		return fmt.Errorf("marshal action_params: %w", err)
	}
	assertJSON, err := json.Marshal(draft.Assertions)
	if err != nil {
		return fmt.Errorf("marshal assertions: %w", err)
	}

	query := `
		INSERT INTO steps (id, case_id, shared_step_id, step_type, step_order, action_type,
		                   action_params, assertions, custom_expected_result, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
	`
	_, err = tx.Exec(ctx, query,
		uuid.New(),
		caseID,
		draft.SharedStepID,
		draft.Type,
		order,
		nullString(draft.ActionType),
		paramsJSON,
		assertJSON,
		nullString(draft.CustomExpectedResult),
	)
	if err != nil {
		return fmt.Errorf("insert step: %w", err)
	}
	return nil
}

// insertDefinitionStep записывает шаг-определение shared step.
func insertDefinitionStep(ctx context.Context, tx pgx.Tx, sharedStepID uuid.UUID, order int, draft domain.StepDraft) error {
	paramsJSON, err := json.Marshal(draft.ActionParams)
	if err != nil {
		return fmt.Errorf("marshal action_params: %w", err)
	}
	assertJSON, err := json.Marshal(draft.Assertions)
	if err != nil {
		return fmt.Errorf("marshal assertions: %w", err)
	}

	query := `
		INSERT INTO steps (id, case_id, shared_step_id, step_type, step_order, action_type,
		                   action_params, assertions, custom_expected_result, created_at, updated_at)
		VALUES ($1, NULL, $2, $3, $4, $5, $6, $7, $8, now(), now())
	`
	_, err = tx.Exec(ctx, query,
		uuid.New(),
		sharedStepID,
		domain.StepTypeSharedDefinition,
		order,
		nullString(draft.ActionType),
		paramsJSON,
		assertJSON,
		nullString(draft.CustomExpectedResult),
	)
	if err != nil {
		return fmt.Errorf("insert definition step: %w", err)
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
