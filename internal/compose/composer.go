package compose

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shaiso/Caseflow/internal/domain"
)

// Node — узел дерева шагов, отдаваемый наружу вместе с тест-кейсом.
// Для ссылки на shared step заполняются SharedStepID, метаданные
// shared step и вложенный список Steps.
type Node struct {
	ID                    uuid.UUID          `json:"id"`
	Type                  domain.StepType    `json:"step_type"`
	Order                 int                `json:"step_order"`
	ActionType            string             `json:"action_type,omitempty"`
	ActionParams          map[string]any     `json:"action_params,omitempty"`
	Assertions            []domain.Assertion `json:"assertions,omitempty"`
	CustomExpectedResult  string             `json:"custom_expected_result,omitempty"`
	SharedStepID          *uuid.UUID         `json:"shared_step_id,omitempty"`
	SharedStepName        string             `json:"shared_step_name,omitempty"`
	SharedStepDescription string             `json:"shared_step_description,omitempty"`
	Steps                 []Node             `json:"steps,omitempty"`
}

// Source отдаёт shared step вместе с его шагами-определениями.
type Source interface {
	SharedStepWithDefinitions(ctx context.Context, id uuid.UUID) (*domain.SharedStep, error)
}

// Composer разворачивает ссылки на shared steps в дерево узлов.
type Composer struct {
	source Source
}

// NewComposer создаёт Composer поверх источника shared steps.
func NewComposer(source Source) *Composer {
	return &Composer{source: source}
}

// Compose строит дерево по упорядоченному списку шагов тест-кейса.
// Шаги-определения, попавшие в список кейса, пропускаются: они
// принадлежат shared step и отдаются только внутри его разворота.
// Каждый различный shared step загружается не более одного раза.
func (c *Composer) Compose(ctx context.Context, steps []domain.Step) ([]Node, error) {
	nodes := make([]Node, 0, len(steps))
	cache := make(map[uuid.UUID]*domain.SharedStep)

	for _, step := range steps {
		switch s := step.(type) {
		case domain.RegularStep:
			nodes = append(nodes, regularNode(s))
		case domain.SharedReferenceStep:
			shared, ok := cache[s.SharedStepID]
			if !ok {
				loaded, err := c.source.SharedStepWithDefinitions(ctx, s.SharedStepID)
				if err != nil {
					return nil, fmt.Errorf("load shared step %s: %w", s.SharedStepID, err)
				}
				cache[s.SharedStepID] = loaded
				shared = loaded
			}
			nodes = append(nodes, referenceNode(s, shared))
		case domain.SharedDefinitionStep:
			// Строка-определение в списке кейса, пропускаем.
		}
	}
	return nodes, nil
}

func regularNode(s domain.RegularStep) Node {
	return Node{
		ID:                   s.ID,
		Type:                 domain.StepTypeRegular,
		Order:                s.Order,
		ActionType:           s.ActionType,
		ActionParams:         s.ActionParams,
		Assertions:           s.Assertions,
		CustomExpectedResult: s.CustomExpectedResult,
	}
}

func referenceNode(s domain.SharedReferenceStep, shared *domain.SharedStep) Node {
	id := s.SharedStepID
	node := Node{
		ID:                    s.ID,
		Type:                  domain.StepTypeSharedReference,
		Order:                 s.Order,
		SharedStepID:          &id,
		SharedStepName:        shared.Name,
		SharedStepDescription: shared.Description,
		Steps:                 make([]Node, 0, len(shared.Definitions)),
	}
	for _, def := range shared.Definitions {
		// Вложенные определения отдаются как обычные шаги.
		node.Steps = append(node.Steps, Node{
			ID:                   def.ID,
			Type:                 domain.StepTypeRegular,
			Order:                def.Order,
			ActionType:           def.ActionType,
			ActionParams:         def.ActionParams,
			Assertions:           def.Assertions,
			CustomExpectedResult: def.CustomExpectedResult,
		})
	}
	return node
}
