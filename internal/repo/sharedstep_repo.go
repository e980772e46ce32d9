package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Caseflow/internal/domain"
)

// SharedStepRepo — хранилище shared steps.
//
// Жизненный цикл записи целиком транзакционный: проверка уникальности
// имени, замена определений и проверка ссылок при удалении идут в той же
// транзакции, что и сама запись.
type SharedStepRepo struct {
	pool *pgxpool.Pool
}

// NewSharedStepRepo создаёт новый SharedStepRepo.
func NewSharedStepRepo(pool *pgxpool.Pool) *SharedStepRepo {
	return &SharedStepRepo{pool: pool}
}

// Create создаёт shared step с шагами-определениями.
// Имя сравнивается без учёта регистра; занятое имя — ErrDuplicateName.
func (r *SharedStepRepo) Create(ctx context.Context, ss *domain.SharedStep, drafts []domain.StepDraft) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var taken bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM shared_steps WHERE LOWER(name) = LOWER($1))
	`, ss.Name).Scan(&taken)
	if err != nil {
		return fmt.Errorf("check name: %w", err)
	}
	if taken {
		return ErrDuplicateName
	}

	if ss.ID == uuid.Nil {
		ss.ID = uuid.New()
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO shared_steps (id, name, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING created_at, updated_at
	`, ss.ID, ss.Name, nullString(ss.Description), ss.CreatedBy).Scan(&ss.CreatedAt, &ss.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert shared step: %w", err)
	}

	for i, draft := range drafts {
		if err := insertDefinitionStep(ctx, tx, ss.ID, i+1, draft); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// SharedStepUpdate — частичное обновление shared step.
// nil-поля не трогаются; Definitions != nil целиком заменяет определения.
type SharedStepUpdate struct {
	Name        *string
	Description *string
	Definitions *[]domain.StepDraft
}

// Update частично обновляет метаданные shared step.
// Определения заменяются только когда список передан явно: старые
// удаляются, новые вставляются с плотными 1-based позициями.
func (r *SharedStepRepo) Update(ctx context.Context, id uuid.UUID, upd SharedStepUpdate) (*domain.SharedStep, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if upd.Name != nil {
		var taken bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM shared_steps WHERE LOWER(name) = LOWER($1) AND id <> $2)
		`, *upd.Name, id).Scan(&taken)
		if err != nil {
			return nil, fmt.Errorf("check name: %w", err)
		}
		if taken {
			return nil, ErrDuplicateName
		}
	}

	ss := &domain.SharedStep{ID: id}
	var description *string
	err = tx.QueryRow(ctx, `
		UPDATE shared_steps
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    updated_at = now()
		WHERE id = $1
		RETURNING name, description, created_by, created_at, updated_at
	`, id, upd.Name, upd.Description).Scan(&ss.Name, &description, &ss.CreatedBy, &ss.CreatedAt, &ss.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update shared step: %w", err)
	}
	if description != nil {
		ss.Description = *description
	}

	if upd.Definitions != nil {
		if _, err := tx.Exec(ctx, `
			DELETE FROM steps WHERE shared_step_id = $1 AND step_type = $2
		`, id, domain.StepTypeSharedDefinition); err != nil {
			return nil, fmt.Errorf("delete definitions: %w", err)
		}
		for i, draft := range *upd.Definitions {
			if err := insertDefinitionStep(ctx, tx, id, i+1, draft); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return ss, nil
}

// Delete удаляет shared step вместе с определениями.
//
// Первым делом берётся блокировка строки shared step; вставка новой
// ссылки берёт ту же блокировку (см. insertCaseStep), поэтому между
// подсчётом ссылок и удалением ссылка появиться не может.
// При живых ссылках возвращается ReferencedError с их числом.
func (r *SharedStepRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT id FROM shared_steps WHERE id = $1 FOR UPDATE
	`, id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock shared step: %w", err)
	}

	var refs int64
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM steps WHERE shared_step_id = $1 AND step_type = $2
	`, id, domain.StepTypeSharedReference).Scan(&refs)
	if err != nil {
		return fmt.Errorf("count references: %w", err)
	}
	if refs > 0 {
		return &ReferencedError{Count: refs}
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM steps WHERE shared_step_id = $1 AND step_type = $2
	`, id, domain.StepTypeSharedDefinition); err != nil {
		return fmt.Errorf("delete definitions: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM shared_steps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shared step: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// List возвращает сводки всех shared steps с числом шагов и ссылок.
func (r *SharedStepRepo) List(ctx context.Context) ([]domain.SharedStepSummary, error) {
	query := `
		SELECT s.id, s.name, s.description,
		       (SELECT COUNT(*) FROM steps d
		        WHERE d.shared_step_id = s.id AND d.step_type = 'shared_definition') AS step_count,
		       (SELECT COUNT(*) FROM steps r
		        WHERE r.shared_step_id = s.id AND r.step_type = 'shared_reference') AS ref_count,
		       s.created_at, s.updated_at
		FROM shared_steps s
		ORDER BY s.name ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list shared steps: %w", err)
	}
	defer rows.Close()

	var summaries []domain.SharedStepSummary
	for rows.Next() {
		var s domain.SharedStepSummary
		var description *string
		err := rows.Scan(&s.ID, &s.Name, &description, &s.StepCount, &s.RefCount, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan shared step summary: %w", err)
		}
		if description != nil {
			s.Description = *description
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// SharedStepWithDefinitions возвращает shared step с упорядоченными
// определениями. Этим методом пользуется сборка дерева шагов.
func (r *SharedStepRepo) SharedStepWithDefinitions(ctx context.Context, id uuid.UUID) (*domain.SharedStep, error) {
	var ss domain.SharedStep
	var description *string
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM shared_steps
		WHERE id = $1
	`, id).Scan(&ss.ID, &ss.Name, &description, &ss.CreatedBy, &ss.CreatedAt, &ss.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get shared step: %w", err)
	}
	if description != nil {
		ss.Description = *description
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+stepColumns+`
		FROM steps
		WHERE shared_step_id = $1 AND step_type = $2
		ORDER BY step_order ASC
	`, id, domain.StepTypeSharedDefinition)
	if err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		step, err := scanStep(rows)
		if err != nil {
			return nil, err
		}
		def, ok := step.(domain.SharedDefinitionStep)
		if !ok {
			return nil, fmt.Errorf("unexpected step variant %q in definitions", step.Kind())
		}
		ss.Definitions = append(ss.Definitions, def)
	}
	return &ss, rows.Err()
}
