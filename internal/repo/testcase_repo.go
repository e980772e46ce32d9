package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Caseflow/internal/domain"
	"github.com/shaiso/Caseflow/internal/ordering"
)

// TestCaseRepo — репозиторий тест-кейсов и их шагов.
//
// Все составные операции (создание с шагами, замена шагов, дублирование,
// переупорядочивание, удаление) выполняются в одной транзакции: наружу
// не видно промежуточных состояний.
type TestCaseRepo struct {
	pool *pgxpool.Pool
}

// NewTestCaseRepo создаёт новый TestCaseRepo.
func NewTestCaseRepo(pool *pgxpool.Pool) *TestCaseRepo {
	return &TestCaseRepo{pool: pool}
}

// CaseUpdate — частичное обновление метаданных кейса.
// nil-поля не трогаются.
type CaseUpdate struct {
	Title       *string
	Description *string
	Suite       *string
	Priority    *string
	Tags        []string
	Status      *domain.CaseStatus
}

const caseColumns = `id, case_code, title, description, suite, priority, tags, status,
	       execution_order, created_by, created_at, updated_at`

// Create создаёт тест-кейс вместе с проверенными шагами.
//
// Код кейса берётся из последовательности test_case_code_seq, ключ порядка
// выполнения назначается в хвост списка (MAX + 1). Шаги получают плотные
// 1-based позиции.
func (r *TestCaseRepo) Create(ctx context.Context, tc *domain.TestCase, drafts []domain.StepDraft) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('test_case_code_seq')`).Scan(&seq); err != nil {
		return fmt.Errorf("next case code: %w", err)
	}
	tc.Code = fmt.Sprintf("TC-%04d", seq)

	if err := tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(execution_order), 0) + 1 FROM test_cases
	`).Scan(&tc.ExecutionOrder); err != nil {
		return fmt.Errorf("next execution order: %w", err)
	}

	if tc.ID == uuid.Nil {
		tc.ID = uuid.New()
	}
	if tc.Status == "" {
		tc.Status = domain.CaseStatusPending
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO test_cases (id, case_code, title, description, suite, priority, tags,
		                        status, execution_order, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		RETURNING created_at, updated_at
	`,
		tc.ID,
		tc.Code,
		tc.Title,
		nullString(tc.Description),
		tc.Suite,
		tc.Priority,
		tc.Tags,
		tc.Status,
		tc.ExecutionOrder,
		tc.CreatedBy,
	).Scan(&tc.CreatedAt, &tc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert test case: %w", err)
	}

	for i, draft := range drafts {
		if err := insertCaseStep(ctx, tx, tc.ID, i+1, draft); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByCode возвращает тест-кейс по коду.
func (r *TestCaseRepo) GetByCode(ctx context.Context, code string) (*domain.TestCase, error) {
	query := `SELECT ` + caseColumns + ` FROM test_cases WHERE case_code = $1`
	return scanCase(r.pool.QueryRow(ctx, query, code))
}

// List возвращает все кейсы в порядке выполнения.
//
// Ключ порядка дробный, поэтому связки разрываются детерминированно:
// created_at, затем case_code.
func (r *TestCaseRepo) List(ctx context.Context) ([]domain.TestCase, error) {
	query := `
		SELECT ` + caseColumns + `
		FROM test_cases
		ORDER BY execution_order ASC, created_at ASC, case_code ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list test cases: %w", err)
	}
	defer rows.Close()

	var cases []domain.TestCase
	for rows.Next() {
		tc, err := scanCaseFromRows(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, *tc)
	}
	return cases, rows.Err()
}

// ListSteps возвращает шаги кейса в порядке step_order.
func (r *TestCaseRepo) ListSteps(ctx context.Context, caseID uuid.UUID) ([]domain.Step, error) {
	query := `
		SELECT ` + stepColumns + `
		FROM steps
		WHERE case_id = $1
		ORDER BY step_order ASC
	`
	rows, err := r.pool.Query(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	defer rows.Close()

	var steps []domain.Step
	for rows.Next() {
		step, err := scanStep(rows)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

// Update частично обновляет метаданные кейса.
func (r *TestCaseRepo) Update(ctx context.Context, code string, upd CaseUpdate) (*domain.TestCase, error) {
	query := `
		UPDATE test_cases
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    suite = COALESCE($4, suite),
		    priority = COALESCE($5, priority),
		    tags = COALESCE($6, tags),
		    status = COALESCE($7, status),
		    updated_at = now()
		WHERE case_code = $1
		RETURNING ` + caseColumns
	return scanCase(r.pool.QueryRow(ctx, query,
		code,
		upd.Title,
		upd.Description,
		upd.Suite,
		upd.Priority,
		upd.Tags,
		upd.Status,
	))
}

// ReplaceSteps целиком заменяет список шагов кейса.
// Частичных патчей нет: старые шаги удаляются, новые вставляются
// с плотными 1-based позициями.
func (r *TestCaseRepo) ReplaceSteps(ctx context.Context, code string, drafts []domain.StepDraft) (*domain.TestCase, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tc, err := scanCase(tx.QueryRow(ctx, `SELECT `+caseColumns+` FROM test_cases WHERE case_code = $1`, code))
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM steps WHERE case_id = $1`, tc.ID); err != nil {
		return nil, fmt.Errorf("delete steps: %w", err)
	}
	for i, draft := range drafts {
		if err := insertCaseStep(ctx, tx, tc.ID, i+1, draft); err != nil {
			return nil, err
		}
	}
	if _, err := tx.Exec(ctx, `UPDATE test_cases SET updated_at = now() WHERE id = $1`, tc.ID); err != nil {
		return nil, fmt.Errorf("touch test case: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return tc, nil
}

// Delete удаляет кейс вместе с шагами.
func (r *TestCaseRepo) Delete(ctx context.Context, code string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM test_cases WHERE case_code = $1`, code).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find test case: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM steps WHERE case_id = $1`, id); err != nil {
		return fmt.Errorf("delete steps: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM test_cases WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete test case: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// BulkDelete удаляет несколько кейсов за одну транзакцию.
// Возвращает число удалённых кейсов; несуществующие коды пропускаются.
func (r *TestCaseRepo) BulkDelete(ctx context.Context, codes []string) (int64, error) {
	if len(codes) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM steps
		WHERE case_id IN (SELECT id FROM test_cases WHERE case_code = ANY($1))
	`, codes); err != nil {
		return 0, fmt.Errorf("delete steps: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM test_cases WHERE case_code = ANY($1)`, codes)
	if err != nil {
		return 0, fmt.Errorf("delete test cases: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return result.RowsAffected(), nil
}

// Duplicate создаёт копию кейса сразу после оригинала в порядке выполнения.
//
// Новый ключ — середина между ключом оригинала и следующим большим ключом
// (Bisect); шаги копируются как есть. Статус копии сбрасывается в pending.
func (r *TestCaseRepo) Duplicate(ctx context.Context, code string, createdBy uuid.UUID) (*domain.TestCase, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	src, err := scanCase(tx.QueryRow(ctx, `SELECT `+caseColumns+` FROM test_cases WHERE case_code = $1`, code))
	if err != nil {
		return nil, err
	}

	var next *float64
	err = tx.QueryRow(ctx, `
		SELECT MIN(execution_order) FROM test_cases WHERE execution_order > $1
	`, src.ExecutionOrder).Scan(&next)
	if err != nil {
		return nil, fmt.Errorf("next execution order: %w", err)
	}

	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('test_case_code_seq')`).Scan(&seq); err != nil {
		return nil, fmt.Errorf("next case code: %w", err)
	}

	dup := &domain.TestCase{
		ID:             uuid.New(),
		Code:           fmt.Sprintf("TC-%04d", seq),
		Title:          src.CopyTitle(),
		Description:    src.Description,
		Suite:          src.Suite,
		Priority:       src.Priority,
		Tags:           src.Tags,
		Status:         domain.CaseStatusPending,
		ExecutionOrder: ordering.Bisect(src.ExecutionOrder, next),
		CreatedBy:      createdBy,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO test_cases (id, case_code, title, description, suite, priority, tags,
		                        status, execution_order, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		RETURNING created_at, updated_at
	`,
		dup.ID,
		dup.Code,
		dup.Title,
		nullString(dup.Description),
		dup.Suite,
		dup.Priority,
		dup.Tags,
		dup.Status,
		dup.ExecutionOrder,
		dup.CreatedBy,
	).Scan(&dup.CreatedAt, &dup.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert duplicate: %w", err)
	}

	// Копия ссылок держит ту же блокировку shared step, что и их вставка,
	// чтобы не разъехаться с конкурентным удалением shared step.
	if _, err := tx.Exec(ctx, `
		SELECT id FROM shared_steps
		WHERE id IN (SELECT shared_step_id FROM steps WHERE case_id = $1 AND step_type = $2)
		FOR UPDATE
	`, src.ID, domain.StepTypeSharedReference); err != nil {
		return nil, fmt.Errorf("lock shared steps: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO steps (id, case_id, shared_step_id, step_type, step_order, action_type,
		                   action_params, assertions, custom_expected_result, created_at, updated_at)
		SELECT gen_random_uuid(), $2, shared_step_id, step_type, step_order, action_type,
		       action_params, assertions, custom_expected_result, now(), now()
		FROM steps
		WHERE case_id = $1
	`, src.ID, dup.ID); err != nil {
		return nil, fmt.Errorf("copy steps: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return dup, nil
}

// Reorder перемещает группу кейсов между якорями prev и next.
//
// Чтение якорей, чтение перемещаемых строк, расчёт новых ключей и запись
// происходят в одной транзакции, так что решение аллокатора не устаревает
// между чтением и записью. Возвращает назначенные ключи.
func (r *TestCaseRepo) Reorder(ctx context.Context, prevCode, nextCode *string, movedCodes []string) ([]ordering.Item, error) {
	if len(movedCodes) == 0 {
		return nil, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	anchorKey := func(code *string) (*float64, error) {
		if code == nil {
			return nil, nil
		}
		var key float64
		err := tx.QueryRow(ctx, `SELECT execution_order FROM test_cases WHERE case_code = $1`, *code).Scan(&key)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("read anchor %s: %w", *code, err)
		}
		return &key, nil
	}

	prev, err := anchorKey(prevCode)
	if err != nil {
		return nil, err
	}
	next, err := anchorKey(nextCode)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT case_code, execution_order FROM test_cases WHERE case_code = ANY($1)
	`, movedCodes)
	if err != nil {
		return nil, fmt.Errorf("read moved cases: %w", err)
	}
	moved := make([]ordering.Item, 0, len(movedCodes))
	for rows.Next() {
		var item ordering.Item
		if err := rows.Scan(&item.ID, &item.Key); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan moved case: %w", err)
		}
		moved = append(moved, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(moved) != len(movedCodes) {
		return nil, ErrNotFound
	}

	assigned := ordering.Allocate(prev, next, moved)
	for _, item := range assigned {
		if _, err := tx.Exec(ctx, `
			UPDATE test_cases SET execution_order = $2, updated_at = now() WHERE case_code = $1
		`, item.ID, item.Key); err != nil {
			return nil, fmt.Errorf("update execution order: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return assigned, nil
}

// RebalanceOrder переписывает ключи порядка в плотные целые 1..N одним
// set-based запросом. Порядок кейсов не меняется: ранжирование идёт по
// текущему ключу с детерминированными tie-break'ами. Возвращает число
// затронутых строк.
func (r *TestCaseRepo) RebalanceOrder(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `
		WITH ranked AS (
			SELECT id,
			       ROW_NUMBER() OVER (ORDER BY execution_order ASC, created_at ASC, case_code ASC) AS rn
			FROM test_cases
		)
		UPDATE test_cases t
		SET execution_order = ranked.rn, updated_at = now()
		FROM ranked
		WHERE t.id = ranked.id AND t.execution_order <> ranked.rn
	`)
	if err != nil {
		return 0, fmt.Errorf("rebalance execution order: %w", err)
	}
	return result.RowsAffected(), nil
}

// --- Helpers ---

func scanCase(row pgx.Row) (*domain.TestCase, error) {
	var tc domain.TestCase
	var description *string

	err := row.Scan(
		&tc.ID,
		&tc.Code,
		&tc.Title,
		&description,
		&tc.Suite,
		&tc.Priority,
		&tc.Tags,
		&tc.Status,
		&tc.ExecutionOrder,
		&tc.CreatedBy,
		&tc.CreatedAt,
		&tc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan test case: %w", err)
	}
	if description != nil {
		tc.Description = *description
	}
	return &tc, nil
}

func scanCaseFromRows(rows pgx.Rows) (*domain.TestCase, error) {
	var tc domain.TestCase
	var description *string

	err := rows.Scan(
		&tc.ID,
		&tc.Code,
		&tc.Title,
		&description,
		&tc.Suite,
		&tc.Priority,
		&tc.Tags,
		&tc.Status,
		&tc.ExecutionOrder,
		&tc.CreatedBy,
		&tc.CreatedAt,
		&tc.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan test case: %w", err)
	}
	if description != nil {
		tc.Description = *description
	}
	return &tc, nil
}
