package ordering

import (
	"context"
	"fmt"
	"log/slog"
)

// Store — хранилище, умеющее ренормализовать ключи порядка.
//
// Реализация выполняет пересчёт одним set-based UPDATE внутри одной
// транзакции, чтобы читатели не увидели наполовину перенумерованный
// порядок.
type Store interface {
	// RebalanceOrder присваивает каждому элементу ключ, равный его
	// 1-based рангу при фиксированном полном порядке. Возвращает
	// количество затронутых строк.
	RebalanceOrder(ctx context.Context) (int64, error)
}

// Rebalancer — ренормализация ключей порядка выполнения.
//
// Запускается один раз на старте процесса и далее по расписанию
// (фоновая задача); также доступен по требованию через API.
// Идемпотентен: повторный запуск без промежуточных записей даёт
// тот же относительный порядок и те же ключи 1, 2, 3, ...
type Rebalancer struct {
	store  Store
	logger *slog.Logger
}

// Config — конфигурация Rebalancer.
type Config struct {
	Store  Store
	Logger *slog.Logger
}

// NewRebalancer создаёт новый Rebalancer.
func NewRebalancer(cfg Config) *Rebalancer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Rebalancer{
		store:  cfg.Store,
		logger: logger,
	}
}

// Tick выполняет один проход ребалансировки.
//
// Ошибка не фатальна для процесса: вызывающий цикл логирует её
// и ждёт следующего запуска по расписанию.
func (r *Rebalancer) Tick(ctx context.Context) (int64, error) {
	updated, err := r.store.RebalanceOrder(ctx)
	if err != nil {
		return 0, fmt.Errorf("rebalance execution order: %w", err)
	}

	r.logger.Info("execution order rebalance completed", "updated", updated)
	return updated, nil
}
