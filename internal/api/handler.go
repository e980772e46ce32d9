package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/shaiso/Caseflow/internal/compose"
	"github.com/shaiso/Caseflow/internal/mq"
	"github.com/shaiso/Caseflow/internal/repo"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	caseRepo   *repo.TestCaseRepo
	sharedRepo *repo.SharedStepRepo
	composer   *compose.Composer
	publisher  *mq.Publisher
	logger     *slog.Logger
}

// Config — конфигурация для создания Handler.
// Publisher может быть nil: публикация событий тогда отключена.
type Config struct {
	CaseRepo   *repo.TestCaseRepo
	SharedRepo *repo.SharedStepRepo
	Composer   *compose.Composer
	Publisher  *mq.Publisher
	Logger     *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		caseRepo:   cfg.CaseRepo,
		sharedRepo: cfg.SharedRepo,
		composer:   cfg.Composer,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger,
	}
}

// actorID извлекает идентификатор вызывающего из заголовка X-Actor-ID.
// Заголовок ставит вышестоящий слой после аутентификации; отсутствующее
// или нечитаемое значение трактуется как анонимный вызов.
func actorID(r *http.Request) uuid.UUID {
	id, err := uuid.Parse(r.Header.Get("X-Actor-ID"))
	if err != nil {
		return uuid.Nil
	}
	return id
}
