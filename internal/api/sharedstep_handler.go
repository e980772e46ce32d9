package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/shaiso/Caseflow/internal/domain"
	"github.com/shaiso/Caseflow/internal/repo"
)

// ListSharedSteps возвращает сводки всех shared steps.
// GET /api/v1/shared-steps
func (h *Handler) ListSharedSteps(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.sharedRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]SharedStepSummaryResponse, len(summaries))
	for i, s := range summaries {
		result[i] = SharedStepSummaryFromDomain(s)
	}

	List(w, result, len(result))
}

// CreateSharedStep создаёт shared step с шагами-определениями.
// POST /api/v1/shared-steps
func (h *Handler) CreateSharedStep(w http.ResponseWriter, r *http.Request) {
	var req CreateSharedStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}

	drafts, err := prepareDefinitionDrafts(req.Steps)
	if HandleValidationError(w, h.logger, err) {
		return
	}

	ss := &domain.SharedStep{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   actorID(r),
	}

	if err := h.sharedRepo.Create(r.Context(), ss, drafts); err != nil {
		HandleRepoError(w, h.logger, err, "")
		return
	}

	created, err := h.sharedRepo.SharedStepWithDefinitions(r.Context(), ss.ID)
	if HandleRepoError(w, h.logger, err, "shared step not found") {
		return
	}

	Created(w, SharedStepFromDomain(*created))
}

// GetSharedStep возвращает shared step с определениями.
// GET /api/v1/shared-steps/{id}
func (h *Handler) GetSharedStep(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid shared step id")
		return
	}

	ss, err := h.sharedRepo.SharedStepWithDefinitions(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "shared step not found") {
		return
	}

	Success(w, SharedStepFromDomain(*ss))
}

// UpdateSharedStep частично обновляет shared step: непереданные поля
// сохраняют прежние значения, определения заменяются только когда
// список передан явно.
// PUT /api/v1/shared-steps/{id}
func (h *Handler) UpdateSharedStep(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid shared step id")
		return
	}

	var req UpdateSharedStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name != nil && *req.Name == "" {
		BadRequest(w, "name cannot be empty")
		return
	}

	upd := repo.SharedStepUpdate{Name: req.Name, Description: req.Description}
	if req.Steps != nil {
		drafts, err := prepareDefinitionDrafts(*req.Steps)
		if HandleValidationError(w, h.logger, err) {
			return
		}
		upd.Definitions = &drafts
	}

	if _, err := h.sharedRepo.Update(r.Context(), id, upd); err != nil {
		HandleRepoError(w, h.logger, err, "shared step not found")
		return
	}

	updated, err := h.sharedRepo.SharedStepWithDefinitions(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "shared step not found") {
		return
	}

	Success(w, SharedStepFromDomain(*updated))
}

// DeleteSharedStep удаляет shared step, если на него нет ссылок.
// DELETE /api/v1/shared-steps/{id}
func (h *Handler) DeleteSharedStep(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid shared step id")
		return
	}

	if err := h.sharedRepo.Delete(r.Context(), id); err != nil {
		HandleRepoError(w, h.logger, err, "shared step not found")
		return
	}

	NoContent(w)
}
