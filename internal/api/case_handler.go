package api

import (
	"encoding/json"
	"net/http"

	"github.com/shaiso/Caseflow/internal/domain"
	"github.com/shaiso/Caseflow/internal/repo"
)

// ListCases возвращает все тест-кейсы в порядке выполнения.
// GET /api/v1/cases
func (h *Handler) ListCases(w http.ResponseWriter, r *http.Request) {
	cases, err := h.caseRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]CaseResponse, len(cases))
	for i, tc := range cases {
		result[i] = CaseFromDomain(tc)
	}

	List(w, result, len(result))
}

// CreateCase создаёт тест-кейс, при необходимости сразу с шагами.
// POST /api/v1/cases
func (h *Handler) CreateCase(w http.ResponseWriter, r *http.Request) {
	var req CreateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Title == "" {
		BadRequest(w, "title is required")
		return
	}

	drafts, err := prepareCaseDrafts(req.Steps)
	if HandleValidationError(w, h.logger, err) {
		return
	}

	tc := &domain.TestCase{
		Title:       req.Title,
		Description: req.Description,
		Suite:       req.Suite,
		Priority:    req.Priority,
		Tags:        req.Tags,
		CreatedBy:   actorID(r),
	}

	if err := h.caseRepo.Create(r.Context(), tc, drafts); err != nil {
		HandleRepoError(w, h.logger, err, "")
		return
	}

	if h.publisher != nil {
		if err := h.publisher.PublishCaseCreated(r.Context(), tc.Code, tc.CreatedBy); err != nil {
			h.logger.Warn("publish case.created failed", "case_id", tc.Code, "error", err)
		}
	}

	Created(w, CaseFromDomain(*tc))
}

// GetCase возвращает тест-кейс с собранным деревом шагов.
// GET /api/v1/cases/{code}
func (h *Handler) GetCase(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	tc, err := h.caseRepo.GetByCode(r.Context(), code)
	if HandleRepoError(w, h.logger, err, "test case not found") {
		return
	}

	detail, err := h.caseDetail(r, *tc)
	if HandleRepoError(w, h.logger, err, "test case not found") {
		return
	}
	Success(w, detail)
}

// UpdateCase частично обновляет кейс; Steps в запросе заменяет шаги целиком.
// PUT /api/v1/cases/{code}
func (h *Handler) UpdateCase(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	var req UpdateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	status, ok := parseStatus(req.Status)
	if !ok {
		BadRequest(w, "invalid last_status")
		return
	}

	var drafts []domain.StepDraft
	if req.Steps != nil {
		var err error
		drafts, err = prepareCaseDrafts(*req.Steps)
		if HandleValidationError(w, h.logger, err) {
			return
		}
	}

	tc, err := h.caseRepo.Update(r.Context(), code, repo.CaseUpdate{
		Title:       req.Title,
		Description: req.Description,
		Suite:       req.Suite,
		Priority:    req.Priority,
		Tags:        req.Tags,
		Status:      status,
	})
	if HandleRepoError(w, h.logger, err, "test case not found") {
		return
	}

	if req.Steps != nil {
		tc, err = h.caseRepo.ReplaceSteps(r.Context(), code, drafts)
		if HandleRepoError(w, h.logger, err, "test case not found") {
			return
		}
	}

	if h.publisher != nil {
		if err := h.publisher.PublishCaseUpdated(r.Context(), tc.Code, actorID(r)); err != nil {
			h.logger.Warn("publish case.updated failed", "case_id", tc.Code, "error", err)
		}
	}

	detail, err := h.caseDetail(r, *tc)
	if HandleRepoError(w, h.logger, err, "test case not found") {
		return
	}
	Success(w, detail)
}

// ReplaceCaseSteps целиком заменяет список шагов кейса.
// PUT /api/v1/cases/{code}/steps
func (h *Handler) ReplaceCaseSteps(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	var req ReplaceStepsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	drafts, err := prepareCaseDrafts(req.Steps)
	if HandleValidationError(w, h.logger, err) {
		return
	}

	tc, err := h.caseRepo.ReplaceSteps(r.Context(), code, drafts)
	if HandleRepoError(w, h.logger, err, "test case not found") {
		return
	}

	if h.publisher != nil {
		if err := h.publisher.PublishCaseUpdated(r.Context(), tc.Code, actorID(r)); err != nil {
			h.logger.Warn("publish case.updated failed", "case_id", tc.Code, "error", err)
		}
	}

	detail, err := h.caseDetail(r, *tc)
	if HandleRepoError(w, h.logger, err, "test case not found") {
		return
	}
	Success(w, detail)
}

// DeleteCase удаляет кейс вместе с шагами.
// DELETE /api/v1/cases/{code}
func (h *Handler) DeleteCase(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	if err := h.caseRepo.Delete(r.Context(), code); err != nil {
		HandleRepoError(w, h.logger, err, "test case not found")
		return
	}

	if h.publisher != nil {
		if err := h.publisher.PublishCaseDeleted(r.Context(), code, actorID(r)); err != nil {
			h.logger.Warn("publish case.deleted failed", "case_id", code, "error", err)
		}
	}

	NoContent(w)
}

// BulkDeleteCases удаляет несколько кейсов за один запрос.
// POST /api/v1/cases/bulk-delete
func (h *Handler) BulkDeleteCases(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}
	if len(req.CaseIDs) == 0 {
		BadRequest(w, "case_ids is required")
		return
	}

	deleted, err := h.caseRepo.BulkDelete(r.Context(), req.CaseIDs)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	if h.publisher != nil {
		actor := actorID(r)
		for _, code := range req.CaseIDs {
			if err := h.publisher.PublishCaseDeleted(r.Context(), code, actor); err != nil {
				h.logger.Warn("publish case.deleted failed", "case_id", code, "error", err)
			}
		}
	}

	Success(w, map[string]any{"deleted": deleted})
}

// DuplicateCase создаёт копию кейса сразу после оригинала.
// POST /api/v1/cases/{code}/duplicate
func (h *Handler) DuplicateCase(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	dup, err := h.caseRepo.Duplicate(r.Context(), code, actorID(r))
	if HandleRepoError(w, h.logger, err, "test case not found") {
		return
	}

	if h.publisher != nil {
		if err := h.publisher.PublishCaseCreated(r.Context(), dup.Code, dup.CreatedBy); err != nil {
			h.logger.Warn("publish case.created failed", "case_id", dup.Code, "error", err)
		}
	}

	Created(w, CaseFromDomain(*dup))
}

// ReorderCases перемещает группу кейсов между якорями.
// PUT /api/v1/cases/reorder
func (h *Handler) ReorderCases(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}
	if len(req.MovedIDs) == 0 {
		BadRequest(w, "movedIds is required")
		return
	}

	assigned, err := h.caseRepo.Reorder(r.Context(), req.PrevID, req.NextID, req.MovedIDs)
	if HandleRepoError(w, h.logger, err, "test case not found") {
		return
	}

	if h.publisher != nil {
		if err := h.publisher.PublishCasesReordered(r.Context(), req.MovedIDs, actorID(r)); err != nil {
			h.logger.Warn("publish case.reordered failed", "error", err)
		}
	}

	result := make(map[string]float64, len(assigned))
	for _, item := range assigned {
		result[item.ID] = item.Key
	}
	Success(w, map[string]any{"execution_order": result})
}

// RebalanceOrder переписывает ключи порядка в плотные целые по запросу.
// POST /api/v1/cases/rebalance-order
func (h *Handler) RebalanceOrder(w http.ResponseWriter, r *http.Request) {
	updated, err := h.caseRepo.RebalanceOrder(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	if h.publisher != nil {
		if err := h.publisher.PublishOrderRebalanced(r.Context(), updated); err != nil {
			h.logger.Warn("publish order.rebalanced failed", "error", err)
		}
	}

	Success(w, map[string]any{"updated": updated})
}

// caseDetail собирает дерево шагов кейса для ответа.
func (h *Handler) caseDetail(r *http.Request, tc domain.TestCase) (*CaseDetailResponse, error) {
	steps, err := h.caseRepo.ListSteps(r.Context(), tc.ID)
	if err != nil {
		return nil, err
	}
	nodes, err := h.composer.Compose(r.Context(), steps)
	if err != nil {
		return nil, err
	}
	return &CaseDetailResponse{
		CaseResponse: CaseFromDomain(tc),
		Steps:        nodes,
	}, nil
}

// parseStatus проверяет статус из запроса. nil допустим (поле не меняется).
func parseStatus(s *string) (*domain.CaseStatus, bool) {
	if s == nil {
		return nil, true
	}
	status := domain.CaseStatus(*s)
	switch status {
	case domain.CaseStatusPending, domain.CaseStatusPassed, domain.CaseStatusFailed, domain.CaseStatusSkipped:
		return &status, true
	}
	return nil, false
}
