package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Test cases
	mux.Handle("GET /api/v1/cases", chain(http.HandlerFunc(h.ListCases)))
	mux.Handle("POST /api/v1/cases", chain(http.HandlerFunc(h.CreateCase)))
	mux.Handle("GET /api/v1/cases/{code}", chain(http.HandlerFunc(h.GetCase)))
	mux.Handle("PUT /api/v1/cases/{code}", chain(http.HandlerFunc(h.UpdateCase)))
	mux.Handle("DELETE /api/v1/cases/{code}", chain(http.HandlerFunc(h.DeleteCase)))
	mux.Handle("PUT /api/v1/cases/{code}/steps", chain(http.HandlerFunc(h.ReplaceCaseSteps)))
	mux.Handle("POST /api/v1/cases/{code}/duplicate", chain(http.HandlerFunc(h.DuplicateCase)))

	// Порядок выполнения
	mux.Handle("PUT /api/v1/cases/reorder", chain(http.HandlerFunc(h.ReorderCases)))
	mux.Handle("POST /api/v1/cases/rebalance-order", chain(http.HandlerFunc(h.RebalanceOrder)))
	mux.Handle("POST /api/v1/cases/bulk-delete", chain(http.HandlerFunc(h.BulkDeleteCases)))

	// Shared steps
	mux.Handle("GET /api/v1/shared-steps", chain(http.HandlerFunc(h.ListSharedSteps)))
	mux.Handle("POST /api/v1/shared-steps", chain(http.HandlerFunc(h.CreateSharedStep)))
	mux.Handle("GET /api/v1/shared-steps/{id}", chain(http.HandlerFunc(h.GetSharedStep)))
	mux.Handle("PUT /api/v1/shared-steps/{id}", chain(http.HandlerFunc(h.UpdateSharedStep)))
	mux.Handle("DELETE /api/v1/shared-steps/{id}", chain(http.HandlerFunc(h.DeleteSharedStep)))

	// Каталог
	mux.Handle("GET /api/v1/definitions", chain(http.HandlerFunc(h.GetDefinitions)))
}
