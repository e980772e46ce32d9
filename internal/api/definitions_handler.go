package api

import (
	"net/http"

	"github.com/shaiso/Caseflow/internal/catalog"
)

// DefinitionsResponse — каталог действий, проверок и клавиш для клиентов.
type DefinitionsResponse struct {
	Actions            []catalog.ActionDefinition    `json:"actions"`
	Assertions         []catalog.AssertionDefinition `json:"assertions"`
	AssertionsByAction map[string][]string           `json:"assertionsByAction"`
	KeyOptions         []catalog.KeyOption           `json:"keyOptions"`
}

// GetDefinitions возвращает статический каталог шагов.
// GET /api/v1/definitions
func (h *Handler) GetDefinitions(w http.ResponseWriter, r *http.Request) {
	actions := catalog.Actions()

	byAction := make(map[string][]string, len(actions))
	for _, a := range actions {
		byAction[a.Value] = catalog.AllowedAssertions(a.Value)
	}

	Success(w, DefinitionsResponse{
		Actions:            actions,
		Assertions:         catalog.Assertions(),
		AssertionsByAction: byAction,
		KeyOptions:         catalog.Keys(),
	})
}
