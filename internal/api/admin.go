package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Compass/internal/definition"
	"github.com/MikeSquared-Agency/Compass/internal/metrics"
)

type AdminHandler struct {
	registry *definition.Registry
}

func NewAdminHandler(reg *definition.Registry) *AdminHandler {
	return &AdminHandler{registry: reg}
}

// Reload re-reads the definitions directory. A failed reload keeps serving
// the previous catalog.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	c, err := h.registry.Reload()
	if err != nil {
		metrics.DefinitionReloads.WithLabelValues("error").Inc()
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	metrics.DefinitionReloads.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "reloaded",
		"assessments": len(c.Assessments()),
	})
}
