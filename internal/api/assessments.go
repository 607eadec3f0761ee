package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Compass/internal/definition"
	"github.com/MikeSquared-Agency/Compass/internal/metrics"
	"github.com/MikeSquared-Agency/Compass/internal/report"
	"github.com/MikeSquared-Agency/Compass/internal/scoring"
)

type AssessmentsHandler struct {
	registry *definition.Registry
	builder  *report.Builder
}

func NewAssessmentsHandler(reg *definition.Registry, builder *report.Builder) *AssessmentsHandler {
	return &AssessmentsHandler{registry: reg, builder: builder}
}

type AssessmentSummary struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	DimensionCount int    `json:"dimension_count"`
	TopicCount     int    `json:"topic_count"`
}

func (h *AssessmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	defs := h.registry.Catalog().Assessments()
	out := make([]AssessmentSummary, 0, len(defs))
	for _, d := range defs {
		out = append(out, AssessmentSummary{
			ID:             d.ID,
			Title:          d.Title,
			Description:    d.Description,
			DimensionCount: len(d.Dimensions),
			TopicCount:     d.TopicCount(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AssessmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	def, ok := h.registry.Catalog().Assessment(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "assessment not found")
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// EvaluateRequest is a snapshot posted for stateless evaluation. When Touched
// is omitted every rated topic counts as touched.
type EvaluateRequest struct {
	Responses map[string]scoring.TopicScore `json:"responses"`
	Touched   map[string]bool               `json:"touched,omitempty"`
}

// Snapshot converts the request into engine input.
func (req EvaluateRequest) Snapshot() scoring.Snapshot {
	touched := req.Touched
	if touched == nil {
		touched = make(map[string]bool, len(req.Responses))
		for id := range req.Responses {
			touched[id] = true
		}
	}
	return scoring.NewSnapshot(req.Responses, touched)
}

// Report evaluates a posted snapshot without persisting anything.
func (h *AssessmentsHandler) Report(w http.ResponseWriter, r *http.Request) {
	catalog := h.registry.Catalog()
	def, ok := catalog.Assessment(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "assessment not found")
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start := time.Now()
	rep := h.builder.Build(def, req.Snapshot(), catalog.Rules, catalog.Templates)
	metrics.ReportBuildDuration.WithLabelValues(metrics.SourceStateless).Observe(time.Since(start).Seconds())
	metrics.ReportsComputed.WithLabelValues(metrics.SourceStateless).Inc()

	writeJSON(w, http.StatusOK, rep)
}
