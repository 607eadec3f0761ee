package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Compass/internal/broker"
	"github.com/MikeSquared-Agency/Compass/internal/definition"
	"github.com/MikeSquared-Agency/Compass/internal/hermes"
	"github.com/MikeSquared-Agency/Compass/internal/metrics"
	"github.com/MikeSquared-Agency/Compass/internal/scoring"
	"github.com/MikeSquared-Agency/Compass/internal/store"
)

type SessionsHandler struct {
	store    store.Store
	hermes   hermes.Client
	registry *definition.Registry
	broker   *broker.Broker
	logger   *slog.Logger
}

func NewSessionsHandler(s store.Store, h hermes.Client, reg *definition.Registry, b *broker.Broker, logger *slog.Logger) *SessionsHandler {
	return &SessionsHandler{store: s, hermes: h, registry: reg, broker: b, logger: logger}
}

type CreateSessionRequest struct {
	AssessmentID string `json:"assessment_id"`
	Participant  string `json:"participant,omitempty"`
	Organization string `json:"organization,omitempty"`
}

func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Participant == "" {
		req.Participant = r.Header.Get(ParticipantHeader)
	}
	if req.AssessmentID == "" || req.Participant == "" {
		writeError(w, http.StatusBadRequest, "assessment_id and participant required")
		return
	}
	if _, ok := h.registry.Catalog().Assessment(req.AssessmentID); !ok {
		writeError(w, http.StatusNotFound, "assessment not found")
		return
	}

	sess := &store.Session{
		AssessmentID: req.AssessmentID,
		Participant:  req.Participant,
		Organization: req.Organization,
	}
	if err := h.store.CreateSession(r.Context(), sess); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.hermes != nil {
		_ = h.hermes.Publish(hermes.SubjectSessionCreated(sess.ID.String()), hermes.SessionCreatedEvent{
			SessionID:    sess.ID.String(),
			AssessmentID: sess.AssessmentID,
			Participant:  sess.Participant,
			Organization: sess.Organization,
			Timestamp:    sess.CreatedAt,
		})
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.SessionFilter{
		AssessmentID: q.Get("assessment_id"),
		Participant:  q.Get("participant"),
		Organization: q.Get("organization"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	sessions, err := h.store.ListSessions(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sessions == nil {
		sessions = []*store.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

type SessionDetail struct {
	*store.Session
	Responses []*store.Response `json:"responses"`
}

func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	responses, err := h.store.GetResponses(r.Context(), sess.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if responses == nil {
		responses = []*store.Response{}
	}
	writeJSON(w, http.StatusOK, SessionDetail{Session: sess, Responses: responses})
}

// rating accepts a JSON number or numeric string. Anything unparseable
// becomes the bottom of the scale.
type rating float64

func (v *rating) UnmarshalJSON(data []byte) error {
	*v = rating(scoring.ParseScore(strings.Trim(string(data), `"`), scoring.ScoreMin))
	return nil
}

// SaveResponseRequest omits Target to mean "same as current"; Touched
// defaults to true.
type SaveResponseRequest struct {
	Current *rating `json:"current"`
	Target  *rating `json:"target,omitempty"`
	Touched *bool   `json:"touched,omitempty"`
}

func (h *SessionsHandler) SaveResponse(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	topicID := chi.URLParam(r, "topic_id")
	def, ok := h.registry.Catalog().Assessment(sess.AssessmentID)
	if !ok {
		writeError(w, http.StatusConflict, "assessment no longer defined")
		return
	}
	if _, ok := def.DimensionOf(topicID); !ok {
		writeError(w, http.StatusBadRequest, "unknown topic")
		return
	}

	var req SaveResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Current == nil {
		writeError(w, http.StatusBadRequest, "current required")
		return
	}

	resp := &store.Response{
		SessionID: sess.ID,
		TopicID:   topicID,
		Current:   float64(*req.Current),
		Target:    float64(*req.Current),
		Touched:   true,
	}
	if req.Target != nil {
		resp.Target = float64(*req.Target)
	}
	if req.Touched != nil {
		resp.Touched = *req.Touched
	}

	if err := h.store.SaveResponse(r.Context(), resp); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.ResponsesSaved.Inc()

	if h.hermes != nil {
		_ = h.hermes.Publish(hermes.SubjectSessionResponse(sess.ID.String()), hermes.ResponseSavedEvent{
			SessionID: sess.ID.String(),
			TopicID:   resp.TopicID,
			Current:   resp.Current,
			Target:    resp.Target,
			Touched:   resp.Touched,
			Timestamp: resp.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SessionsHandler) Report(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	start := time.Now()
	_, rep, err := h.broker.SessionReport(r.Context(), id)
	switch {
	case errors.Is(err, broker.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
		return
	case errors.Is(err, broker.ErrUnknownAssessment):
		writeError(w, http.StatusConflict, "assessment no longer defined")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.ReportBuildDuration.WithLabelValues(metrics.SourceSession).Observe(time.Since(start).Seconds())
	metrics.ReportsComputed.WithLabelValues(metrics.SourceSession).Inc()

	writeJSON(w, http.StatusOK, rep)
}

func (h *SessionsHandler) loadSession(w http.ResponseWriter, r *http.Request) (*store.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return nil, false
	}
	sess, err := h.store.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if sess == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}
