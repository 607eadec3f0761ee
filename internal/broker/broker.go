package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Compass/internal/definition"
	"github.com/MikeSquared-Agency/Compass/internal/hermes"
	"github.com/MikeSquared-Agency/Compass/internal/metrics"
	"github.com/MikeSquared-Agency/Compass/internal/report"
	"github.com/MikeSquared-Agency/Compass/internal/store"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrUnknownAssessment = errors.New("unknown assessment")
)

const (
	refreshQueueSize = 256
	refreshTimeout   = 10 * time.Second
)

// Broker rebuilds session reports when responses change and announces the
// result on the event bus.
type Broker struct {
	store    store.Store
	hermes   hermes.Client
	registry *definition.Registry
	builder  *report.Builder
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   map[uuid.UUID]bool
	queue     chan uuid.UUID

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// New creates a Broker. h may be nil, in which case nothing is published.
func New(s store.Store, h hermes.Client, reg *definition.Registry, builder *report.Builder, logger *slog.Logger) *Broker {
	return &Broker{
		store:    s,
		hermes:   h,
		registry: reg,
		builder:  builder,
		logger:   logger,
		pending:  make(map[uuid.UUID]bool),
		queue:    make(chan uuid.UUID, refreshQueueSize),
		stopCh:   make(chan struct{}),
	}
}

func (b *Broker) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.refreshLoop(ctx)
}

func (b *Broker) Stop() {
	b.stopOnce.Do(func() { close(b.stopCh) })
	b.wg.Wait()
}

// Enqueue schedules a refresh. Requests for a session already waiting in the
// queue are coalesced. It reports false when the request was dropped.
func (b *Broker) Enqueue(sessionID uuid.UUID) bool {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()
	if b.pending[sessionID] {
		return true
	}
	select {
	case b.queue <- sessionID:
		b.pending[sessionID] = true
		return true
	default:
		metrics.RefreshQueueDropped.Inc()
		b.logger.Warn("refresh queue full, dropping request", "session_id", sessionID)
		return false
	}
}

func (b *Broker) refreshLoop(ctx context.Context) {
	defer b.wg.Done()
	for {
		select {
		case <-b.stopCh:
			return
		case <-ctx.Done():
			return
		case id := <-b.queue:
			b.pendingMu.Lock()
			delete(b.pending, id)
			b.pendingMu.Unlock()

			rctx, cancel := context.WithTimeout(ctx, refreshTimeout)
			if _, err := b.Refresh(rctx, id, metrics.SourceEvent); err != nil {
				b.logger.Warn("report refresh failed", "session_id", id, "error", err)
			}
			cancel()
		}
	}
}

// SetupSubscriptions listens for saved responses on every session.
func (b *Broker) SetupSubscriptions() {
	if b.hermes == nil {
		return
	}

	_ = b.hermes.Subscribe(hermes.SubjectResponseSaved, func(subject string, data []byte) {
		var evt hermes.ResponseSavedEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			b.logger.Warn("invalid response event", "subject", subject, "error", err)
			return
		}
		raw := evt.SessionID
		if raw == "" {
			raw, _ = hermes.SessionIDFromSubject(subject)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			b.logger.Warn("response event without valid session id", "subject", subject)
			return
		}
		b.Enqueue(id)
	})
}

// SessionReport loads a session with its responses and builds its report
// against the active catalog.
func (b *Broker) SessionReport(ctx context.Context, sessionID uuid.UUID) (*store.Session, *report.Report, error) {
	sess, err := b.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return nil, nil, ErrSessionNotFound
	}

	catalog := b.registry.Catalog()
	def, ok := catalog.Assessment(sess.AssessmentID)
	if !ok {
		return sess, nil, fmt.Errorf("%w: %s", ErrUnknownAssessment, sess.AssessmentID)
	}

	responses, err := b.store.GetResponses(ctx, sessionID)
	if err != nil {
		return sess, nil, fmt.Errorf("get responses: %w", err)
	}

	rep := b.builder.Build(def, store.SnapshotOf(responses), catalog.Rules, catalog.Templates)
	return sess, rep, nil
}

// Refresh rebuilds a session report, records metrics under source and
// publishes a ReportComputedEvent.
func (b *Broker) Refresh(ctx context.Context, sessionID uuid.UUID, source string) (*report.Report, error) {
	start := time.Now()
	sess, rep, err := b.SessionReport(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	metrics.ReportBuildDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	metrics.ReportsComputed.WithLabelValues(source).Inc()

	b.publishReport(sess, rep)
	b.logger.Info("report refreshed",
		"session_id", sess.ID,
		"assessment_id", sess.AssessmentID,
		"stage", rep.Organization.Stage.ID,
		"source", source,
	)
	return rep, nil
}

func (b *Broker) publishReport(sess *store.Session, rep *report.Report) {
	if b.hermes == nil {
		return
	}
	evt := hermes.ReportComputedEvent{
		SessionID:       sess.ID.String(),
		AssessmentID:    sess.AssessmentID,
		StageID:         rep.Organization.Stage.ID,
		StageLabel:      rep.Organization.Stage.Label,
		ConfidenceLabel: string(rep.Organization.ConfidenceLabel),
		ConfidenceRatio: rep.Organization.ConfidenceRatio,
		CurrentAvg:      rep.Overall.CurrentAvg,
		TargetAvg:       rep.Overall.TargetAvg,
		GapAvg:          rep.Overall.GapAvg,
		Timestamp:       rep.GeneratedAt,
	}
	if top, ok := rep.TopRecommendation(); ok {
		evt.TopRecommendation = top.Title
	}
	if err := b.hermes.Publish(hermes.SubjectSessionReport(evt.SessionID), evt); err != nil {
		b.logger.Warn("failed to publish report event", "session_id", evt.SessionID, "error", err)
	}
}
