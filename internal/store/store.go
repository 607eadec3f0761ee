package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Compass/internal/scoring"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Session is one participant working through one assessment.
type Session struct {
	ID           uuid.UUID `json:"session_id"`
	AssessmentID string    `json:"assessment_id"`
	Participant  string    `json:"participant"`
	Organization string    `json:"organization,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Response is the latest rating for one topic within a session.
type Response struct {
	SessionID uuid.UUID `json:"session_id"`
	TopicID   string    `json:"topic_id"`
	Current   float64   `json:"current"`
	Target    float64   `json:"target"`
	Touched   bool      `json:"touched"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Normalize snaps both ratings onto the scale.
func (r *Response) Normalize() {
	r.Current = scoring.NormalizeScore(r.Current)
	r.Target = scoring.NormalizeScore(r.Target)
}

type SessionFilter struct {
	AssessmentID string
	Participant  string
	Organization string
	Limit        int
	Offset       int
}

const defaultListLimit = 100

type Store interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	ListSessions(ctx context.Context, filter SessionFilter) ([]*Session, error)

	// SaveResponse upserts by (session, topic) and normalizes the ratings.
	SaveResponse(ctx context.Context, r *Response) error
	GetResponses(ctx context.Context, sessionID uuid.UUID) ([]*Response, error)

	Close() error
}

// Open connects to the configured backend and applies the schema.
func Open(ctx context.Context, driver, url string) (Store, error) {
	switch driver {
	case DriverPostgres:
		s, err := NewPostgresStore(ctx, url)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case DriverSQLite, "":
		s, err := NewSQLiteStore(ctx, url)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// SnapshotOf converts stored responses into the engine's input.
func SnapshotOf(responses []*Response) scoring.Snapshot {
	ratings := make(map[string]scoring.TopicScore, len(responses))
	touched := make(map[string]bool, len(responses))
	for _, r := range responses {
		ratings[r.TopicID] = scoring.TopicScore{Current: r.Current, Target: r.Target}
		if r.Touched {
			touched[r.TopicID] = true
		}
	}
	return scoring.NewSnapshot(ratings, touched)
}
