package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS compass_sessions (
	session_id    UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	assessment_id TEXT NOT NULL,
	participant   TEXT NOT NULL,
	organization  TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_compass_sessions_assessment ON compass_sessions (assessment_id);
CREATE INDEX IF NOT EXISTS idx_compass_sessions_participant ON compass_sessions (participant);

CREATE TABLE IF NOT EXISTS compass_responses (
	session_id UUID NOT NULL REFERENCES compass_sessions (session_id) ON DELETE CASCADE,
	topic_id   TEXT NOT NULL,
	current_score DOUBLE PRECISION NOT NULL,
	target_score  DOUBLE PRECISION NOT NULL,
	touched    BOOLEAN NOT NULL DEFAULT false,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (session_id, topic_id)
);`

// Migrate creates the tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const sessionColumns = `session_id, assessment_id, participant, organization, created_at, updated_at`

func (s *PostgresStore) CreateSession(ctx context.Context, sess *Session) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO compass_sessions (assessment_id, participant, organization)
		VALUES ($1, $2, $3)
		RETURNING session_id, created_at, updated_at`,
		sess.AssessmentID, sess.Participant, sess.Organization,
	).Scan(&sess.ID, &sess.CreatedAt, &sess.UpdatedAt)
}

func (s *PostgresStore) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	sess := &Session{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM compass_sessions WHERE session_id = $1`, id,
	).Scan(&sess.ID, &sess.AssessmentID, &sess.Participant, &sess.Organization, &sess.CreatedAt, &sess.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *PostgresStore) ListSessions(ctx context.Context, filter SessionFilter) ([]*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM compass_sessions WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.AssessmentID != "" {
		n++
		query += fmt.Sprintf(" AND assessment_id = $%d", n)
		args = append(args, filter.AssessmentID)
	}
	if filter.Participant != "" {
		n++
		query += fmt.Sprintf(" AND participant = $%d", n)
		args = append(args, filter.Participant)
	}
	if filter.Organization != "" {
		n++
		query += fmt.Sprintf(" AND organization = $%d", n)
		args = append(args, filter.Organization)
	}

	query += " ORDER BY updated_at DESC, created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		if err := rows.Scan(&sess.ID, &sess.AssessmentID, &sess.Participant, &sess.Organization, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *PostgresStore) SaveResponse(ctx context.Context, r *Response) error {
	r.Normalize()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO compass_responses (session_id, topic_id, current_score, target_score, touched)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, topic_id) DO UPDATE SET
			current_score = EXCLUDED.current_score,
			target_score = EXCLUDED.target_score,
			touched = EXCLUDED.touched,
			updated_at = now()
		RETURNING updated_at`,
		r.SessionID, r.TopicID, r.Current, r.Target, r.Touched,
	).Scan(&r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert response: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE compass_sessions SET updated_at = $2 WHERE session_id = $1`, r.SessionID, r.UpdatedAt); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) GetResponses(ctx context.Context, sessionID uuid.UUID) ([]*Response, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT session_id, topic_id, current_score, target_score, touched, updated_at
		FROM compass_responses WHERE session_id = $1
		ORDER BY topic_id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []*Response
	for rows.Next() {
		r := &Response{}
		if err := rows.Scan(&r.SessionID, &r.TopicID, &r.Current, &r.Target, &r.Touched, &r.UpdatedAt); err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}
