package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the single-node backend. Timestamps are stored as
// fixed-width UTC text so they sort chronologically.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens path, creating parent directories as needed.
// ":memory:" gives a private in-process database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS compass_sessions (
	session_id    TEXT PRIMARY KEY,
	assessment_id TEXT NOT NULL,
	participant   TEXT NOT NULL,
	organization  TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_compass_sessions_assessment ON compass_sessions (assessment_id);
CREATE INDEX IF NOT EXISTS idx_compass_sessions_participant ON compass_sessions (participant);

CREATE TABLE IF NOT EXISTS compass_responses (
	session_id TEXT NOT NULL REFERENCES compass_sessions (session_id) ON DELETE CASCADE,
	topic_id   TEXT NOT NULL,
	current_score REAL NOT NULL,
	target_score  REAL NOT NULL,
	touched    INTEGER NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (session_id, topic_id)
);`

// Migrate creates the tables if they do not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateSession(ctx context.Context, sess *Session) error {
	now := s.now()
	id := uuid.New()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO compass_sessions (session_id, assessment_id, participant, organization, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), sess.AssessmentID, sess.Participant, sess.Organization, formatTime(now), formatTime(now),
	)
	if err != nil {
		return err
	}
	sess.ID = id
	sess.CreatedAt = now
	sess.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM compass_sessions WHERE session_id = ?`, id.String())
	sess, err := scanSQLiteSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *SQLiteStore) ListSessions(ctx context.Context, filter SessionFilter) ([]*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM compass_sessions WHERE 1=1`
	args := []interface{}{}

	if filter.AssessmentID != "" {
		query += " AND assessment_id = ?"
		args = append(args, filter.AssessmentID)
	}
	if filter.Participant != "" {
		query += " AND participant = ?"
		args = append(args, filter.Participant)
	}
	if filter.Organization != "" {
		query += " AND organization = ?"
		args = append(args, filter.Organization)
	}

	query += " ORDER BY updated_at DESC, created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, max(filter.Offset, 0))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSQLiteSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *SQLiteStore) SaveResponse(ctx context.Context, r *Response) error {
	r.Normalize()
	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO compass_responses (session_id, topic_id, current_score, target_score, touched, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id, topic_id) DO UPDATE SET
			current_score = excluded.current_score,
			target_score = excluded.target_score,
			touched = excluded.touched,
			updated_at = excluded.updated_at`,
		r.SessionID.String(), r.TopicID, r.Current, r.Target, r.Touched, formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("upsert response: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE compass_sessions SET updated_at = ? WHERE session_id = ?`,
		formatTime(now), r.SessionID.String()); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	r.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) GetResponses(ctx context.Context, sessionID uuid.UUID) ([]*Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, topic_id, current_score, target_score, touched, updated_at
		FROM compass_responses WHERE session_id = ?
		ORDER BY topic_id ASC`, sessionID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []*Response
	for rows.Next() {
		r := &Response{}
		var id, updated string
		if err := rows.Scan(&id, &r.TopicID, &r.Current, &r.Target, &r.Touched, &updated); err != nil {
			return nil, err
		}
		if r.SessionID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse session id: %w", err)
		}
		if r.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteSession(row rowScanner) (*Session, error) {
	sess := &Session{}
	var id, created, updated string
	if err := row.Scan(&id, &sess.AssessmentID, &sess.Participant, &sess.Organization, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if sess.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse session id: %w", err)
	}
	if sess.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if sess.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return sess, nil
}

const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", v, err)
	}
	return t, nil
}
