//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE compass_responses CASCADE")
		_, _ = s.pool.Exec(ctx, "TRUNCATE compass_sessions CASCADE")
		s.Close()
	})

	return s
}

func TestPostgresSessionRoundTrip(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	sess := &Session{AssessmentID: "ai-readiness", Participant: "ana", Organization: "Acme"}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if sess.ID == uuid.Nil {
		t.Fatal("expected non-nil session ID after create")
	}

	got, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.Participant != "ana" || got.Organization != "Acme" {
		t.Errorf("unexpected session: %+v", got)
	}

	missing, err := s.GetSession(ctx, uuid.New())
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown session")
	}
}

func TestPostgresSaveResponseUpsert(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	sess := &Session{AssessmentID: "ai-readiness", Participant: "ana"}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	first := &Response{SessionID: sess.ID, TopicID: "data-quality", Current: 2.2, Target: 7, Touched: true}
	if err := s.SaveResponse(ctx, first); err != nil {
		t.Fatalf("SaveResponse failed: %v", err)
	}
	if first.Current != 2.0 || first.Target != 5.0 {
		t.Errorf("expected normalized 2.0/5.0, got %v/%v", first.Current, first.Target)
	}

	if err := s.SaveResponse(ctx, &Response{SessionID: sess.ID, TopicID: "data-quality", Current: 3, Target: 4, Touched: true}); err != nil {
		t.Fatalf("SaveResponse failed: %v", err)
	}

	responses, err := s.GetResponses(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetResponses failed: %v", err)
	}
	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}
	if responses[0].Current != 3 || responses[0].Target != 4 {
		t.Errorf("expected upserted 3/4, got %v/%v", responses[0].Current, responses[0].Target)
	}

	sessions, err := s.ListSessions(ctx, SessionFilter{Participant: "ana"})
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
}
