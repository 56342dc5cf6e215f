package store

import (
	"context"
	"testing"
	"time"
)

func TestSessionStore_CreateAndFind(t *testing.T) {
	s := NewSessionStore(newTestDB(t))
	ctx := context.Background()

	sess, err := s.Create(ctx, 7, time.Hour)
	if err != nil {
		t.Fatalf("Create() error = %v, want nil", err)
	}
	if sess.ID == "" {
		t.Fatal("Create() returned empty session id")
	}

	got, err := s.Find(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Find() error = %v, want nil", err)
	}
	if got.UserID != 7 {
		t.Errorf("session user id = %d, want 7", got.UserID)
	}
	if got.Revoked {
		t.Error("new session is revoked, want active")
	}
}

func TestSessionStore_FindUnknown(t *testing.T) {
	s := NewSessionStore(newTestDB(t))

	_, err := s.Find(context.Background(), "no-such-session")
	if err != ErrSessionNotFound {
		t.Errorf("Find() error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStore_Revoke(t *testing.T) {
	s := NewSessionStore(newTestDB(t))
	ctx := context.Background()

	sess, err := s.Create(ctx, 7, time.Hour)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Revoke(ctx, sess.ID); err != nil {
		t.Fatalf("Revoke() error = %v, want nil", err)
	}

	got, err := s.Find(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if !got.Revoked {
		t.Error("session not revoked after Revoke()")
	}

	// 吊销不存在的会话不算错误
	if err := s.Revoke(ctx, "no-such-session"); err != nil {
		t.Errorf("Revoke(unknown) error = %v, want nil", err)
	}
}
