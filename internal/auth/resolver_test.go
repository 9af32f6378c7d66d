package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/todoapi/internal/model"
)

// --- モック定義 ---

type mockSessionRepo struct {
	findByIDFn   func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

// headerWithSession はセッションCookie付きのヘッダーを生成するヘルパー。
func headerWithSession(t *testing.T, sessionID string) http.Header {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionID})
	return req.Header
}

// --- ResolveSession ---

func TestResolver_ResolveSession_ValidSession(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			if id != "sess-1" {
				t.Errorf("session id = %q, want %q", id, "sess-1")
			}
			return &model.Session{
				ID:        "sess-1",
				UserID:    "user-1",
				ExpiresAt: time.Now().Add(1 * time.Hour),
			}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: "taro@example.com", Name: "Taro"}, nil
		},
	}

	r := NewResolver(sessionRepo, userRepo)

	user, session, err := r.ResolveSession(context.Background(), headerWithSession(t, "sess-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil || session == nil {
		t.Fatal("expected non-nil user and session")
	}
	if user.ID != "user-1" {
		t.Errorf("user.ID = %q, want %q", user.ID, "user-1")
	}
	if session.UserID != "user-1" {
		t.Errorf("session.UserID = %q, want %q", session.UserID, "user-1")
	}
}

func TestResolver_ResolveSession_NoCookie_ReturnsNil(t *testing.T) {
	called := false
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			called = true
			return nil, nil
		},
	}

	r := NewResolver(sessionRepo, &mockUserRepo{})

	user, session, err := r.ResolveSession(context.Background(), http.Header{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil || session != nil {
		t.Error("expected nil user and session for missing cookie")
	}
	// Cookieがなければストアへの問い合わせ自体が行われないこと
	if called {
		t.Error("session store should not be queried without a credential")
	}
}

func TestResolver_ResolveSession_ExpiredSession_ReturnsNil(t *testing.T) {
	// 期限切れセッションはリポジトリ層でnilとして返る
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return nil, nil
		},
	}

	r := NewResolver(sessionRepo, &mockUserRepo{})

	user, session, err := r.ResolveSession(context.Background(), headerWithSession(t, "expired"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil || session != nil {
		t.Error("expected nil user and session for expired session")
	}
}

func TestResolver_ResolveSession_UserMissing_ReturnsNil(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: "ghost"}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
	}

	r := NewResolver(sessionRepo, userRepo)

	user, session, err := r.ResolveSession(context.Background(), headerWithSession(t, "sess-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil || session != nil {
		t.Error("expected nil user and session when user row is gone")
	}
}

func TestResolver_ResolveSession_StoreError_Propagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return nil, storeErr
		},
	}

	r := NewResolver(sessionRepo, &mockUserRepo{})

	_, _, err := r.ResolveSession(context.Background(), headerWithSession(t, "sess-1"))
	if err == nil {
		t.Fatal("expected error from store failure")
	}
	if !errors.Is(err, storeErr) {
		t.Errorf("error should wrap store error: %v", err)
	}
}

// --- Logout ---

func TestResolver_Logout_DeletesSession(t *testing.T) {
	var deletedID string
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}

	r := NewResolver(sessionRepo, &mockUserRepo{})

	if err := r.Logout(context.Background(), "sess-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deletedID != "sess-1" {
		t.Errorf("deleted session id = %q, want %q", deletedID, "sess-1")
	}
}

func TestResolver_Logout_EmptyID_ReturnsError(t *testing.T) {
	r := NewResolver(&mockSessionRepo{}, &mockUserRepo{})

	if err := r.Logout(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty session ID")
	}
}
