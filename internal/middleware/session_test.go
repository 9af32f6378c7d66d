package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/todoapi/internal/model"
)

// --- モック定義 ---

type mockResolver struct {
	resolveFn func(ctx context.Context, header http.Header) (*model.User, *model.Session, error)
}

func (m *mockResolver) ResolveSession(ctx context.Context, header http.Header) (*model.User, *model.Session, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, header)
	}
	return nil, nil, nil
}

// --- テスト ---

func TestSessionMiddleware_ValidSession_InjectsUser(t *testing.T) {
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, header http.Header) (*model.User, *model.Session, error) {
			req := http.Request{Header: header}
			cookie, err := req.Cookie("session_id")
			if err != nil || cookie.Value != "valid-session-id" {
				return nil, nil, nil
			}
			return &model.User{ID: "user-123", Name: "alice"},
				&model.Session{ID: "valid-session-id", UserID: "user-123"}, nil
		},
	}

	mw := NewSessionMiddleware(resolver)

	var capturedUser *model.User
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := UserFromContext(r.Context())
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		capturedUser = user
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "valid-session-id"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if capturedUser == nil || capturedUser.ID != "user-123" {
		t.Errorf("user = %+v, want ID %q", capturedUser, "user-123")
	}
}

func TestSessionMiddleware_NoCredential_Returns401(t *testing.T) {
	resolver := &mockResolver{}
	mw := NewSessionMiddleware(resolver)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/categories/", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestSessionMiddleware_UnknownSession_Returns401(t *testing.T) {
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, header http.Header) (*model.User, *model.Session, error) {
			// 期限切れや存在しないセッションはnilで返るリゾルバーの契約
			return nil, nil, nil
		},
	}
	mw := NewSessionMiddleware(resolver)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/categories/", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "expired-session"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestSessionMiddleware_ResolverError_Returns500(t *testing.T) {
	// セッションストア障害は資格情報不備ではないため401ではなく500
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, header http.Header) (*model.User, *model.Session, error) {
			return nil, nil, context.DeadlineExceeded
		},
	}
	mw := NewSessionMiddleware(resolver)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/categories/remove/cat-1", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "some-session"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}
}

func TestSessionMiddleware_ResolvesOncePerRequest(t *testing.T) {
	resolveCount := 0
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, header http.Header) (*model.User, *model.Session, error) {
			resolveCount++
			return &model.User{ID: "user-once"}, &model.Session{ID: "s", UserID: "user-once"}, nil
		},
	}
	mw := NewSessionMiddleware(resolver)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// ハンドラー内ではコンテキストから取得するのみでリゾルバーは呼ばれない
		if _, err := UserIDFromContext(r.Context()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "s"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if resolveCount != 1 {
		t.Errorf("resolve count = %d, want 1", resolveCount)
	}
}

func TestUserFromContext_NoValue_ReturnsError(t *testing.T) {
	ctx := context.Background()
	if _, err := UserFromContext(ctx); err == nil {
		t.Error("expected error for missing user in context")
	}
}

func TestUserIDFromContext_ValidValue_ReturnsUserID(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &model.User{ID: "user-456"})
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if userID != "user-456" {
		t.Errorf("userID = %q, want %q", userID, "user-456")
	}
}
