package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/todoapi/internal/model"
)

// chainResolver は固定ユーザーを返すテスト用リゾルバー。
func chainResolver(sessionID, userID string) *mockResolver {
	return &mockResolver{
		resolveFn: func(ctx context.Context, header http.Header) (*model.User, *model.Session, error) {
			req := http.Request{Header: header}
			cookie, err := req.Cookie("session_id")
			if err != nil || cookie.Value != sessionID {
				return nil, nil, nil
			}
			return &model.User{ID: userID},
				&model.Session{ID: sessionID, UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
}

// TestMiddlewareChain_FullStack_AuthenticatedRequest は
// CORS→Session→RateLimitの順に組んだチェーンをリクエストが通過することを検証する。
func TestMiddlewareChain_FullStack_AuthenticatedRequest(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    2,
		CreateRate:      1,
		CreateBurst:     10,
		CleanupInterval: 1 * time.Minute,
	})
	defer rl.Stop()

	sessionMW := NewSessionMiddleware(chainResolver("chain-session", "user-chain"))
	corsMW := NewCORSMiddleware("http://localhost:5173")
	rateMW := rl.GeneralMiddleware()

	handler := corsMW(sessionMW(rateMW(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := UserIDFromContext(r.Context())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"user_id": userID})
	}))))

	// バースト内の2回は通る
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/categories/", nil)
		req.AddCookie(&http.Cookie{Name: "session_id", Value: "chain-session"})
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	// 3回目は429
	req3 := httptest.NewRequest(http.MethodGet, "/api/categories/", nil)
	req3.AddCookie(&http.Cookie{Name: "session_id", Value: "chain-session"})
	w3 := httptest.NewRecorder()

	handler.ServeHTTP(w3, req3)

	if w3.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("request 3: status = %d, want %d", w3.Result().StatusCode, http.StatusTooManyRequests)
	}
}

// TestMiddlewareChain_UnauthenticatedRequest_StopsAtSession は
// 未認証リクエストがセッションゲートで止まり、後続のレートリミッターに
// 到達しないことを検証する。
func TestMiddlewareChain_UnauthenticatedRequest_StopsAtSession(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	defer rl.Stop()

	sessionMW := NewSessionMiddleware(chainResolver("valid", "user-x"))
	rateMW := rl.GeneralMiddleware()

	handler := sessionMW(rateMW(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/categories/", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "wrong"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
	if rl.GeneralLimiterCount() != 0 {
		t.Error("rate limiter should not have entries for unauthenticated requests")
	}
}

// TestMiddlewareChain_CSRFBeforeSession は状態変更リクエストが
// セッション検証より先にCSRF検証で拒否されることを検証する。
func TestMiddlewareChain_CSRFBeforeSession(t *testing.T) {
	resolveCount := 0
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, header http.Header) (*model.User, *model.Session, error) {
			resolveCount++
			return &model.User{ID: "user-y"}, &model.Session{ID: "s"}, nil
		},
	}

	csrfMW := NewCSRFMiddleware(CSRFConfig{})
	sessionMW := NewSessionMiddleware(resolver)

	handler := csrfMW(sessionMW(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/categories/new", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "s"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusForbidden)
	}
	if resolveCount != 0 {
		t.Errorf("session resolver should not run when CSRF fails, ran %d times", resolveCount)
	}
}
