package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/todoapi/internal/auth"
	"github.com/hitoshi/todoapi/internal/middleware"
	"github.com/hitoshi/todoapi/internal/model"
)

// LogoutServiceInterface はログアウトハンドラーが必要とするサービスインターフェース。
type LogoutServiceInterface interface {
	// Logout は提示されたセッションを破棄する（冪等）。
	Logout(ctx context.Context, sessionID string) error
}

// UserHandler はユーザー情報とセッション管理のHTTPハンドラー。
type UserHandler struct {
	logout       LogoutServiceInterface
	cookieSecure bool
	cookieDomain string
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(logout LogoutServiceInterface, cookieSecure bool, cookieDomain string) *UserHandler {
	return &UserHandler{
		logout:       logout,
		cookieSecure: cookieSecure,
		cookieDomain: cookieDomain,
	}
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Me は認証済みユーザー自身の情報を返す。
// GET /api/user
// ユーザーは認可ゲートがコンテキストに注入済みのため、ここでは
// ストアへの問い合わせは発生しない。
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	})
}

// Logout はセッションを破棄し、セッションCookieを失効させる。
// POST /api/logout
// セッションが既に存在しない場合も成功を返す（冪等）。
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionIDFromRequest(r)
	if sessionID != "" {
		if err := h.logout.Logout(r.Context(), sessionID); err != nil {
			slog.Error("failed to destroy session", slog.String("error", err.Error()))
			middleware.WriteInternalServerError(w)
			return
		}
	}

	// ブラウザ側のCookieを即時失効させる
	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    "",
		Path:     "/",
		Domain:   h.cookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{
		Status:  "success",
		Message: "Logged out successfully",
	})
}
