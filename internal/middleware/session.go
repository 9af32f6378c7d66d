// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/todoapi/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userContextKey はリクエストコンテキストに認証済みユーザーを格納するためのキー。
var userContextKey = contextKey("authenticated_user")

// IdentityResolver はリクエストヘッダーからセッションを解決するインターフェース。
// 実装はauth.Resolver。資格情報が無効な場合は(nil, nil, nil)を返す契約。
type IdentityResolver interface {
	ResolveSession(ctx context.Context, header http.Header) (*model.User, *model.Session, error)
}

// NewSessionMiddleware は認可ゲートとなるミドルウェアを返す。
// リクエストごとに1回だけIdentityResolverを呼び出し、解決に成功した場合は
// 認証済みユーザーをリクエストコンテキストに注入して後続処理へ進む。
// 未認証リクエストには401 Unauthorizedを返し、保護されたハンドラーは
// 一切実行されない。
func NewSessionMiddleware(resolver IdentityResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _, err := resolver.ResolveSession(r.Context(), r.Header)
			if err != nil {
				// 解決のエラーはセッションストア障害を意味する。
				// 資格情報不備（nilユーザー）と区別して500で返す。
				slog.Error("failed to resolve session",
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}
			if user == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext はリクエストコンテキストから認証済みユーザーを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func UserFromContext(ctx context.Context) (*model.User, error) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok || user == nil || user.ID == "" {
		return nil, fmt.Errorf("authenticated user not found in context")
	}
	return user, nil
}

// UserIDFromContext はリクエストコンテキストから認証済みユーザーIDを取得する。
func UserIDFromContext(ctx context.Context) (string, error) {
	user, err := UserFromContext(ctx)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// ContextWithUser はコンテキストに認証済みユーザーを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
