// Package auth はセッション解決とログアウト処理を提供する。
//
// セッションの発行（登録・ログイン・トークン生成）は外部のIDプロバイダーが
// 担う。このパッケージはIDプロバイダーが発行した資格情報をリクエストごとに
// 1回だけ解決し、信頼できるユーザー識別に変換するアダプターとして機能する。
package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hitoshi/todoapi/internal/model"
	"github.com/hitoshi/todoapi/internal/repository"
)

// sessionCookieName はセッションIDを保持するHTTP Only Cookieの名前。
const sessionCookieName = "session_id"

// Resolver はリクエストヘッダーからセッションを解決する。
// 認可ゲート（middleware.NewSessionMiddleware）から利用される。
type Resolver struct {
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
}

// NewResolver はResolverを生成する。
func NewResolver(sessionRepo repository.SessionRepository, userRepo repository.UserRepository) *Resolver {
	return &Resolver{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
	}
}

// ResolveSession はリクエストヘッダーから有効なセッションとその所有
// ユーザーを解決する。資格情報が存在しない・期限切れ・不正な場合は
// (nil, nil, nil) を返す（エラーはストア障害のみ）。
// ヘッダーの具体的な形式（Cookie名等）はこのアダプターだけが知る。
func (r *Resolver) ResolveSession(ctx context.Context, header http.Header) (*model.User, *model.Session, error) {
	sessionID := sessionIDFromHeader(header)
	if sessionID == "" {
		return nil, nil, nil
	}

	session, err := r.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return nil, nil, nil
	}

	user, err := r.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		// セッションは有効だがユーザーが消えている場合も未認証として扱う
		return nil, nil, nil
	}

	return user, session, nil
}

// Logout は提示されたセッションを破棄する。
// セッションが存在しない場合もエラーにはならない（冪等）。
func (r *Resolver) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := r.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("セッションの削除に失敗しました: %w", err)
	}
	return nil
}

// SessionIDFromRequest はリクエストからセッションIDを取り出す。
// ログアウトハンドラーで使用する。見つからない場合は空文字列を返す。
func SessionIDFromRequest(req *http.Request) string {
	return sessionIDFromHeader(req.Header)
}

// sessionIDFromHeader はCookieヘッダーからセッションIDを読み取る。
func sessionIDFromHeader(header http.Header) string {
	req := http.Request{Header: header}
	cookie, err := req.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}
