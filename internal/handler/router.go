package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/todoapi/internal/metrics"
	"github.com/hitoshi/todoapi/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionResolver   middleware.IdentityResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	Logger            *slog.Logger

	// メトリクス
	Metrics         metrics.MetricsCollector
	MetricsGatherer prometheus.Gatherer

	// ヘルスチェック
	DB Pinger

	// サービス
	CategoryService CategoryServiceInterface
	LogoutService   LogoutServiceInterface

	// セッションCookie属性（ログアウト時の失効用）
	CookieSecure bool
	CookieDomain string
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics → SecurityHeaders → CORS → CSRF
//	（保護ルートではさらに Session → RateLimit(General)）
//
// /health、/metrics、/api/csrf-tokenは認可ゲートの外に置く。
// POST /api/logoutもゲート外だが、CSRF検証は通過する必要がある。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.Metrics != nil {
		r.Use(metrics.NewHTTPMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

	categoryHandler := NewCategoryHandler(deps.CategoryService, deps.Metrics)
	userHandler := NewUserHandler(deps.LogoutService, deps.CookieSecure, deps.CookieDomain)

	// --- 認証不要のルート ---

	r.Method(http.MethodGet, "/health", NewHealthHandler(deps.DB))
	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// ログアウトはセッションの有無によらず冪等に成功する
	r.Post("/api/logout", userHandler.Logout)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionResolver))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ユーザー情報
		r.Get("/api/user", userHandler.Me)

		// カテゴリ管理
		r.Route("/api/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.ListCategories)

			// POST /api/categories/new - 作成専用レート制限を追加
			r.With(deps.RateLimiter.CategoryCreationMiddleware()).Post("/new", categoryHandler.CreateCategory)

			r.Delete("/remove/{id}", categoryHandler.DeleteCategory)
		})
	})

	return r
}
