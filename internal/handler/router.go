package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/newsgate/internal/metrics"
	"github.com/hitoshi/newsgate/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	TokenVerifier     middleware.TokenVerifier

	// サービス
	NewsService NewsServiceInterface
	AuthService AuthServiceInterface

	// /healthが報告するプロバイダキーの設定状態
	APIKeyConfigured bool

	// /metrics用。nilの場合はエンドポイントを公開しない。
	MetricsGatherer prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを
// 構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → RateLimit
//
// ベアラートークン必須のルート（logout/refresh/me/update-profile）のみ
// 認証ミドルウェアを通す。未定義ルートはJSONの404で応答する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware())
	}

	// 未定義ルートへの統一404
	r.NotFound(routeNotFound)
	r.MethodNotAllowed(routeNotFound)

	newsHandler := NewNewsHandler(deps.NewsService, deps.APIKeyConfigured)
	authHandler := NewAuthHandler(deps.AuthService)

	r.Route("/api/v1", func(r chi.Router) {
		// --- 認証不要のルート ---
		r.Get("/health", newsHandler.Health)
		r.Get("/categories", newsHandler.Categories)
		r.Get("/top-headlines", newsHandler.TopHeadlines)
		r.Get("/search", newsHandler.Search)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)

			// --- ベアラートークンが必要なルート ---
			r.Group(func(r chi.Router) {
				r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))

				r.Post("/logout", authHandler.Logout)
				r.Post("/refresh", authHandler.Refresh)
				r.Get("/me", authHandler.Me)
				r.Put("/update-profile", authHandler.UpdateProfile)
			})
		})
	})

	// Prometheusスクレイプ用
	if deps.MetricsGatherer != nil {
		r.Get("/metrics", metrics.Handler(deps.MetricsGatherer).ServeHTTP)
	}

	return r
}

// routeNotFound は未定義ルートへの404レスポンスを書き込む。
func routeNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "Route not found",
	})
}
