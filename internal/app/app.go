// Package app はアプリケーションの初期化と起動を提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/newsgate/internal/auth"
	"github.com/hitoshi/newsgate/internal/config"
	"github.com/hitoshi/newsgate/internal/database"
	"github.com/hitoshi/newsgate/internal/gnews"
	"github.com/hitoshi/newsgate/internal/handler"
	"github.com/hitoshi/newsgate/internal/logger"
	"github.com/hitoshi/newsgate/internal/mail"
	"github.com/hitoshi/newsgate/internal/metrics"
	"github.com/hitoshi/newsgate/internal/middleware"
	"github.com/hitoshi/newsgate/internal/news"
	"github.com/hitoshi/newsgate/internal/repository"
)

// Init はアプリケーションの初期化を行う。
// .envがあれば読み込み、環境変数からConfigを読み込み、
// JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. .envの読み込み（存在しない場合は無視する）
	_ = godotenv.Load()

	// 3. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.Bool("api_key_configured", gnews.KeyConfigured(cfg.GNewsAPIKey)),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// 全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. リポジトリの初期化
	// DATABASE_URL設定時はPostgreSQL、未設定時はプロセスメモリを使用する。
	var (
		userRepo  repository.UserRepository
		resetRepo repository.PasswordResetRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		slog.Info("database connection established")
		userRepo = repository.NewPostgresUserRepo(db)
		resetRepo = repository.NewPostgresPasswordResetRepo(db)
	} else {
		slog.Info("using in-memory user store (not durable across restarts)")
		userRepo = repository.NewMemoryUserRepo()
		resetRepo = repository.NewMemoryPasswordResetRepo()
	}

	// 2. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 3. アップストリームクライアントの初期化
	gnewsClient := gnews.NewClient(
		&http.Client{Timeout: cfg.UpstreamTimeout},
		slog.Default(),
		collector,
		cfg.GNewsBaseURL,
		cfg.GNewsAPIKey,
	)

	// 4. ドメインサービスの初期化
	newsService := news.NewService(gnewsClient, slog.Default())

	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	var mailer mail.Mailer
	if cfg.SMTPConfigured() {
		mailer = mail.NewSMTPMailer(
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword,
			cfg.SMTPFrom, slog.Default(),
		)
	} else {
		mailer = mail.NewLogMailer(slog.Default())
	}

	authService := auth.NewService(
		userRepo, resetRepo, tokenManager, mailer, collector,
		cfg.ResetTokenTTL, slog.Default(),
	)

	// 5. レートリミッターの初期化
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.Window = cfg.RateLimitWindow
	rateLimiterCfg.Max = cfg.RateLimitMax
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	// 6. ルーターの構築
	router := handler.NewRouter(&handler.RouterDeps{
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		TokenVerifier:     tokenManager,

		NewsService: newsService,
		AuthService: authService,

		APIKeyConfigured: gnews.KeyConfigured(cfg.GNewsAPIKey),
		MetricsGatherer:  registry,
	})

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
// 耐久ストアを使用しない構成（DATABASE_URL未設定）ではエラーを返す。
func runMigrate(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set; migrate requires the durable store")
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// /api/v1/health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/api/v1/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
