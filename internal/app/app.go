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

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/hitoshi/daybook/internal/auth"
	"github.com/hitoshi/daybook/internal/config"
	"github.com/hitoshi/daybook/internal/database"
	"github.com/hitoshi/daybook/internal/handler"
	"github.com/hitoshi/daybook/internal/logger"
	"github.com/hitoshi/daybook/internal/metrics"
	"github.com/hitoshi/daybook/internal/middleware"
	"github.com/hitoshi/daybook/internal/model"
	"github.com/hitoshi/daybook/internal/repository"
	"github.com/hitoshi/daybook/internal/security"
)

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップし、環境変数からConfigを読み込む。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	logger.SetupDefault(w)

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
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	case CommandToken:
		return runToken(cfg, args[1:])
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := database.Ping(context.Background(), db); err != nil {
		return err
	}

	slog.Info("database connection established")

	// 2. サニタイザとリポジトリの初期化
	sanitizer := security.NewTextSanitizer()

	goalRepo := repository.NewPostgresRecordRepo[model.Goal](db, model.GoalKind, sanitizer)
	taskRepo := repository.NewPostgresRecordRepo[model.Task](db, model.TaskKind, sanitizer)
	todoRepo := repository.NewPostgresRecordRepo[model.Todo](db, model.TodoKind, sanitizer)
	wordRepo := repository.NewPostgresRecordRepo[model.Word](db, model.WordKind, sanitizer)
	visionRepo := repository.NewPostgresRecordRepo[model.Vision](db, model.VisionKind, sanitizer)
	affirmationRepo := repository.NewPostgresRecordRepo[model.Affirmation](db, model.AffirmationKind, sanitizer)
	personRepo := repository.NewPostgresRecordRepo[model.DiamondPerson](db, model.DiamondPersonKind, sanitizer)

	// 3. 認証・レート制限・メトリクスの初期化
	tokenService := auth.NewTokenService(cfg.AuthTokenSecret, cfg.AuthTokenExpiry)

	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.MutationRate = rate.Limit(float64(cfg.RateLimitMutation) / 60.0)
	rateLimiterCfg.MutationBurst = cfg.RateLimitMutation
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 4. ルーターの構築
	deps := &handler.RouterDeps{
		HealthChecker:     db,
		Metrics:           collector,
		MetricsGatherer:   registry,
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,

		TokenVerifier: tokenService,
		RateLimiter:   rateLimiter,

		Goals:         goalRepo,
		Tasks:         taskRepo,
		Todos:         todoRepo,
		Words:         wordRepo,
		Visions:       visionRepo,
		Affirmations:  affirmationRepo,
		DiamondPeople: personRepo,
	}

	router := handler.NewRouter(deps)

	// 5. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
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

// runMigrate はデータベースマイグレーションを実行して終了する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations")

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed")
	return nil
}

// runHealthcheck はローカルのAPIサーバーに対してヘルスチェックを実行する。
// 正常時は終了コード0、異常時はエラーを返す。
func runHealthcheck(port string) error {
	client := &http.Client{Timeout: 3 * time.Second}

	resp, err := client.Get("http://localhost:" + port + "/health")
	if err != nil {
		return fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck returned status %d", resp.StatusCode)
	}
	return nil
}

// runToken は指定ユーザーIDのアクセストークンを発行して標準出力に書き込む。
// ユーザーIDが省略された場合は既定の世帯コンテキストを使用する。
func runToken(cfg *config.Config, args []string) error {
	userID := "household"
	if len(args) > 0 && args[0] != "" {
		userID = args[0]
	}

	tokenService := auth.NewTokenService(cfg.AuthTokenSecret, cfg.AuthTokenExpiry)
	token, err := tokenService.Issue(userID)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	fmt.Println(token)
	return nil
}
