package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/daybook/internal/metrics"
	"github.com/hitoshi/daybook/internal/middleware"
	"github.com/hitoshi/daybook/internal/model"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DBがそのまま実装する。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// 運用系
	HealthChecker     HealthChecker
	Metrics           *metrics.Collector
	MetricsGatherer   prometheus.Gatherer
	Logger            *slog.Logger
	CORSAllowedOrigin string

	// 認証・レート制限
	TokenVerifier middleware.TokenVerifier
	RateLimiter   *middleware.RateLimiter

	// レコード種別ごとのストア
	Goals         RecordStore[model.Goal]
	Tasks         RecordStore[model.Task]
	Todos         RecordStore[model.Todo]
	Words         RecordStore[model.Word]
	Visions       RecordStore[model.Vision]
	Affirmations  RecordStore[model.Affirmation]
	DiamondPeople RecordStore[model.DiamondPerson]
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → Metrics
//
// /healthと/metricsは認証グループの外に配置する。
// /api/*は認証ミドルウェアとレート制限（全般＋書き込み系）の内側に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.Metrics != nil {
		r.Use(metrics.NewHTTPMiddleware(deps.Metrics))
	}

	// --- 認証不要のルート ---

	r.Get("/health", newHealthHandler(deps.HealthChecker))
	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// 書き込み系エンドポイント用のミドルウェア
	mutationLimit := func(next http.Handler) http.Handler { return next }
	if deps.RateLimiter != nil {
		mutationLimit = deps.RateLimiter.MutationMiddleware()
	}

	// nilの*Collectorを非nilインターフェースにしないための変換
	var recorder metrics.MutationRecorder
	if deps.Metrics != nil {
		recorder = deps.Metrics
	}

	// --- 認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		NewResourceHandler(deps.Goals, model.GoalKind, recorder).RegisterRoutes(r, mutationLimit)
		NewResourceHandler(deps.Tasks, model.TaskKind, recorder).RegisterRoutes(r, mutationLimit)
		NewResourceHandler(deps.Todos, model.TodoKind, recorder).RegisterRoutes(r, mutationLimit)
		NewResourceHandler(deps.Words, model.WordKind, recorder).RegisterRoutes(r, mutationLimit)
		NewResourceHandler(deps.Visions, model.VisionKind, recorder).RegisterRoutes(r, mutationLimit)
		NewResourceHandler(deps.Affirmations, model.AffirmationKind, recorder).RegisterRoutes(r, mutationLimit)
		NewResourceHandler(deps.DiamondPeople, model.DiamondPersonKind, recorder).RegisterRoutes(r, mutationLimit)
	})

	return r
}

// newHealthHandler はストア疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := checker.PingContext(ctx); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			middleware.WriteErrorResponse(w, http.StatusServiceUnavailable, model.NewStoreUnavailableError())
			return
		}
		writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
