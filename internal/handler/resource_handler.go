package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/daybook/internal/metrics"
	"github.com/hitoshi/daybook/internal/model"
	"github.com/hitoshi/daybook/internal/timerange"
)

// RecordStore はリソースハンドラーが必要とする永続化インターフェース。
// repository.RecordRepositoryの部分集合として定義する。
type RecordStore[T any] interface {
	// FindAll は種別の全レコードを返す。
	FindAll(ctx context.Context) ([]*T, error)
	// FindByID は指定IDのレコードを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*T, error)
	// FindByDateRange は日付範囲に該当するレコードを返す。
	FindByDateRange(ctx context.Context, rng timerange.Range) ([]*T, error)
	// Create はレコードを検証・採番して格納する。
	Create(ctx context.Context, rec *T) error
	// Update はパッチを属性単位でマージして格納する。存在しない場合はnilを返す。
	Update(ctx context.Context, id string, patch map[string]json.RawMessage) (*T, error)
	// Delete は指定IDのレコードを削除する。存在しなかった場合はfalseを返す。
	Delete(ctx context.Context, id string) (bool, error)
}

// ResourceHandler は1レコード種別分のHTTPリソースコントローラ。
// 7種別すべてが同一のルーティング契約を共有するため、種別ごとに
// 実装するのではなく1つのテンプレートをインスタンス化する。
type ResourceHandler[T any] struct {
	store   RecordStore[T]
	kind    model.KindSpec
	metrics metrics.MutationRecorder
}

// NewResourceHandler はResourceHandlerを生成する。
// recorderはnil許容で、nilの場合は変更メトリクスを記録しない。
func NewResourceHandler[T any](store RecordStore[T], kind model.KindSpec, recorder metrics.MutationRecorder) *ResourceHandler[T] {
	return &ResourceHandler[T]{
		store:   store,
		kind:    kind,
		metrics: recorder,
	}
}

// RegisterRoutes は /api/<kind> 以下のルーティングを登録する。
// 日付ルートは種別の日付問い合わせ方式に応じてのみ登録される。
// mutationLimitは書き込み系エンドポイントに適用するミドルウェア。
func (h *ResourceHandler[T]) RegisterRoutes(r chi.Router, mutationLimit func(http.Handler) http.Handler) {
	r.Route("/api/"+h.kind.Name, func(r chi.Router) {
		r.Get("/", h.List)
		r.With(mutationLimit).Post("/", h.Create)

		if h.kind.Mode == model.DateModePoint {
			r.Get("/date/{date}", h.GetByDate)
		}
		if h.kind.Mode != model.DateModeNone {
			r.Get("/date-range", h.GetByDateRange)
		}

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.With(mutationLimit).Put("/", h.Update)
			r.With(mutationLimit).Delete("/", h.Delete)
		})
	})
}

// List は種別の全レコードを取得する。
// GET /api/<kind>
func (h *ResourceHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.FindAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if records == nil {
		records = []*T{}
	}
	writeSuccess(w, http.StatusOK, records)
}

// Get はレコード詳細を取得する。
// GET /api/<kind>/:id
func (h *ResourceHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if rec == nil {
		handleServiceError(w, model.NewNotFoundError(h.kind.Name, id))
		return
	}
	writeSuccess(w, http.StatusOK, rec)
}

// GetByDate は指定日のレコード一覧を取得する。
// 単一日付問い合わせはstart = end = dateの範囲問い合わせと等価。
// GET /api/<kind>/date/:date
func (h *ResourceHandler[T]) GetByDate(w http.ResponseWriter, r *http.Request) {
	rng, err := timerange.Day(chi.URLParam(r, "date"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	records, err := h.store.FindByDateRange(r.Context(), rng)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if records == nil {
		records = []*T{}
	}
	writeSuccess(w, http.StatusOK, records)
}

// GetByDateRange は日付範囲に該当するレコード一覧を取得する。
// start/endの欠落・不正・逆転は400を返す。
// GET /api/<kind>/date-range?start=&end=
func (h *ResourceHandler[T]) GetByDateRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := timerange.Parse(q.Get("start"), q.Get("end"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	records, err := h.store.FindByDateRange(r.Context(), rng)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if records == nil {
		records = []*T{}
	}
	writeSuccess(w, http.StatusOK, records)
}

// Create はレコードを作成する。
// POST /api/<kind>
func (h *ResourceHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	var rec T
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		handleServiceError(w, model.NewValidationError(err.Error()))
		return
	}

	if err := h.store.Create(r.Context(), &rec); err != nil {
		handleServiceError(w, err)
		return
	}

	h.recordMutation("create")
	writeSuccess(w, http.StatusCreated, &rec)
}

// Update はレコードを属性単位のマージで更新する。
// ボディに含まれない属性は既存の値を維持する。
// PUT /api/<kind>/:id
func (h *ResourceHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		handleServiceError(w, model.NewValidationError(err.Error()))
		return
	}

	rec, err := h.store.Update(r.Context(), id, patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if rec == nil {
		handleServiceError(w, model.NewNotFoundError(h.kind.Name, id))
		return
	}

	h.recordMutation("update")
	writeSuccess(w, http.StatusOK, rec)
}

// Delete はレコードを完全に削除する。
// 存在しないIDは404を返す（2回目の削除も同様）。
// DELETE /api/<kind>/:id
func (h *ResourceHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !deleted {
		handleServiceError(w, model.NewNotFoundError(h.kind.Name, id))
		return
	}

	h.recordMutation("delete")
	writeSuccess(w, http.StatusOK, struct{}{})
}

// recordMutation は変更メトリクスを記録する。
func (h *ResourceHandler[T]) recordMutation(op string) {
	if h.metrics != nil {
		h.metrics.RecordMutation(h.kind.Name, op)
	}
}
