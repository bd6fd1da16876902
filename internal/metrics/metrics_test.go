package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue はGatherの結果から指定メトリクス・ラベルのカウンタ値を取り出す。
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, m := range fam.GetMetric() {
			matched := true
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					matched = false
					break
				}
			}
			if matched {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

// TestRecordHTTPRequest はリクエスト数がメソッド・ステータス別に集計されることを検証する。
func TestRecordHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest(http.MethodGet, http.StatusOK, 10*time.Millisecond)
	c.RecordHTTPRequest(http.MethodGet, http.StatusOK, 20*time.Millisecond)
	c.RecordHTTPRequest(http.MethodPost, http.StatusCreated, 5*time.Millisecond)

	got := counterValue(t, reg, "daybook_http_requests_total",
		map[string]string{"method": "GET", "status_code": "200"})
	if got != 2 {
		t.Errorf("GET 200 count = %v, want 2", got)
	}

	got = counterValue(t, reg, "daybook_http_requests_total",
		map[string]string{"method": "POST", "status_code": "201"})
	if got != 1 {
		t.Errorf("POST 201 count = %v, want 1", got)
	}
}

// TestRecordMutation は変更操作が種別・操作別に集計されることを検証する。
func TestRecordMutation(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordMutation("tasks", "create")
	c.RecordMutation("tasks", "create")
	c.RecordMutation("goals", "delete")

	got := counterValue(t, reg, "daybook_record_mutations_total",
		map[string]string{"kind": "tasks", "op": "create"})
	if got != 2 {
		t.Errorf("tasks/create count = %v, want 2", got)
	}

	got = counterValue(t, reg, "daybook_record_mutations_total",
		map[string]string{"kind": "goals", "op": "delete"})
	if got != 1 {
		t.Errorf("goals/delete count = %v, want 1", got)
	}
}

// TestHTTPMiddleware はミドルウェアがステータスコードを捕捉して記録することを検証する。
func TestHTTPMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	handler := NewHTTPMiddleware(c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/missing", nil))

	got := counterValue(t, reg, "daybook_http_requests_total",
		map[string]string{"method": "GET", "status_code": "404"})
	if got != 1 {
		t.Errorf("GET 404 count = %v, want 1", got)
	}
}

// TestHTTPMiddleware_DefaultStatus はWriteHeader未呼び出し時に200として記録されることを検証する。
func TestHTTPMiddleware_DefaultStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	handler := NewHTTPMiddleware(c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	got := counterValue(t, reg, "daybook_http_requests_total",
		map[string]string{"method": "GET", "status_code": "200"})
	if got != 1 {
		t.Errorf("GET 200 count = %v, want 1", got)
	}
}

// TestMetricsHandler はスクレイプエンドポイントが登録済みメトリクスを出力することを検証する。
func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordMutation("tasks", "create")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "daybook_record_mutations_total") {
		t.Error("metrics output should contain daybook_record_mutations_total")
	}
}
