package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/daybook/internal/model"
)

// errorEnvelope はエラーレスポンスの統一フォーマット。
// success=falseは常にHTTPステータス400以上とともに返る。
type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteErrorResponse は統一エンベロープでHTTPエラーレスポンスを書き込む。
// すべてのエンドポイントとミドルウェアで一貫したエラー形式を提供する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorEnvelope{
		Success: false,
		Error:   apiErr.Message,
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、利用者には一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, model.NewStoreUnavailableError())
}
