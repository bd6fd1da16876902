package repository

import (
	"encoding/json"
	"fmt"

	"github.com/hitoshi/daybook/internal/model"
	"github.com/hitoshi/daybook/internal/security"
)

// metaDocKeys はdocカラムに含めないメタ属性のワイヤ名。
// メタ属性はカラムが正であり、docや更新パッチに現れても常に無視する。
var metaDocKeys = []string{"id", "createdAt", "updatedAt"}

// stripMetaKeys はドキュメントからメタ属性のキーを取り除く。
func stripMetaKeys(doc map[string]json.RawMessage) {
	for _, k := range metaDocKeys {
		delete(doc, k)
	}
}

// mergeDoc は既存ドキュメントにパッチを浅いマージで適用した新しいドキュメントを返す。
// パッチに含まれない属性は既存の値を維持する。パッチのnullは属性のクリアとして扱う。
// メタ属性のキーはパッチ側から無視され、既存・パッチのどちらの引数も変更しない。
func mergeDoc(existing, patch map[string]json.RawMessage) map[string]json.RawMessage {
	merged := make(map[string]json.RawMessage, len(existing)+len(patch))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	stripMetaKeys(merged)
	return merged
}

// sanitizeDocFields はドキュメント中の指定された文字列属性をサニタイズする。
// 文字列以外の値を持つ属性はそのまま残す（バリデーションが別途検出する）。
func sanitizeDocFields(doc map[string]json.RawMessage, fields []string, sanitizer security.TextSanitizerService) {
	if sanitizer == nil {
		return
	}
	for _, f := range fields {
		raw, ok := doc[f]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		cleaned, err := json.Marshal(sanitizer.Sanitize(s))
		if err != nil {
			continue
		}
		doc[f] = cleaned
	}
}

// docToMap はJSONドキュメントを属性マップに展開する。
func docToMap(doc []byte) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("ドキュメントの解釈に失敗しました: %w", err)
	}
	return m, nil
}

// decodeRecord はドキュメントとメタ属性からレコードを復元する。
func decodeRecord[T any, P EntityPtr[T]](doc []byte, meta model.RecordMeta) (*T, error) {
	var rec T
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, fmt.Errorf("レコードの復元に失敗しました: %w", err)
	}
	*P(&rec).Meta() = meta
	return &rec, nil
}
