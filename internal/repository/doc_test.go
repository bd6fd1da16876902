package repository

import (
	"encoding/json"
	"testing"

	"github.com/hitoshi/daybook/internal/model"
	"github.com/hitoshi/daybook/internal/security"
)

func rawDoc(t *testing.T, src string) map[string]json.RawMessage {
	t.Helper()
	m, err := docToMap([]byte(src))
	if err != nil {
		t.Fatalf("docToMap failed: %v", err)
	}
	return m
}

// TestMergeDoc_PartialPatch はパッチに含まれない属性が維持されることを検証する。
func TestMergeDoc_PartialPatch(t *testing.T) {
	existing := rawDoc(t, `{"title":"走る","date":"2024-03-10","completed":false}`)
	patch := rawDoc(t, `{"completed":true}`)

	merged := mergeDoc(existing, patch)

	if string(merged["title"]) != `"走る"` {
		t.Errorf("title = %s, want %s", merged["title"], `"走る"`)
	}
	if string(merged["date"]) != `"2024-03-10"` {
		t.Errorf("date = %s, want %s", merged["date"], `"2024-03-10"`)
	}
	if string(merged["completed"]) != `true` {
		t.Errorf("completed = %s, want true", merged["completed"])
	}
}

// TestMergeDoc_NullClears はパッチのnullが属性のクリアとして伝播することを検証する。
func TestMergeDoc_NullClears(t *testing.T) {
	existing := rawDoc(t, `{"title":"読書","description":"毎晩30分"}`)
	patch := rawDoc(t, `{"description":null}`)

	merged := mergeDoc(existing, patch)

	if string(merged["description"]) != `null` {
		t.Errorf("description = %s, want null", merged["description"])
	}
}

// TestMergeDoc_StripsMetaKeys はパッチ経由でメタ属性が変更できないことを検証する。
func TestMergeDoc_StripsMetaKeys(t *testing.T) {
	existing := rawDoc(t, `{"title":"読書"}`)
	patch := rawDoc(t, `{"id":"攻撃値","createdAt":"1970-01-01","updatedAt":"1970-01-01","title":"映画"}`)

	merged := mergeDoc(existing, patch)

	for _, k := range metaDocKeys {
		if _, ok := merged[k]; ok {
			t.Errorf("meta key %q should be stripped from merged doc", k)
		}
	}
	if string(merged["title"]) != `"映画"` {
		t.Errorf("title = %s, want %s", merged["title"], `"映画"`)
	}
}

// TestMergeDoc_DoesNotMutateArgs はマージが引数を破壊しないことを検証する。
func TestMergeDoc_DoesNotMutateArgs(t *testing.T) {
	existing := rawDoc(t, `{"title":"読書","id":"keep"}`)
	patch := rawDoc(t, `{"title":"映画"}`)

	mergeDoc(existing, patch)

	if string(existing["title"]) != `"読書"` {
		t.Error("existing doc should not be mutated")
	}
	if _, ok := existing["id"]; !ok {
		t.Error("existing doc keys should not be deleted")
	}
}

// TestSanitizeDocFields は指定属性のみがサニタイズされることを検証する。
func TestSanitizeDocFields(t *testing.T) {
	sanitizer := security.NewTextSanitizer()
	doc := rawDoc(t, `{"title":"<script>alert(1)</script>走る","notes":"<b>注記</b>","count":3}`)

	sanitizeDocFields(doc, []string{"title", "count", "missing"}, sanitizer)

	if string(doc["title"]) != `"走る"` {
		t.Errorf("title = %s, want %s", doc["title"], `"走る"`)
	}
	// 対象外の属性はそのまま
	if string(doc["notes"]) != `"<b>注記</b>"` {
		t.Errorf("notes = %s, should be untouched", doc["notes"])
	}
	// 文字列以外の値はそのまま（バリデーションが別途検出する）
	if string(doc["count"]) != `3` {
		t.Errorf("count = %s, should be untouched", doc["count"])
	}
}

// TestSanitizeDocFields_NilSanitizer はnilサニタイザが許容されることを検証する。
func TestSanitizeDocFields_NilSanitizer(t *testing.T) {
	doc := rawDoc(t, `{"title":"<b>太字</b>"}`)
	sanitizeDocFields(doc, []string{"title"}, nil)
	if string(doc["title"]) != `"<b>太字</b>"` {
		t.Error("doc should be untouched when sanitizer is nil")
	}
}

// TestDocToMap_Invalid は不正なJSONがエラーになることを検証する。
func TestDocToMap_Invalid(t *testing.T) {
	if _, err := docToMap([]byte(`{broken`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

// TestDecodeRecord はドキュメントとメタ属性からレコードが復元されることを検証する。
func TestDecodeRecord(t *testing.T) {
	meta := model.RecordMeta{ID: "a1"}
	rec, err := decodeRecord[model.Task]([]byte(`{"title":"走る","date":"2024-03-10","completed":true}`), meta)
	if err != nil {
		t.Fatalf("decodeRecord failed: %v", err)
	}
	if rec.Title != "走る" {
		t.Errorf("Title = %q, want %q", rec.Title, "走る")
	}
	if rec.Date.String() != "2024-03-10" {
		t.Errorf("Date = %q, want %q", rec.Date.String(), "2024-03-10")
	}
	if !rec.Completed {
		t.Error("Completed should be true")
	}
	if rec.ID != "a1" {
		t.Errorf("ID = %q, want %q", rec.ID, "a1")
	}
}

// TestDecodeRecord_Invalid は壊れたドキュメントがエラーになることを検証する。
func TestDecodeRecord_Invalid(t *testing.T) {
	if _, err := decodeRecord[model.Task]([]byte(`not json`), model.RecordMeta{}); err == nil {
		t.Error("expected error for invalid document")
	}
}
