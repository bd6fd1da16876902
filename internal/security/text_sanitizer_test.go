package security

import "testing"

// TestSanitize はタグ除去とテキスト保持の挙動を検証する。
func TestSanitize(t *testing.T) {
	sanitizer := NewTextSanitizer()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"プレーンテキスト", "毎朝30分走る", "毎朝30分走る"},
		{"空文字列", "", ""},
		{"スクリプトタグ", "<script>alert('xss')</script>走る", "走る"},
		{"装飾タグ", "<b>重要</b>な目標", "重要な目標"},
		{"イベント属性付きタグ", `<img src=x onerror="alert(1)">写真`, "写真"},
		{"前後の空白", "  走る  ", "走る"},
		{"エンティティの復元", "A &amp; B", "A & B"},
		{"記号の保持", "進捗: 3/10 (30%)", "進捗: 3/10 (30%)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := sanitizer.Sanitize(c.input); got != c.want {
				t.Errorf("Sanitize(%q) = %q, want %q", c.input, got, c.want)
			}
		})
	}
}

// TestSanitize_Idempotent は同一入力へのサニタイズが冪等であることを検証する。
func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewTextSanitizer()

	inputs := []string{"走る", "<b>重要</b>な目標", "A &amp; B"}
	for _, input := range inputs {
		once := sanitizer.Sanitize(input)
		twice := sanitizer.Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
