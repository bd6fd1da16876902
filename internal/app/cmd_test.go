package app

import "testing"

// TestParseCommand はサブコマンドの解析とフォールバックを検証する。
func TestParseCommand(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want Command
	}{
		{"引数なし", nil, CommandServe},
		{"serve", []string{"serve"}, CommandServe},
		{"migrate", []string{"migrate"}, CommandMigrate},
		{"healthcheck", []string{"healthcheck"}, CommandHealthcheck},
		{"token", []string{"token"}, CommandToken},
		{"サポート外", []string{"unknown"}, CommandServe},
		{"後続引数は無視", []string{"token", "user-1"}, CommandToken},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ParseCommand(c.args); got != c.want {
				t.Errorf("ParseCommand(%v) = %q, want %q", c.args, got, c.want)
			}
		})
	}
}
