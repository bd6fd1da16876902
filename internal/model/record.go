// Package model はドメインモデルを定義する。
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// RecordMeta は全レコード種別に共通するメタ属性。
// IDは作成時に採番され、以後変更されない。
// UpdatedAtは更新成功のたびに新しい値に置き換わる。
type RecordMeta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Entity は全レコード種別が実装するインターフェース。
// リポジトリがメタ属性の読み書きとバリデーションに使用する。
type Entity interface {
	// Meta はレコードのメタ属性への参照を返す。
	Meta() *RecordMeta
	// Validate はレコードの属性を検証する。
	// 不正な場合は*APIErrorを返す。
	Validate() error
}

// DateLayout は日付属性のワイヤフォーマット。時刻成分は持たない。
const DateLayout = "2006-01-02"

// Date は時刻成分を持たないカレンダー日付を表す。
// JSONでは "YYYY-MM-DD" 形式の文字列として表現される。
type Date struct {
	t time.Time
}

// ParseDate は "YYYY-MM-DD" 形式の文字列からDateを生成する。
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("日付の形式が不正です（YYYY-MM-DD）: %q", s)
	}
	return Date{t: t}, nil
}

// NewDate は年月日からDateを生成する。
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// IsZero は日付が未設定かどうかを返す。
func (d Date) IsZero() bool { return d.t.IsZero() }

// AddDays はn日後の日付を返す。
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Before は d < other かどうかを返す。
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After は d > other かどうかを返す。
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal は同一日付かどうかを返す。
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// String は "YYYY-MM-DD" 形式の文字列を返す。ゼロ値は空文字列。
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalJSON はDateを "YYYY-MM-DD" のJSON文字列に変換する。
// ゼロ値はnullになる。
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON はJSON文字列からDateを復元する。
// nullおよび空文字列はゼロ値として扱う。
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("日付は文字列で指定してください: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateMode はレコード種別の日付問い合わせ方式を表す。
type DateMode int

const (
	// DateModeNone は日付問い合わせを持たない種別。
	DateModeNone DateMode = iota
	// DateModePoint は単一の日付属性を持つ種別。
	DateModePoint
	// DateModeInterval は開始・終了の期間属性を持つ種別。
	DateModeInterval
)

// KindSpec はレコード種別ごとの振る舞いを記述するディスクリプタ。
// リポジトリとルーターが種別固有の分岐に使用する。
type KindSpec struct {
	// Name はURLパスおよびストア上の種別名（複数形）。
	Name string
	// Mode は日付問い合わせ方式。
	Mode DateMode
	// PointField はDateModePointの場合の日付属性のワイヤ名。
	PointField string
	// SanitizeFields は保存前にサニタイズする自由記述属性のワイヤ名。
	SanitizeFields []string
}

// Kinds は全レコード種別のKindSpecを返す。
func Kinds() []KindSpec {
	return []KindSpec{
		GoalKind,
		TaskKind,
		TodoKind,
		WordKind,
		VisionKind,
		AffirmationKind,
		DiamondPersonKind,
	}
}
