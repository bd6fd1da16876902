// Package model はドメインモデルを定義する。
package model

// Word は日付つきの「今日の言葉」レコードを表す。
type Word struct {
	RecordMeta
	Content string `json:"content"`
	Date    Date   `json:"date"`
}

// WordKind はWordのKindSpec。
var WordKind = KindSpec{
	Name:           "words",
	Mode:           DateModePoint,
	PointField:     "date",
	SanitizeFields: []string{"content"},
}

// Meta はメタ属性への参照を返す。
func (w *Word) Meta() *RecordMeta { return &w.RecordMeta }

// Validate はWordの属性を検証する。
func (w *Word) Validate() error {
	if w.Content == "" {
		return NewValidationError("contentは必須です")
	}
	if w.Date.IsZero() {
		return NewValidationError("dateは必須です")
	}
	return nil
}

// Vision は日付をもたない自由記述のビジョンレコードを表す。
// 日付問い合わせの対象外。
type Vision struct {
	RecordMeta
	Content string `json:"content"`
}

// VisionKind はVisionのKindSpec。
var VisionKind = KindSpec{
	Name:           "visions",
	Mode:           DateModeNone,
	SanitizeFields: []string{"content"},
}

// Meta はメタ属性への参照を返す。
func (v *Vision) Meta() *RecordMeta { return &v.RecordMeta }

// Validate はVisionの属性を検証する。
func (v *Vision) Validate() error {
	if v.Content == "" {
		return NewValidationError("contentは必須です")
	}
	return nil
}

// Affirmation は日付をもたない自由記述のアファメーションレコードを表す。
type Affirmation struct {
	RecordMeta
	Content string `json:"content"`
}

// AffirmationKind はAffirmationのKindSpec。
var AffirmationKind = KindSpec{
	Name:           "affirmations",
	Mode:           DateModeNone,
	SanitizeFields: []string{"content"},
}

// Meta はメタ属性への参照を返す。
func (a *Affirmation) Meta() *RecordMeta { return &a.RecordMeta }

// Validate はAffirmationの属性を検証する。
func (a *Affirmation) Validate() error {
	if a.Content == "" {
		return NewValidationError("contentは必須です")
	}
	return nil
}
