// Package model はドメインモデルを定義する。
package model

// DiamondPerson は大切にしたい人との関係を記録するレコードを表す。
// nameは自由記述であり、他レコードへの参照ではない。
type DiamondPerson struct {
	RecordMeta
	Name  string `json:"name"`
	Notes string `json:"notes,omitempty"`
}

// DiamondPersonKind はDiamondPersonのKindSpec。日付問い合わせの対象外。
var DiamondPersonKind = KindSpec{
	Name:           "diamond-people",
	Mode:           DateModeNone,
	SanitizeFields: []string{"name", "notes"},
}

// Meta はメタ属性への参照を返す。
func (p *DiamondPerson) Meta() *RecordMeta { return &p.RecordMeta }

// Validate はDiamondPersonの属性を検証する。
func (p *DiamondPerson) Validate() error {
	if p.Name == "" {
		return NewValidationError("nameは必須です")
	}
	return nil
}
