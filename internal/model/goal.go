// Package model はドメインモデルを定義する。
package model

// GoalStatus はゴールの進行状態を表す。
type GoalStatus string

const (
	// GoalStatusActive は進行中の状態。
	GoalStatusActive GoalStatus = "active"
	// GoalStatusCompleted は達成済みの状態。
	GoalStatusCompleted GoalStatus = "completed"
	// GoalStatusAbandoned は中断された状態。
	GoalStatusAbandoned GoalStatus = "abandoned"
)

// Goal は開始日と終了日をもつ期間型の目標レコードを表す。
type Goal struct {
	RecordMeta
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      GoalStatus `json:"status,omitempty"`
	StartDate   Date       `json:"startDate"`
	EndDate     Date       `json:"endDate"`
}

// GoalKind はGoalのKindSpec。期間型のため範囲問い合わせは区間の重なり判定になる。
var GoalKind = KindSpec{
	Name:           "goals",
	Mode:           DateModeInterval,
	SanitizeFields: []string{"title", "description"},
}

// Meta はメタ属性への参照を返す。
func (g *Goal) Meta() *RecordMeta { return &g.RecordMeta }

// Validate はGoalの属性を検証する。
// endDate >= startDate を作成時・更新時の両方で強制する。
func (g *Goal) Validate() error {
	if g.Title == "" {
		return NewValidationError("titleは必須です")
	}
	if g.StartDate.IsZero() {
		return NewValidationError("startDateは必須です")
	}
	if g.EndDate.IsZero() {
		return NewValidationError("endDateは必須です")
	}
	if g.EndDate.Before(g.StartDate) {
		return NewValidationError("endDateはstartDate以降の日付を指定してください")
	}
	switch g.Status {
	case "", GoalStatusActive, GoalStatusCompleted, GoalStatusAbandoned:
	default:
		return NewValidationError("statusにはactive、completed、abandonedのいずれかを指定してください")
	}
	return nil
}
