// Package model はドメインモデルを定義する。
package model

// Task は特定の日に紐づく単発の作業レコードを表す。
type Task struct {
	RecordMeta
	Title     string `json:"title"`
	Date      Date   `json:"date"`
	Completed bool   `json:"completed"`
}

// TaskKind はTaskのKindSpec。
var TaskKind = KindSpec{
	Name:           "tasks",
	Mode:           DateModePoint,
	PointField:     "date",
	SanitizeFields: []string{"title"},
}

// Meta はメタ属性への参照を返す。
func (t *Task) Meta() *RecordMeta { return &t.RecordMeta }

// Validate はTaskの属性を検証する。
func (t *Task) Validate() error {
	if t.Title == "" {
		return NewValidationError("titleは必須です")
	}
	if t.Date.IsZero() {
		return NewValidationError("dateは必須です")
	}
	return nil
}

// TodoPriority はTodoの優先度を表す。
type TodoPriority string

const (
	// TodoPriorityLow は低優先度。
	TodoPriorityLow TodoPriority = "low"
	// TodoPriorityMedium は中優先度。
	TodoPriorityMedium TodoPriority = "medium"
	// TodoPriorityHigh は高優先度。
	TodoPriorityHigh TodoPriority = "high"
)

// Todo は期限日と優先度をもつやることレコードを表す。
type Todo struct {
	RecordMeta
	Title     string       `json:"title"`
	DueDate   Date         `json:"dueDate"`
	Completed bool         `json:"completed"`
	Priority  TodoPriority `json:"priority,omitempty"`
}

// TodoKind はTodoのKindSpec。日付属性はdueDate。
var TodoKind = KindSpec{
	Name:           "todos",
	Mode:           DateModePoint,
	PointField:     "dueDate",
	SanitizeFields: []string{"title"},
}

// Meta はメタ属性への参照を返す。
func (t *Todo) Meta() *RecordMeta { return &t.RecordMeta }

// Validate はTodoの属性を検証する。
func (t *Todo) Validate() error {
	if t.Title == "" {
		return NewValidationError("titleは必須です")
	}
	if t.DueDate.IsZero() {
		return NewValidationError("dueDateは必須です")
	}
	switch t.Priority {
	case "", TodoPriorityLow, TodoPriorityMedium, TodoPriorityHigh:
	default:
		return NewValidationError("priorityにはlow、medium、highのいずれかを指定してください")
	}
	return nil
}
