// Package timerange は日付範囲問い合わせの解釈を提供する。
//
// クライアントが指定するstart/endは時刻成分を持たないカレンダー日付であり、
// 範囲は両端を含む。end当日のレコードを含めるため、単一日付型のフィルタは
// 上限をend+1日とした半開区間 [start, end+1day) として評価する。
// 期間型（Goal）のフィルタは包含ではなく区間の重なり判定で評価する。
package timerange

import "github.com/hitoshi/daybook/internal/model"

// Range は両端を含む日付範囲を表す。
type Range struct {
	Start model.Date
	End   model.Date
}

// Parse はクエリパラメータのstart/endからRangeを生成する。
// いずれかが欠落・解釈不能、またはstart > endの場合は
// INVALID_RANGEエラーを返す。start > endを入れ替えて補正することはない。
func Parse(startStr, endStr string) (Range, error) {
	if startStr == "" {
		return Range{}, model.NewInvalidRangeError("startが指定されていません")
	}
	if endStr == "" {
		return Range{}, model.NewInvalidRangeError("endが指定されていません")
	}

	start, err := model.ParseDate(startStr)
	if err != nil {
		return Range{}, model.NewInvalidRangeError(err.Error())
	}
	end, err := model.ParseDate(endStr)
	if err != nil {
		return Range{}, model.NewInvalidRangeError(err.Error())
	}

	if start.After(end) {
		return Range{}, model.NewInvalidRangeError("startはend以前の日付を指定してください")
	}

	return Range{Start: start, End: end}, nil
}

// Day は単一日の範囲（start = end = date）を生成する。
// 単一日付問い合わせは範囲問い合わせの特殊形として扱う。
func Day(dateStr string) (Range, error) {
	return Parse(dateStr, dateStr)
}

// EndExclusive は半開区間フィルタの上限（end + 1日）を返す。
func (r Range) EndExclusive() model.Date {
	return r.End.AddDays(1)
}

// ContainsDay は単一日付dが範囲内（両端を含む）かどうかを返す。
func (r Range) ContainsDay(d model.Date) bool {
	return !d.Before(r.Start) && d.Before(r.EndExclusive())
}

// OverlapsInterval は期間[start, end]が範囲と1日でも重なるかどうかを返す。
// 範囲を完全に覆う期間も重なりとして扱う。
func (r Range) OverlapsInterval(start, end model.Date) bool {
	return !start.After(r.End) && !end.Before(r.Start)
}
