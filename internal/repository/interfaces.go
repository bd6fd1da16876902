package repository

import (
	"context"
	"encoding/json"

	"github.com/hitoshi/daybook/internal/model"
	"github.com/hitoshi/daybook/internal/timerange"
)

// RecordRepository は1レコード種別分の永続化契約。
// 全種別が同一の契約を共有し、種別ごとにインスタンス化される。
type RecordRepository[T any] interface {
	// FindAll は種別の全レコードを作成順で返す。
	FindAll(ctx context.Context) ([]*T, error)

	// FindByID は指定IDのレコードを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*T, error)

	// FindByDate は指定日のレコードを返す（単一日付型のみ）。
	FindByDate(ctx context.Context, date model.Date) ([]*T, error)

	// FindByDateRange は日付範囲に該当するレコードを返す。
	// 単一日付型は両端を含む範囲一致、期間型は区間の重なり判定で評価する。
	FindByDateRange(ctx context.Context, rng timerange.Range) ([]*T, error)

	// Create はレコードを検証し、IDと両タイムスタンプを採番して格納する。
	Create(ctx context.Context, rec *T) error

	// Update は指定IDのレコードにパッチを属性単位でマージし、再検証して格納する。
	// レコードが存在しない場合はnilを返す。
	Update(ctx context.Context, id string, patch map[string]json.RawMessage) (*T, error)

	// Delete は指定IDのレコードを削除する。存在しなかった場合はfalseを返す。
	Delete(ctx context.Context, id string) (bool, error)
}
