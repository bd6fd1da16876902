// Package repository はデータ永続化のインターフェースと実装を定義する。
//
// 7つのレコード種別は同一の永続化契約を共有するため、リポジトリは
// 種別ごとに7つ実装するのではなく、属性型をパラメータにとる1つの
// ジェネリック実装をKindSpecとともにインスタンス化する。
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/daybook/internal/model"
	"github.com/hitoshi/daybook/internal/security"
	"github.com/hitoshi/daybook/internal/timerange"
)

// EntityPtr は*Tがmodel.Entityを実装することを要求する型制約。
type EntityPtr[T any] interface {
	*T
	model.Entity
}

// PostgresRecordRepo はPostgreSQLのrecordsテーブルを使用するジェネリックリポジトリ。
// 属性本体はJSONBドキュメントとして格納し、メタ属性はカラムに持つ。
// 各操作はすべて呼び出しごとにストアへアクセスし、プロセス内にレコードを保持しない。
type PostgresRecordRepo[T any, P EntityPtr[T]] struct {
	db        *sql.DB
	kind      model.KindSpec
	sanitizer security.TextSanitizerService
}

// NewPostgresRecordRepo は指定された種別のPostgresRecordRepoを生成する。
// sanitizerはnil許容で、nilの場合は自由記述属性をそのまま格納する。
func NewPostgresRecordRepo[T any, P EntityPtr[T]](db *sql.DB, kind model.KindSpec, sanitizer security.TextSanitizerService) *PostgresRecordRepo[T, P] {
	return &PostgresRecordRepo[T, P]{db: db, kind: kind, sanitizer: sanitizer}
}

// Kind はこのリポジトリが扱う種別のKindSpecを返す。
func (r *PostgresRecordRepo[T, P]) Kind() model.KindSpec { return r.kind }

// FindAll は種別の全レコードを作成順で返す。
func (r *PostgresRecordRepo[T, P]) FindAll(ctx context.Context) ([]*T, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, doc, created_at, updated_at
		 FROM records WHERE kind = $1
		 ORDER BY created_at`,
		r.kind.Name,
	)
	if err != nil {
		return nil, fmt.Errorf("レコード一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// FindByID は指定IDのレコードを取得する。見つからない場合はnilを返す。
// UUIDとして解釈できないIDは存在しないレコードとして扱う。
func (r *PostgresRecordRepo[T, P]) FindByID(ctx context.Context, id string) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	var meta model.RecordMeta
	var doc []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT id, doc, created_at, updated_at
		 FROM records WHERE kind = $1 AND id = $2`,
		r.kind.Name, id,
	).Scan(&meta.ID, &doc, &meta.CreatedAt, &meta.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("レコードの取得に失敗しました: %w", err)
	}

	return decodeRecord[T, P](doc, meta)
}

// FindByDate は指定日のレコードを返す。
// 範囲問い合わせの特殊形（start = end = date）として評価する。
func (r *PostgresRecordRepo[T, P]) FindByDate(ctx context.Context, date model.Date) ([]*T, error) {
	return r.FindByDateRange(ctx, timerange.Range{Start: date, End: date})
}

// FindByDateRange は日付範囲に該当するレコードを返す。
// 単一日付型は属性値が[start, end+1day)に入るレコード、
// 期間型は期間が[start, end]と重なるレコードが該当する。
func (r *PostgresRecordRepo[T, P]) FindByDateRange(ctx context.Context, rng timerange.Range) ([]*T, error) {
	var rows *sql.Rows
	var err error

	switch r.kind.Mode {
	case model.DateModePoint:
		// end当日を含めるため上限はend+1日の半開区間で評価する
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, doc, created_at, updated_at
			 FROM records
			 WHERE kind = $1
			   AND doc ? $2
			   AND (doc ->> $2)::date >= $3::date
			   AND (doc ->> $2)::date < $4::date
			 ORDER BY (doc ->> $2)::date, created_at`,
			r.kind.Name, r.kind.PointField,
			rng.Start.String(), rng.EndExclusive().String(),
		)
	case model.DateModeInterval:
		// 包含ではなく重なり判定: startDate <= end AND endDate >= start
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, doc, created_at, updated_at
			 FROM records
			 WHERE kind = $1
			   AND (doc ->> 'startDate')::date <= $2::date
			   AND (doc ->> 'endDate')::date >= $3::date
			 ORDER BY (doc ->> 'startDate')::date, created_at`,
			r.kind.Name, rng.End.String(), rng.Start.String(),
		)
	default:
		return nil, model.NewInvalidRangeError(
			fmt.Sprintf("%sは日付による問い合わせに対応していません", r.kind.Name))
	}

	if err != nil {
		return nil, fmt.Errorf("日付範囲問い合わせに失敗しました: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// Create はレコードを検証・サニタイズし、IDと両タイムスタンプを採番して格納する。
// 呼び出しが返った時点で書き込みはコミット済み。
// recの属性はサニタイズ後の格納値で上書きされる。
func (r *PostgresRecordRepo[T, P]) Create(ctx context.Context, rec *T) error {
	doc, err := r.encodeDoc(rec)
	if err != nil {
		return err
	}

	// サニタイズ後の属性で検証する（タグ除去で空になった必須属性を検出するため）
	var clean T
	if err := json.Unmarshal(doc, &clean); err != nil {
		return model.NewValidationError(err.Error())
	}
	*rec = clean

	if err := P(rec).Validate(); err != nil {
		return err
	}

	meta := P(rec).Meta()
	now := time.Now().UTC()
	meta.ID = uuid.NewString()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO records (id, kind, doc, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		meta.ID, r.kind.Name, doc, meta.CreatedAt, meta.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("レコードの作成に失敗しました: %w", err)
	}
	return nil
}

// Update は指定IDのレコードにパッチを属性単位でマージし、マージ結果を再検証して格納する。
// パッチに含まれない属性は既存の値を維持する。メタ属性はパッチから変更できない。
// レコードが存在しない場合はnilを返す。検証に失敗した場合は*APIErrorを返し、格納値は変更しない。
func (r *PostgresRecordRepo[T, P]) Update(ctx context.Context, id string, patch map[string]json.RawMessage) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	var doc []byte
	var createdAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT doc, created_at FROM records WHERE kind = $1 AND id = $2`,
		r.kind.Name, id,
	).Scan(&doc, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("更新対象レコードの取得に失敗しました: %w", err)
	}

	existing, err := docToMap(doc)
	if err != nil {
		return nil, err
	}

	merged := mergeDoc(existing, patch)
	sanitizeDocFields(merged, r.kind.SanitizeFields, r.sanitizer)

	mergedDoc, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("マージ結果の変換に失敗しました: %w", err)
	}

	var rec T
	if err := json.Unmarshal(mergedDoc, &rec); err != nil {
		return nil, model.NewValidationError(err.Error())
	}
	if err := P(&rec).Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx,
		`UPDATE records SET doc = $3, updated_at = $4 WHERE kind = $1 AND id = $2`,
		r.kind.Name, id, mergedDoc, now,
	)
	if err != nil {
		return nil, fmt.Errorf("レコードの更新に失敗しました: %w", err)
	}

	*P(&rec).Meta() = model.RecordMeta{ID: id, CreatedAt: createdAt, UpdatedAt: now}
	return &rec, nil
}

// Delete は指定IDのレコードを完全に削除する。
// 削除された場合はtrueを、存在しなかった場合はfalseを返す。
// 存在しないIDの削除はエラーではない（冪等）。
func (r *PostgresRecordRepo[T, P]) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM records WHERE kind = $1 AND id = $2`,
		r.kind.Name, id,
	)
	if err != nil {
		return false, fmt.Errorf("レコードの削除に失敗しました: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	return n > 0, nil
}

// encodeDoc はレコードを格納用ドキュメントに変換する。
// メタ属性のキーを取り除き、自由記述属性をサニタイズする。
func (r *PostgresRecordRepo[T, P]) encodeDoc(rec *T) (json.RawMessage, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("レコードの変換に失敗しました: %w", err)
	}

	m, err := docToMap(raw)
	if err != nil {
		return nil, err
	}
	stripMetaKeys(m)
	sanitizeDocFields(m, r.kind.SanitizeFields, r.sanitizer)

	return json.Marshal(m)
}

// scanRecords は問い合わせ結果の全行をレコードに復元する。
func (r *PostgresRecordRepo[T, P]) scanRecords(rows *sql.Rows) ([]*T, error) {
	var records []*T
	for rows.Next() {
		var meta model.RecordMeta
		var doc []byte
		if err := rows.Scan(&meta.ID, &doc, &meta.CreatedAt, &meta.UpdatedAt); err != nil {
			return nil, fmt.Errorf("レコードの読み取りに失敗しました: %w", err)
		}
		rec, err := decodeRecord[T, P](doc, meta)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("レコードの読み取りに失敗しました: %w", err)
	}
	return records, nil
}
