package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const insertTaskSQL = `
	INSERT INTO tasks (user_id, warehouse_id, box_type_id, coefficient, state, alarm, date)
	VALUES ($1,$2,$3,$4,$5,$6,$7)
	ON CONFLICT (user_id, warehouse_id, box_type_id, coefficient, date) DO NOTHING
`

// CreateBulk пишет декартово произведение склады × типы × коэффициенты
// 0..maxCoef × дни одной транзакцией. Уникальный ключ делает повтор
// после оборванного коммита идемпотентным.
func (r *Repo) CreateBulk(ctx context.Context, userID int64, warehouseIDs []int64, boxTypeIDs []int, maxCoef int, days []time.Time) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	n, err := enqueueTasks(ctx, tx, userID, warehouseIDs, boxTypeIDs, maxCoef, days)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// ReplaceForWarehouse — редактирование задачи: снести прежние строки
// склада и записать новый набор, всё в одной транзакции.
func (r *Repo) ReplaceForWarehouse(ctx context.Context, userID, warehouseID int64, boxTypeIDs []int, maxCoef int, days []time.Time) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM tasks WHERE user_id = $1 AND warehouse_id = $2`,
		userID, warehouseID); err != nil {
		return 0, fmt.Errorf("delete old: %w", err)
	}

	n, err := enqueueTasks(ctx, tx, userID, []int64{warehouseID}, boxTypeIDs, maxCoef, days)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// buildTaskBatch раскладывает декартово произведение в батч вставок:
// по одной строке на (склад, упаковка, коэффициент 0..max, день).
func buildTaskBatch(userID int64, warehouseIDs []int64, boxTypeIDs []int, maxCoef int, days []time.Time) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, whID := range warehouseIDs {
		for _, boxID := range boxTypeIDs {
			for coef := 0; coef <= maxCoef; coef++ {
				for _, day := range days {
					batch.Queue(insertTaskSQL, userID, whID, boxID, coef, StateNew, 1, day)
				}
			}
		}
	}
	return batch
}

func enqueueTasks(ctx context.Context, tx pgx.Tx, userID int64, warehouseIDs []int64, boxTypeIDs []int, maxCoef int, days []time.Time) (int64, error) {
	batch := buildTaskBatch(userID, warehouseIDs, boxTypeIDs, maxCoef, days)

	br := tx.SendBatch(ctx, batch)
	var written int64
	for i := 0; i < batch.Len(); i++ {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return 0, fmt.Errorf("insert task: %w", err)
		}
		written += tag.RowsAffected()
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}
	return written, nil
}

// UserWarehouseIDs — склады, по которым у пользователя уже есть задачи,
// в порядке создания.
func (r *Repo) UserWarehouseIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT warehouse_id
		FROM tasks
		WHERE user_id = $1
		GROUP BY warehouse_id
		ORDER BY min(created_at)
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// CountWarehouses — число уникальных складов с задачами.
func (r *Repo) CountWarehouses(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(DISTINCT warehouse_id) FROM tasks WHERE user_id = $1`,
		userID).Scan(&n)
	return n, err
}

// GroupsByWarehouse сворачивает задачи в одну запись на склад:
// все типы упаковки, максимальный коэффициент, границы периода.
// warehouseIDs == nil — без фильтра.
func (r *Repo) GroupsByWarehouse(ctx context.Context, userID int64, warehouseIDs []int64, limit, offset int) ([]Group, error) {
	q := `
		SELECT warehouse_id,
		       array_agg(DISTINCT box_type_id),
		       max(coefficient),
		       min(date), max(date),
		       bool_or(alarm = 1)
		FROM tasks
		WHERE user_id = $1`
	args := []any{userID}
	if warehouseIDs != nil {
		q += ` AND warehouse_id = ANY($2)`
		args = append(args, warehouseIDs)
	}
	q += `
		GROUP BY warehouse_id
		ORDER BY min(created_at)`
	args = append(args, limit, offset)
	q += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.WarehouseID, &g.BoxTypeIDs, &g.MaxCoef, &g.PeriodStart, &g.PeriodEnd, &g.Alarm); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// WarehousesWithAlarm — склады пользователя с флагом уведомлений.
func (r *Repo) WarehousesWithAlarm(ctx context.Context, userID int64) ([]AlarmState, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT warehouse_id, bool_or(alarm = 1)
		FROM tasks
		WHERE user_id = $1
		GROUP BY warehouse_id
		ORDER BY min(created_at)
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AlarmState
	for rows.Next() {
		var a AlarmState
		if err := rows.Scan(&a.WarehouseID, &a.Alarm); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) DeleteByUserAndWarehouse(ctx context.Context, userID, warehouseID int64) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM tasks WHERE user_id = $1 AND warehouse_id = $2`,
		userID, warehouseID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ToggleAlarm инвертирует alarm по всем задачам склада. Возвращает
// число затронутых строк: 0 означает, что записи не нашлось.
func (r *Repo) ToggleAlarm(ctx context.Context, userID, warehouseID int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET alarm = CASE WHEN alarm = 1 THEN 0 ELSE 1 END,
		    updated_at = now()
		WHERE user_id = $1 AND warehouse_id = $2
	`, userID, warehouseID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SetAlarmAll массово включает/выключает уведомления.
func (r *Repo) SetAlarmAll(ctx context.Context, userID int64, on bool) (int64, error) {
	state := 0
	if on {
		state = 1
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE tasks SET alarm = $2, updated_at = now() WHERE user_id = $1
	`, userID, state)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
