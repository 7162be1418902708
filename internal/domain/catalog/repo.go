package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Page возвращает страницу справочника и общее число складов.
func (r *Repo) Page(ctx context.Context, limit, offset int) ([]Warehouse, int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, created_at
		FROM warehouses
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM warehouses`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ByIDs возвращает склады по списку business-id, в порядке переданных id.
func (r *Repo) ByIDs(ctx context.Context, ids []int64) ([]Warehouse, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, created_at
		FROM warehouses
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int64]Warehouse, len(ids))
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.CreatedAt); err != nil {
			return nil, err
		}
		byID[w.ID] = w
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Warehouse, 0, len(ids))
	for _, id := range ids {
		if w, ok := byID[id]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}
