package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Get возвращает состояние кармана или nil, если мастер не начат.
func (r *Repo) Get(ctx context.Context, chatID int64, slot Slot) (*Selection, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT payload FROM wizard_sessions WHERE chat_id = $1 AND slot = $2`,
		chatID, string(slot))
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	var s Selection
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *Repo) Set(ctx context.Context, chatID int64, slot Slot, s Selection) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO wizard_sessions (chat_id, slot, payload, updated_at)
		VALUES ($1,$2,$3,now())
		ON CONFLICT (chat_id, slot) DO UPDATE SET
		  payload=$3, updated_at=now()
	`, chatID, string(slot), raw)
	return err
}

func (r *Repo) Clear(ctx context.Context, chatID int64, slot Slot) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM wizard_sessions WHERE chat_id = $1 AND slot = $2`,
		chatID, string(slot))
	return err
}
