package repos

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"pixelmart/internal/domain"
	applog "pixelmart/internal/log"
)

// StateRepo persists the storefront as one JSON blob per collection key.
// Writes replace every key; concurrent writers from other processes are
// last-writer-wins.
type StateRepo struct{ db *sqlx.DB }

func NewStateRepo(db *sqlx.DB) *StateRepo { return &StateRepo{db: db} }

type blobRow struct {
	Key   string `db:"blob_key"`
	Value string `db:"value"`
}

// Get returns the raw blob for key; ok is false when the key was never written.
func (r *StateRepo) Get(ctx context.Context, key string) (raw []byte, ok bool, err error) {
	var v string
	err = r.db.GetContext(ctx, &v, r.db.Rebind(`SELECT value FROM blobs WHERE blob_key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(v), true, nil
}

func (r *StateRepo) Put(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return upsert(ctx, r.db, key, b)
}

func (r *StateRepo) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := r.db.SelectContext(ctx, &keys, `SELECT blob_key FROM blobs ORDER BY blob_key`)
	return keys, err
}

// Load reads the full state. Missing keys fall back to defaults; a blob that
// no longer decodes is logged and replaced by its default.
func (r *StateRepo) Load(ctx context.Context) (*domain.State, error) {
	var rows []blobRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT blob_key, value FROM blobs`); err != nil {
		return nil, err
	}
	raw := make(map[string]string, len(rows))
	for _, row := range rows {
		raw[row.Key] = row.Value
	}

	st := &domain.State{}
	decode(raw, domain.KeyProducts, &st.Products, SeedCatalog)
	decode(raw, domain.KeyOrders, &st.Orders, none[[]domain.Order])
	decode(raw, domain.KeyCart, &st.Cart, none[domain.Cart])
	decode(raw, domain.KeyWishlist, &st.Wishlist, none[[]string])
	decode(raw, domain.KeyLastOrderID, &st.LastOrderID, none[string])
	decode(raw, domain.KeyTickets, &st.Tickets, none[[]domain.SupportTicket])
	decode(raw, domain.KeyPromos, &st.Promos, SeedPromos)
	decode(raw, domain.KeyUser, &st.User, none[*domain.User])
	decode(raw, domain.KeyMessages, &st.Messages, none[[]domain.ChatMessage])
	decode(raw, domain.KeyAllUsers, &st.AllUsers, none[[]domain.User])
	return st, nil
}

func none[T any]() T {
	var zero T
	return zero
}

func decode[T any](raw map[string]string, key string, dst *T, def func() T) {
	v, ok := raw[key]
	if !ok {
		*dst = def()
		return
	}
	var out T
	if err := json.Unmarshal([]byte(v), &out); err != nil {
		applog.Error(nil, "state.load.corrupt", err, map[string]any{"key": key})
		*dst = def()
		return
	}
	*dst = out
}

// Save rewrites every key in one transaction.
func (r *StateRepo) Save(ctx context.Context, st *domain.State) error {
	blobs := map[string]any{
		domain.KeyProducts:    st.Products,
		domain.KeyOrders:      st.Orders,
		domain.KeyCart:        st.Cart,
		domain.KeyWishlist:    st.Wishlist,
		domain.KeyLastOrderID: st.LastOrderID,
		domain.KeyTickets:     st.Tickets,
		domain.KeyPromos:      st.Promos,
		domain.KeyUser:        st.User,
		domain.KeyMessages:    st.Messages,
		domain.KeyAllUsers:    st.AllUsers,
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, key := range domain.StateKeys {
		b, err := json.Marshal(blobs[key])
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if err := upsert(ctx, tx, key, b); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
	}
	return tx.Commit()
}

func upsert(ctx context.Context, ex sqlx.ExtContext, key string, value []byte) error {
	_, err := ex.ExecContext(ctx, ex.Rebind(`
		INSERT INTO blobs(blob_key, value, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(blob_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`), key, string(value), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}
