package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"holdops/internal/domain"
	"holdops/internal/port"
)

type kvRepo struct {
	db *sqlx.DB
}

// NewKVRepo creates a new PostgreSQL-backed KVStore.
func NewKVRepo(db *sqlx.DB) port.KVStore {
	return &kvRepo{db: db}
}

// kvRow mirrors kv_store; value is scanned as raw bytes and copied into the
// entry so the driver's buffer is never retained.
type kvRow struct {
	Key       string     `db:"key"`
	Value     []byte     `db:"value"`
	ExpiresAt *time.Time `db:"expires_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

const liveCondition = "(expires_at IS NULL OR expires_at > NOW())"

func (r *kvRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.GetContext(ctx, &value,
		"SELECT value FROM kv_store WHERE key = $1 AND "+liveCondition, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("kvRepo.Get: %w", err)
	}
	return value, nil
}

func (r *kvRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl).UTC()
		expiresAt = &t
	}
	query := `INSERT INTO kv_store (key, value, expires_at, updated_at)
		VALUES ($1, $2::jsonb, $3, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, key, string(value), expiresAt); err != nil {
		return fmt.Errorf("kvRepo.Set: %w", err)
	}
	return nil
}

func (r *kvRepo) Delete(ctx context.Context, key string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM kv_store WHERE key = $1 AND "+liveCondition, key)
	if err != nil {
		return fmt.Errorf("kvRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *kvRepo) List(ctx context.Context, prefix string) ([]domain.KVEntry, error) {
	var rows []kvRow
	query := `SELECT key, value, expires_at, updated_at FROM kv_store
		WHERE key LIKE $1 ESCAPE '\' AND ` + liveCondition + `
		ORDER BY key`
	if err := r.db.SelectContext(ctx, &rows, query, likePrefix(prefix)); err != nil {
		return nil, fmt.Errorf("kvRepo.List: %w", err)
	}
	entries := make([]domain.KVEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.KVEntry{
			Key:       row.Key,
			Value:     append([]byte(nil), row.Value...),
			ExpiresAt: row.ExpiresAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return entries, nil
}

func (r *kvRepo) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM kv_store WHERE expires_at IS NOT NULL AND expires_at <= NOW()")
	if err != nil {
		return 0, fmt.Errorf("kvRepo.PurgeExpired: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// likePrefix escapes LIKE metacharacters so prefix matches literally.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
