package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/cart/domain"
	"github.com/fastygo/cart/repository"
)

// querier is the subset of *pgxpool.Pool the repository uses.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type cartRepository struct {
	pool querier
}

// NewCartRepository creates a Postgres-backed CartRepository implementation.
func NewCartRepository(pool *pgxpool.Pool) repository.CartRepository {
	return &cartRepository{pool: pool}
}

func (r *cartRepository) Load(ctx context.Context, id string) (*domain.Cart, error) {
	const query = `
	SELECT id, version, lines, created_at, updated_at
	FROM carts
	WHERE id = $1
	`
	snap, lines, err := scanCart(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	cart, err := restoreRow(snap, lines)
	if err != nil {
		// Unrestorable rows are removed so the next version-0 insert can replace them.
		if purgeErr := r.purge(ctx, snap); purgeErr != nil {
			return nil, purgeErr
		}
		return nil, err
	}
	return cart, nil
}

func (r *cartRepository) purge(ctx context.Context, snap domain.CartSnapshot) error {
	const query = `DELETE FROM carts WHERE id = $1 AND version = $2`
	_, err := r.pool.Exec(ctx, query, snap.ID, snap.Version)
	return err
}

// Save inserts version 1 for new carts and otherwise updates only when the stored version matches.
func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	if cart == nil {
		return domain.ErrInvalidPayload
	}

	snap := cart.Snapshot()
	lines, err := json.Marshal(snap.Lines)
	if err != nil {
		return err
	}

	const insert = `
	INSERT INTO carts (id, version, lines, created_at, updated_at)
	VALUES ($1, 1, $2, COALESCE($3, NOW()), COALESCE($4, NOW()))
	ON CONFLICT (id) DO NOTHING
	`
	const update = `
	UPDATE carts
	SET version = version + 1,
		lines = $3,
		updated_at = COALESCE($4, NOW())
	WHERE id = $1 AND version = $2
	`

	var affected int64
	if snap.Version == 0 {
		tag, err := r.pool.Exec(ctx, insert, snap.ID, lines, nullTime(snap.CreatedAt), nullTime(snap.LastUpdated))
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
	} else {
		tag, err := r.pool.Exec(ctx, update, snap.ID, snap.Version, lines, nullTime(snap.LastUpdated))
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
	}

	if affected == 0 {
		return domain.ErrCartVersionConflict
	}
	cart.MarkSaved()
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM carts WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *cartRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM carts WHERE id = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanCart(row pgx.Row) (domain.CartSnapshot, []byte, error) {
	var (
		snap  domain.CartSnapshot
		lines []byte
	)

	if err := row.Scan(
		&snap.ID,
		&snap.Version,
		&lines,
		&snap.CreatedAt,
		&snap.LastUpdated,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return snap, nil, domain.ErrCartNotFound
		}
		return snap, nil, err
	}
	return snap, lines, nil
}

// restoreRow treats undecodable line payloads as a missing cart.
func restoreRow(snap domain.CartSnapshot, lines []byte) (*domain.Cart, error) {
	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &snap.Lines); err != nil {
			return nil, domain.WrapError(domain.ErrCodeNotFound, domain.ErrCartNotFound.Message, err)
		}
	}
	cart, err := domain.RestoreCart(snap)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeNotFound, domain.ErrCartNotFound.Message, err)
	}
	return cart, nil
}
