package labels

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JaimeStill/label-manager/pkg/query"
	"github.com/JaimeStill/label-manager/pkg/repository"
)

// lockSQL takes a transaction-scoped advisory lock keyed on the SKU.
// It is released on commit or rollback.
const lockSQL = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`

type pgStore struct {
	db *sql.DB
}

// NewStore creates a label store backed by PostgreSQL.
func NewStore(db *sql.DB) Store {
	return &pgStore{db: db}
}

func (s *pgStore) Find(ctx context.Context, id int64) (*Label, error) {
	q, args := query.
		NewBuilder(projection).
		BuildSingle("ID", id)

	l, err := repository.QueryOne(ctx, s.db, q, args, scanLabel)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &l, nil
}

func (s *pgStore) ListForSKU(ctx context.Context, sku string) ([]Label, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("SKU", sku).
		WhereEquals("Deleted", false).
		BuildList()

	items, err := repository.QueryMany(ctx, s.db, q, args, scanLabel)
	if err != nil {
		return nil, fmt.Errorf("query labels: %w", err)
	}
	return items, nil
}

func (s *pgStore) WithSKU(ctx context.Context, sku string, fn func(tx Tx) error) error {
	_, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx, lockSQL, sku); err != nil {
			return struct{}{}, fmt.Errorf("lock sku %s: %w", sku, err)
		}
		return struct{}{}, fn(&pgTx{tx: tx})
	})
	return err
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) MaxVersion(ctx context.Context, sku string) (int, error) {
	var v int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM labels WHERE sku = $1 AND NOT deleted`, sku,
	).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("max version: %w", err)
	}
	return v, nil
}

func (t *pgTx) KeyInUse(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM labels WHERE storage_key = $1)`, key,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check storage key: %w", err)
	}
	return exists, nil
}

func (t *pgTx) DeactivateAll(ctx context.Context, sku string) error {
	if _, err := t.tx.ExecContext(ctx,
		`UPDATE labels SET active = FALSE WHERE sku = $1 AND active`, sku,
	); err != nil {
		return fmt.Errorf("deactivate labels: %w", err)
	}
	return nil
}

func (t *pgTx) Insert(ctx context.Context, l Label) (Label, error) {
	q := `INSERT INTO labels(sku, version, file_name, storage_key, content_type, size_bytes, page_count, active, deleted, sku_matched, created_by)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + labelColumns

	out, err := repository.QueryOne(ctx, t.tx, q, []any{
		l.SKU, l.Version, l.FileName, l.StorageKey, l.ContentType, l.SizeBytes,
		l.PageCount, l.Active, l.Deleted, l.SKUMatched, l.CreatedBy,
	}, scanLabel)
	if err != nil {
		return Label{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return out, nil
}

func (t *pgTx) Get(ctx context.Context, id int64) (Label, error) {
	q := `SELECT ` + labelColumns + ` FROM labels WHERE id = $1 FOR UPDATE`

	l, err := repository.QueryOne(ctx, t.tx, q, []any{id}, scanLabel)
	if err != nil {
		return Label{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return l, nil
}

func (t *pgTx) SoftDelete(ctx context.Context, id int64) error {
	err := repository.ExecExpectOne(ctx, t.tx,
		`UPDATE labels SET deleted = TRUE, active = FALSE WHERE id = $1`, id,
	)
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

func (t *pgTx) ActivateHighest(ctx context.Context, sku string) (*Label, error) {
	q := `UPDATE labels SET active = TRUE
		WHERE id = (
			SELECT id FROM labels
			WHERE sku = $1 AND NOT deleted
			ORDER BY version DESC
			LIMIT 1
		)
		RETURNING ` + labelColumns

	l, err := repository.QueryOne(ctx, t.tx, q, []any{sku}, scanLabel)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("activate highest version: %w", err)
	}
	return &l, nil
}
