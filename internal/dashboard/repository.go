package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

const (
	totalSQL = `SELECT COUNT(*) FROM products`

	readySQL = `SELECT COUNT(*) FROM products p
		WHERE EXISTS (
			SELECT 1 FROM labels l
			WHERE l.sku = p.sku AND l.active AND NOT l.deleted
		)`

	categorySQL = `SELECT category, COUNT(*) FROM products
		WHERE category <> ''
		GROUP BY category`
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a dashboard system that aggregates directly in PostgreSQL.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "dashboard"),
	}
}

func (r *repo) Stats(ctx context.Context) (*Stats, error) {
	var (
		total, ready int
		categories   map[string]int
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := r.db.QueryRowContext(gctx, totalSQL).Scan(&total); err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := r.db.QueryRowContext(gctx, readySQL).Scan(&ready); err != nil {
			return fmt.Errorf("count ready products: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		categories, err = r.categories(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := NewStats(total, ready, categories)
	return &stats, nil
}

func (r *repo) categories(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, categorySQL)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			name  string
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out[name] = count
	}
	return out, rows.Err()
}
