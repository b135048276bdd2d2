package products

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/label-manager/pkg/pagination"
	"github.com/JaimeStill/label-manager/pkg/query"
	"github.com/JaimeStill/label-manager/pkg/repository"
)

const upsertSQL = `INSERT INTO products(sku, title, barcode, catalogue_number, category, type, market_territories, is_master, master_sku)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (sku) DO UPDATE SET
		title = EXCLUDED.title,
		barcode = EXCLUDED.barcode,
		catalogue_number = EXCLUDED.catalogue_number,
		category = EXCLUDED.category,
		type = EXCLUDED.type,
		market_territories = EXCLUDED.market_territories,
		is_master = EXCLUDED.is_master,
		master_sku = EXCLUDED.master_sku,
		updated_at = NOW()
	RETURNING sku, title, barcode, catalogue_number, category, type, market_territories, is_master, master_sku, created_at, updated_at`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a product repository backed by db.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "products"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Product], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "SKU", "Title", "Barcode", "CatalogueNumber")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, sku string) (*Product, error) {
	q, args := query.
		NewBuilder(projection).
		BuildSingle("SKU", sku)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProduct)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

// Search tries each strategy in turn and returns the first non-empty result:
// title contains (case-insensitive), barcode exact, catalogue number exact,
// then SKU exact (case-insensitive).
func (r *repo) Search(ctx context.Context, term string) ([]Product, error) {
	if term == "" {
		return []Product{}, nil
	}

	strategies := []struct {
		name  string
		apply func(*query.Builder) *query.Builder
	}{
		{"title", func(b *query.Builder) *query.Builder { return b.WhereContains("Title", &term) }},
		{"barcode", func(b *query.Builder) *query.Builder { return b.WhereEquals("Barcode", term) }},
		{"catalogue_number", func(b *query.Builder) *query.Builder { return b.WhereEquals("CatalogueNumber", term) }},
		{"sku", func(b *query.Builder) *query.Builder { return b.WhereIEquals("SKU", &term) }},
	}

	for _, s := range strategies {
		q, args := s.apply(query.NewBuilder(projection, defaultSort)).BuildList()

		items, err := repository.QueryMany(ctx, r.db, q, args, scanProduct)
		if err != nil {
			return nil, fmt.Errorf("search products by %s: %w", s.name, err)
		}
		if len(items) > 0 {
			r.logger.Debug("product search matched", "term", term, "strategy", s.name, "count", len(items))
			return items, nil
		}
	}

	return []Product{}, nil
}

func (r *repo) Children(ctx context.Context, masterSKU string) ([]Product, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("MasterSKU", masterSKU).
		BuildList()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("query child products: %w", err)
	}
	return items, nil
}

func (r *repo) Save(ctx context.Context, cmd SaveCommand) (*Product, error) {
	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Product, error) {
		return Upsert(ctx, tx, cmd)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("product saved", "sku", p.SKU, "is_master", p.IsMaster)
	return &p, nil
}

// SaveAll upserts every command in a single transaction.
// Any invalid command aborts the whole batch before the transaction begins.
func (r *repo) SaveAll(ctx context.Context, cmds []SaveCommand) (int, error) {
	for i := range cmds {
		cmds[i].Normalize()
		if err := cmds[i].Validate(); err != nil {
			return 0, fmt.Errorf("product %d: %w", i, err)
		}
	}

	n, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int, error) {
		for _, cmd := range cmds {
			if _, err := Upsert(ctx, tx, cmd); err != nil {
				return 0, fmt.Errorf("save %s: %w", cmd.SKU, err)
			}
		}
		return len(cmds), nil
	})
	if err != nil {
		return 0, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("products saved", "count", n)
	return n, nil
}

// Upsert normalizes and validates cmd, then inserts or replaces the product
// through q, which may be a caller-owned transaction.
func Upsert(ctx context.Context, q repository.Querier, cmd SaveCommand) (Product, error) {
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return Product{}, err
	}
	return repository.QueryOne(ctx, q, upsertSQL, upsertArgs(cmd), scanProduct)
}

func upsertArgs(cmd SaveCommand) []any {
	return []any{
		cmd.SKU,
		cmd.Title,
		cmd.Barcode,
		cmd.CatalogueNumber,
		cmd.Category,
		cmd.Type,
		cmd.MarketTerritories,
		cmd.IsMaster,
		cmd.MasterSKU,
	}
}
