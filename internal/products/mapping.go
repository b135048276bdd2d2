package products

import (
	"net/url"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JaimeStill/label-manager/pkg/query"
	"github.com/JaimeStill/label-manager/pkg/repository"
)

var projection = query.NewProjectionMap("public", "products", "p").
	Project("sku", "SKU").
	Project("title", "Title").
	Project("barcode", "Barcode").
	Project("catalogue_number", "CatalogueNumber").
	Project("category", "Category").
	Project("type", "Type").
	Project("market_territories", "MarketTerritories").
	Project("is_master", "IsMaster").
	Project("master_sku", "MasterSKU").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "SKU"}

// scanProduct decodes TEXT[] through a pgtype.Map since database/sql has no
// native array support. Maps are not safe for concurrent use, so one is
// created per row.
func scanProduct(s repository.Scanner) (Product, error) {
	var p Product
	typeMap := pgtype.NewMap()
	err := s.Scan(
		&p.SKU,
		&p.Title,
		&p.Barcode,
		&p.CatalogueNumber,
		&p.Category,
		&p.Type,
		typeMap.SQLScanner(&p.MarketTerritories),
		&p.IsMaster,
		&p.MasterSKU,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if p.MarketTerritories == nil {
		p.MarketTerritories = []string{}
	}
	return p, err
}

// Filters contains optional criteria for filtering product queries.
type Filters struct {
	Category  *string
	Type      *string
	IsMaster  *bool
	MasterSKU *string
}

// FiltersFromQuery extracts product filters from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("category"); c != "" {
		f.Category = &c
	}

	if t := values.Get("type"); t != "" {
		f.Type = &t
	}

	if m := values.Get("is_master"); m != "" {
		if b, err := strconv.ParseBool(m); err == nil {
			f.IsMaster = &b
		}
	}

	if ms := values.Get("master_sku"); ms != "" {
		f.MasterSKU = &ms
	}

	return f
}

// Apply adds filter conditions to the query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereIEquals("Category", f.Category).
		WhereIEquals("Type", f.Type)

	if f.IsMaster != nil {
		b.WhereEquals("IsMaster", *f.IsMaster)
	}
	if f.MasterSKU != nil {
		b.WhereEquals("MasterSKU", *f.MasterSKU)
	}
	return b
}
