package products_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/label-manager/internal/dbtest"
	"github.com/JaimeStill/label-manager/internal/products"
	"github.com/JaimeStill/label-manager/pkg/pagination"
)

func newRepo(t *testing.T) products.System {
	t.Helper()
	db := dbtest.Open(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return products.New(db, logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
}

func seedCatalogue(t *testing.T, sys products.System) {
	t.Helper()
	cmds := []products.SaveCommand{
		{SKU: "M1", Title: "Greatest Hits", IsMaster: true, Category: "Music", Type: "Album"},
		{SKU: "C1", Title: "Greatest Hits (Vinyl)", Barcode: "5012345678900", CatalogueNumber: "CAT001", Category: "Music", Type: "LP", MasterSKU: ptr("M1"), MarketTerritories: []string{"GB", "IE"}},
		{SKU: "C2", Title: "Greatest Hits (CD)", Barcode: "5012345678917", CatalogueNumber: "CAT002", Category: "Music", Type: "CD", MasterSKU: ptr("M1")},
		{SKU: "Book-1", Title: "Field Guide", Barcode: "9780000000001", CatalogueNumber: "BK-1", Category: "Books", Type: "Paperback"},
	}
	n, err := sys.SaveAll(context.Background(), cmds)
	if err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if n != len(cmds) {
		t.Fatalf("SaveAll = %d, want %d", n, len(cmds))
	}
}

func TestRepository_SaveAndFind(t *testing.T) {
	sys := newRepo(t)
	ctx := context.Background()
	seedCatalogue(t, sys)

	p, err := sys.Find(ctx, "C1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if p.MasterSKU == nil || *p.MasterSKU != "M1" {
		t.Errorf("MasterSKU = %v, want M1", p.MasterSKU)
	}
	if len(p.MarketTerritories) != 2 || p.MarketTerritories[1] != "IE" {
		t.Errorf("MarketTerritories = %v", p.MarketTerritories)
	}

	if _, err := sys.Find(ctx, "NOPE"); !errors.Is(err, products.ErrNotFound) {
		t.Errorf("Find missing err = %v, want ErrNotFound", err)
	}
}

func TestRepository_SaveReplaces(t *testing.T) {
	sys := newRepo(t)
	ctx := context.Background()
	seedCatalogue(t, sys)

	p, err := sys.Save(ctx, products.SaveCommand{SKU: "Book-1", Title: "Field Guide 2nd Ed", Category: "Books"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if p.Title != "Field Guide 2nd Ed" || p.Barcode != "" {
		t.Errorf("product = %+v", p)
	}
	if !p.UpdatedAt.After(p.CreatedAt) && !p.UpdatedAt.Equal(p.CreatedAt) {
		t.Errorf("updated_at %v before created_at %v", p.UpdatedAt, p.CreatedAt)
	}
}

func TestRepository_Search(t *testing.T) {
	sys := newRepo(t)
	seedCatalogue(t, sys)

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"title contains", "greatest", []string{"C2", "C1", "M1"}},
		{"barcode", "9780000000001", []string{"Book-1"}},
		{"catalogue number", "CAT002", []string{"C2"}},
		{"sku case-insensitive", "book-1", []string{"Book-1"}},
		{"no match", "zzz", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := sys.Search(context.Background(), tt.term)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(items) != len(tt.want) {
				t.Fatalf("len = %d, want %d: %+v", len(items), len(tt.want), items)
			}
			got := map[string]bool{}
			for _, p := range items {
				got[p.SKU] = true
			}
			for _, sku := range tt.want {
				if !got[sku] {
					t.Errorf("missing %s in results", sku)
				}
			}
		})
	}
}

func TestRepository_ListAndChildren(t *testing.T) {
	sys := newRepo(t)
	ctx := context.Background()
	seedCatalogue(t, sys)

	category := "music"
	result, err := sys.List(ctx, pagination.PageRequest{Page: 1, PageSize: 2}, products.Filters{Category: &category})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Total != 3 || len(result.Data) != 2 || result.TotalPages != 2 {
		t.Errorf("result = total %d, len %d, pages %d", result.Total, len(result.Data), result.TotalPages)
	}

	children, err := sys.Children(ctx, "M1")
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(children) != 2 {
		t.Errorf("children = %d, want 2", len(children))
	}
}

func TestRepository_SaveAll_AbortsOnInvalid(t *testing.T) {
	sys := newRepo(t)
	ctx := context.Background()

	_, err := sys.SaveAll(ctx, []products.SaveCommand{{SKU: "A"}, {SKU: ""}})
	if !errors.Is(err, products.ErrInvalidProduct) {
		t.Fatalf("err = %v, want ErrInvalidProduct", err)
	}
	if _, err := sys.Find(ctx, "A"); !errors.Is(err, products.ErrNotFound) {
		t.Errorf("A persisted after aborted batch: %v", err)
	}
}
