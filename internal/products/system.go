package products

import (
	"context"

	"github.com/JaimeStill/label-manager/pkg/pagination"
)

// System defines product catalogue operations.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Product], error)
	Find(ctx context.Context, sku string) (*Product, error)
	Search(ctx context.Context, term string) ([]Product, error)
	Children(ctx context.Context, masterSKU string) ([]Product, error)
	Save(ctx context.Context, cmd SaveCommand) (*Product, error)
	SaveAll(ctx context.Context, cmds []SaveCommand) (int, error)
}
