package api

import (
	"github.com/JaimeStill/label-manager/internal/config"
	"github.com/JaimeStill/label-manager/internal/dashboard"
	"github.com/JaimeStill/label-manager/internal/labels"
	"github.com/JaimeStill/label-manager/internal/products"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Products  products.System
	Labels    labels.System
	Dashboard dashboard.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, cfg *config.LabelsConfig) *Domain {
	db := runtime.Database.Connection()

	productsSys := products.New(
		db,
		runtime.Logger,
		runtime.Pagination,
	)

	labelsSys := labels.New(
		labels.NewStore(db),
		runtime.Storage,
		runtime.Logger,
		labels.Options{
			PreviewCacheSize: cfg.PreviewCacheSize,
			PreviewCacheTTL:  cfg.PreviewCacheTTLDuration(),
		},
	)

	return &Domain{
		Products:  productsSys,
		Labels:    labelsSys,
		Dashboard: dashboard.New(db, runtime.Logger),
	}
}
