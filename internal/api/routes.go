package api

import (
	"net/http"

	"github.com/JaimeStill/label-manager/internal/config"
	"github.com/JaimeStill/label-manager/internal/dashboard"
	"github.com/JaimeStill/label-manager/internal/labels"
	"github.com/JaimeStill/label-manager/internal/products"
	"github.com/JaimeStill/label-manager/pkg/openapi"
	"github.com/JaimeStill/label-manager/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	spec *openapi.Spec,
	runtime *Runtime,
	domain *Domain,
	cfg *config.Config,
) {
	productsHandler := products.NewHandler(domain.Products, runtime.Logger, runtime.Pagination)
	labelsHandler := labels.NewHandler(
		domain.Labels,
		domain.Products,
		runtime.Logger,
		cfg.Storage.MaxUploadSizeBytes(),
		labels.Identity{
			Header:  cfg.Labels.IdentityHeader,
			Default: cfg.Labels.DefaultCreator,
		},
	)
	dashboardHandler := dashboard.NewHandler(domain.Dashboard, runtime.Logger)

	routes.Register(
		mux,
		cfg.API.BasePath,
		spec,
		productsHandler.Routes(labelsHandler.ProductRoutes()),
		labelsHandler.Routes(),
		dashboardHandler.Routes(),
	)
}
