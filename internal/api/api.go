// Package api assembles the JSON API module: domain systems, their routes
// and the generated OpenAPI document.
package api

import (
	"net/http"

	"github.com/JaimeStill/label-manager/internal/config"
	"github.com/JaimeStill/label-manager/internal/infrastructure"
	"github.com/JaimeStill/label-manager/pkg/middleware"
	"github.com/JaimeStill/label-manager/pkg/module"
	"github.com/JaimeStill/label-manager/pkg/openapi"
)

// NewModule builds the API module mounted at cfg.API.BasePath.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime, &cfg.Labels)

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.Domain)

	mux := http.NewServeMux()
	registerRoutes(mux, spec, runtime, domain, cfg)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.TrimSlash())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
