package products

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/label-manager/pkg/handlers"
	"github.com/JaimeStill/label-manager/pkg/pagination"
	"github.com/JaimeStill/label-manager/pkg/routes"
)

// Handler provides HTTP endpoints for product operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a product handler.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "products"),
		pagination: pagination,
	}
}

// Routes returns the product endpoint route group.
// Children lets the labels handler nest its per-SKU routes beneath /products.
func (h *Handler) Routes(children ...routes.Group) routes.Group {
	return routes.Group{
		Prefix:      "/products",
		Tags:        []string{"Products"},
		Description: "Product catalogue",
		Schemas:     Spec.Schemas(),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/search", Handler: h.Search, OpenAPI: Spec.Search},
			{Method: "POST", Pattern: "", Handler: h.Save, OpenAPI: Spec.Save},
			{Method: "GET", Pattern: "/{sku}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "GET", Pattern: "/{sku}/children", Handler: h.Children, OpenAPI: Spec.Children},
		},
		Children: children,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.sys.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[SaveCommand](r.Body)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	p, err := h.sys.Save(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	p, err := h.sys.Find(r.Context(), r.PathValue("sku"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) Children(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")
	if _, err := h.sys.Find(r.Context(), sku); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	items, err := h.sys.Children(r.Context(), sku)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}
