package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/label-manager/pkg/handlers"
	"github.com/JaimeStill/label-manager/pkg/routes"
)

// Handler provides HTTP endpoints for dashboard statistics.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "dashboard"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/dashboard",
		Tags:        []string{"Dashboard"},
		Description: "Label readiness statistics",
		Schemas:     Spec.Schemas(),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/stats", Handler: h.Stats, OpenAPI: Spec.Stats},
		},
	}
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sys.Stats(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}
