package labels

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/JaimeStill/label-manager/internal/products"
	"github.com/JaimeStill/label-manager/pkg/handlers"
	"github.com/JaimeStill/label-manager/pkg/routes"
)

// multipartOverhead allows for form boundaries and headers on top of the file itself.
const multipartOverhead = 1 << 20

// Identity resolves the caller recorded as a label's creator.
type Identity struct {
	Header  string
	Default string
}

func (i Identity) resolve(r *http.Request) string {
	if i.Header != "" {
		if v := strings.TrimSpace(r.Header.Get(i.Header)); v != "" {
			return v
		}
	}
	return i.Default
}

// Handler provides HTTP endpoints for label operations.
type Handler struct {
	sys           System
	catalogue     products.System
	logger        *slog.Logger
	maxUploadSize int64
	identity      Identity
}

// NewHandler creates a label handler. catalogue is used to reject uploads
// for unknown and master products.
func NewHandler(sys System, catalogue products.System, logger *slog.Logger, maxUploadSize int64, identity Identity) *Handler {
	return &Handler{
		sys:           sys,
		catalogue:     catalogue,
		logger:        logger.With("handler", "labels"),
		maxUploadSize: maxUploadSize,
		identity:      identity,
	}
}

// ProductRoutes returns the label routes nested under a product.
// The group is registered as a child of the /products group.
func (h *Handler) ProductRoutes() routes.Group {
	return routes.Group{
		Prefix:      "/{sku}/labels",
		Tags:        []string{"Labels"},
		Description: "Versioned label files of a product",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "", Handler: h.Upload, OpenAPI: Spec.Upload},
			{Method: "GET", Pattern: "/bulk-download", Handler: h.BulkDownload, OpenAPI: Spec.BulkDownload},
		},
	}
}

// Routes returns the label endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/labels",
		Tags:        []string{"Labels"},
		Description: "Label lookup, deletion and preview",
		Schemas:     Spec.Schemas(),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: Spec.Delete},
			{Method: "GET", Pattern: "/{id}/preview", Handler: h.Preview, OpenAPI: Spec.Preview},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.sys.ListForProduct(r.Context(), r.PathValue("sku"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")

	product, err := h.catalogue.Find(r.Context(), sku)
	if err != nil {
		handlers.RespondError(w, h.logger, products.MapHTTPStatus(err), err)
		return
	}
	if product.IsMaster {
		err := fmt.Errorf("%w: labels can only be uploaded to child products", ErrInvalidOperation)
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	label, err := h.sys.Upload(r.Context(), UploadCommand{
		SKU:         product.SKU,
		FileName:    header.Filename,
		ContentType: detectContentType(header.Header.Get("Content-Type"), data),
		Data:        data,
		CreatedBy:   h.identity.resolve(r),
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, label)
}

func (h *Handler) BulkDownload(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")

	var buf bytes.Buffer
	if err := h.sys.Archive(r.Context(), sku, &buf); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondBytes(w, "application/zip", "attachment", "labels_"+sku+".zip", buf.Bytes())
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	label, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, label)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	label, data, err := h.sys.Preview(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondBytes(w, "application/pdf", "inline", label.FileName, data)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid label id %q", r.PathValue("id"))
	}
	return id, nil
}

func detectContentType(header string, data []byte) string {
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}
