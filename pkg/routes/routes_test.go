package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/label-manager/pkg/openapi"
	"github.com/JaimeStill/label-manager/pkg/routes"
)

func ok(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	spec := openapi.NewSpec("Test", "1.0.0")

	group := routes.Group{
		Prefix: "/products",
		Tags:   []string{"Products"},
		Schemas: map[string]*openapi.Schema{
			"Product": {Type: "object"},
		},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: ok("list"), OpenAPI: &openapi.Operation{Summary: "List"}},
			{Method: "GET", Pattern: "/{sku}", Handler: ok("find")},
		},
		Children: []routes.Group{
			{
				Prefix: "/{sku}/labels",
				Tags:   []string{"Labels"},
				Routes: []routes.Route{
					{Method: "POST", Pattern: "", Handler: ok("upload"), OpenAPI: &openapi.Operation{Summary: "Upload"}},
				},
			},
		},
	}

	routes.Register(mux, "/api", spec, group)

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"GET", "/products", "list"},
		{"GET", "/products/SKU-1", "find"},
		{"POST", "/products/SKU-1/labels", "upload"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Body.String() != tt.want {
			t.Errorf("%s %s = %q, want %q", tt.method, tt.path, rec.Body.String(), tt.want)
		}
	}

	if spec.Paths["/api/products"] == nil || spec.Paths["/api/products"].Get == nil {
		t.Error("expected GET /api/products in spec")
	}
	if _, ok := spec.Paths["/api/products/{sku}"]; ok {
		t.Error("undocumented route should not appear in spec")
	}

	upload := spec.Paths["/api/products/{sku}/labels"]
	if upload == nil || upload.Post == nil {
		t.Fatal("expected POST /api/products/{sku}/labels in spec")
	}
	if len(upload.Post.Tags) != 1 || upload.Post.Tags[0] != "Labels" {
		t.Errorf("Tags = %v, want [Labels]", upload.Post.Tags)
	}

	if _, ok := spec.Components.Schemas["Product"]; !ok {
		t.Error("group schemas should be added to components")
	}
}
