package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/label-manager/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Label Manager API", "0.1.0")
	spec.SetDescription("labels")
	spec.AddServer("")
	spec.AddServer("http://localhost:8080")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("OpenAPI = %q", spec.OpenAPI)
	}
	if len(spec.Servers) != 1 {
		t.Errorf("Servers = %d, want 1", len(spec.Servers))
	}
	if _, ok := spec.Components.Responses["NotFound"]; !ok {
		t.Error("expected shared NotFound response")
	}
}

func TestSpec_AddOperation(t *testing.T) {
	spec := openapi.NewSpec("t", "v")
	get := &openapi.Operation{Summary: "get"}
	del := &openapi.Operation{Summary: "delete"}

	spec.AddOperation("/labels/{id}", "GET", get)
	spec.AddOperation("/labels/{id}", "DELETE", del)

	item := spec.Paths["/labels/{id}"]
	if item.Get != get || item.Delete != del {
		t.Errorf("PathItem = %+v", item)
	}
}

func TestMarshalJSON_ServeSpec(t *testing.T) {
	spec := openapi.NewSpec("t", "v")
	spec.AddOperation("/x", "GET", &openapi.Operation{
		Responses: map[int]*openapi.Response{200: openapi.ResponseBinary("PDF", "application/pdf")},
	})

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("served spec is not JSON: %v", err)
	}

	paths := doc["paths"].(map[string]any)
	get := paths["/x"].(map[string]any)["get"].(map[string]any)
	if _, ok := get["responses"].(map[string]any)["200"]; !ok {
		t.Error("expected integer response code rendered as string key")
	}
}

func TestConfig_Finalize(t *testing.T) {
	t.Setenv("TEST_OPENAPI_TITLE", "Custom")

	var cfg openapi.Config
	cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_OPENAPI_TITLE"})

	if cfg.Title != "Custom" {
		t.Errorf("Title = %q, want Custom", cfg.Title)
	}
	if cfg.Description == "" {
		t.Error("Description should default")
	}
}
