package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/label-manager/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusCreated, map[string]int{"version": 2})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["version"] != 2 {
		t.Errorf("version = %d, want 2", body["version"])
	}
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name   string
		status int
	}{
		{"client error", http.StatusBadRequest},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondError(rec, logger, tt.status, errors.New("boom"))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}

			var body map[string]string
			json.Unmarshal(rec.Body.Bytes(), &body)
			if body["error"] != "boom" {
				t.Errorf("error = %q, want boom", body["error"])
			}
		})
	}
}

func TestRespondBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondBytes(rec, "application/zip", "attachment", "labels_SKU-1.zip", []byte("PK"))

	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="labels_SKU-1.zip"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := rec.Header().Get("Content-Length"); got != "2" {
		t.Errorf("Content-Length = %q, want 2", got)
	}
	if rec.Body.String() != "PK" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		SKU string `json:"sku"`
	}

	got, err := handlers.DecodeJSON[payload](strings.NewReader(`{"sku":"A-1"}`))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if got.SKU != "A-1" {
		t.Errorf("SKU = %q, want A-1", got.SKU)
	}

	if _, err := handlers.DecodeJSON[payload](strings.NewReader(`{"other":1}`)); err == nil {
		t.Error("DecodeJSON() should reject unknown fields")
	}
}
