// Package routes declares HTTP routes alongside their OpenAPI operations
// and registers them onto a ServeMux.
package routes

import (
	"net/http"

	"github.com/JaimeStill/label-manager/pkg/openapi"
)

// Route binds a method and pattern to a handler.
// OpenAPI is optional; routes without it are served but not documented.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group represents a collection of routes under a common URL prefix.
// Groups can contain child groups for hierarchical route organization.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
	Schemas     map[string]*openapi.Schema
}

// Register mounts every route in groups onto mux and records the documented
// ones in spec. Paths in spec are prefixed with basePath because the mux is
// itself mounted beneath it.
func Register(mux *http.ServeMux, basePath string, spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, basePath, spec, group, "")
	}
}

func registerGroup(mux *http.ServeMux, basePath string, spec *openapi.Spec, group Group, parent string) {
	prefix := parent + group.Prefix

	if spec != nil && len(group.Schemas) > 0 {
		spec.Components.AddSchemas(group.Schemas)
	}

	for _, route := range group.Routes {
		path := prefix + route.Pattern
		mux.HandleFunc(route.Method+" "+path, route.Handler)

		if spec == nil || route.OpenAPI == nil {
			continue
		}

		op := route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = group.Tags
		}
		spec.AddOperation(basePath+path, route.Method, op)
	}

	for _, child := range group.Children {
		registerGroup(mux, basePath, spec, child, prefix)
	}
}
