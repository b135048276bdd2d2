package openapi

import (
	"encoding/json"
	"net/http"
)

// NewSpec creates an OpenAPI 3.1 document with empty paths and components.
func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI:    "3.1.0",
		Info:       &Info{Title: title, Version: version},
		Paths:      make(map[string]*PathItem),
		Components: NewComponents(),
	}
}

// SetDescription sets the API description.
func (s *Spec) SetDescription(desc string) {
	s.Info.Description = desc
}

// AddServer appends a server URL. Empty URLs are ignored.
func (s *Spec) AddServer(url string) {
	if url == "" {
		return
	}
	s.Servers = append(s.Servers, &Server{URL: url})
}

// AddOperation attaches op to path under the given HTTP method.
func (s *Spec) AddOperation(path, method string, op *Operation) {
	item, ok := s.Paths[path]
	if !ok {
		item = &PathItem{}
		s.Paths[path] = item
	}

	switch method {
	case http.MethodGet:
		item.Get = op
	case http.MethodPost:
		item.Post = op
	case http.MethodPut:
		item.Put = op
	case http.MethodDelete:
		item.Delete = op
	}
}

// NewComponents creates Components pre-populated with the shared error responses.
func NewComponents() *Components {
	errorSchema := &Schema{
		Type: "object",
		Properties: map[string]*Property{
			"error": {Type: "string"},
		},
	}

	return &Components{
		Schemas: map[string]*Schema{"Error": errorSchema},
		Responses: map[string]*Response{
			"BadRequest":    ResponseJSON("Invalid request", "Error"),
			"NotFound":      ResponseJSON("Resource not found", "Error"),
			"Conflict":      ResponseJSON("Resource conflict", "Error"),
			"TooLarge":      ResponseJSON("Payload too large", "Error"),
			"InternalError": ResponseJSON("Internal server error", "Error"),
		},
	}
}

// AddSchemas merges schemas into the component set.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	if c.Schemas == nil {
		c.Schemas = make(map[string]*Schema, len(schemas))
	}
	for name, schema := range schemas {
		c.Schemas[name] = schema
	}
}

// AddResponses merges responses into the component set.
func (c *Components) AddResponses(responses map[string]*Response) {
	if c.Responses == nil {
		c.Responses = make(map[string]*Response, len(responses))
	}
	for name, resp := range responses {
		c.Responses[name] = resp
	}
}

// MarshalJSON renders the spec as indented JSON.
func MarshalJSON(spec *Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}

// ServeSpec returns a handler that writes pre-rendered spec bytes.
func ServeSpec(data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}
