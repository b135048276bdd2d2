// Package module mounts independently built HTTP handlers beneath path
// prefixes, each with its own middleware chain.
package module

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/label-manager/pkg/middleware"
)

// Module is an http.Handler served beneath a fixed prefix.
type Module struct {
	prefix     string
	handler    http.Handler
	middleware middleware.System
}

// New creates a module serving handler beneath prefix.
// The prefix is stripped before the request reaches handler.
func New(prefix string, handler http.Handler) *Module {
	return &Module{
		prefix:     strings.TrimSuffix(prefix, "/"),
		handler:    handler,
		middleware: middleware.New(),
	}
}

// Prefix returns the mount path of the module.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware to the module chain.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

// Handler returns the module handler wrapped in its middleware with the prefix stripped.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(http.StripPrefix(m.prefix, m.handler))
}

// Router dispatches requests to mounted modules by prefix and falls back
// to natively registered handlers.
type Router struct {
	mux *http.ServeMux
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{mux: http.NewServeMux()}
}

// Mount registers m beneath its prefix.
func (r *Router) Mount(m *Module) {
	h := m.Handler()
	r.mux.Handle(m.prefix, h)
	r.mux.Handle(m.prefix+"/", h)
}

// HandleNative registers a handler outside of any module.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.mux.HandleFunc(pattern, handler)
}

// Handle registers an http.Handler outside of any module.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
