package main

import "github.com/JaimeStill/label-manager/pkg/middleware"

// buildMiddleware creates the stack applied to every request, including
// health and metrics endpoints outside the API module.
func buildMiddleware() middleware.System {
	middlewareSys := middleware.New()
	middlewareSys.Use(middleware.Metrics())
	return middlewareSys
}
