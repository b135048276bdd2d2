package dashboard

import "github.com/JaimeStill/label-manager/pkg/openapi"

type spec struct {
	Stats *openapi.Operation
}

var Spec = spec{
	Stats: &openapi.Operation{
		Summary:     "Dashboard statistics",
		Description: "Product count, products with an active label and distribution by category",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Readiness statistics", "DashboardStats"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"DashboardStats": {
			Type: "object",
			Properties: map[string]*openapi.Property{
				"total_products":        {Type: "integer"},
				"ready_products":        {Type: "integer"},
				"readiness_percentage":  {Type: "number", Format: "double", Example: 62.5},
				"category_distribution": {Type: "object", Description: "Product count keyed by category"},
			},
		},
	}
}
