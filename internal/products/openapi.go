package products

import "github.com/JaimeStill/label-manager/pkg/openapi"

type spec struct {
	List     *openapi.Operation
	Search   *openapi.Operation
	Save     *openapi.Operation
	Find     *openapi.Operation
	Children *openapi.Operation
}

// Spec holds the OpenAPI operations for the product routes.
var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List products",
		Description: "List products with pagination and optional filters",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Items per page", false),
			openapi.QueryParam("search", "string", "Search in SKU, title, barcode and catalogue number", false),
			openapi.QueryParam("sort", "string", "Comma-separated fields, '-' prefix for descending", false),
			openapi.QueryParam("category", "string", "Filter by category", false),
			openapi.QueryParam("type", "string", "Filter by product type", false),
			openapi.QueryParam("is_master", "boolean", "Filter master or child products", false),
			openapi.QueryParam("master_sku", "string", "Filter by master SKU", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Product list", "ProductPageResult"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search products",
		Description: "Match by title, then barcode, then catalogue number, then SKU. The first strategy with results wins.",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("query", "string", "Search term", true),
		},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Matching products",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Product")}},
				},
			},
		},
	},
	Save: &openapi.Operation{
		Summary:     "Save product",
		Description: "Create a product or replace the attributes of an existing one",
		RequestBody: openapi.RequestBodyJSON("SaveProductCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Product saved", "Product"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Find product",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("sku", "Product SKU"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Product details", "Product"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Children: &openapi.Operation{
		Summary:     "List child products",
		Description: "Products whose master_sku references the given master",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("sku", "Master product SKU"),
		},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Child products",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Product")}},
				},
			},
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func productProperties() map[string]*openapi.Property {
	return map[string]*openapi.Property{
		"sku":                {Type: "string", Example: "10530421"},
		"title":              {Type: "string"},
		"barcode":            {Type: "string"},
		"catalogue_number":   {Type: "string"},
		"category":           {Type: "string"},
		"type":               {Type: "string"},
		"market_territories": {Type: "array", Items: &openapi.Schema{Type: "string"}},
		"is_master":          {Type: "boolean"},
		"master_sku":         {Type: "string", Nullable: true},
	}
}

func (spec) Schemas() map[string]*openapi.Schema {
	product := productProperties()
	product["created_at"] = &openapi.Property{Type: "string", Format: "date-time"}
	product["updated_at"] = &openapi.Property{Type: "string", Format: "date-time"}

	return map[string]*openapi.Schema{
		"Product": {
			Type:       "object",
			Properties: product,
		},
		"SaveProductCommand": {
			Type:       "object",
			Required:   []string{"sku"},
			Properties: productProperties(),
		},
		"ProductPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Property{
				"data":        {Type: "array", Items: openapi.SchemaRef("Product")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
