package labels

import "github.com/JaimeStill/label-manager/pkg/openapi"

type spec struct {
	List         *openapi.Operation
	Upload       *openapi.Operation
	BulkDownload *openapi.Operation
	Find         *openapi.Operation
	Delete       *openapi.Operation
	Preview      *openapi.Operation
}

// Spec holds the OpenAPI operations for the label routes.
var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List product labels",
		Description: "Non-deleted labels of a product, highest version first",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("sku", "Product SKU"),
		},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Labels",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Label")}},
				},
			},
		},
	},
	Upload: &openapi.Operation{
		Summary:     "Upload label",
		Description: "Store a new label version and make it the active label. The SKU is searched for in the document text and the result recorded as sku_matched.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("sku", "Product SKU"),
		},
		RequestBody: openapi.RequestBodyMultipart("file", "Label file"),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Label uploaded", "Label"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			413: openapi.ResponseRef("TooLarge"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	BulkDownload: &openapi.Operation{
		Summary:     "Download product labels",
		Description: "Zip archive of every non-deleted label, entries named {version}_{file_name}",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("sku", "Product SKU"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseBinary("Label archive", "application/zip"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Find label",
		Parameters: []*openapi.Parameter{
			openapi.PathParamInt("id", "Label ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Label details", "Label"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete label",
		Description: "Soft-delete a label. Deleting the active label reactivates the highest remaining version.",
		Parameters: []*openapi.Parameter{
			openapi.PathParamInt("id", "Label ID"),
		},
		Responses: map[int]*openapi.Response{
			204: {Description: "Label deleted"},
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Preview: &openapi.Operation{
		Summary:     "Preview label",
		Description: "Inline PDF of the label. Files that are not PDFs are replaced by a generated placeholder.",
		Parameters: []*openapi.Parameter{
			openapi.PathParamInt("id", "Label ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseBinary("Label PDF", "application/pdf"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Label": {
			Type: "object",
			Properties: map[string]*openapi.Property{
				"id":           {Type: "integer", Format: "int64"},
				"sku":          {Type: "string"},
				"version":      {Type: "integer", Example: 1},
				"file_name":    {Type: "string"},
				"storage_key":  {Type: "string", Example: "labels/10530421/v1_label.pdf"},
				"content_type": {Type: "string"},
				"size_bytes":   {Type: "integer", Format: "int64"},
				"page_count":   {Type: "integer", Nullable: true},
				"active":       {Type: "boolean"},
				"deleted":      {Type: "boolean"},
				"sku_matched":  {Type: "boolean", Nullable: true},
				"created_at":   {Type: "string", Format: "date-time"},
				"created_by":   {Type: "string"},
			},
		},
	}
}
