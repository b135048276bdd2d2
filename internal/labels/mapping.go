package labels

import (
	"github.com/JaimeStill/label-manager/pkg/query"
	"github.com/JaimeStill/label-manager/pkg/repository"
)

var projection = query.NewProjectionMap("public", "labels", "l").
	Project("id", "ID").
	Project("sku", "SKU").
	Project("version", "Version").
	Project("file_name", "FileName").
	Project("storage_key", "StorageKey").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("active", "Active").
	Project("deleted", "Deleted").
	Project("sku_matched", "SKUMatched").
	Project("created_at", "CreatedAt").
	Project("created_by", "CreatedBy")

var defaultSort = query.SortField{Field: "Version", Descending: true}

const labelColumns = `id, sku, version, file_name, storage_key, content_type, size_bytes, page_count, active, deleted, sku_matched, created_at, created_by`

func scanLabel(s repository.Scanner) (Label, error) {
	var l Label
	err := s.Scan(
		&l.ID,
		&l.SKU,
		&l.Version,
		&l.FileName,
		&l.StorageKey,
		&l.ContentType,
		&l.SizeBytes,
		&l.PageCount,
		&l.Active,
		&l.Deleted,
		&l.SKUMatched,
		&l.CreatedAt,
		&l.CreatedBy,
	)
	return l, err
}
