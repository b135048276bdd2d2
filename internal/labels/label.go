// Package labels implements versioned label files attached to products.
// Each upload becomes the new active version for its SKU. Deletes are soft and
// hand activation back to the highest remaining version.
package labels

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Label is a single stored version of a product label file.
type Label struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"sku"`
	Version     int       `json:"version"`
	FileName    string    `json:"file_name"`
	StorageKey  string    `json:"storage_key"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count,omitempty"`
	Active      bool      `json:"active"`
	Deleted     bool      `json:"deleted"`
	SKUMatched  *bool     `json:"sku_matched"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
}

// UploadCommand carries a new label file for a SKU.
type UploadCommand struct {
	SKU         string
	FileName    string
	ContentType string
	Data        []byte
	CreatedBy   string
}

// StorageKey returns the blob key for a label version.
func StorageKey(sku string, version int, fileName string) string {
	return fmt.Sprintf("labels/%s/v%d_%s", sku, version, fileName)
}

// RevisionKey returns the blob key for the nth reuse of a version number whose
// StorageKey is still held by a deleted label.
func RevisionKey(sku string, version, n int, fileName string) string {
	return fmt.Sprintf("labels/%s/v%d.r%d_%s", sku, version, n, fileName)
}

// ArchiveEntryName returns the name of a label inside a bulk-download archive.
func ArchiveEntryName(l Label) string {
	return fmt.Sprintf("%d_%s", l.Version, l.FileName)
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	replacer := strings.NewReplacer(
		" ", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	name = replacer.Replace(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
