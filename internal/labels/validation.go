package labels

import (
	"strings"

	"github.com/JaimeStill/label-manager/pkg/pdfdoc"
)

// ValidateSkuPresence reports whether sku occurs in the text extracted from data.
// Unreadable documents and an empty sku report false.
func ValidateSkuPresence(sku string, data []byte) bool {
	if sku == "" {
		return false
	}

	text, err := pdfdoc.ExtractText(data)
	if err != nil {
		return false
	}
	return strings.Contains(text, sku)
}
