// Package products manages the product catalogue that labels are attached to.
// Products are keyed by SKU and may be grouped under a master product.
package products

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// skuPattern limits SKUs to characters that are safe inside a storage key
// path segment.
var skuPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidSKU reports whether sku is non-empty and made only of letters, digits,
// '.', '_' and '-', starting with a letter or digit.
func ValidSKU(sku string) bool {
	return skuPattern.MatchString(sku)
}

// Product is a catalogue entry. Master products group child variants and
// never carry labels themselves.
type Product struct {
	SKU               string    `json:"sku"`
	Title             string    `json:"title"`
	Barcode           string    `json:"barcode"`
	CatalogueNumber   string    `json:"catalogue_number"`
	Category          string    `json:"category"`
	Type              string    `json:"type"`
	MarketTerritories []string  `json:"market_territories"`
	IsMaster          bool      `json:"is_master"`
	MasterSKU         *string   `json:"master_sku,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SaveCommand creates a product or replaces the attributes of an existing one.
type SaveCommand struct {
	SKU               string   `json:"sku"`
	Title             string   `json:"title"`
	Barcode           string   `json:"barcode"`
	CatalogueNumber   string   `json:"catalogue_number"`
	Category          string   `json:"category"`
	Type              string   `json:"type"`
	MarketTerritories []string `json:"market_territories"`
	IsMaster          bool     `json:"is_master"`
	MasterSKU         *string  `json:"master_sku,omitempty"`
}

// Normalize trims identifiers and drops an empty master reference.
func (c *SaveCommand) Normalize() {
	c.SKU = strings.TrimSpace(c.SKU)
	if c.MasterSKU != nil {
		m := strings.TrimSpace(*c.MasterSKU)
		if m == "" {
			c.MasterSKU = nil
		} else {
			c.MasterSKU = &m
		}
	}
	if c.MarketTerritories == nil {
		c.MarketTerritories = []string{}
	}
}

// Validate reports ErrInvalidProduct for commands that cannot be persisted.
func (c *SaveCommand) Validate() error {
	if c.SKU == "" {
		return fmt.Errorf("%w: sku required", ErrInvalidProduct)
	}
	if !ValidSKU(c.SKU) {
		return fmt.Errorf("%w: sku %q may only contain letters, digits, '.', '_' and '-'", ErrInvalidProduct, c.SKU)
	}
	if c.MasterSKU != nil {
		if !ValidSKU(*c.MasterSKU) {
			return fmt.Errorf("%w: master sku %q is not a valid sku", ErrInvalidProduct, *c.MasterSKU)
		}
		if *c.MasterSKU == c.SKU {
			return fmt.Errorf("%w: product cannot be its own master", ErrInvalidProduct)
		}
		if c.IsMaster {
			return fmt.Errorf("%w: master product cannot reference a master", ErrInvalidProduct)
		}
	}
	return nil
}
