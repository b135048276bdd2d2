package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	// EnvLabelsIdentityHeader overrides the request header carrying the caller identity.
	EnvLabelsIdentityHeader = "LABELS_IDENTITY_HEADER"

	// EnvLabelsDefaultCreator overrides the identity recorded when the header is absent.
	EnvLabelsDefaultCreator = "LABELS_DEFAULT_CREATOR"

	// EnvLabelsPreviewCacheSize overrides the number of cached previews.
	EnvLabelsPreviewCacheSize = "LABELS_PREVIEW_CACHE_SIZE"

	// EnvLabelsPreviewCacheTTL overrides how long a cached preview lives.
	EnvLabelsPreviewCacheTTL = "LABELS_PREVIEW_CACHE_TTL"
)

// LabelsConfig contains label upload and preview settings.
type LabelsConfig struct {
	IdentityHeader   string `toml:"identity_header"`
	DefaultCreator   string `toml:"default_creator"`
	PreviewCacheSize int    `toml:"preview_cache_size"`
	PreviewCacheTTL  string `toml:"preview_cache_ttl"`
}

// PreviewCacheTTLDuration parses and returns the preview cache TTL as a time.Duration.
func (c *LabelsConfig) PreviewCacheTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.PreviewCacheTTL)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the labels configuration.
func (c *LabelsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *LabelsConfig) Merge(overlay *LabelsConfig) {
	if overlay.IdentityHeader != "" {
		c.IdentityHeader = overlay.IdentityHeader
	}
	if overlay.DefaultCreator != "" {
		c.DefaultCreator = overlay.DefaultCreator
	}
	if overlay.PreviewCacheSize != 0 {
		c.PreviewCacheSize = overlay.PreviewCacheSize
	}
	if overlay.PreviewCacheTTL != "" {
		c.PreviewCacheTTL = overlay.PreviewCacheTTL
	}
}

func (c *LabelsConfig) loadDefaults() {
	if c.IdentityHeader == "" {
		c.IdentityHeader = "X-User"
	}
	if c.DefaultCreator == "" {
		c.DefaultCreator = "system"
	}
	if c.PreviewCacheSize == 0 {
		c.PreviewCacheSize = 128
	}
	if c.PreviewCacheTTL == "" {
		c.PreviewCacheTTL = "10m"
	}
}

func (c *LabelsConfig) loadEnv() {
	if v := os.Getenv(EnvLabelsIdentityHeader); v != "" {
		c.IdentityHeader = v
	}
	if v := os.Getenv(EnvLabelsDefaultCreator); v != "" {
		c.DefaultCreator = v
	}
	if v := os.Getenv(EnvLabelsPreviewCacheSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PreviewCacheSize = n
		}
	}
	if v := os.Getenv(EnvLabelsPreviewCacheTTL); v != "" {
		c.PreviewCacheTTL = v
	}
}

func (c *LabelsConfig) validate() error {
	c.IdentityHeader = http.CanonicalHeaderKey(c.IdentityHeader)
	if c.PreviewCacheSize < 0 {
		return fmt.Errorf("preview_cache_size cannot be negative")
	}
	if _, err := time.ParseDuration(c.PreviewCacheTTL); err != nil {
		return fmt.Errorf("invalid preview_cache_ttl: %w", err)
	}
	return nil
}
