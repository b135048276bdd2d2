// Package storage provides blob storage behind a single System interface with
// filesystem, Google Cloud Storage, and S3-compatible implementations.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/JaimeStill/label-manager/pkg/lifecycle"
)

// System stores opaque byte blobs under string keys.
type System interface {
	// Start provisions the backend as a lifecycle startup hook.
	Start(lc *lifecycle.Coordinator) error

	// Ensure provisions the bucket or base directory if it does not exist.
	// It is idempotent.
	Ensure(ctx context.Context) error

	// Store writes data under key, overwriting any existing blob.
	Store(ctx context.Context, key string, data []byte, contentType string) error

	// Retrieve returns the blob under key or ErrNotFound.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob under key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Validate reports whether a blob exists under key.
	Validate(ctx context.Context, key string) (bool, error)
}

// New creates the backend selected by cfg.Backend.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "storage", "backend", cfg.Backend)

	switch cfg.Backend {
	case BackendFilesystem:
		return NewFilesystem(cfg.BasePath, logger)
	case BackendGCS:
		return NewGCS(ctx, cfg.Bucket, &cfg.GCS, logger)
	case BackendS3:
		return NewS3(cfg.Bucket, &cfg.S3, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}

// ensurer records whether provisioning has succeeded so writes can
// provision lazily when startup provisioning failed or never ran.
type ensurer struct {
	mu     sync.Mutex
	done   bool
	ensure func(ctx context.Context) error
}

func (e *ensurer) run(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done {
		return nil
	}
	if err := e.ensure(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	e.done = true
	return nil
}

func startEnsure(lc *lifecycle.Coordinator, e *ensurer, logger *slog.Logger) {
	lc.OnStartup(func() {
		if err := e.run(lc.Context()); err != nil {
			logger.Error("storage provisioning failed", "error", err)
			return
		}
		logger.Info("storage provisioned")
	})
}
