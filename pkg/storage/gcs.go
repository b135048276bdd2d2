package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/JaimeStill/label-manager/pkg/lifecycle"
)

type gcsStore struct {
	client    *gcs.Client
	bucket    string
	projectID string
	logger    *slog.Logger
	ensurer   *ensurer
}

// NewGCS creates a Google Cloud Storage backend for bucket.
// When cfg.EmulatorHost is set the client targets the emulator without authentication.
func NewGCS(ctx context.Context, bucket string, cfg *GCSConfig, logger *slog.Logger) (System, error) {
	var opts []option.ClientOption

	if host := strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/"); host != "" {
		os.Setenv("STORAGE_EMULATOR_HOST", host)
		opts = append(opts, option.WithoutAuthentication())
	} else {
		if cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		}
		opts = append(opts, option.WithScopes(gcs.ScopeReadWrite))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	g := &gcsStore{
		client:    client,
		bucket:    bucket,
		projectID: cfg.ProjectID,
		logger:    logger,
	}
	g.ensurer = &ensurer{ensure: g.provision}
	return g, nil
}

func (g *gcsStore) Start(lc *lifecycle.Coordinator) error {
	g.logger.Info("starting storage system", "bucket", g.bucket)
	startEnsure(lc, g.ensurer, g.logger)

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := g.client.Close(); err != nil {
			g.logger.Warn("gcs client close failed", "error", err)
		}
	})
	return nil
}

func (g *gcsStore) Ensure(ctx context.Context) error {
	return g.ensurer.run(ctx)
}

func (g *gcsStore) provision(ctx context.Context) error {
	bkt := g.client.Bucket(g.bucket)

	_, err := bkt.Attrs(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gcs.ErrBucketNotExist) {
		return fmt.Errorf("check bucket %q: %w", g.bucket, err)
	}

	if err := bkt.Create(ctx, g.projectID, nil); err != nil {
		return fmt.Errorf("create bucket %q: %w", g.bucket, err)
	}
	g.logger.Info("bucket created", "bucket", g.bucket)
	return nil
}

func (g *gcsStore) Store(ctx context.Context, key string, data []byte, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := g.ensurer.run(ctx); err != nil {
		return err
	}

	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		w.Close()
		return fmt.Errorf("write gcs object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close gcs writer: %w", err)
	}
	return nil
}

func (g *gcsStore) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	r, err := g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open gcs object: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read gcs object: %w", err)
	}
	return data, nil
}

func (g *gcsStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	err := g.client.Bucket(g.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("delete gcs object: %w", err)
	}
	return nil
}

func (g *gcsStore) Validate(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	_, err := g.client.Bucket(g.bucket).Object(key).Attrs(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat gcs object: %w", err)
}
