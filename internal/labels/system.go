package labels

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/klauspost/compress/zip"

	"github.com/JaimeStill/label-manager/internal/products"
	"github.com/JaimeStill/label-manager/pkg/pdfdoc"
	"github.com/JaimeStill/label-manager/pkg/storage"
)

// System defines label lifecycle operations.
type System interface {
	// Upload stores a new version for cmd.SKU and makes it the only active label.
	Upload(ctx context.Context, cmd UploadCommand) (*Label, error)

	// Delete soft-deletes a label. Deleting the active label reactivates the
	// highest remaining version.
	Delete(ctx context.Context, id int64) error

	// ListForProduct returns the non-deleted labels of sku, highest version first.
	ListForProduct(ctx context.Context, sku string) ([]Label, error)

	Find(ctx context.Context, id int64) (*Label, error)

	// Archive writes a zip of every non-deleted label of sku to w.
	Archive(ctx context.Context, sku string, w io.Writer) error

	// Preview returns the label and PDF bytes suitable for inline display.
	// Stored files that are not PDFs are replaced with a generated placeholder.
	Preview(ctx context.Context, id int64) (*Label, []byte, error)
}

// Options tunes the label system.
type Options struct {
	PreviewCacheSize int
	PreviewCacheTTL  time.Duration
}

type system struct {
	store    Store
	blobs    storage.System
	previews *expirable.LRU[string, []byte]
	logger   *slog.Logger
}

// New creates the label system over a record store and blob storage.
// A PreviewCacheSize of zero disables preview caching.
func New(store Store, blobs storage.System, logger *slog.Logger, opts Options) System {
	s := &system{
		store:  store,
		blobs:  blobs,
		logger: logger.With("system", "labels"),
	}
	if opts.PreviewCacheSize > 0 {
		s.previews = expirable.NewLRU[string, []byte](opts.PreviewCacheSize, nil, opts.PreviewCacheTTL)
	}
	return s
}

func (s *system) Upload(ctx context.Context, cmd UploadCommand) (*Label, error) {
	sku := strings.TrimSpace(cmd.SKU)
	if sku == "" {
		return nil, fmt.Errorf("%w: sku required", ErrInvalidOperation)
	}
	if !products.ValidSKU(sku) {
		return nil, fmt.Errorf("%w: sku %q cannot form a storage key", ErrInvalidOperation, sku)
	}
	if strings.TrimSpace(cmd.CreatedBy) == "" {
		return nil, fmt.Errorf("%w: creator required", ErrInvalidOperation)
	}

	fileName := sanitizeFileName(cmd.FileName)
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name required", ErrInvalidFile)
	}
	if len(cmd.Data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidFile)
	}

	contentType := cmd.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	matched := ValidateSkuPresence(sku, cmd.Data)
	if !matched {
		s.logger.Warn("sku not found in label text", "sku", sku, "file_name", fileName)
	}

	var pageCount *int
	if pdfdoc.IsPDF(cmd.Data) {
		if n, err := pdfdoc.PageCount(cmd.Data); err != nil {
			s.logger.Warn("failed to read pdf page count", "sku", sku, "error", err)
		} else {
			pageCount = &n
		}
	}

	var (
		created Label
		written string
	)

	err := s.store.WithSKU(ctx, sku, func(tx Tx) error {
		maxVersion, err := tx.MaxVersion(ctx, sku)
		if err != nil {
			return err
		}

		if err := tx.DeactivateAll(ctx, sku); err != nil {
			return err
		}

		version := maxVersion + 1
		key, err := s.freeKey(ctx, tx, sku, version, fileName)
		if err != nil {
			return err
		}

		if err := s.blobs.Store(ctx, key, cmd.Data, contentType); err != nil {
			return fmt.Errorf("%w: %w", ErrStorage, err)
		}
		written = key

		created, err = tx.Insert(ctx, Label{
			SKU:         sku,
			Version:     version,
			FileName:    fileName,
			StorageKey:  key,
			ContentType: contentType,
			SizeBytes:   int64(len(cmd.Data)),
			PageCount:   pageCount,
			Active:      true,
			SKUMatched:  &matched,
			CreatedBy:   cmd.CreatedBy,
		})
		return err
	})

	if err != nil {
		if written != "" {
			if delErr := s.blobs.Delete(context.WithoutCancel(ctx), written); delErr != nil {
				s.logger.Error("cleanup failed after db error", "storage_key", written, "error", delErr)
			}
		}
		return nil, err
	}

	uploadsTotal.WithLabelValues(strconv.FormatBool(matched)).Inc()
	s.logger.Info("label uploaded",
		"id", created.ID,
		"sku", sku,
		"version", created.Version,
		"sku_matched", matched,
		"created_by", created.CreatedBy,
	)
	return &created, nil
}

// freeKey returns StorageKey for the version unless a deleted label still owns
// it, in which case the first unused RevisionKey is returned.
func (s *system) freeKey(ctx context.Context, tx Tx, sku string, version int, fileName string) (string, error) {
	key := StorageKey(sku, version, fileName)
	for n := 1; ; n++ {
		used, err := tx.KeyInUse(ctx, key)
		if err != nil {
			return "", err
		}
		if !used {
			return key, nil
		}
		key = RevisionKey(sku, version, n, fileName)
	}
}

func (s *system) Delete(ctx context.Context, id int64) error {
	l, err := s.store.Find(ctx, id)
	if err != nil {
		return err
	}
	if l.Deleted {
		return nil
	}

	var (
		deleted  bool
		restored *Label
	)

	err = s.store.WithSKU(ctx, l.SKU, func(tx Tx) error {
		current, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if current.Deleted {
			return nil
		}

		if err := tx.SoftDelete(ctx, id); err != nil {
			return err
		}
		deleted = true

		if current.Active {
			restored, err = tx.ActivateHighest(ctx, current.SKU)
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !deleted {
		return nil
	}

	deletesTotal.WithLabelValues(strconv.FormatBool(restored != nil)).Inc()

	attrs := []any{"id", id, "sku", l.SKU, "version", l.Version}
	if restored != nil {
		attrs = append(attrs, "restored_version", restored.Version)
	}
	s.logger.Info("label deleted", attrs...)
	return nil
}

func (s *system) ListForProduct(ctx context.Context, sku string) ([]Label, error) {
	return s.store.ListForSKU(ctx, sku)
}

func (s *system) Find(ctx context.Context, id int64) (*Label, error) {
	return s.store.Find(ctx, id)
}

func (s *system) Archive(ctx context.Context, sku string, w io.Writer) error {
	items, err := s.store.ListForSKU(ctx, sku)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, l := range items {
		data, err := s.blobs.Retrieve(ctx, l.StorageKey)
		if err != nil {
			return fmt.Errorf("%w: retrieve %s: %w", ErrStorage, l.StorageKey, err)
		}

		f, err := zw.CreateHeader(&zip.FileHeader{
			Name:     ArchiveEntryName(l),
			Method:   zip.Deflate,
			Modified: l.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("create archive entry: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("write archive entry: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	s.logger.Debug("label archive written", "sku", sku, "count", len(items))
	return nil
}

func (s *system) Preview(ctx context.Context, id int64) (*Label, []byte, error) {
	l, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	// Storage keys are never reused, so cached bytes cannot go stale.
	if s.previews != nil {
		if data, ok := s.previews.Get(l.StorageKey); ok {
			previewCache.WithLabelValues("hit").Inc()
			return l, data, nil
		}
		previewCache.WithLabelValues("miss").Inc()
	}

	data, err := s.blobs.Retrieve(ctx, l.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: retrieve %s: %w", ErrStorage, l.StorageKey, err)
	}

	if !pdfdoc.IsPDF(data) {
		s.logger.Debug("serving placeholder preview", "id", id, "file_name", l.FileName)
		data = pdfdoc.Placeholder(l.FileName)
	}

	if s.previews != nil {
		s.previews.Add(l.StorageKey, data)
	}
	return l, data, nil
}
