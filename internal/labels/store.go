package labels

import "context"

// Store persists label records.
type Store interface {
	// Find returns a label by id, including deleted labels.
	Find(ctx context.Context, id int64) (*Label, error)

	// ListForSKU returns the non-deleted labels of sku, highest version first.
	ListForSKU(ctx context.Context, sku string) ([]Label, error)

	// WithSKU runs fn in a transaction serialized against every other
	// WithSKU call for the same sku. fn's writes commit only if it returns nil.
	WithSKU(ctx context.Context, sku string, fn func(tx Tx) error) error
}

// Tx is the set of writes available inside a per-SKU transaction.
type Tx interface {
	// MaxVersion returns the highest version among the non-deleted labels of sku,
	// or 0 if none exist.
	MaxVersion(ctx context.Context, sku string) (int, error)

	// KeyInUse reports whether any label, deleted or not, already owns key.
	KeyInUse(ctx context.Context, key string) (bool, error)

	// DeactivateAll clears the active flag on every label of sku.
	DeactivateAll(ctx context.Context, sku string) error

	// Insert stores l and returns it with its id and created_at populated.
	Insert(ctx context.Context, l Label) (Label, error)

	// Get returns the label with id, or ErrNotFound.
	Get(ctx context.Context, id int64) (Label, error)

	// SoftDelete marks the label deleted and inactive.
	SoftDelete(ctx context.Context, id int64) error

	// ActivateHighest activates the highest non-deleted version of sku.
	// It returns nil when no such label remains.
	ActivateHighest(ctx context.Context, sku string) (*Label, error)
}
