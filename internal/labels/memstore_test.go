package labels_test

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/JaimeStill/label-manager/internal/labels"
)

// memStore is an in-memory Store. WithSKU holds a single lock for the whole
// transaction and restores a snapshot when fn fails.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	rows       map[int64]labels.Label
	failInsert error
}

func newMemStore() *memStore {
	return &memStore{rows: map[int64]labels.Label{}}
}

func (m *memStore) Find(_ context.Context, id int64) (*labels.Label, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.rows[id]
	if !ok {
		return nil, labels.ErrNotFound
	}
	return &l, nil
}

func (m *memStore) ListForSKU(_ context.Context, sku string) ([]labels.Label, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(sku), nil
}

func (m *memStore) list(sku string) []labels.Label {
	out := []labels.Label{}
	for _, l := range m.rows {
		if l.SKU == sku && !l.Deleted {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b labels.Label) int { return b.Version - a.Version })
	return out
}

func (m *memStore) WithSKU(_ context.Context, _ string, fn func(tx labels.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := maps.Clone(m.rows)
	nextID := m.nextID

	if err := fn(memTx{m}); err != nil {
		m.rows = snapshot
		m.nextID = nextID
		return err
	}
	return nil
}

// all returns every row of sku including deleted ones, by version ascending.
func (m *memStore) all(sku string) []labels.Label {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []labels.Label
	for _, l := range m.rows {
		if l.SKU == sku {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b labels.Label) int { return a.Version - b.Version })
	return out
}

type memTx struct {
	m *memStore
}

func (t memTx) MaxVersion(_ context.Context, sku string) (int, error) {
	highest := 0
	for _, l := range t.m.rows {
		if l.SKU == sku && !l.Deleted && l.Version > highest {
			highest = l.Version
		}
	}
	return highest, nil
}

func (t memTx) KeyInUse(_ context.Context, key string) (bool, error) {
	for _, l := range t.m.rows {
		if l.StorageKey == key {
			return true, nil
		}
	}
	return false, nil
}

func (t memTx) DeactivateAll(_ context.Context, sku string) error {
	for id, l := range t.m.rows {
		if l.SKU == sku && l.Active {
			l.Active = false
			t.m.rows[id] = l
		}
	}
	return nil
}

func (t memTx) Insert(_ context.Context, l labels.Label) (labels.Label, error) {
	if t.m.failInsert != nil {
		return labels.Label{}, t.m.failInsert
	}
	for _, existing := range t.m.rows {
		if existing.SKU == l.SKU && existing.Version == l.Version && !existing.Deleted {
			return labels.Label{}, labels.ErrDuplicate
		}
		if existing.StorageKey == l.StorageKey {
			return labels.Label{}, labels.ErrDuplicate
		}
		if l.Active && existing.SKU == l.SKU && existing.Active && !existing.Deleted {
			return labels.Label{}, labels.ErrDuplicate
		}
	}

	t.m.nextID++
	l.ID = t.m.nextID
	l.CreatedAt = time.Now()
	t.m.rows[l.ID] = l
	return l, nil
}

func (t memTx) Get(_ context.Context, id int64) (labels.Label, error) {
	l, ok := t.m.rows[id]
	if !ok {
		return labels.Label{}, labels.ErrNotFound
	}
	return l, nil
}

func (t memTx) SoftDelete(_ context.Context, id int64) error {
	l, ok := t.m.rows[id]
	if !ok {
		return labels.ErrNotFound
	}
	l.Deleted = true
	l.Active = false
	t.m.rows[id] = l
	return nil
}

func (t memTx) ActivateHighest(_ context.Context, sku string) (*labels.Label, error) {
	remaining := t.m.list(sku)
	if len(remaining) == 0 {
		return nil, nil
	}
	l := remaining[0]
	l.Active = true
	t.m.rows[l.ID] = l
	return &l, nil
}
