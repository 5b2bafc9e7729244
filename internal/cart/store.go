package cart

import (
	"context"
	"errors"
	"sync"

	pkgerrors "github.com/simpleshop/storefront-core/pkg/errors"
	"github.com/simpleshop/storefront-core/pkg/logger"
)

// ErrSnapshotNotFound is returned by snapshot stores when no snapshot has
// been saved yet. The cart treats it as an empty cart, not a failure.
var ErrSnapshotNotFound = errors.New("cart snapshot not found")

// SnapshotStore is the storage port for the serialized cart. Implementations
// persist the payload under a single key and replace it wholesale on save.
type SnapshotStore interface {
	Save(ctx context.Context, payload []byte) error
	Load(ctx context.Context) ([]byte, error)
}

// Store is the sole authority over cart contents. Line items keep insertion
// order and there is at most one per product id; both invariants hold after
// every operation. Mutations are serialized by an internal mutex so the store
// can be shared by concurrent request handlers.
type Store struct {
	mu        sync.Mutex
	items     []LineItem
	index     map[string]int
	snapshots SnapshotStore
	logg      *logger.Logger
}

// NewStore builds a cart restored from the last persisted snapshot. A missing
// or corrupt snapshot degrades silently to an empty cart; availability wins
// over strictness here and the condition is only logged.
func NewStore(ctx context.Context, snapshots SnapshotStore, logg *logger.Logger) *Store {
	s := &Store{
		index:     map[string]int{},
		snapshots: snapshots,
		logg:      logg,
	}

	if snapshots == nil {
		return s
	}

	payload, err := snapshots.Load(ctx)
	if errors.Is(err, ErrSnapshotNotFound) {
		return s
	}
	if err != nil {
		s.warn(ctx, "cart snapshot unreadable, starting empty")
		return s
	}

	items, err := decodeSnapshot(payload)
	if err != nil {
		s.warn(ctx, "cart snapshot corrupt, starting empty")
		return s
	}
	for i, item := range items {
		s.index[item.ProductID] = i
	}
	s.items = items
	return s
}

// AddItem merges quantity into an existing line item for the same product id
// or appends a new line item at the end. Quantity must be at least 1. Stock
// checks are the caller's concern.
func (s *Store) AddItem(ctx context.Context, product Product, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}
	if product.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if product.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "product price must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if at, ok := s.index[product.ID]; ok {
		s.items[at].Quantity += quantity
	} else {
		s.index[product.ID] = len(s.items)
		s.items = append(s.items, LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Category:  product.Category,
			ImageURL:  product.ImageURL,
			Quantity:  quantity,
		})
	}
	return s.persist(ctx)
}

// RemoveItem deletes the line item for the product id. Absent ids are a
// no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.remove(productID) {
		return nil
	}
	return s.persist(ctx)
}

// SetQuantity replaces the quantity for the product id. A quantity of zero or
// less behaves exactly like RemoveItem. Absent ids are a no-op.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		if !s.remove(productID) {
			return nil
		}
		return s.persist(ctx)
	}

	at, ok := s.index[productID]
	if !ok {
		return nil
	}
	s.items[at].Quantity = quantity
	return s.persist(ctx)
}

// Clear empties the cart unconditionally and persists the empty snapshot.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.index = map[string]int{}
	return s.persist(ctx)
}

// Snapshot returns a copy of the current line items in insertion order.
// Callers never see internal storage.
func (s *Store) Snapshot() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// remove deletes the item and reindexes the tail. Caller holds the lock.
func (s *Store) remove(productID string) bool {
	at, ok := s.index[productID]
	if !ok {
		return false
	}
	s.items = append(s.items[:at], s.items[at+1:]...)
	delete(s.index, productID)
	for i := at; i < len(s.items); i++ {
		s.index[s.items[i].ProductID] = i
	}
	return true
}

// persist writes the full serialized snapshot. The in-memory cart stays
// authoritative even when the write fails; the error is surfaced so the
// caller can warn the user. Caller holds the lock.
func (s *Store) persist(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	payload, err := encodeSnapshot(s.items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "serialize cart snapshot")
	}
	if err := s.snapshots.Save(ctx, payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart snapshot")
	}
	return nil
}

func (s *Store) warn(ctx context.Context, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(ctx, msg)
}
