package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Store holds one shopper's cart: an ordered in-memory line-item set
// written through to durable KV storage on every mutation.
type Store struct {
	mu          sync.Mutex
	kv          KV
	key         string
	items       []LineItem
	subscribers []func()
}

// Open builds a cart bound to the given storage key and rehydrates
// any persisted snapshot. Malformed entries are dropped silently.
func Open(ctx context.Context, kv KV, key string) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("cart kv is required")
	}
	if key == "" {
		return nil, fmt.Errorf("cart key is required")
	}

	blob, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	return &Store{
		kv:    kv,
		key:   key,
		items: decodeItems(blob),
	}, nil
}

// AddItem inserts the product or, when it is already present, bumps
// its quantity by one. Merging is keyed on product id alone: the
// first-added snapshot keeps its price, image, and variant.
func (s *Store) AddItem(ctx context.Context, item LineItem) error {
	if item.ProductID == "" {
		return fmt.Errorf("product id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := false
	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = 1
		s.items = append(s.items, item)
	}

	return s.persistLocked(ctx)
}

// RemoveItem drops the product from the cart. Removing an absent
// product is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.persistLocked(ctx)
		}
	}
	return nil
}

// Clear empties the cart and persists the empty set.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.persistLocked(ctx)
}

// Items returns a copy of the current line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total recomputes the cart total from scratch.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Count returns the summed quantity across all line items.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Subscribe registers a callback invoked after every successful
// mutation.
func (s *Store) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) persistLocked(ctx context.Context) error {
	blob, err := encodeItems(s.items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, blob); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	for _, fn := range s.subscribers {
		fn()
	}
	return nil
}
