package flashcard

import (
	"context"
	"encoding/json"
	"fmt"
)

// BasketSlotKey is the slot key the basket is stored under.
const BasketSlotKey = "flashcard-basket"

// Slot is a durable client-local key-value store.
type Slot interface {
	// Get returns the value under key; found is false when nothing is stored.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
}

// SlotBasketStore keeps the basket as a JSON array in a Slot.
type SlotBasketStore struct {
	slot Slot
	key  string
}

// NewSlotBasketStore stores the basket in slot under BasketSlotKey.
func NewSlotBasketStore(slot Slot) *SlotBasketStore {
	return &SlotBasketStore{slot: slot, key: BasketSlotKey}
}

var _ BasketStore = (*SlotBasketStore)(nil)

// LoadBasket implements BasketStore.
func (s *SlotBasketStore) LoadBasket(ctx context.Context) ([]Item, error) {
	raw, found, err := s.slot.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read basket slot: %w", err)
	}
	if !found || len(raw) == 0 {
		return []Item{}, nil
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("malformed basket data: %w", err)
	}
	return items, nil
}

// SaveBasket implements BasketStore.
func (s *SlotBasketStore) SaveBasket(ctx context.Context, items []Item) error {
	raw, err := json.Marshal(cloneItems(items))
	if err != nil {
		return fmt.Errorf("failed to encode basket: %w", err)
	}
	if err := s.slot.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to write basket slot: %w", err)
	}
	return nil
}
