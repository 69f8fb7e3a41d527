package flashcard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/medlex/medlex-api/internal/events"
	"github.com/medlex/medlex-api/internal/platform/logger"
)

// BasketStore persists basket contents between runs.
type BasketStore interface {
	// LoadBasket returns the saved items. Absent data is an empty list, not an error.
	LoadBasket(ctx context.Context) ([]Item, error)
	// SaveBasket replaces the saved items.
	SaveBasket(ctx context.Context, items []Item) error
}

// Basket is the user's hand-picked set of cards for the next study pass.
// It never holds two items with the same ID. Every change is written
// through to the BasketStore; a failed write is logged and reported as a
// basket.persist_failed event but the in-memory change stands.
type Basket struct {
	mu      sync.Mutex
	items   []Item
	ids     map[string]struct{}
	store   BasketStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewBasket creates an empty basket. store and emitter may be nil.
func NewBasket(store BasketStore, emitter events.EventEmitter, logger *slog.Logger) *Basket {
	if logger == nil {
		logger = slog.Default()
	}
	return &Basket{
		items:   []Item{},
		ids:     make(map[string]struct{}),
		store:   store,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "review_basket")),
	}
}

// LoadBasket creates a basket filled from store. A read error or malformed
// data yields an empty basket.
func LoadBasket(
	ctx context.Context,
	store BasketStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *Basket {
	b := NewBasket(store, emitter, logger)
	if store == nil {
		return b
	}

	items, err := store.LoadBasket(ctx)
	if err != nil {
		log := b.log(ctx)
		log.Warn("failed to load review basket, starting empty", slog.String("error", err.Error()))
		return b
	}
	for _, item := range items {
		b.insert(item)
	}
	return b
}

func (b *Basket) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, b.logger)
}

// insert appends item when its ID is new. Callers hold mu or own b exclusively.
func (b *Basket) insert(item Item) bool {
	if _, ok := b.ids[item.ID]; ok {
		return false
	}
	b.ids[item.ID] = struct{}{}
	b.items = append(b.items, item)
	return true
}

// Add puts item in the basket unless a card with its ID is already there.
func (b *Basket) Add(ctx context.Context, item Item) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.insert(item) {
		return false
	}
	b.persist(ctx)
	return true
}

// AddAll appends the items not yet present, in their incoming order, and
// returns how many were added. Duplicates within items are added once.
func (b *Basket) AddAll(ctx context.Context, items []Item) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	added := 0
	for _, item := range items {
		if b.insert(item) {
			added++
		}
	}
	if added > 0 {
		b.persist(ctx)
	}
	return added
}

// Remove takes the card with id out of the basket.
func (b *Basket) Remove(ctx context.Context, id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.ids[id]; !ok {
		return false
	}
	delete(b.ids, id)
	kept := b.items[:0]
	for _, item := range b.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	b.items = kept
	b.persist(ctx)
	return true
}

// Clear empties the basket.
func (b *Basket) Clear(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = []Item{}
	b.ids = make(map[string]struct{})
	b.persist(ctx)
}

// Contains reports whether a card with id is in the basket.
func (b *Basket) Contains(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.ids[id]
	return ok
}

// Items returns the basket contents in insertion order.
func (b *Basket) Items() []Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneItems(b.items)
}

// Len returns the number of cards in the basket.
func (b *Basket) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// persist writes the whole basket. Callers hold mu.
func (b *Basket) persist(ctx context.Context) {
	if b.store == nil {
		return
	}
	if err := b.store.SaveBasket(ctx, cloneItems(b.items)); err != nil {
		b.log(ctx).Error("failed to persist review basket",
			slog.String("error", err.Error()),
			slog.Int("items", len(b.items)))
		_ = events.Emit(ctx, b.emitter, events.TypeBasketPersistFailed, map[string]any{
			"error": err.Error(),
			"items": len(b.items),
		})
	}
}
