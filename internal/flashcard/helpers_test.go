package flashcard

import (
	"context"
	"errors"
	"sync"
	"time"
)

func card(id string) Item {
	return Item{ID: id, Type: ItemTypeTerm, Front: id + " front", Back: id + " back", Categories: []CategoryRef{}}
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

// manualScheduler records scheduled callbacks and runs them only when a test asks.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{delay: d, f: f}
	m.timers = append(m.timers, t)
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if t.stopped || t.fired {
			return false
		}
		t.stopped = true
		return true
	}
}

// fireAll runs every pending, non-stopped callback.
func (m *manualScheduler) fireAll() int {
	m.mu.Lock()
	var due []func()
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t.f)
		}
	}
	m.mu.Unlock()
	for _, f := range due {
		f()
	}
	return len(due)
}

// fireRaw runs the i-th callback even if it was stopped, as a timer that
// had already started running when Stop was called would.
func (m *manualScheduler) fireRaw(i int) {
	m.mu.Lock()
	f := m.timers[i].f
	m.mu.Unlock()
	f()
}

func (m *manualScheduler) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// memoryBasketStore is a BasketStore kept in memory.
type memoryBasketStore struct {
	mu      sync.Mutex
	items   []Item
	saves   int
	loadErr error
	saveErr error
}

func (s *memoryBasketStore) LoadBasket(context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return cloneItems(s.items), nil
}

func (s *memoryBasketStore) SaveBasket(_ context.Context, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.items = cloneItems(items)
	return nil
}

// memorySlot is a Slot kept in memory.
type memorySlot struct {
	data   map[string][]byte
	getErr error
	putErr error
}

func newMemorySlot() *memorySlot {
	return &memorySlot{data: map[string][]byte{}}
}

func (s *memorySlot) Get(_ context.Context, key string) ([]byte, bool, error) {
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memorySlot) Put(_ context.Context, key string, value []byte) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.data[key] = value
	return nil
}

var errDiskFull = errors.New("disk full")
