package mocks

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// links models a term_categories or phrase_categories join table.
type links struct {
	mu    sync.Mutex
	byRow map[uuid.UUID][]uuid.UUID
}

func newLinks(categories *MockCategoryStore) *links {
	l := &links{byRow: map[uuid.UUID][]uuid.UUID{}}
	if categories != nil {
		categories.onDelete(l.dropCategory)
	}
	return l
}

func (l *links) set(rowID uuid.UUID, categoryIDs []uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byRow[rowID] = slices.Clone(categoryIDs)
}

func (l *links) get(rowID uuid.UUID) []uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.byRow[rowID])
}

func (l *links) drop(rowID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.byRow, rowID)
}

func (l *links) dropCategory(categoryID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for row, ids := range l.byRow {
		l.byRow[row] = slices.DeleteFunc(ids, func(id uuid.UUID) bool { return id == categoryID })
	}
}
