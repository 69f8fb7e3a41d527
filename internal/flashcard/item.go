package flashcard

import (
	"github.com/medlex/medlex-api/internal/domain"
)

// ItemType tells which kind of content a card was built from.
type ItemType string

const (
	ItemTypeTerm   ItemType = "term"
	ItemTypePhrase ItemType = "phrase"
)

// CategoryRef is the part of a category a card carries.
type CategoryRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Item is one reviewable card. Items are values and never mutated after
// construction; two items are the same card when their IDs match.
type Item struct {
	ID            string        `json:"id"`
	Type          ItemType      `json:"type"`
	Front         string        `json:"front"`
	Back          string        `json:"back"`
	Pronunciation string        `json:"pronunciation,omitempty"`
	Categories    []CategoryRef `json:"categories"`
}

// ItemID derives a card ID from its source type and record ID, so a term and
// a phrase can never collide.
func ItemID(t ItemType, sourceID string) string {
	return string(t) + "-" + sourceID
}

// TermItem builds the card for a term: term text on the front, meaning on the back.
func TermItem(t domain.Term) Item {
	return Item{
		ID:            ItemID(ItemTypeTerm, t.ID.String()),
		Type:          ItemTypeTerm,
		Front:         t.Term,
		Back:          t.Meaning,
		Pronunciation: t.Pronunciation,
		Categories:    categoryRefs(t.Categories),
	}
}

// PhraseItem builds the card for a phrase: phrase on the front, explanation on the back.
func PhraseItem(p domain.Phrase) Item {
	return Item{
		ID:         ItemID(ItemTypePhrase, p.ID.String()),
		Type:       ItemTypePhrase,
		Front:      p.Phrase,
		Back:       p.Explanation,
		Categories: categoryRefs(p.Categories),
	}
}

func categoryRefs(cats []domain.Category) []CategoryRef {
	refs := make([]CategoryRef, 0, len(cats))
	for _, c := range cats {
		refs = append(refs, CategoryRef{ID: c.ID.String(), Name: c.Name, Color: c.Color})
	}
	return refs
}

// HasCategory reports whether the card is tagged with the category ID.
func (i Item) HasCategory(id string) bool {
	for _, c := range i.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// cloneItems copies the slice header array so callers cannot alias engine or
// basket state. Items themselves are immutable.
func cloneItems(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
