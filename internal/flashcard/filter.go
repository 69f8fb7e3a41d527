package flashcard

import "strings"

// FilterOptions narrows a card list. Zero values match everything.
type FilterOptions struct {
	// Search is matched case-insensitively against front and back.
	Search string
	// CategoryIDs keeps cards tagged with at least one of these categories.
	CategoryIDs []string
}

// Filter returns the cards matching opts, in their original order.
func Filter(cards []Item, opts FilterOptions) []Item {
	needle := strings.ToLower(strings.TrimSpace(opts.Search))
	out := make([]Item, 0, len(cards))
	for _, c := range cards {
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Front), needle) &&
			!strings.Contains(strings.ToLower(c.Back), needle) {
			continue
		}
		if len(opts.CategoryIDs) > 0 && !hasAnyCategory(c, opts.CategoryIDs) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func hasAnyCategory(c Item, ids []string) bool {
	for _, id := range ids {
		if c.HasCategory(id) {
			return true
		}
	}
	return false
}
