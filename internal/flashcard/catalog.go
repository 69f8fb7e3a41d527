package flashcard

import (
	"context"
	"log/slog"

	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/platform/logger"
	"golang.org/x/sync/errgroup"
)

// ContentSource supplies the records a catalog is built from. Each fetch can
// fail on its own.
type ContentSource interface {
	FetchTerms(ctx context.Context) ([]domain.Term, error)
	FetchPhrases(ctx context.Context) ([]domain.Phrase, error)
	FetchCategories(ctx context.Context) ([]domain.Category, error)
}

// Source names used in SourceFailure.
const (
	SourceTerms      = "terms"
	SourcePhrases    = "phrases"
	SourceCategories = "categories"
)

// SourceFailure records a collection that could not be fetched.
type SourceFailure struct {
	Source string
	Err    error
}

// Catalog is the flat card list plus the categories for filtering.
type Catalog struct {
	Cards      []Item
	Categories []domain.Category
	Failures   []SourceFailure
}

// Failed reports whether source could not be fetched.
func (c Catalog) Failed(source string) bool {
	for _, f := range c.Failures {
		if f.Source == source {
			return true
		}
	}
	return false
}

// BuildCatalog turns terms and phrases into cards: every term first, then
// every phrase, each in its source order.
func BuildCatalog(terms []domain.Term, phrases []domain.Phrase, categories []domain.Category) Catalog {
	cards := make([]Item, 0, len(terms)+len(phrases))
	for _, t := range terms {
		cards = append(cards, TermItem(t))
	}
	for _, p := range phrases {
		cards = append(cards, PhraseItem(p))
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return Catalog{Cards: cards, Categories: categories}
}

// FetchCatalog fetches the three collections concurrently and builds the
// catalog. A collection that fails contributes nothing and is listed in
// Failures; the others are still used.
func FetchCatalog(ctx context.Context, source ContentSource) Catalog {
	log := logger.FromContextOrDefault(ctx, slog.Default())

	var (
		terms      []domain.Term
		phrases    []domain.Phrase
		categories []domain.Category
		failures   [3]error
	)

	// The goroutines never return an error, so one failing fetch does not
	// cancel the others.
	var g errgroup.Group
	g.Go(func() error {
		terms, failures[0] = source.FetchTerms(ctx)
		return nil
	})
	g.Go(func() error {
		phrases, failures[1] = source.FetchPhrases(ctx)
		return nil
	})
	g.Go(func() error {
		categories, failures[2] = source.FetchCategories(ctx)
		return nil
	})
	_ = g.Wait()

	var failed []SourceFailure
	for i, name := range []string{SourceTerms, SourcePhrases, SourceCategories} {
		if failures[i] == nil {
			continue
		}
		log.Warn("catalog source unavailable",
			slog.String("source", name),
			slog.String("error", failures[i].Error()))
		failed = append(failed, SourceFailure{Source: name, Err: failures[i]})
	}
	if failures[0] != nil {
		terms = nil
	}
	if failures[1] != nil {
		phrases = nil
	}
	if failures[2] != nil {
		categories = nil
	}

	catalog := BuildCatalog(terms, phrases, categories)
	catalog.Failures = failed
	return catalog
}
