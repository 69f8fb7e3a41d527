package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/flashcard"
)

// CatalogSource serves one user's content to flashcard.FetchCatalog.
type CatalogSource struct {
	terms      TermService
	phrases    PhraseService
	categories CategoryService
	ownerID    uuid.UUID
}

var _ flashcard.ContentSource = (*CatalogSource)(nil)

// NewCatalogSource creates a CatalogSource scoped to ownerID.
func NewCatalogSource(
	terms TermService,
	phrases PhraseService,
	categories CategoryService,
	ownerID uuid.UUID,
) *CatalogSource {
	return &CatalogSource{
		terms:      terms,
		phrases:    phrases,
		categories: categories,
		ownerID:    ownerID,
	}
}

// FetchTerms implements flashcard.ContentSource.
func (c *CatalogSource) FetchTerms(ctx context.Context) ([]domain.Term, error) {
	return c.terms.ListTerms(ctx, c.ownerID)
}

// FetchPhrases implements flashcard.ContentSource.
func (c *CatalogSource) FetchPhrases(ctx context.Context) ([]domain.Phrase, error) {
	return c.phrases.ListPhrases(ctx, c.ownerID)
}

// FetchCategories implements flashcard.ContentSource.
func (c *CatalogSource) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	return c.categories.ListCategories(ctx, c.ownerID)
}
