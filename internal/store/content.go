package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/domain"
)

// CategoryStore defines the interface for category persistence.
type CategoryStore interface {
	// Create saves a new category. Returns ErrCategoryExists when the owner
	// already has a category with the same name (case-insensitive).
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves one of ownerID's categories. Returns ErrCategoryNotFound otherwise.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Category, error)

	// List returns ownerID's categories ordered by name.
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.Category, error)

	// FindByName looks a category up by name, ignoring case.
	// Returns ErrCategoryNotFound when there is none.
	FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Category, error)

	// CountOwned returns how many of ids belong to ownerID.
	CountOwned(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (int, error)

	// Update replaces name, description and color. Returns ErrCategoryNotFound
	// when the category does not exist for category.CreatedBy.
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes the category and its links to terms and phrases.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// WithTx returns a CategoryStore bound to tx.
	WithTx(tx *sql.Tx) CategoryStore
}

// TermStore defines the interface for term persistence.
// Returned terms always carry their categories.
type TermStore interface {
	// Create saves the term row. Category links are written with SetCategories.
	// Returns ErrTermExists when the owner already has the same term text.
	Create(ctx context.Context, term *domain.Term) error

	// GetByID retrieves one of ownerID's terms. Returns ErrTermNotFound otherwise.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Term, error)

	// List returns ownerID's terms, newest first.
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.Term, error)

	// ExistsByText reports whether ownerID has another term (not excludeID)
	// with exactly this text. Pass uuid.Nil to check all terms.
	ExistsByText(ctx context.Context, ownerID uuid.UUID, text string, excludeID uuid.UUID) (bool, error)

	// Update replaces the text fields and bumps updated_at.
	// Returns ErrTermNotFound when the term does not exist for term.CreatedBy.
	Update(ctx context.Context, term *domain.Term) error

	// SetCategories replaces every category link of the term.
	SetCategories(ctx context.Context, termID uuid.UUID, categoryIDs []uuid.UUID) error

	// Delete removes one of ownerID's terms. Returns ErrTermNotFound otherwise.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// WithTx returns a TermStore bound to tx.
	WithTx(tx *sql.Tx) TermStore
}

// PhraseStore defines the interface for phrase persistence.
// Returned phrases always carry their categories.
type PhraseStore interface {
	// Create saves the phrase row. Returns ErrPhraseExists on duplicate text.
	Create(ctx context.Context, phrase *domain.Phrase) error

	// GetByID retrieves one of ownerID's phrases. Returns ErrPhraseNotFound otherwise.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Phrase, error)

	// List returns ownerID's phrases, newest first.
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.Phrase, error)

	// ExistsByText reports whether ownerID has another phrase with this text.
	ExistsByText(ctx context.Context, ownerID uuid.UUID, text string, excludeID uuid.UUID) (bool, error)

	// Update replaces the text fields and bumps updated_at.
	Update(ctx context.Context, phrase *domain.Phrase) error

	// SetCategories replaces every category link of the phrase.
	SetCategories(ctx context.Context, phraseID uuid.UUID, categoryIDs []uuid.UUID) error

	// Delete removes one of ownerID's phrases. Returns ErrPhraseNotFound otherwise.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// WithTx returns a PhraseStore bound to tx.
	WithTx(tx *sql.Tx) PhraseStore
}
