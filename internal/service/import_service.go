package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/platform/logger"
	"github.com/medlex/medlex-api/internal/store"
)

// TermImportItem is one entry of a term import file.
type TermImportItem struct {
	Term          string
	Meaning       string
	Pronunciation string
	Categories    []string
}

// PhraseImportItem is one entry of a phrase import file.
type PhraseImportItem struct {
	Phrase      string
	Explanation string
	Categories  []string
}

// ImportResult reports what an import did. Skipped counts items that were
// invalid or duplicated an existing record.
type ImportResult[T any] struct {
	Imported int
	Skipped  int
	Items    []T
}

// ImportService creates terms or phrases in bulk.
//
// Category names from globalCategories and from each item are trimmed,
// merged without repeats and found by name (ignoring case) or created for
// the owner with a palette color. Every item is saved with its links in its
// own transaction, so one bad item never undoes the others.
type ImportService interface {
	ImportTerms(
		ctx context.Context,
		ownerID uuid.UUID,
		globalCategories []string,
		items []TermImportItem,
	) (*ImportResult[domain.Term], error)

	ImportPhrases(
		ctx context.Context,
		ownerID uuid.UUID,
		globalCategories []string,
		items []PhraseImportItem,
	) (*ImportResult[domain.Phrase], error)
}

type importService struct {
	db         *sql.DB
	terms      store.TermStore
	phrases    store.PhraseStore
	categories store.CategoryStore
	logger     *slog.Logger
}

// NewImportService creates an ImportService.
func NewImportService(
	db *sql.DB,
	terms store.TermStore,
	phrases store.PhraseStore,
	categories store.CategoryStore,
	logger *slog.Logger,
) (ImportService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if terms == nil {
		return nil, domain.NewValidationError("terms", "cannot be nil", domain.ErrValidation)
	}
	if phrases == nil {
		return nil, domain.NewValidationError("phrases", "cannot be nil", domain.ErrValidation)
	}
	if categories == nil {
		return nil, domain.NewValidationError("categories", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &importService{
		db:         db,
		terms:      terms,
		phrases:    phrases,
		categories: categories,
		logger:     logger.With(slog.String("component", "import_service")),
	}, nil
}

// importRow is a validated item waiting to be saved.
type importRow[T any] struct {
	categories []string
	save       func(ctx context.Context, tx *sql.Tx, categoryIDs []uuid.UUID) (*T, error)
}

func (s *importService) ImportTerms(
	ctx context.Context,
	ownerID uuid.UUID,
	globalCategories []string,
	items []TermImportItem,
) (*ImportResult[domain.Term], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows := make([]importRow[domain.Term], 0, len(items))
	invalid := 0
	for i, item := range items {
		term, err := domain.NewTerm(ownerID, item.Term, item.Meaning, item.Pronunciation)
		if err != nil {
			log.Debug("skipping invalid term", slog.Int("index", i), slog.String("error", err.Error()))
			invalid++
			continue
		}
		rows = append(rows, importRow[domain.Term]{
			categories: item.Categories,
			save: func(ctx context.Context, tx *sql.Tx, ids []uuid.UUID) (*domain.Term, error) {
				return saveTerm(ctx, s.terms.WithTx(tx), s.categories.WithTx(tx), term, ids, true)
			},
		})
	}

	return runImport(ctx, s, ownerID, "terms", globalCategories, rows, invalid, store.ErrTermExists)
}

func (s *importService) ImportPhrases(
	ctx context.Context,
	ownerID uuid.UUID,
	globalCategories []string,
	items []PhraseImportItem,
) (*ImportResult[domain.Phrase], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows := make([]importRow[domain.Phrase], 0, len(items))
	invalid := 0
	for i, item := range items {
		phrase, err := domain.NewPhrase(ownerID, item.Phrase, item.Explanation)
		if err != nil {
			log.Debug("skipping invalid phrase", slog.Int("index", i), slog.String("error", err.Error()))
			invalid++
			continue
		}
		rows = append(rows, importRow[domain.Phrase]{
			categories: item.Categories,
			save: func(ctx context.Context, tx *sql.Tx, ids []uuid.UUID) (*domain.Phrase, error) {
				return savePhrase(ctx, s.phrases.WithTx(tx), s.categories.WithTx(tx), phrase, ids, true)
			},
		})
	}

	return runImport(ctx, s, ownerID, "phrases", globalCategories, rows, invalid, store.ErrPhraseExists)
}

func runImport[T any](
	ctx context.Context,
	s *importService,
	ownerID uuid.UUID,
	kind string,
	globalCategories []string,
	rows []importRow[T],
	invalid int,
	duplicate error,
) (*ImportResult[T], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	resolver := newCategoryResolver(s.categories, ownerID)
	result := &ImportResult[T]{Skipped: invalid, Items: make([]T, 0, len(rows))}

	for _, row := range rows {
		ids, err := resolver.resolve(ctx, mergeCategoryNames(globalCategories, row.categories))
		if errors.Is(err, domain.ErrValidation) {
			log.Warn("import item skipped: invalid category",
				slog.String("kind", kind),
				slog.String("error", err.Error()))
			result.Skipped++
			continue
		}
		if err != nil {
			log.Error("import aborted", slog.String("kind", kind), slog.String("error", err.Error()))
			return nil, wrap("import", kind, err)
		}

		var saved *T
		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			item, err := row.save(ctx, tx, ids)
			saved = item
			return err
		})
		if errors.Is(err, duplicate) {
			result.Skipped++
			continue
		}
		if err != nil {
			log.Error("import aborted", slog.String("kind", kind), slog.String("error", err.Error()))
			return nil, wrap("import", kind, err)
		}
		result.Items = append(result.Items, *saved)
		result.Imported++
	}

	log.Info("import finished",
		slog.String("kind", kind),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped),
		slog.Int("categories_created", resolver.created))
	return result, nil
}

// mergeCategoryNames trims names, drops blanks and keeps the first of any
// names that differ only in case.
func mergeCategoryNames(lists ...[]string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, names := range lists {
		for _, name := range names {
			name = strings.TrimSpace(name)
			key := strings.ToLower(name)
			if name == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// categoryResolver maps category names to IDs for one owner, creating
// missing categories. Lookups are cached for the length of an import.
type categoryResolver struct {
	categories store.CategoryStore
	ownerID    uuid.UUID
	byName     map[string]uuid.UUID
	created    int
}

func newCategoryResolver(categories store.CategoryStore, ownerID uuid.UUID) *categoryResolver {
	return &categoryResolver{
		categories: categories,
		ownerID:    ownerID,
		byName:     map[string]uuid.UUID{},
	}
}

func (r *categoryResolver) resolve(ctx context.Context, names []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		if id, ok := r.byName[key]; ok {
			ids = append(ids, id)
			continue
		}

		category, err := r.findOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		r.byName[key] = category.ID
		ids = append(ids, category.ID)
	}
	return ids, nil
}

func (r *categoryResolver) findOrCreate(ctx context.Context, name string) (*domain.Category, error) {
	category, err := r.categories.FindByName(ctx, r.ownerID, name)
	if err == nil || !errors.Is(err, store.ErrCategoryNotFound) {
		return category, err
	}

	category, err = domain.NewCategory(r.ownerID, name, "", "")
	if err != nil {
		return nil, err
	}
	err = r.categories.Create(ctx, category)
	if errors.Is(err, store.ErrCategoryExists) {
		// Created concurrently since the lookup.
		return r.categories.FindByName(ctx, r.ownerID, name)
	}
	if err != nil {
		return nil, err
	}
	r.created++
	return category, nil
}
