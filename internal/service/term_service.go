package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/platform/logger"
	"github.com/medlex/medlex-api/internal/store"
)

// TermInput carries the writable fields of a term. CategoryIDs replaces the
// term's category links; nil clears them.
type TermInput struct {
	Term          string
	Meaning       string
	Pronunciation string
	CategoryIDs   []uuid.UUID
}

// TermService manages the terms owned by a user.
type TermService interface {
	// ListTerms returns ownerID's terms, newest first.
	ListTerms(ctx context.Context, ownerID uuid.UUID) ([]domain.Term, error)

	// GetTerm returns one term. store.ErrTermNotFound if it is missing or not ownerID's.
	GetTerm(ctx context.Context, ownerID, id uuid.UUID) (*domain.Term, error)

	// CreateTerm validates and saves a term with its category links.
	// Returns store.ErrTermExists when ownerID already has the same term text.
	CreateTerm(ctx context.Context, ownerID uuid.UUID, in TermInput) (*domain.Term, error)

	// UpdateTerm replaces the term's fields and category links.
	UpdateTerm(ctx context.Context, ownerID, id uuid.UUID, in TermInput) (*domain.Term, error)

	// DeleteTerm removes a term and its links.
	DeleteTerm(ctx context.Context, ownerID, id uuid.UUID) error
}

type termService struct {
	db         *sql.DB
	terms      store.TermStore
	categories store.CategoryStore
	logger     *slog.Logger
}

// NewTermService creates a TermService.
// It returns an error if any of the required dependencies are nil.
func NewTermService(
	db *sql.DB,
	terms store.TermStore,
	categories store.CategoryStore,
	logger *slog.Logger,
) (TermService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if terms == nil {
		return nil, domain.NewValidationError("terms", "cannot be nil", domain.ErrValidation)
	}
	if categories == nil {
		return nil, domain.NewValidationError("categories", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &termService{
		db:         db,
		terms:      terms,
		categories: categories,
		logger:     logger.With(slog.String("component", "term_service")),
	}, nil
}

func (s *termService) ListTerms(ctx context.Context, ownerID uuid.UUID) ([]domain.Term, error) {
	terms, err := s.terms.List(ctx, ownerID)
	return terms, wrap("term", "list", err)
}

func (s *termService) GetTerm(ctx context.Context, ownerID, id uuid.UUID) (*domain.Term, error) {
	term, err := s.terms.GetByID(ctx, ownerID, id)
	return term, wrap("term", "get", err)
}

func (s *termService) CreateTerm(ctx context.Context, ownerID uuid.UUID, in TermInput) (*domain.Term, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	term, err := domain.NewTerm(ownerID, in.Term, in.Meaning, in.Pronunciation)
	if err != nil {
		return nil, err
	}

	var created *domain.Term
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		saved, err := saveTerm(ctx, s.terms.WithTx(tx), s.categories.WithTx(tx), term, in.CategoryIDs, true)
		created = saved
		return err
	})
	if err != nil {
		log.Debug("term not created", slog.String("error", err.Error()))
		return nil, wrap("term", "create", err)
	}

	log.Info("term created",
		slog.String("term_id", created.ID.String()),
		slog.Int("categories", len(created.Categories)))
	return created, nil
}

// saveTerm writes the term row and its links, then reloads it with categories.
func saveTerm(
	ctx context.Context,
	terms store.TermStore,
	categories store.CategoryStore,
	term *domain.Term,
	categoryIDs []uuid.UUID,
	isNew bool,
) (*domain.Term, error) {
	ids, err := resolveCategoryIDs(ctx, categories, term.CreatedBy, categoryIDs)
	if err != nil {
		return nil, err
	}

	excludeID := term.ID
	if isNew {
		excludeID = uuid.Nil
	}
	exists, err := terms.ExistsByText(ctx, term.CreatedBy, term.Term, excludeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, store.ErrTermExists
	}

	if isNew {
		err = terms.Create(ctx, term)
	} else {
		err = terms.Update(ctx, term)
	}
	if err != nil {
		return nil, err
	}

	if err := terms.SetCategories(ctx, term.ID, ids); err != nil {
		return nil, err
	}
	return terms.GetByID(ctx, term.CreatedBy, term.ID)
}

func (s *termService) UpdateTerm(
	ctx context.Context,
	ownerID, id uuid.UUID,
	in TermInput,
) (*domain.Term, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Term
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		terms := s.terms.WithTx(tx)

		term, err := terms.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		term.Term = in.Term
		term.Meaning = in.Meaning
		term.Pronunciation = in.Pronunciation
		term.Normalize()
		if err := term.Validate(); err != nil {
			return err
		}

		saved, err := saveTerm(ctx, terms, s.categories.WithTx(tx), term, in.CategoryIDs, false)
		updated = saved
		return err
	})
	if err != nil {
		log.Debug("term not updated",
			slog.String("term_id", id.String()),
			slog.String("error", err.Error()))
		return nil, wrap("term", "update", err)
	}

	log.Info("term updated", slog.String("term_id", id.String()))
	return updated, nil
}

func (s *termService) DeleteTerm(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.terms.Delete(ctx, ownerID, id); err != nil {
		return wrap("term", "delete", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("term deleted", slog.String("term_id", id.String()))
	return nil
}
