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

// PhraseInput carries the writable fields of a phrase. CategoryIDs replaces the
// phrase's category links; nil clears them.
type PhraseInput struct {
	Phrase      string
	Explanation string
	CategoryIDs []uuid.UUID
}

// PhraseService manages the phrases owned by a user.
type PhraseService interface {
	// ListPhrases returns ownerID's phrases, newest first.
	ListPhrases(ctx context.Context, ownerID uuid.UUID) ([]domain.Phrase, error)

	// GetPhrase returns one phrase. store.ErrPhraseNotFound if it is missing or not ownerID's.
	GetPhrase(ctx context.Context, ownerID, id uuid.UUID) (*domain.Phrase, error)

	// CreatePhrase validates and saves a phrase with its category links.
	// Returns store.ErrPhraseExists when ownerID already has the same phrase text.
	CreatePhrase(ctx context.Context, ownerID uuid.UUID, in PhraseInput) (*domain.Phrase, error)

	// UpdatePhrase replaces the phrase's fields and category links.
	UpdatePhrase(ctx context.Context, ownerID, id uuid.UUID, in PhraseInput) (*domain.Phrase, error)

	// DeletePhrase removes a phrase and its links.
	DeletePhrase(ctx context.Context, ownerID, id uuid.UUID) error
}

type phraseService struct {
	db         *sql.DB
	phrases    store.PhraseStore
	categories store.CategoryStore
	logger     *slog.Logger
}

// NewPhraseService creates a PhraseService.
// It returns an error if any of the required dependencies are nil.
func NewPhraseService(
	db *sql.DB,
	phrases store.PhraseStore,
	categories store.CategoryStore,
	logger *slog.Logger,
) (PhraseService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
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

	return &phraseService{
		db:         db,
		phrases:    phrases,
		categories: categories,
		logger:     logger.With(slog.String("component", "phrase_service")),
	}, nil
}

func (s *phraseService) ListPhrases(ctx context.Context, ownerID uuid.UUID) ([]domain.Phrase, error) {
	phrases, err := s.phrases.List(ctx, ownerID)
	return phrases, wrap("phrase", "list", err)
}

func (s *phraseService) GetPhrase(ctx context.Context, ownerID, id uuid.UUID) (*domain.Phrase, error) {
	phrase, err := s.phrases.GetByID(ctx, ownerID, id)
	return phrase, wrap("phrase", "get", err)
}

func (s *phraseService) CreatePhrase(ctx context.Context, ownerID uuid.UUID, in PhraseInput) (*domain.Phrase, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	phrase, err := domain.NewPhrase(ownerID, in.Phrase, in.Explanation)
	if err != nil {
		return nil, err
	}

	var created *domain.Phrase
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		saved, err := savePhrase(ctx, s.phrases.WithTx(tx), s.categories.WithTx(tx), phrase, in.CategoryIDs, true)
		created = saved
		return err
	})
	if err != nil {
		log.Debug("phrase not created", slog.String("error", err.Error()))
		return nil, wrap("phrase", "create", err)
	}

	log.Info("phrase created",
		slog.String("phrase_id", created.ID.String()),
		slog.Int("categories", len(created.Categories)))
	return created, nil
}

// savePhrase writes the phrase row and its links, then reloads it with categories.
func savePhrase(
	ctx context.Context,
	phrases store.PhraseStore,
	categories store.CategoryStore,
	phrase *domain.Phrase,
	categoryIDs []uuid.UUID,
	isNew bool,
) (*domain.Phrase, error) {
	ids, err := resolveCategoryIDs(ctx, categories, phrase.CreatedBy, categoryIDs)
	if err != nil {
		return nil, err
	}

	excludeID := phrase.ID
	if isNew {
		excludeID = uuid.Nil
	}
	exists, err := phrases.ExistsByText(ctx, phrase.CreatedBy, phrase.Phrase, excludeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, store.ErrPhraseExists
	}

	if isNew {
		err = phrases.Create(ctx, phrase)
	} else {
		err = phrases.Update(ctx, phrase)
	}
	if err != nil {
		return nil, err
	}

	if err := phrases.SetCategories(ctx, phrase.ID, ids); err != nil {
		return nil, err
	}
	return phrases.GetByID(ctx, phrase.CreatedBy, phrase.ID)
}

func (s *phraseService) UpdatePhrase(
	ctx context.Context,
	ownerID, id uuid.UUID,
	in PhraseInput,
) (*domain.Phrase, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Phrase
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		phrases := s.phrases.WithTx(tx)

		phrase, err := phrases.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		phrase.Phrase = in.Phrase
		phrase.Explanation = in.Explanation
		phrase.Normalize()
		if err := phrase.Validate(); err != nil {
			return err
		}

		saved, err := savePhrase(ctx, phrases, s.categories.WithTx(tx), phrase, in.CategoryIDs, false)
		updated = saved
		return err
	})
	if err != nil {
		log.Debug("phrase not updated",
			slog.String("phrase_id", id.String()),
			slog.String("error", err.Error()))
		return nil, wrap("phrase", "update", err)
	}

	log.Info("phrase updated", slog.String("phrase_id", id.String()))
	return updated, nil
}

func (s *phraseService) DeletePhrase(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.phrases.Delete(ctx, ownerID, id); err != nil {
		return wrap("phrase", "delete", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("phrase deleted", slog.String("phrase_id", id.String()))
	return nil
}
