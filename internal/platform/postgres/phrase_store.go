package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/platform/logger"
	"github.com/medlex/medlex-api/internal/store"
)

// PostgresPhraseStore implements the store.PhraseStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPhraseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPhraseStore creates a new PostgreSQL implementation of the PhraseStore interface.
func NewPostgresPhraseStore(db store.DBTX, logger *slog.Logger) *PostgresPhraseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPhraseStore{
		db:     db,
		logger: logger.With(slog.String("component", "phrase_store")),
	}
}

// Ensure PostgresPhraseStore implements store.PhraseStore interface
var _ store.PhraseStore = (*PostgresPhraseStore)(nil)

const phraseColumns = `id, phrase, explanation, created_by, created_at, updated_at`

func scanPhrase(row scanner) (*domain.Phrase, error) {
	var p domain.Phrase
	if err := row.Scan(
		&p.ID,
		&p.Phrase,
		&p.Explanation,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create implements store.PhraseStore.Create
func (s *PostgresPhraseStore) Create(ctx context.Context, phrase *domain.Phrase) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := phrase.Validate(); err != nil {
		log.Warn("phrase validation failed during create",
			slog.String("error", err.Error()),
			slog.String("phrase_id", phrase.ID.String()))
		return err
	}

	query := `
		INSERT INTO phrases (id, phrase, explanation, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		phrase.ID,
		phrase.Phrase,
		phrase.Explanation,
		phrase.CreatedBy,
		phrase.CreatedAt,
		phrase.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if !store.IsDuplicateError(mapped) {
			log.Error("failed to create phrase",
				slog.String("error", err.Error()),
				slog.String("phrase_id", phrase.ID.String()))
		}
		return mapped
	}

	log.Debug("phrase created",
		slog.String("phrase_id", phrase.ID.String()),
		slog.String("owner_id", phrase.CreatedBy.String()))
	return nil
}

// GetByID implements store.PhraseStore.GetByID
func (s *PostgresPhraseStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Phrase, error) {
	query := `SELECT ` + phraseColumns + ` FROM phrases WHERE id = $1 AND created_by = $2`
	phrase, err := scanPhrase(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPhraseNotFound
		}
		return nil, MapError(err)
	}

	links, err := phraseCategoryLinks.load(ctx, s.db, []uuid.UUID{phrase.ID})
	if err != nil {
		return nil, err
	}
	phrase.Categories = categoriesOrEmpty(links[phrase.ID])
	return phrase, nil
}

// List implements store.PhraseStore.List
func (s *PostgresPhraseStore) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Phrase, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + phraseColumns + ` FROM phrases WHERE created_by = $1 ORDER BY created_at DESC, id`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to list phrases", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	phrases := []domain.Phrase{}
	ids := []uuid.UUID{}
	for rows.Next() {
		p, err := scanPhrase(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		phrases = append(phrases, *p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	links, err := phraseCategoryLinks.load(ctx, s.db, ids)
	if err != nil {
		log.Error("failed to load phrase categories", slog.String("error", err.Error()))
		return nil, err
	}
	for i := range phrases {
		phrases[i].Categories = categoriesOrEmpty(links[phrases[i].ID])
	}
	return phrases, nil
}

// ExistsByText implements store.PhraseStore.ExistsByText
func (s *PostgresPhraseStore) ExistsByText(
	ctx context.Context,
	ownerID uuid.UUID,
	text string,
	excludeID uuid.UUID,
) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM phrases WHERE created_by = $1 AND phrase = $2 AND id <> $3)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, ownerID, text, excludeID).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// Update implements store.PhraseStore.Update
func (s *PostgresPhraseStore) Update(ctx context.Context, phrase *domain.Phrase) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := phrase.Validate(); err != nil {
		return err
	}
	phrase.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE phrases
		SET phrase = $3, explanation = $4, updated_at = $5
		WHERE id = $1 AND created_by = $2
	`
	result, err := s.db.ExecContext(ctx, query,
		phrase.ID,
		phrase.CreatedBy,
		phrase.Phrase,
		phrase.Explanation,
		phrase.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if !store.IsDuplicateError(mapped) {
			log.Error("failed to update phrase",
				slog.String("error", err.Error()),
				slog.String("phrase_id", phrase.ID.String()))
		}
		return mapped
	}
	return CheckRowsAffected(result, store.ErrPhraseNotFound)
}

// SetCategories implements store.PhraseStore.SetCategories
func (s *PostgresPhraseStore) SetCategories(ctx context.Context, phraseID uuid.UUID, categoryIDs []uuid.UUID) error {
	return phraseCategoryLinks.replace(ctx, s.db, phraseID, categoryIDs)
}

// Delete implements store.PhraseStore.Delete
func (s *PostgresPhraseStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM phrases WHERE id = $1 AND created_by = $2`, id, ownerID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete phrase",
			slog.String("error", err.Error()),
			slog.String("phrase_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrPhraseNotFound)
}

// WithTx implements store.PhraseStore.WithTx
func (s *PostgresPhraseStore) WithTx(tx *sql.Tx) store.PhraseStore {
	return &PostgresPhraseStore{db: tx, logger: s.logger}
}
