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

// PostgresTermStore implements the store.TermStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTermStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTermStore creates a new PostgreSQL implementation of the TermStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTermStore(db store.DBTX, logger *slog.Logger) *PostgresTermStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTermStore{
		db:     db,
		logger: logger.With(slog.String("component", "term_store")),
	}
}

// Ensure PostgresTermStore implements store.TermStore interface
var _ store.TermStore = (*PostgresTermStore)(nil)

const termColumns = `id, term, meaning, COALESCE(pronunciation, ''), created_by, created_at, updated_at`

func scanTerm(row scanner) (*domain.Term, error) {
	var t domain.Term
	if err := row.Scan(
		&t.ID,
		&t.Term,
		&t.Meaning,
		&t.Pronunciation,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create implements store.TermStore.Create
func (s *PostgresTermStore) Create(ctx context.Context, term *domain.Term) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := term.Validate(); err != nil {
		log.Warn("term validation failed during create",
			slog.String("error", err.Error()),
			slog.String("term_id", term.ID.String()))
		return err
	}

	query := `
		INSERT INTO terms (id, term, meaning, pronunciation, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		term.ID,
		term.Term,
		term.Meaning,
		term.Pronunciation,
		term.CreatedBy,
		term.CreatedAt,
		term.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if !store.IsDuplicateError(mapped) {
			log.Error("failed to create term",
				slog.String("error", err.Error()),
				slog.String("term_id", term.ID.String()))
		}
		return mapped
	}

	log.Debug("term created",
		slog.String("term_id", term.ID.String()),
		slog.String("owner_id", term.CreatedBy.String()))
	return nil
}

// GetByID implements store.TermStore.GetByID
func (s *PostgresTermStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Term, error) {
	query := `SELECT ` + termColumns + ` FROM terms WHERE id = $1 AND created_by = $2`
	term, err := scanTerm(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTermNotFound
		}
		return nil, MapError(err)
	}

	links, err := termCategoryLinks.load(ctx, s.db, []uuid.UUID{term.ID})
	if err != nil {
		return nil, err
	}
	term.Categories = categoriesOrEmpty(links[term.ID])
	return term, nil
}

// List implements store.TermStore.List
func (s *PostgresTermStore) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Term, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + termColumns + ` FROM terms WHERE created_by = $1 ORDER BY created_at DESC, id`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to list terms", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	terms := []domain.Term{}
	ids := []uuid.UUID{}
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		terms = append(terms, *t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	links, err := termCategoryLinks.load(ctx, s.db, ids)
	if err != nil {
		log.Error("failed to load term categories", slog.String("error", err.Error()))
		return nil, err
	}
	for i := range terms {
		terms[i].Categories = categoriesOrEmpty(links[terms[i].ID])
	}
	return terms, nil
}

// ExistsByText implements store.TermStore.ExistsByText
func (s *PostgresTermStore) ExistsByText(
	ctx context.Context,
	ownerID uuid.UUID,
	text string,
	excludeID uuid.UUID,
) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM terms WHERE created_by = $1 AND term = $2 AND id <> $3)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, ownerID, text, excludeID).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// Update implements store.TermStore.Update
func (s *PostgresTermStore) Update(ctx context.Context, term *domain.Term) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := term.Validate(); err != nil {
		return err
	}
	term.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE terms
		SET term = $3, meaning = $4, pronunciation = NULLIF($5, ''), updated_at = $6
		WHERE id = $1 AND created_by = $2
	`
	result, err := s.db.ExecContext(ctx, query,
		term.ID,
		term.CreatedBy,
		term.Term,
		term.Meaning,
		term.Pronunciation,
		term.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if !store.IsDuplicateError(mapped) {
			log.Error("failed to update term",
				slog.String("error", err.Error()),
				slog.String("term_id", term.ID.String()))
		}
		return mapped
	}
	return CheckRowsAffected(result, store.ErrTermNotFound)
}

// SetCategories implements store.TermStore.SetCategories
func (s *PostgresTermStore) SetCategories(ctx context.Context, termID uuid.UUID, categoryIDs []uuid.UUID) error {
	return termCategoryLinks.replace(ctx, s.db, termID, categoryIDs)
}

// Delete implements store.TermStore.Delete
func (s *PostgresTermStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM terms WHERE id = $1 AND created_by = $2`, id, ownerID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete term",
			slog.String("error", err.Error()),
			slog.String("term_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTermNotFound)
}

// WithTx implements store.TermStore.WithTx
func (s *PostgresTermStore) WithTx(tx *sql.Tx) store.TermStore {
	return &PostgresTermStore{db: tx, logger: s.logger}
}
