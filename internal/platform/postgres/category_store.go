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

// PostgresCategoryStore implements the store.CategoryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a new PostgreSQL implementation of the CategoryStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCategoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_store")),
	}
}

// Ensure PostgresCategoryStore implements store.CategoryStore interface
var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

const categoryColumns = `id, name, COALESCE(description, ''), color, created_by, created_at, updated_at`

func scanCategory(row scanner) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Color,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create implements store.CategoryStore.Create
func (s *PostgresCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO categories (id, name, description, color, created_by, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		category.ID,
		category.Name,
		category.Description,
		category.Color,
		category.CreatedBy,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if !store.IsDuplicateError(mapped) {
			log.Error("failed to create category",
				slog.String("error", err.Error()),
				slog.String("category_id", category.ID.String()))
		}
		return mapped
	}

	log.Debug("category created",
		slog.String("category_id", category.ID.String()),
		slog.String("owner_id", category.CreatedBy.String()))
	return nil
}

// GetByID implements store.CategoryStore.GetByID
func (s *PostgresCategoryStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND created_by = $2`
	c, err := scanCategory(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCategoryNotFound
		}
		return nil, MapError(err)
	}
	return c, nil
}

// List implements store.CategoryStore.List
func (s *PostgresCategoryStore) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE created_by = $1 ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to list categories", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// FindByName implements store.CategoryStore.FindByName
func (s *PostgresCategoryStore) FindByName(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE created_by = $1 AND lower(name) = lower($2)`
	c, err := scanCategory(s.db.QueryRowContext(ctx, query, ownerID, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCategoryNotFound
		}
		return nil, MapError(err)
	}
	return c, nil
}

// CountOwned implements store.CategoryStore.CountOwned
func (s *PostgresCategoryStore) CountOwned(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `SELECT COUNT(DISTINCT id) FROM categories WHERE created_by = $1 AND id = ANY($2::uuid[])`
	var count int
	if err := s.db.QueryRowContext(ctx, query, ownerID, uuidArray(ids)).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// Update implements store.CategoryStore.Update
func (s *PostgresCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		return err
	}
	category.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE categories
		SET name = $3, description = NULLIF($4, ''), color = $5, updated_at = $6
		WHERE id = $1 AND created_by = $2
	`
	result, err := s.db.ExecContext(ctx, query,
		category.ID,
		category.CreatedBy,
		category.Name,
		category.Description,
		category.Color,
		category.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if !store.IsDuplicateError(mapped) {
			log.Error("failed to update category",
				slog.String("error", err.Error()),
				slog.String("category_id", category.ID.String()))
		}
		return mapped
	}
	return CheckRowsAffected(result, store.ErrCategoryNotFound)
}

// Delete implements store.CategoryStore.Delete
// Links to terms and phrases are removed by ON DELETE CASCADE.
func (s *PostgresCategoryStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = $1 AND created_by = $2`, id, ownerID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete category",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCategoryNotFound)
}

// WithTx implements store.CategoryStore.WithTx
func (s *PostgresCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return &PostgresCategoryStore{db: tx, logger: s.logger}
}
