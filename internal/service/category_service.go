package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/platform/logger"
	"github.com/medlex/medlex-api/internal/store"
)

// CategoryInput carries the writable fields of a category. An empty Color
// picks a palette color on create and keeps the current color on update.
type CategoryInput struct {
	Name        string
	Description string
	Color       string
}

// CategoryService manages the categories owned by a user.
type CategoryService interface {
	ListCategories(ctx context.Context, ownerID uuid.UUID) ([]domain.Category, error)
	GetCategory(ctx context.Context, ownerID, id uuid.UUID) (*domain.Category, error)
	CreateCategory(ctx context.Context, ownerID uuid.UUID, in CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, ownerID, id uuid.UUID, in CategoryInput) (*domain.Category, error)

	// DeleteCategory removes the category. Terms and phrases lose the link but are kept.
	DeleteCategory(ctx context.Context, ownerID, id uuid.UUID) error
}

type categoryService struct {
	categories store.CategoryStore
	logger     *slog.Logger
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(categories store.CategoryStore, logger *slog.Logger) (CategoryService, error) {
	if categories == nil {
		return nil, domain.NewValidationError("categories", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &categoryService{
		categories: categories,
		logger:     logger.With(slog.String("component", "category_service")),
	}, nil
}

func (s *categoryService) ListCategories(ctx context.Context, ownerID uuid.UUID) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx, ownerID)
	return categories, wrap("category", "list", err)
}

func (s *categoryService) GetCategory(ctx context.Context, ownerID, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, ownerID, id)
	return category, wrap("category", "get", err)
}

func (s *categoryService) CreateCategory(
	ctx context.Context,
	ownerID uuid.UUID,
	in CategoryInput,
) (*domain.Category, error) {
	category, err := domain.NewCategory(ownerID, in.Name, in.Description, in.Color)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, wrap("category", "create", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("category created",
		slog.String("category_id", category.ID.String()),
		slog.String("name", category.Name))
	return category, nil
}

func (s *categoryService) UpdateCategory(
	ctx context.Context,
	ownerID, id uuid.UUID,
	in CategoryInput,
) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, wrap("category", "update", err)
	}

	category.Name = in.Name
	category.Description = in.Description
	if in.Color != "" {
		category.Color = in.Color
	}
	category.Normalize()
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, wrap("category", "update", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("category updated",
		slog.String("category_id", id.String()))
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.categories.Delete(ctx, ownerID, id); err != nil {
		return wrap("category", "delete", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("category deleted",
		slog.String("category_id", id.String()))
	return nil
}
