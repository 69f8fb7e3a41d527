package api

import (
	"log/slog"
	"net/http"

	"github.com/medlex/medlex-api/internal/api/shared"
	"github.com/medlex/medlex-api/internal/platform/logger"
	"github.com/medlex/medlex-api/internal/service"
)

// CategoryHandler handles the /api/categories routes.
type CategoryHandler struct {
	categories service.CategoryService
	logger     *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categories service.CategoryService, logger *slog.Logger) *CategoryHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CategoryHandler")
	}
	return &CategoryHandler{
		categories: categories,
		logger:     logger.With(slog.String("component", "category_handler")),
	}
}

// ListCategories handles GET /api/categories.
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	categories, err := h.categories.ListCategories(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, categories, "")
}

// GetCategory handles GET /api/categories/{id}.
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, categoryID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	category, err := h.categories.GetCategory(r.Context(), userID, categoryID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, category, "")
}

// CreateCategory handles POST /api/categories.
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	category, err := h.categories.CreateCategory(r.Context(), userID, categoryInput(req))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("category created", slog.String("category_id", category.ID.String()))
	shared.RespondWithData(w, r, http.StatusCreated, category, "Category created successfully")
}

// UpdateCategory handles PUT /api/categories/{id}.
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, categoryID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	category, err := h.categories.UpdateCategory(r.Context(), userID, categoryID, categoryInput(req))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, category, "Category updated successfully")
}

// DeleteCategory handles DELETE /api/categories/{id}. Terms and phrases in
// the category are kept and lose the link.
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, categoryID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.categories.DeleteCategory(r.Context(), userID, categoryID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("category deleted", slog.String("category_id", categoryID.String()))
	shared.RespondWithData(w, r, http.StatusOK, nil, "Category deleted successfully")
}

func categoryInput(req CategoryRequest) service.CategoryInput {
	return service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}
}
