package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/medlex/medlex-api/internal/api/shared"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/platform/logger"
	"github.com/medlex/medlex-api/internal/service"
)

// TermHandler handles the /api/terms routes.
type TermHandler struct {
	terms    service.TermService
	importer service.ImportService
	logger   *slog.Logger
}

// NewTermHandler creates a new TermHandler.
func NewTermHandler(terms service.TermService, importer service.ImportService, logger *slog.Logger) *TermHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TermHandler")
	}
	return &TermHandler{
		terms:    terms,
		importer: importer,
		logger:   logger.With(slog.String("component", "term_handler")),
	}
}

// ListTerms handles GET /api/terms.
func (h *TermHandler) ListTerms(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	terms, err := h.terms.ListTerms(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, terms, "")
}

// GetTerm handles GET /api/terms/{id}.
func (h *TermHandler) GetTerm(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, termID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	term, err := h.terms.GetTerm(r.Context(), userID, termID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, term, "")
}

// CreateTerm handles POST /api/terms.
func (h *TermHandler) CreateTerm(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	in, ok := decodeTermInput(w, r)
	if !ok {
		return
	}

	term, err := h.terms.CreateTerm(r.Context(), userID, in)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("term created", slog.String("term_id", term.ID.String()))
	shared.RespondWithData(w, r, http.StatusCreated, term, "Term created successfully")
}

// UpdateTerm handles PUT /api/terms/{id}.
func (h *TermHandler) UpdateTerm(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, termID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	in, ok := decodeTermInput(w, r)
	if !ok {
		return
	}

	term, err := h.terms.UpdateTerm(r.Context(), userID, termID, in)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, term, "Term updated successfully")
}

// DeleteTerm handles DELETE /api/terms/{id}.
func (h *TermHandler) DeleteTerm(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, termID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.terms.DeleteTerm(r.Context(), userID, termID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("term deleted", slog.String("term_id", termID.String()))
	shared.RespondWithData(w, r, http.StatusOK, nil, "Term deleted successfully")
}

// ImportTerms handles POST /api/terms/import.
func (h *TermHandler) ImportTerms(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req TermImportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	items := make([]service.TermImportItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.TermImportItem{
			Term:          it.Term,
			Meaning:       it.Meaning,
			Pronunciation: it.Pronunciation,
			Categories:    it.Categories,
		}
	}

	result, err := h.importer.ImportTerms(r.Context(), userID, req.GlobalCategories, items)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := ImportResponse[domain.Term]{Imported: result.Imported, Skipped: result.Skipped, Data: result.Items}
	shared.RespondWithData(w, r, http.StatusOK, resp,
		fmt.Sprintf("%d terms imported successfully", result.Imported))
}

func decodeTermInput(w http.ResponseWriter, r *http.Request) (service.TermInput, bool) {
	var req TermRequest
	if !decodeAndValidate(w, r, &req) {
		return service.TermInput{}, false
	}
	ids, err := parseCategoryIDs(req.CategoryIDs)
	if err != nil {
		HandleAPIError(w, r, err)
		return service.TermInput{}, false
	}
	return service.TermInput{
		Term:          req.Term,
		Meaning:       req.Meaning,
		Pronunciation: req.Pronunciation,
		CategoryIDs:   ids,
	}, true
}
