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

// PhraseHandler handles the /api/phrases routes.
type PhraseHandler struct {
	phrases  service.PhraseService
	importer service.ImportService
	logger   *slog.Logger
}

// NewPhraseHandler creates a new PhraseHandler.
func NewPhraseHandler(phrases service.PhraseService, importer service.ImportService, logger *slog.Logger) *PhraseHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PhraseHandler")
	}
	return &PhraseHandler{
		phrases:  phrases,
		importer: importer,
		logger:   logger.With(slog.String("component", "phrase_handler")),
	}
}

// ListPhrases handles GET /api/phrases.
func (h *PhraseHandler) ListPhrases(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	phrases, err := h.phrases.ListPhrases(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, phrases, "")
}

// GetPhrase handles GET /api/phrases/{id}.
func (h *PhraseHandler) GetPhrase(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, phraseID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	phrase, err := h.phrases.GetPhrase(r.Context(), userID, phraseID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, phrase, "")
}

// CreatePhrase handles POST /api/phrases.
func (h *PhraseHandler) CreatePhrase(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	in, ok := decodePhraseInput(w, r)
	if !ok {
		return
	}

	phrase, err := h.phrases.CreatePhrase(r.Context(), userID, in)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("phrase created", slog.String("phrase_id", phrase.ID.String()))
	shared.RespondWithData(w, r, http.StatusCreated, phrase, "Phrase created successfully")
}

// UpdatePhrase handles PUT /api/phrases/{id}.
func (h *PhraseHandler) UpdatePhrase(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, phraseID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	in, ok := decodePhraseInput(w, r)
	if !ok {
		return
	}

	phrase, err := h.phrases.UpdatePhrase(r.Context(), userID, phraseID, in)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, phrase, "Phrase updated successfully")
}

// DeletePhrase handles DELETE /api/phrases/{id}.
func (h *PhraseHandler) DeletePhrase(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, phraseID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.phrases.DeletePhrase(r.Context(), userID, phraseID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("phrase deleted", slog.String("phrase_id", phraseID.String()))
	shared.RespondWithData(w, r, http.StatusOK, nil, "Phrase deleted successfully")
}

// ImportPhrases handles POST /api/phrases/import.
func (h *PhraseHandler) ImportPhrases(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req PhraseImportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	items := make([]service.PhraseImportItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.PhraseImportItem{
			Phrase:      it.Phrase,
			Explanation: it.Explanation,
			Categories:  it.Categories,
		}
	}

	result, err := h.importer.ImportPhrases(r.Context(), userID, req.GlobalCategories, items)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := ImportResponse[domain.Phrase]{Imported: result.Imported, Skipped: result.Skipped, Data: result.Items}
	shared.RespondWithData(w, r, http.StatusOK, resp,
		fmt.Sprintf("%d phrases imported successfully", result.Imported))
}

func decodePhraseInput(w http.ResponseWriter, r *http.Request) (service.PhraseInput, bool) {
	var req PhraseRequest
	if !decodeAndValidate(w, r, &req) {
		return service.PhraseInput{}, false
	}
	ids, err := parseCategoryIDs(req.CategoryIDs)
	if err != nil {
		HandleAPIError(w, r, err)
		return service.PhraseInput{}, false
	}
	return service.PhraseInput{
		Phrase:      req.Phrase,
		Explanation: req.Explanation,
		CategoryIDs: ids,
	}, true
}
