package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/medlex/medlex-api/internal/api/shared"
	"github.com/medlex/medlex-api/internal/flashcard"
	"github.com/medlex/medlex-api/internal/platform/logger"
	"github.com/medlex/medlex-api/internal/service"
)

// FlashcardHandler serves the card catalog built from the caller's terms and phrases.
type FlashcardHandler struct {
	terms      service.TermService
	phrases    service.PhraseService
	categories service.CategoryService
	logger     *slog.Logger
}

// NewFlashcardHandler creates a new FlashcardHandler.
func NewFlashcardHandler(
	terms service.TermService,
	phrases service.PhraseService,
	categories service.CategoryService,
	logger *slog.Logger,
) *FlashcardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for FlashcardHandler")
	}
	return &FlashcardHandler{
		terms:      terms,
		phrases:    phrases,
		categories: categories,
		logger:     logger.With(slog.String("component", "flashcard_handler")),
	}
}

// ListFlashcards handles GET /api/flashcards?q=&category=.
//
// q is matched against both card faces; category may repeat or hold a
// comma-separated list of IDs. A collection that fails to load is left out
// and named in "unavailable" rather than failing the request.
func (h *FlashcardHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	source := service.NewCatalogSource(h.terms, h.phrases, h.categories, userID)
	catalog := flashcard.FetchCatalog(r.Context(), source)

	cards := flashcard.Filter(catalog.Cards, flashcard.FilterOptions{
		Search:      r.URL.Query().Get("q"),
		CategoryIDs: categoryParams(r),
	})

	resp := FlashcardsResponse{
		Cards:      cards,
		Categories: catalog.Categories,
		Total:      len(catalog.Cards),
	}
	for _, f := range catalog.Failures {
		resp.Unavailable = append(resp.Unavailable, f.Source)
	}
	if len(resp.Unavailable) > 0 {
		log.Warn("flashcard catalog is partial", slog.Any("unavailable", resp.Unavailable))
	}

	shared.RespondWithData(w, r, http.StatusOK, resp, "")
}

func categoryParams(r *http.Request) []string {
	var ids []string
	for _, v := range r.URL.Query()["category"] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
