package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/medlex/medlex-api/internal/api/middleware"
	"github.com/medlex/medlex-api/internal/domain"
)

// Handlers groups the handlers served under /api.
type Handlers struct {
	Auth       *AuthHandler
	Terms      *TermHandler
	Phrases    *PhraseHandler
	Categories *CategoryHandler
	Users      *UserHandler
	Flashcards *FlashcardHandler
}

// Routes returns a chi route function for /api. Everything except login,
// refresh and logout requires authentication; /users also requires the admin role.
func (h Handlers) Routes(authMiddleware *middleware.AuthMiddleware) func(chi.Router) {
	return func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/refresh", h.Auth.Refresh)
		r.Post("/auth/logout", h.Auth.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/terms", func(r chi.Router) {
				r.Get("/", h.Terms.ListTerms)
				r.Post("/", h.Terms.CreateTerm)
				r.Post("/import", h.Terms.ImportTerms)
				r.Get("/{id}", h.Terms.GetTerm)
				r.Put("/{id}", h.Terms.UpdateTerm)
				r.Delete("/{id}", h.Terms.DeleteTerm)
			})

			r.Route("/phrases", func(r chi.Router) {
				r.Get("/", h.Phrases.ListPhrases)
				r.Post("/", h.Phrases.CreatePhrase)
				r.Post("/import", h.Phrases.ImportPhrases)
				r.Get("/{id}", h.Phrases.GetPhrase)
				r.Put("/{id}", h.Phrases.UpdatePhrase)
				r.Delete("/{id}", h.Phrases.DeletePhrase)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", h.Categories.ListCategories)
				r.Post("/", h.Categories.CreateCategory)
				r.Get("/{id}", h.Categories.GetCategory)
				r.Put("/{id}", h.Categories.UpdateCategory)
				r.Delete("/{id}", h.Categories.DeleteCategory)
			})

			r.Get("/flashcards", h.Flashcards.ListFlashcards)

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))
				r.Get("/", h.Users.ListUsers)
				r.Post("/", h.Users.CreateUser)
			})
		})
	}
}
