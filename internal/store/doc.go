// Package store defines the persistence contracts for users, terms, phrases
// and categories, together with the sentinel errors every implementation
// returns. Terms, phrases and categories are always addressed through their
// owner's ID so one user can never read or change another user's content.
package store
