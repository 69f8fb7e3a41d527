package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/store"
)

// wrap passes expected conditions (validation, not found, duplicate) through
// unchanged and wraps everything else in a ServiceError.
func wrap(service, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, store.ErrDuplicate) {
		return err
	}
	return NewServiceError(service, op, err)
}

// resolveCategoryIDs drops repeated IDs and checks that every remaining one
// belongs to ownerID. Returns domain.ErrUnknownCategory otherwise.
func resolveCategoryIDs(
	ctx context.Context,
	categories store.CategoryStore,
	ownerID uuid.UUID,
	ids []uuid.UUID,
) ([]uuid.UUID, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return unique, nil
	}

	owned, err := categories.CountOwned(ctx, ownerID, unique)
	if err != nil {
		return nil, err
	}
	if owned != len(unique) {
		return nil, domain.ErrUnknownCategory
	}
	return unique, nil
}
