package service_test

import (
	"context"
	"testing"

	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seeder := service.NewSeeder(f.db, f.users, f.categories, f.terms, f.phrases, nil)

	f.expectCommit()
	first, err := seeder.Seed(ctx, "admin123")
	require.NoError(t, err)
	assert.Equal(t, service.SeedAdminUsername, first.Admin.Username)
	assert.Equal(t, domain.RoleAdmin, first.Admin.Role)
	assert.Equal(t, 18, first.Created)
	assert.Zero(t, first.Updated)
	assert.Equal(t, 6, first.Categories)
	assert.Equal(t, 6, first.Terms)
	assert.Equal(t, 6, first.Phrases)

	f.expectCommit()
	second, err := seeder.Seed(ctx, "ignored-password")
	require.NoError(t, err)
	assert.Equal(t, first.Admin.ID, second.Admin.ID)
	assert.Zero(t, second.Created)
	assert.Equal(t, 18, second.Updated)

	terms, err := f.terms.List(ctx, first.Admin.ID)
	require.NoError(t, err)
	assert.Len(t, terms, 6)

	cats, err := f.categories.List(ctx, first.Admin.ID)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"Cardiology", "Dermatology", "Gastroenterology", "Neurology", "Orthopedics", "Pediatrics"},
		categoryNames(cats))
}

func TestSeeder_RejectsWeakAdminPassword(t *testing.T) {
	f := newFixture(t)
	seeder := service.NewSeeder(f.db, f.users, f.categories, f.terms, f.phrases, nil)

	f.expectRollback()
	_, err := seeder.Seed(context.Background(), "short")
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
}
