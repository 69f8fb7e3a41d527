package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/api"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/flashcard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFlashcards(t *testing.T, f *apiFixture) (cardio, neuro *domain.Category) {
	t.Helper()
	cardio = f.category(t, f.user, "Cardiology")
	neuro = f.category(t, f.user, "Neurology")

	f.expectCommit()
	f.do(t, http.MethodPost, "/api/terms", api.TermRequest{
		Term: "Tachycardia", Meaning: "Abnormally rapid heart rate", CategoryIDs: []string{cardio.ID.String()},
	}, f.user)
	f.expectCommit()
	f.do(t, http.MethodPost, "/api/terms", api.TermRequest{
		Term: "Aphasia", Meaning: "Loss of ability to understand or express speech", CategoryIDs: []string{neuro.ID.String()},
	}, f.user)
	f.expectCommit()
	f.do(t, http.MethodPost, "/api/phrases", api.PhraseRequest{
		Phrase: "Any chest pain?", Explanation: "Screening question for cardiac symptoms", CategoryIDs: []string{cardio.ID.String()},
	}, f.user)
	return cardio, neuro
}

func TestFlashcardHandler_ListFlashcards(t *testing.T) {
	t.Parallel()

	t.Run("terms then phrases", func(t *testing.T) {
		t.Parallel()
		f := newAPIFixture(t)
		seedFlashcards(t, f)

		w := f.do(t, http.MethodGet, "/api/flashcards", nil, f.user)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeData[api.FlashcardsResponse](t, w)
		assert.Equal(t, 3, resp.Total)
		require.Len(t, resp.Cards, 3)
		assert.Equal(t, flashcard.ItemTypeTerm, resp.Cards[0].Type)
		assert.Equal(t, flashcard.ItemTypeTerm, resp.Cards[1].Type)
		assert.Equal(t, flashcard.ItemTypePhrase, resp.Cards[2].Type)
		assert.Len(t, resp.Categories, 2)
		assert.Empty(t, resp.Unavailable)
	})

	t.Run("search matches both faces", func(t *testing.T) {
		t.Parallel()
		f := newAPIFixture(t)
		seedFlashcards(t, f)

		w := f.do(t, http.MethodGet, "/api/flashcards?q=CARDI", nil, f.user)

		resp := decodeData[api.FlashcardsResponse](t, w)
		fronts := make([]string, len(resp.Cards))
		for i, c := range resp.Cards {
			fronts[i] = c.Front
		}
		assert.Equal(t, []string{"Tachycardia", "Any chest pain?"}, fronts)
		assert.Equal(t, 3, resp.Total)
	})

	t.Run("category filter", func(t *testing.T) {
		t.Parallel()
		f := newAPIFixture(t)
		cardio, neuro := seedFlashcards(t, f)

		one := decodeData[api.FlashcardsResponse](t,
			f.do(t, http.MethodGet, "/api/flashcards?category="+neuro.ID.String(), nil, f.user))
		both := decodeData[api.FlashcardsResponse](t,
			f.do(t, http.MethodGet, "/api/flashcards?category="+neuro.ID.String()+","+cardio.ID.String(), nil, f.user))
		none := decodeData[api.FlashcardsResponse](t,
			f.do(t, http.MethodGet, "/api/flashcards?category="+uuid.NewString(), nil, f.user))

		require.Len(t, one.Cards, 1)
		assert.Equal(t, "Aphasia", one.Cards[0].Front)
		assert.Len(t, both.Cards, 3)
		assert.Empty(t, none.Cards)
	})

	t.Run("a failing collection is reported, not fatal", func(t *testing.T) {
		t.Parallel()
		f := newAPIFixture(t)
		seedFlashcards(t, f)
		f.phrases.ListFn = func(context.Context, uuid.UUID) ([]domain.Phrase, error) {
			return nil, errBoom
		}

		w := f.do(t, http.MethodGet, "/api/flashcards", nil, f.user)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeData[api.FlashcardsResponse](t, w)
		assert.Len(t, resp.Cards, 2)
		assert.Equal(t, []string{flashcard.SourcePhrases}, resp.Unavailable)
		assert.NotContains(t, w.Body.String(), errBoom.Error())
	})
}
