package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTerm(t *testing.T) {
	owner := uuid.New()

	term, err := NewTerm(owner, "  Tachycardia ", " Rapid heart rate over 100 bpm\n", " tak-ih-KAR-dee-uh ")
	require.NoError(t, err)
	assert.Equal(t, "Tachycardia", term.Term)
	assert.Equal(t, "Rapid heart rate over 100 bpm", term.Meaning)
	assert.Equal(t, "tak-ih-KAR-dee-uh", term.Pronunciation)
	assert.Equal(t, owner, term.CreatedBy)
	assert.NotNil(t, term.Categories)
	assert.Empty(t, term.Categories)

	tests := []struct {
		name    string
		owner   uuid.UUID
		term    string
		meaning string
		pron    string
		wantErr error
	}{
		{"no owner", uuid.Nil, "a", "b", "", ErrEmptyTermOwner},
		{"blank term", owner, "   ", "b", "", ErrEmptyTerm},
		{"blank meaning", owner, "a", "", "", ErrEmptyMeaning},
		{"long term", owner, strings.Repeat("t", MaxTermLength+1), "b", "", ErrTermTooLong},
		{"long pronunciation", owner, "a", "b", strings.Repeat("p", MaxPronunciationLength+1), ErrPronunciationTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTerm(tt.owner, tt.term, tt.meaning, tt.pron)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestNewPhrase(t *testing.T) {
	owner := uuid.New()

	phrase, err := NewPhrase(owner, " MI ", " Myocardial Infarction ")
	require.NoError(t, err)
	assert.Equal(t, "MI", phrase.Phrase)
	assert.Equal(t, "Myocardial Infarction", phrase.Explanation)

	_, err = NewPhrase(owner, "", "x")
	assert.ErrorIs(t, err, ErrEmptyPhrase)
	_, err = NewPhrase(owner, "x", " ")
	assert.ErrorIs(t, err, ErrEmptyExplanation)
	_, err = NewPhrase(uuid.Nil, "x", "y")
	assert.ErrorIs(t, err, ErrEmptyPhraseOwner)
	_, err = NewPhrase(owner, strings.Repeat("p", MaxPhraseLength+1), "y")
	assert.ErrorIs(t, err, ErrPhraseTooLong)
}

func TestNewCategory(t *testing.T) {
	owner := uuid.New()

	c, err := NewCategory(owner, " Cardiology ", "Heart-related terms", "#dc2626")
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", c.Name)
	assert.Equal(t, "#dc2626", c.Color)

	auto, err := NewCategory(owner, "Imported", "", "")
	require.NoError(t, err)
	assert.Contains(t, CategoryPalette, auto.Color)

	_, err = NewCategory(owner, "", "", "")
	assert.ErrorIs(t, err, ErrEmptyCategoryName)
	_, err = NewCategory(owner, "x", "", "red")
	assert.ErrorIs(t, err, ErrInvalidCategoryColor)
	_, err = NewCategory(uuid.Nil, "x", "", "")
	assert.ErrorIs(t, err, ErrEmptyCategoryOwner)
	_, err = NewCategory(owner, "x", strings.Repeat("d", MaxCategoryDescriptionLength+1), "")
	assert.ErrorIs(t, err, ErrCategoryDescTooLong)
}

func TestRandomPaletteColor(t *testing.T) {
	for range 50 {
		assert.Contains(t, CategoryPalette, RandomPaletteColor())
	}
}

func TestCategoryIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, []uuid.UUID{a, b}, CategoryIDs([]Category{{ID: a}, {ID: b}}))
	assert.Empty(t, CategoryIDs(nil))
}
