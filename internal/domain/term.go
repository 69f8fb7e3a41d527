package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxTermLength          = 255
	MaxMeaningLength       = 10000
	MaxPronunciationLength = 255
)

// Term validation errors. All of them wrap ErrValidation.
var (
	ErrEmptyTermID          = fmt.Errorf("%w: term ID cannot be empty", ErrValidation)
	ErrEmptyTermOwner       = fmt.Errorf("%w: term owner cannot be empty", ErrValidation)
	ErrEmptyTerm            = fmt.Errorf("%w: term is required", ErrValidation)
	ErrTermTooLong          = fmt.Errorf("%w: term must be at most %d characters long", ErrValidation, MaxTermLength)
	ErrEmptyMeaning         = fmt.Errorf("%w: meaning is required", ErrValidation)
	ErrMeaningTooLong       = fmt.Errorf("%w: meaning must be at most %d characters long", ErrValidation, MaxMeaningLength)
	ErrPronunciationTooLong = fmt.Errorf("%w: pronunciation must be at most %d characters long", ErrValidation, MaxPronunciationLength)
)

// Term is a medical term with its meaning and an optional pronunciation guide.
type Term struct {
	ID            uuid.UUID  `json:"id"`
	Term          string     `json:"term"`
	Meaning       string     `json:"meaning"`
	Pronunciation string     `json:"pronunciation,omitempty"`
	Categories    []Category `json:"categories"`
	CreatedBy     uuid.UUID  `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewTerm creates a validated Term owned by ownerID. Text fields are trimmed.
func NewTerm(ownerID uuid.UUID, term, meaning, pronunciation string) (*Term, error) {
	now := time.Now().UTC()
	t := &Term{
		ID:            uuid.New(),
		Term:          term,
		Meaning:       meaning,
		Pronunciation: pronunciation,
		Categories:    []Category{},
		CreatedBy:     ownerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	t.Normalize()

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Normalize trims surrounding whitespace from the text fields.
func (t *Term) Normalize() {
	t.Term = strings.TrimSpace(t.Term)
	t.Meaning = strings.TrimSpace(t.Meaning)
	t.Pronunciation = strings.TrimSpace(t.Pronunciation)
}

// Validate checks if the Term has valid data.
func (t *Term) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTermID
	}
	if t.CreatedBy == uuid.Nil {
		return ErrEmptyTermOwner
	}
	if t.Term == "" {
		return ErrEmptyTerm
	}
	if len(t.Term) > MaxTermLength {
		return ErrTermTooLong
	}
	if t.Meaning == "" {
		return ErrEmptyMeaning
	}
	if len(t.Meaning) > MaxMeaningLength {
		return ErrMeaningTooLong
	}
	if len(t.Pronunciation) > MaxPronunciationLength {
		return ErrPronunciationTooLong
	}
	return nil
}

// CategoryIDs returns the IDs of cats in order.
func CategoryIDs(cats []Category) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	return ids
}
