package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxPhraseLength      = 500
	MaxExplanationLength = 10000
)

// Phrase validation errors. All of them wrap ErrValidation.
var (
	ErrEmptyPhraseID      = fmt.Errorf("%w: phrase ID cannot be empty", ErrValidation)
	ErrEmptyPhraseOwner   = fmt.Errorf("%w: phrase owner cannot be empty", ErrValidation)
	ErrEmptyPhrase        = fmt.Errorf("%w: phrase is required", ErrValidation)
	ErrPhraseTooLong      = fmt.Errorf("%w: phrase must be at most %d characters long", ErrValidation, MaxPhraseLength)
	ErrEmptyExplanation   = fmt.Errorf("%w: explanation is required", ErrValidation)
	ErrExplanationTooLong = fmt.Errorf("%w: explanation must be at most %d characters long", ErrValidation, MaxExplanationLength)
)

// Phrase is an abbreviation or clinical expression with its explanation.
type Phrase struct {
	ID          uuid.UUID  `json:"id"`
	Phrase      string     `json:"phrase"`
	Explanation string     `json:"explanation"`
	Categories  []Category `json:"categories"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewPhrase creates a validated Phrase owned by ownerID. Text fields are trimmed.
func NewPhrase(ownerID uuid.UUID, phrase, explanation string) (*Phrase, error) {
	now := time.Now().UTC()
	p := &Phrase{
		ID:          uuid.New(),
		Phrase:      phrase,
		Explanation: explanation,
		Categories:  []Category{},
		CreatedBy:   ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.Normalize()

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Normalize trims surrounding whitespace from the text fields.
func (p *Phrase) Normalize() {
	p.Phrase = strings.TrimSpace(p.Phrase)
	p.Explanation = strings.TrimSpace(p.Explanation)
}

// Validate checks if the Phrase has valid data.
func (p *Phrase) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyPhraseID
	}
	if p.CreatedBy == uuid.Nil {
		return ErrEmptyPhraseOwner
	}
	if p.Phrase == "" {
		return ErrEmptyPhrase
	}
	if len(p.Phrase) > MaxPhraseLength {
		return ErrPhraseTooLong
	}
	if p.Explanation == "" {
		return ErrEmptyExplanation
	}
	if len(p.Explanation) > MaxExplanationLength {
		return ErrExplanationTooLong
	}
	return nil
}
