package domain

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxCategoryNameLength        = 100
	MaxCategoryDescriptionLength = 500
)

// CategoryPalette is the set of colors assigned to categories created without one.
var CategoryPalette = []string{
	"#3B82F6", "#EF4444", "#10B981", "#F59E0B", "#8B5CF6",
	"#EC4899", "#06B6D4", "#84CC16", "#F97316", "#6366F1",
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Category validation errors. All of them wrap ErrValidation.
var (
	ErrEmptyCategoryName    = fmt.Errorf("%w: category name is required", ErrValidation)
	ErrCategoryNameTooLong  = fmt.Errorf("%w: category name must be at most %d characters long", ErrValidation, MaxCategoryNameLength)
	ErrCategoryDescTooLong  = fmt.Errorf("%w: category description must be at most %d characters long", ErrValidation, MaxCategoryDescriptionLength)
	ErrInvalidCategoryColor = fmt.Errorf("%w: category color must be a #RRGGBB hex value", ErrValidation)
	ErrEmptyCategoryOwner   = fmt.Errorf("%w: category owner cannot be empty", ErrValidation)
	ErrEmptyCategoryID      = fmt.Errorf("%w: category ID cannot be empty", ErrValidation)
	ErrUnknownCategory      = fmt.Errorf("%w: one or more categories do not exist", ErrValidation)
)

// Category groups terms and phrases. Categories belong to the user who created them.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RandomPaletteColor picks a color from CategoryPalette.
func RandomPaletteColor() string {
	return CategoryPalette[rand.IntN(len(CategoryPalette))]
}

// NewCategory creates a validated Category owned by ownerID.
// An empty color is replaced by a random palette color.
func NewCategory(ownerID uuid.UUID, name, description, color string) (*Category, error) {
	now := time.Now().UTC()
	c := &Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Color:       color,
		CreatedBy:   ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	c.Normalize()
	if c.Color == "" {
		c.Color = RandomPaletteColor()
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Normalize trims surrounding whitespace from the text fields.
func (c *Category) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	c.Color = strings.TrimSpace(c.Color)
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCategoryID
	}
	if c.CreatedBy == uuid.Nil {
		return ErrEmptyCategoryOwner
	}
	if c.Name == "" {
		return ErrEmptyCategoryName
	}
	if len(c.Name) > MaxCategoryNameLength {
		return ErrCategoryNameTooLong
	}
	if len(c.Description) > MaxCategoryDescriptionLength {
		return ErrCategoryDescTooLong
	}
	if !hexColor.MatchString(c.Color) {
		return ErrInvalidCategoryColor
	}
	return nil
}
