package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/store"
)

// categoryLinks reads and writes one of the join tables that attach
// categories to terms or phrases.
type categoryLinks struct {
	table  string // join table, e.g. term_categories
	column string // owning column, e.g. term_id
}

var (
	termCategoryLinks   = categoryLinks{table: "term_categories", column: "term_id"}
	phraseCategoryLinks = categoryLinks{table: "phrase_categories", column: "phrase_id"}
)

// uuidArray renders ids as a PostgreSQL array literal for a $n::uuid[] parameter.
func uuidArray(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// load returns the categories of every item in itemIDs, keyed by item ID
// and ordered by category name. Items without categories are absent from the map.
func (l categoryLinks) load(
	ctx context.Context,
	db store.DBTX,
	itemIDs []uuid.UUID,
) (map[uuid.UUID][]domain.Category, error) {
	result := make(map[uuid.UUID][]domain.Category, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT l.%[2]s, c.id, c.name, COALESCE(c.description, ''), c.color,
		       c.created_by, c.created_at, c.updated_at
		FROM %[1]s l
		JOIN categories c ON c.id = l.category_id
		WHERE l.%[2]s = ANY($1::uuid[])
		ORDER BY c.name
	`, l.table, l.column)

	rows, err := db.QueryContext(ctx, query, uuidArray(itemIDs))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var itemID uuid.UUID
		var c domain.Category
		if err := rows.Scan(
			&itemID,
			&c.ID,
			&c.Name,
			&c.Description,
			&c.Color,
			&c.CreatedBy,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result[itemID] = append(result[itemID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// replace drops every link of itemID and links it to categoryIDs instead.
// Callers run it inside a transaction together with the item write.
func (l categoryLinks) replace(
	ctx context.Context,
	db store.DBTX,
	itemID uuid.UUID,
	categoryIDs []uuid.UUID,
) error {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, l.table, l.column)
	if _, err := db.ExecContext(ctx, deleteQuery, itemID); err != nil {
		return MapError(err)
	}
	if len(categoryIDs) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, category_id)
		SELECT $1, id FROM unnest($2::uuid[]) AS id
		ON CONFLICT DO NOTHING
	`, l.table, l.column)
	if _, err := db.ExecContext(ctx, insertQuery, itemID, uuidArray(categoryIDs)); err != nil {
		return MapError(err)
	}
	return nil
}

// categoriesOrEmpty keeps JSON output as [] instead of null.
func categoriesOrEmpty(cats []domain.Category) []domain.Category {
	if cats == nil {
		return []domain.Category{}
	}
	return cats
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
