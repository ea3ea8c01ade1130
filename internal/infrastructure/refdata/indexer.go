package refdata

import (
	"fmt"
	"strings"

	"github.com/nutriscope/backend/internal/domain"
)

// keyColumnSynonyms is the prioritized list of accepted key-column names.
// Independently maintained reference tables don't agree on a header for the
// canonical identity, so discovery walks this list in order.
var keyColumnSynonyms = []string{
	"canonical_name", "canonical name", "food_name", "food name",
	"food", "ingredient", "item", "name",
}

// servingColumnSynonyms name the per-record serving-size field
var servingColumnSynonyms = []string{
	"serving_size", "serving size (g)", "serving size", "portion_g",
}

// nutrientColumnSynonyms map each nutrient field to the column names that
// carry it, in priority order.
var nutrientColumnSynonyms = map[string][]string{
	domain.FieldCalories:          {"calories", "kcal", "energy_kcal", "energy"},
	domain.FieldProtein:           {"protein_g", "protein (g)", "protein"},
	domain.FieldFiber:             {"fiber_g", "fiber (g)", "fiber", "fibre"},
	domain.FieldCarbs:             {"carbs_g", "carbs (g)", "carbs", "carbohydrates"},
	domain.FieldFat:               {"fat_g", "fat (g)", "fat", "total_fat"},
	domain.FieldGlycemicIndex:     {"glycemic_index", "glycemic index", "gi"},
	domain.FieldGlycemicLoad:      {"glycemic_load", "glycemic load", "gl"},
	domain.FieldInflammatoryIndex: {"inflammatory_index", "inflammatory index", "dii"},
}

// BuildIndex turns a parsed table into a canonical-identity-keyed index.
// Column discovery is case-insensitive and runs once per dataset; a table
// with no discoverable key column returns ErrNoKeyColumn and the caller
// decides whether that is fatal. Records sharing an identity are appended in
// arrival order.
func BuildIndex(name, role string, table *domain.DatasetTable) (*domain.DatasetIndex, error) {
	keyColumn, ok := findColumn(table.Columns, keyColumnSynonyms)
	if !ok {
		return nil, fmt.Errorf("%w: dataset %q (columns: %s)",
			domain.ErrNoKeyColumn, name, strings.Join(table.Columns, ", "))
	}

	index := &domain.DatasetIndex{
		Name:         name,
		Role:         role,
		KeyColumn:    keyColumn,
		FieldColumns: make(map[string]string),
		Records:      make(map[string][]domain.DatasetRecord),
	}

	if serving, ok := findColumn(table.Columns, servingColumnSynonyms); ok {
		index.ServingColumn = serving
	}
	for field, synonyms := range nutrientColumnSynonyms {
		if column, ok := findColumn(table.Columns, synonyms); ok {
			index.FieldColumns[field] = column
		}
	}
	for _, column := range table.Columns {
		if column != keyColumn && column != index.ServingColumn {
			index.ValueColumns = append(index.ValueColumns, column)
		}
	}

	seen := make(map[string]bool)
	for _, record := range table.Records {
		display := strings.TrimSpace(record[keyColumn])
		if display == "" {
			continue
		}
		key := strings.ToLower(display)
		if !seen[key] {
			seen[key] = true
			index.Identities = append(index.Identities, domain.CanonicalEntry{Key: key, Display: display})
		}
		index.Records[key] = append(index.Records[key], record)
	}

	return index, nil
}

// EmptyIndex is the index an optional dataset contributes when it cannot be
// fetched or indexed.
func EmptyIndex(name, role string) *domain.DatasetIndex {
	return &domain.DatasetIndex{
		Name:         name,
		Role:         role,
		FieldColumns: make(map[string]string),
		Records:      make(map[string][]domain.DatasetRecord),
	}
}

// findColumn matches synonyms against actual column headers,
// case-insensitively, in synonym priority order. Returns the actual header.
func findColumn(columns []string, synonyms []string) (string, bool) {
	for _, synonym := range synonyms {
		for _, column := range columns {
			if strings.EqualFold(strings.TrimSpace(column), synonym) {
				return column, true
			}
		}
	}
	return "", false
}
