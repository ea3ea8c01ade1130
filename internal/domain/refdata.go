package domain

import "strings"

// Dataset roles. Each reference table declares one role that decides which
// columns the report reads from it.
const (
	RoleMacro         = "macro"
	RoleBenefit       = "benefit"
	RoleDiet          = "diet"
	RoleMicrobiome    = "microbiome"
	RoleMicronutrient = "micronutrient"
	RoleAlias         = "alias"
)

// DatasetRecord is one row of a reference table: field name → raw value.
type DatasetRecord map[string]string

// DatasetTable is a parsed reference table before indexing.
type DatasetTable struct {
	Columns []string
	Records []DatasetRecord
}

// AliasEntry maps a free-text synonym to a canonical identity. Alias keys are
// lowercase and unique; entries keep insertion order so resolution is
// reproducible across runs.
type AliasEntry struct {
	Alias     string
	Canonical string // display case
}

// CanonicalEntry is one food identity in the canonical universe. Key is the
// lowercased compare form, Display the first-seen case.
type CanonicalEntry struct {
	Key     string
	Display string
}

// Nutrient field names, resolved to dataset columns once at index time.
const (
	FieldCalories          = "calories"
	FieldProtein           = "protein"
	FieldFiber             = "fiber"
	FieldCarbs             = "carbs"
	FieldFat               = "fat"
	FieldGlycemicIndex     = "glycemic_index"
	FieldGlycemicLoad      = "glycemic_load"
	FieldInflammatoryIndex = "inflammatory_index"
)

// DatasetIndex is one indexed reference table: canonical identity (lowercased)
// → records in arrival order. Key, serving-size and nutrient columns are
// discovered once per dataset, not rescanned per row.
type DatasetIndex struct {
	Name          string
	Role          string
	KeyColumn     string
	ServingColumn string                     // empty when the table has none
	ValueColumns  []string                   // non-key columns, header order
	FieldColumns  map[string]string          // nutrient field → actual column
	Identities    []CanonicalEntry           // first-seen order
	Records       map[string][]DatasetRecord // lowercased identity → rows
}

// Merged returns the single-record view of an identity: field values taken
// from the first record that has a non-empty value for each column.
func (d *DatasetIndex) Merged(identityKey string) DatasetRecord {
	rows := d.Records[identityKey]
	if len(rows) == 0 {
		return nil
	}
	merged := make(DatasetRecord, len(rows[0]))
	for _, row := range rows {
		for field, value := range row {
			if strings.TrimSpace(value) == "" {
				continue
			}
			if _, filled := merged[field]; !filled {
				merged[field] = value
			}
		}
	}
	return merged
}

// ReferenceData is the immutable snapshot every report resolves against.
// It is constructed once per request by the loader and never mutated after;
// concurrent reports each hold their own value.
type ReferenceData struct {
	Universe   []CanonicalEntry  // stable insertion order
	Aliases    []AliasEntry      // stable insertion order
	AliasExact map[string]string // alias → canonical display, exact lookup
	Datasets   []DatasetIndex
	DietTags   []string // value columns of the diet-compatibility table
	Degraded   []string // optional datasets that fell back to empty
}

// LookupAlias returns the canonical identity for an exact alias key.
func (r *ReferenceData) LookupAlias(phrase string) (string, bool) {
	canonical, ok := r.AliasExact[phrase]
	return canonical, ok
}

// Dataset returns the index with the given role, or nil.
func (r *ReferenceData) Dataset(role string) *DatasetIndex {
	for i := range r.Datasets {
		if r.Datasets[i].Role == role {
			return &r.Datasets[i]
		}
	}
	return nil
}

// DisplayFor returns the first-seen display case for a lowercased identity
// key, falling back to the key itself.
func (r *ReferenceData) DisplayFor(identityKey string) string {
	for _, entry := range r.Universe {
		if entry.Key == identityKey {
			return entry.Display
		}
	}
	return identityKey
}
