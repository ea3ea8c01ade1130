package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nutriscope/backend/internal/domain"
)

// defaultPortionG is the reference portion a nutrient record describes when
// the dataset carries no usable serving-size field.
const defaultPortionG = 100.0

// leadingNumberRegex salvages the numeric part of values like "12.5 g"
var leadingNumberRegex = regexp.MustCompile(`^-?\d+(?:\.\d+)?`)

// BuildProfile portion-scales one merged macro record into a nutrient
// profile. Mass-based fields and glycemic load scale linearly with
// portion/100; glycemic index is an intensity and never scales; the
// inflammatory index is combined portion-weighted later, so it stays
// unscaled here too. Missing fields stay nil.
func BuildProfile(record domain.DatasetRecord, index *domain.DatasetIndex) domain.NutrientProfile {
	profile := domain.NutrientProfile{PortionG: defaultPortionG}
	if record == nil || index == nil {
		return profile
	}

	if index.ServingColumn != "" {
		if serving := parseNumber(record[index.ServingColumn]); serving != nil && *serving > 0 {
			profile.PortionG = *serving
		}
	}
	scale := profile.PortionG / 100.0

	profile.Calories = scaled(fieldValue(record, index, domain.FieldCalories), scale)
	profile.ProteinG = scaled(fieldValue(record, index, domain.FieldProtein), scale)
	profile.FiberG = scaled(fieldValue(record, index, domain.FieldFiber), scale)
	profile.CarbsG = scaled(fieldValue(record, index, domain.FieldCarbs), scale)
	profile.FatG = scaled(fieldValue(record, index, domain.FieldFat), scale)
	profile.GlycemicLoad = scaled(fieldValue(record, index, domain.FieldGlycemicLoad), scale)
	profile.GlycemicIndex = fieldValue(record, index, domain.FieldGlycemicIndex)
	profile.InflammatoryIndex = fieldValue(record, index, domain.FieldInflammatoryIndex)

	return profile
}

// CombineProfiles folds per-mention profiles into report-wide totals. Each
// rule covers only mentions with a present value for that metric - absent
// values never enter a numerator or denominator, and never count as zero.
func CombineProfiles(profiles []domain.NutrientProfile) domain.AggregateTotals {
	totals := domain.AggregateTotals{
		Calories:     sumPresent(profiles, func(p domain.NutrientProfile) *float64 { return p.Calories }),
		ProteinG:     sumPresent(profiles, func(p domain.NutrientProfile) *float64 { return p.ProteinG }),
		FiberG:       sumPresent(profiles, func(p domain.NutrientProfile) *float64 { return p.FiberG }),
		CarbsG:       sumPresent(profiles, func(p domain.NutrientProfile) *float64 { return p.CarbsG }),
		FatG:         sumPresent(profiles, func(p domain.NutrientProfile) *float64 { return p.FatG }),
		GlycemicLoad: sumPresent(profiles, func(p domain.NutrientProfile) *float64 { return p.GlycemicLoad }),
	}

	// Overall GI is carb-weighted: mentions missing either GI or carbs
	// contribute nothing to either side of the division.
	var giWeighted, carbSum float64
	for _, p := range profiles {
		if p.GlycemicIndex != nil && p.CarbsG != nil {
			giWeighted += *p.GlycemicIndex * *p.CarbsG
			carbSum += *p.CarbsG
		}
	}
	if carbSum > 0 {
		gi := giWeighted / carbSum
		totals.GlycemicIndex = &gi
	}

	// Overall DII is portion-weighted.
	var diiWeighted, portionSum float64
	for _, p := range profiles {
		if p.InflammatoryIndex != nil {
			diiWeighted += *p.InflammatoryIndex * p.PortionG
			portionSum += p.PortionG
		}
	}
	if portionSum > 0 {
		dii := diiWeighted / portionSum
		totals.InflammatoryIndex = &dii
	}

	return totals
}

// fieldValue reads a nutrient field through the dataset's resolved
// field→column mapping.
func fieldValue(record domain.DatasetRecord, index *domain.DatasetIndex, field string) *float64 {
	column, ok := index.FieldColumns[field]
	if !ok {
		return nil
	}
	return parseNumber(record[column])
}

// parseNumber parses a raw dataset value into a float, tolerating trailing
// unit text. Empty or non-numeric values are absent, not zero.
func parseNumber(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return &v
	}
	if m := leadingNumberRegex.FindString(raw); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return &v
		}
	}
	return nil
}

// scaled multiplies a present value by the portion scale
func scaled(value *float64, scale float64) *float64 {
	if value == nil {
		return nil
	}
	v := *value * scale
	return &v
}

// sumPresent sums a field across profiles where it is present, returning
// nil when no profile carries it.
func sumPresent(profiles []domain.NutrientProfile, get func(domain.NutrientProfile) *float64) *float64 {
	var sum float64
	found := false
	for _, p := range profiles {
		if v := get(p); v != nil {
			sum += *v
			found = true
		}
	}
	if !found {
		return nil
	}
	return &sum
}
