package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/nutriscope/backend/internal/domain"
)

// unresolvedLabel is what the report shows in place of a canonical identity
const unresolvedLabel = "unresolved"

// ReportServiceConfig holds configuration for the report service
type ReportServiceConfig struct {
	EnableDebugLogging bool
	SuggestionFloor    float64
}

// ReportService turns a text or selection source into a nutrition report.
// Every request resolves against its own immutable snapshot from the
// provider; nothing here holds mutable reference state.
type ReportService struct {
	snapshots          domain.SnapshotProvider
	segmenter          *Segmenter
	resolver           *Resolver
	suggestionFloor    float64
	enableDebugLogging bool
}

// NewReportService creates a new report service with dependencies
func NewReportService(snapshots domain.SnapshotProvider, config ReportServiceConfig) *ReportService {
	floor := config.SuggestionFloor
	if floor <= 0 {
		floor = 0.55
	}

	return &ReportService{
		snapshots:          snapshots,
		segmenter:          NewSegmenter(config.EnableDebugLogging),
		resolver:           NewResolver(config.EnableDebugLogging),
		suggestionFloor:    floor,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// GenerateFromText builds a report from free text. Returns ErrEmptyInput
// when no candidate phrases could be extracted.
func (s *ReportService) GenerateFromText(ctx context.Context, text string) (*domain.Report, error) {
	phrases := s.segmenter.Segment(text)
	if len(phrases) == 0 {
		return nil, domain.ErrEmptyInput
	}
	return s.generate(ctx, phrases)
}

// GenerateFromSelection builds a report from an explicit ordered list of
// ingredient display names, bypassing segmentation.
func (s *ReportService) GenerateFromSelection(ctx context.Context, names []string) (*domain.Report, error) {
	var phrases []string
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			phrases = append(phrases, trimmed)
		}
	}
	if len(phrases) == 0 {
		return nil, domain.ErrEmptyInput
	}
	return s.generate(ctx, phrases)
}

// generate runs the shared pipeline: normalize → de-duplicate → resolve →
// per-mention nutrient lookup → aggregate → diet verdicts.
func (s *ReportService) generate(ctx context.Context, phrases []string) (*domain.Report, error) {
	ref, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	mentions := s.resolveMentions(phrases, ref)

	macroIndex := ref.Dataset(domain.RoleMacro)
	report := &domain.Report{Rows: make([]domain.IngredientRow, 0, len(mentions))}

	profiles := make([]domain.NutrientProfile, 0, len(mentions))
	for _, mention := range mentions {
		row := domain.IngredientRow{
			DisplayName: mention.Raw,
			Canonical:   unresolvedLabel,
			Confidence:  mention.Confidence,
			Profile:     domain.NutrientProfile{PortionG: defaultPortionG},
		}

		if mention.Resolved() {
			key := strings.ToLower(mention.Canonical)
			// Display case follows the universe's first-seen entry, not
			// whatever casing the winning alias row carried
			row.Canonical = ref.DisplayFor(key)
			if macroIndex != nil {
				row.Profile = BuildProfile(macroIndex.Merged(key), macroIndex)
			}
			row.Benefits = collectTags(ref.Dataset(domain.RoleBenefit), key)
			row.Microbiome = collectTags(ref.Dataset(domain.RoleMicrobiome), key)
			row.Micronutrients = collectTags(ref.Dataset(domain.RoleMicronutrient), key)
		}

		profiles = append(profiles, row.Profile)
		report.Rows = append(report.Rows, row)
	}

	report.Totals = CombineProfiles(profiles)
	report.Diets = s.dietVerdicts(mentions, ref)
	report.Diagnostics = s.diagnostics(mentions, ref)

	if s.enableDebugLogging {
		log.Printf("[REPORT] %d rows, %d diet verdicts, %d diagnostics",
			len(report.Rows), len(report.Diets), len(report.Diagnostics))
	}

	return report, nil
}

// resolveMentions normalizes and resolves each phrase, de-duplicating by
// normalized key. The first occurrence keeps its raw phrase for display;
// unresolved mentions are retained, never dropped.
func (s *ReportService) resolveMentions(phrases []string, ref *domain.ReferenceData) []domain.IngredientMention {
	seen := make(map[string]bool, len(phrases))
	mentions := make([]domain.IngredientMention, 0, len(phrases))

	for _, raw := range phrases {
		normalized := NormalizePhrase(raw)
		if seen[normalized] {
			continue
		}
		seen[normalized] = true

		canonical, confidence := s.resolver.Resolve(normalized, ref)
		mentions = append(mentions, domain.IngredientMention{
			Raw:        raw,
			Normalized: normalized,
			Canonical:  canonical,
			Confidence: confidence,
		})
	}

	return mentions
}

// dietVerdicts produces one verdict per diet tag: No with offenders when any
// resolved ingredient is explicitly incompatible, else Likely when anything
// is unresolved or unknown, else Yes. An explicit incompatibility is never
// overridden by unresolved mentions.
func (s *ReportService) dietVerdicts(mentions []domain.IngredientMention, ref *domain.ReferenceData) []domain.DietVerdict {
	dietIndex := ref.Dataset(domain.RoleDiet)
	if dietIndex == nil || len(ref.DietTags) == 0 {
		return nil
	}

	verdicts := make([]domain.DietVerdict, 0, len(ref.DietTags))
	for _, tag := range ref.DietTags {
		var offenders []string
		unknown := false

		for _, mention := range mentions {
			if !mention.Resolved() {
				unknown = true
				continue
			}
			record := dietIndex.Merged(strings.ToLower(mention.Canonical))
			value := ""
			if record != nil {
				value = strings.TrimSpace(record[tag])
			}
			switch {
			case value == "":
				unknown = true
			case isNegativeValue(value):
				offenders = append(offenders, mention.Canonical)
			}
		}

		verdict := domain.DietVerdict{Tag: tag, Verdict: domain.VerdictYes}
		switch {
		case len(offenders) > 0:
			verdict.Verdict = domain.VerdictNo
			verdict.Offenders = offenders
		case unknown:
			verdict.Verdict = domain.VerdictLikely
		}
		verdicts = append(verdicts, verdict)
	}

	return verdicts
}

// diagnostics summarizes non-fatal degradations: optional datasets that fell
// back to empty and mentions that missed every resolver tier, with a nearest
// canonical suggestion where one clears the floor.
func (s *ReportService) diagnostics(mentions []domain.IngredientMention, ref *domain.ReferenceData) []string {
	var notes []string

	for _, name := range ref.Degraded {
		notes = append(notes, fmt.Sprintf("dataset %q unavailable, report generated without it", name))
	}

	for _, mention := range mentions {
		if mention.Resolved() {
			continue
		}
		note := fmt.Sprintf("could not resolve %q", mention.Raw)
		if suggestion, ok := SuggestCanonical(mention.Normalized, ref, s.suggestionFloor); ok {
			note += fmt.Sprintf(" (did you mean %q?)", suggestion)
		}
		notes = append(notes, note)
	}

	return notes
}

// collectTags gathers cross-reference tags for an identity from a tag-style
// dataset. Affirmative cell values tag the ingredient with the column name;
// free-text cells contribute their own value. Order follows the records'
// arrival order, de-duplicated.
func collectTags(index *domain.DatasetIndex, identityKey string) []string {
	if index == nil {
		return nil
	}

	var tags []string
	seen := make(map[string]bool)
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[strings.ToLower(tag)] {
			return
		}
		seen[strings.ToLower(tag)] = true
		tags = append(tags, tag)
	}

	for _, record := range index.Records[identityKey] {
		for _, column := range index.ValueColumns {
			value := strings.TrimSpace(record[column])
			if value == "" || isNegativeValue(value) {
				continue
			}
			if isAffirmativeValue(value) {
				add(column)
			} else {
				add(value)
			}
		}
	}

	return tags
}

// isNegativeValue reports whether a dataset cell explicitly marks
// incompatibility or absence
func isNegativeValue(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "no", "n", "false", "0", "avoid", "incompatible":
		return true
	}
	return false
}

// isAffirmativeValue reports whether a dataset cell is a bare yes-marker
// rather than a free-text tag
func isAffirmativeValue(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "1", "x", "compatible":
		return true
	}
	return false
}
