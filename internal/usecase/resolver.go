package usecase

import (
	"log"
	"strings"

	"github.com/nutriscope/backend/internal/domain"
)

// Tier confidence constants
const (
	aliasExactConfidence       = 1.0
	aliasSuffixBase            = 0.9
	aliasSuffixPenaltyPerWord  = 0.05
	aliasContainmentConfidence = 0.6
	universeEqualConfidence    = 0.95
	universeContainsConfidence = 0.70
	universeWithinConfidence   = 0.60
)

// matchStrategy is one tier of the resolver chain. Strategies run in order;
// the first success wins regardless of what a later tier would have scored.
type matchStrategy struct {
	name  string
	match func(phrase string, ref *domain.ReferenceData) (string, float64, bool)
}

var matchStrategies = []matchStrategy{
	{"alias-exact", matchAliasExact},
	{"alias-suffix", matchAliasSuffix},
	{"alias-containment", matchAliasContainment},
	{"universe-containment", matchUniverseContainment},
}

// Resolver maps a normalized phrase to a canonical identity with a
// confidence score.
type Resolver struct {
	enableDebugLogging bool
}

// NewResolver creates a new resolver
func NewResolver(enableDebugLogging bool) *Resolver {
	return &Resolver{enableDebugLogging: enableDebugLogging}
}

// Resolve runs the strategy chain over the snapshot and returns the winning
// canonical identity (display case) and confidence, or ("", 0) when every
// tier misses. Alias entries and the canonical universe are iterated in
// insertion order, so results are reproducible across runs.
func (r *Resolver) Resolve(phrase string, ref *domain.ReferenceData) (string, float64) {
	if phrase == "" {
		return "", 0
	}

	for _, strategy := range matchStrategies {
		if canonical, confidence, ok := strategy.match(phrase, ref); ok {
			if r.enableDebugLogging {
				log.Printf("[RESOLVE] %q -> %q via %s (%.2f)", phrase, canonical, strategy.name, confidence)
			}
			return canonical, confidence
		}
	}

	if r.enableDebugLogging {
		log.Printf("[RESOLVE] %q unresolved", phrase)
	}
	return "", 0
}

// matchAliasExact is tier 1: exact alias-table lookup.
func matchAliasExact(phrase string, ref *domain.ReferenceData) (string, float64, bool) {
	if canonical, ok := ref.LookupAlias(phrase); ok {
		return canonical, aliasExactConfidence, true
	}
	return "", 0, false
}

// matchAliasSuffix is tier 2: progressively drop words from the front and
// look up the remaining suffix. Confidence decays with each word dropped.
func matchAliasSuffix(phrase string, ref *domain.ReferenceData) (string, float64, bool) {
	words := strings.Fields(phrase)
	for k := 1; k < len(words); k++ {
		suffix := strings.Join(words[k:], " ")
		if canonical, ok := ref.LookupAlias(suffix); ok {
			confidence := aliasSuffixBase - aliasSuffixPenaltyPerWord*float64(k)
			if confidence < 0 {
				confidence = 0
			}
			return canonical, confidence, true
		}
	}
	return "", 0, false
}

// matchAliasContainment is tier 3: any alias key that is a substring of the
// phrase. First qualifying entry in insertion order wins.
func matchAliasContainment(phrase string, ref *domain.ReferenceData) (string, float64, bool) {
	for _, entry := range ref.Aliases {
		if entry.Alias != "" && strings.Contains(phrase, entry.Alias) {
			return entry.Canonical, aliasContainmentConfidence, true
		}
	}
	return "", 0, false
}

// matchUniverseContainment is tier 4: the phrase equals, contains, or is
// contained by a canonical identity. Equality scores highest and is checked
// in its own pass so it can't lose to an earlier-inserted containment hit.
func matchUniverseContainment(phrase string, ref *domain.ReferenceData) (string, float64, bool) {
	for _, entry := range ref.Universe {
		if entry.Key == phrase {
			return entry.Display, universeEqualConfidence, true
		}
	}
	for _, entry := range ref.Universe {
		if entry.Key != "" && strings.Contains(phrase, entry.Key) {
			return entry.Display, universeContainsConfidence, true
		}
	}
	for _, entry := range ref.Universe {
		if strings.Contains(entry.Key, phrase) {
			return entry.Display, universeWithinConfidence, true
		}
	}
	return "", 0, false
}
