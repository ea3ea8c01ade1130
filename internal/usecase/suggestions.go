package usecase

import (
	"github.com/agnivade/levenshtein"

	"github.com/nutriscope/backend/internal/domain"
)

// similarity returns a 0.0-1.0 score between two strings using Levenshtein
// distance: 1.0 - distance/max(len(a), len(b)).
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

// SuggestCanonical returns the canonical identity nearest to an unresolved
// phrase, for diagnostics only. Nothing is suggested below the floor; ties
// keep the earlier universe entry so output is stable across runs.
func SuggestCanonical(phrase string, ref *domain.ReferenceData, floor float64) (string, bool) {
	if phrase == "" {
		return "", false
	}

	best := ""
	bestScore := floor
	for _, entry := range ref.Universe {
		if score := similarity(phrase, entry.Key); score > bestScore {
			bestScore = score
			best = entry.Display
		}
	}

	return best, best != ""
}
