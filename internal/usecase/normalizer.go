package usecase

import (
	"regexp"
	"strings"
)

// Compiled patterns for quantity removal
var (
	// Matches vulgar fraction characters
	vulgarFractionRegex = regexp.MustCompile(`[¼½¾⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞]`)

	// Matches ascii fractions like 1/2 and 3 / 4
	asciiFractionRegex = regexp.MustCompile(`\d+\s*/\s*\d+`)

	// Matches integers and decimals, including ranges like 2-3
	numberRegex = regexp.MustCompile(`\d+(?:\.\d+)?`)

	// Strips everything outside the normalized alphabet
	disallowedCharRegex = regexp.MustCompile(`[^a-z \-]`)

	multiSpaceRegex = regexp.MustCompile(`\s+`)
)

// unitTokens is the fixed vocabulary of measurement units removed during
// normalization, singular and plural. Shared with the segmenter's
// unit-token acceptance rule.
var unitTokens = map[string]bool{
	// Volume
	"cup": true, "cups": true, "c": true,
	"tablespoon": true, "tablespoons": true, "tbsp": true, "tbs": true,
	"teaspoon": true, "teaspoons": true, "tsp": true,
	"milliliter": true, "milliliters": true, "ml": true,
	"liter": true, "liters": true, "litre": true, "litres": true, "l": true,
	"quart": true, "quarts": true, "qt": true,
	"pint": true, "pints": true, "pt": true,
	"gallon": true, "gallons": true, "gal": true,
	"dash": true, "dashes": true,
	"pinch": true, "pinches": true,
	"splash": true, "splashes": true,
	// Mass
	"gram": true, "grams": true, "g": true,
	"kilogram": true, "kilograms": true, "kg": true,
	"milligram": true, "milligrams": true, "mg": true,
	"ounce": true, "ounces": true, "oz": true,
	"pound": true, "pounds": true, "lb": true, "lbs": true,
	// Count
	"clove": true, "cloves": true,
	"slice": true, "slices": true,
	"piece": true, "pieces": true,
	"stick": true, "sticks": true,
	"bunch": true, "bunches": true,
	"head": true, "heads": true,
	"sprig": true, "sprigs": true,
	"stalk": true, "stalks": true,
	"can": true, "cans": true,
	"jar": true, "jars": true,
	"package": true, "packages": true, "pkg": true,
	"handful": true, "handfuls": true,
}

// descriptorTokens is the fixed vocabulary of preparation-state descriptors
// removed during normalization.
var descriptorTokens = map[string]bool{
	// Cutting
	"chopped": true, "diced": true, "minced": true, "sliced": true,
	"grated": true, "shredded": true, "crushed": true, "julienned": true,
	"cubed": true, "halved": true, "quartered": true, "trimmed": true,
	"peeled": true, "pitted": true, "seeded": true, "stemmed": true,
	// State
	"fresh": true, "freshly": true, "frozen": true, "canned": true,
	"dried": true, "raw": true, "cooked": true, "ripe": true,
	"ground": true, "whole": true, "melted": true, "softened": true,
	"beaten": true, "drained": true, "rinsed": true, "toasted": true,
	"roasted": true, "packed": true, "divided": true, "thawed": true,
	"boneless": true, "skinless": true, "uncooked": true,
	// Degree
	"finely": true, "coarsely": true, "thinly": true, "roughly": true,
	"lightly": true, "large": true, "medium": true, "small": true,
	"extra": true, "optional": true,
}

// NormalizePhrase reduces one raw phrase to a canonical-matchable key:
// lowercase, letters/spaces/hyphens only, single-spaced, trimmed. The
// transform order is load-bearing - quantities go before units so "2 cups"
// leaves nothing behind, and the character strip runs after the vocabulary
// passes so punctuation can't hide a unit token.
func NormalizePhrase(raw string) string {
	s := strings.ToLower(raw)

	// 1. Remove numeric quantities: vulgar fractions, ascii fractions,
	// decimals and integers
	s = vulgarFractionRegex.ReplaceAllString(s, " ")
	s = asciiFractionRegex.ReplaceAllString(s, " ")
	s = numberRegex.ReplaceAllString(s, " ")

	// 2. Remove measurement-unit tokens
	s = dropVocabulary(s, unitTokens)

	// 3. Remove preparation-state descriptors
	s = dropVocabulary(s, descriptorTokens)

	// 4. Strip characters outside [a-z, space, hyphen]
	s = disallowedCharRegex.ReplaceAllString(s, "")

	// 5. Collapse repeated whitespace
	s = strings.TrimSpace(multiSpaceRegex.ReplaceAllString(s, " "))

	// 6. Singularize the trailing word: drop "es", else "s". Single
	// heuristic pass, not morphology - "apples" becomes "appl", which is
	// consistent because every compared phrase goes through the same
	// pass. The strip never leaves a form that would strip again, so
	// normalizing twice changes nothing.
	s = singularize(s)

	return s
}

// dropVocabulary removes words found in the vocabulary, comparing with
// surrounding punctuation trimmed so "cups," still matches "cups"
func dropVocabulary(s string, vocabulary map[string]bool) string {
	words := strings.Fields(s)
	kept := words[:0]
	for _, word := range words {
		if vocabulary[strings.Trim(word, ",.;:()")] {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

// singularize drops a trailing "es", else a trailing "s", from the phrase.
// Double-"s" endings ("watercress") are kept, and a "ses" ending loses only
// the final "s" ("molasses" never decays to "molas"), so the output is
// stable under repeated application. Very short words are left alone.
func singularize(s string) string {
	if strings.HasSuffix(s, "ss") {
		return s
	}
	if len(s) >= 4 && strings.HasSuffix(s, "es") {
		if strings.HasSuffix(s, "ses") {
			return s[:len(s)-1]
		}
		return s[:len(s)-2]
	}
	if len(s) >= 3 && strings.HasSuffix(s, "s") {
		return s[:len(s)-1]
	}
	return s
}
