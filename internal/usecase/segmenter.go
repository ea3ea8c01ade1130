package usecase

import (
	"log"
	"regexp"
	"strings"
)

// Compiled patterns for ingredient-section detection
var (
	// Matches an "Ingredients" section header line
	ingredientsHeaderPattern = regexp.MustCompile(`(?i)^ingredients\s*:?\s*$`)

	// Matches a section header that terminates the ingredient list
	terminatorHeaderPattern = regexp.MustCompile(`(?i)^(directions|instructions|method|steps)\b`)

	// Matches recipe metadata lines that are never ingredients
	metadataLinePattern = regexp.MustCompile(`(?i)^(servings?|serves|prep\s*time|cook\s*time|total\s*time|yield|nutrition)\b`)

	// Matches a leading bullet or enumeration marker
	listMarkerPattern = regexp.MustCompile(`^\s*(?:[-*•+]|\d+[.)])\s+`)
)

// maxPlainLineWords is the acceptance cutoff for marker-stripped lines with
// no measurement unit. Real ingredient lines are short; prose paragraphs
// aren't.
const maxPlainLineWords = 8

// Segmenter extracts an ordered list of candidate ingredient phrases from
// free text.
type Segmenter struct {
	enableDebugLogging bool
}

// NewSegmenter creates a new segmenter
func NewSegmenter(enableDebugLogging bool) *Segmenter {
	return &Segmenter{enableDebugLogging: enableDebugLogging}
}

// Segment splits text into candidate ingredient phrases. It looks for an
// "Ingredients" header and collects lines from there until a terminator
// header or metadata line; without a header it starts at the first line.
// List markers are stripped before every check, and a line qualifies when
// the stripped text contains a measurement unit token or has at most 8
// words, so re-segmenting the returned phrases (one per line) reproduces
// them.
func (s *Segmenter) Segment(text string) []string {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return nil
	}

	start := 0
	headerFound := false
	for i, line := range lines {
		if ingredientsHeaderPattern.MatchString(line) {
			start = i + 1
			headerFound = true
			break
		}
	}

	var phrases []string
	for _, line := range lines[start:] {
		stripped := stripListMarkers(line)
		if stripped == "" {
			continue
		}
		if terminatorHeaderPattern.MatchString(stripped) || metadataLinePattern.MatchString(stripped) {
			break
		}
		// A second "Ingredients" header inside the section is noise
		if ingredientsHeaderPattern.MatchString(stripped) {
			continue
		}

		if containsUnitToken(stripped) || wordCount(stripped) <= maxPlainLineWords {
			phrases = append(phrases, stripped)
		} else if s.enableDebugLogging {
			log.Printf("[SEGMENT] Rejected line: %q", stripped)
		}
	}

	if s.enableDebugLogging {
		log.Printf("[SEGMENT] Extracted %d phrases (header found: %v)", len(phrases), headerFound)
	}

	return phrases
}

// stripListMarkers removes leading bullet and enumeration markers until none
// remain, so the returned phrase never carries one
func stripListMarkers(line string) string {
	stripped := strings.TrimSpace(line)
	for {
		next := strings.TrimSpace(listMarkerPattern.ReplaceAllString(stripped, ""))
		if next == stripped {
			return stripped
		}
		stripped = next
	}
}

// nonBlankLines splits text into trimmed, non-blank lines
func nonBlankLines(text string) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// containsUnitToken reports whether any word of the line is a recognized
// measurement unit
func containsUnitToken(line string) bool {
	for _, word := range strings.Fields(strings.ToLower(line)) {
		word = strings.Trim(word, ",.;:()")
		if unitTokens[word] {
			return true
		}
	}
	return false
}

func wordCount(line string) int {
	return len(strings.Fields(line))
}
