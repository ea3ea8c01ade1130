package usecase

import (
	"reflect"
	"testing"
)

func TestSegment(t *testing.T) {
	s := NewSegmenter(false)

	t.Run("extracts lines under ingredients header", func(t *testing.T) {
		text := `My Famous Soup

Ingredients:
- 2 cups chicken broth
- 1 onion, chopped
- salt to taste

Directions:
Simmer everything for an hour until the onion is soft and the broth tastes right.`

		got := s.Segment(text)
		want := []string{"2 cups chicken broth", "1 onion, chopped", "salt to taste"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Segment() = %v, want %v", got, want)
		}
	})

	t.Run("starts at first line when no header", func(t *testing.T) {
		got := s.Segment("1 cup rice\n2 cloves garlic")
		want := []string{"1 cup rice", "2 cloves garlic"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Segment() = %v, want %v", got, want)
		}
	})

	t.Run("header match is anchored and case-insensitive", func(t *testing.T) {
		got := s.Segment("the ingredients are secret\nINGREDIENTS\nbutter\nflour")
		want := []string{"butter", "flour"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Segment() = %v, want %v", got, want)
		}
	})

	t.Run("stops at terminator headers", func(t *testing.T) {
		for _, terminator := range []string{"Directions", "Instructions:", "Method", "Steps"} {
			got := s.Segment("olive oil\n" + terminator + "\nheat the oil")
			want := []string{"olive oil"}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Segment() with %q = %v, want %v", terminator, got, want)
			}
		}
	})

	t.Run("stops at metadata lines", func(t *testing.T) {
		for _, metadata := range []string{"Servings: 4", "Prep time: 10 min", "Cook Time: 1 hr", "Yield: 12 muffins", "Nutrition facts"} {
			got := s.Segment("olive oil\n" + metadata + "\nbutter")
			want := []string{"olive oil"}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Segment() with %q = %v, want %v", metadata, got, want)
			}
		}
	})

	t.Run("strips bullet and number markers", func(t *testing.T) {
		got := s.Segment("- 1 cup flour\n* 2 eggs\n• a pinch of salt\n1. 3 tbsp sugar\n2) vanilla extract")
		want := []string{"1 cup flour", "2 eggs", "a pinch of salt", "3 tbsp sugar", "vanilla extract"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Segment() = %v, want %v", got, want)
		}
	})

	t.Run("rejects long prose without marker or unit", func(t *testing.T) {
		prose := "this is a long sentence about cooking that has no units and far too many words"
		got := s.Segment("2 cups flour\n" + prose)
		want := []string{"2 cups flour"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Segment() = %v, want %v", got, want)
		}
	})

	t.Run("rejects bulleted long prose without a unit", func(t *testing.T) {
		// A marker alone cannot qualify a line: acceptance is decided on the
		// stripped text, so the output re-segments to itself.
		text := "- skinless boneless free range organic chicken thigh meat trimmed very well\n- 2 eggs"
		got := s.Segment(text)
		want := []string{"2 eggs"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Segment() = %v, want %v", got, want)
		}
		if second := s.Segment(joinLines(got)); !reflect.DeepEqual(got, second) {
			t.Errorf("re-segmenting changed output: %v -> %v", got, second)
		}
	})

	t.Run("metadata check applies to the marker-stripped text", func(t *testing.T) {
		got := s.Segment("olive oil\n- Nutrition facts per serving listed below\nbutter")
		want := []string{"olive oil"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Segment() = %v, want %v", got, want)
		}
		if second := s.Segment(joinLines(got)); !reflect.DeepEqual(got, second) {
			t.Errorf("re-segmenting changed output: %v -> %v", got, second)
		}
	})

	t.Run("strips stacked markers completely", func(t *testing.T) {
		got := s.Segment("- - 2 cups flour\n1. * salt")
		want := []string{"2 cups flour", "salt"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Segment() = %v, want %v", got, want)
		}
	})

	t.Run("accepts long line containing a unit token", func(t *testing.T) {
		line := "about one and a half cups of finely chopped fresh flat leaf parsley"
		got := s.Segment(line)
		if len(got) != 1 || got[0] != line {
			t.Errorf("Segment() = %v, want [%q]", got, line)
		}
	})

	t.Run("returns nil for empty and blank input", func(t *testing.T) {
		if got := s.Segment(""); got != nil {
			t.Errorf("Segment(\"\") = %v, want nil", got)
		}
		if got := s.Segment("\n  \n\t\n"); got != nil {
			t.Errorf("Segment(blank) = %v, want nil", got)
		}
	})

	t.Run("is idempotent over its own output", func(t *testing.T) {
		text := `Ingredients
- 2 cups chicken broth
- 1 onion, chopped
- salt and pepper to taste
Directions
simmer`
		first := s.Segment(text)
		second := s.Segment(joinLines(first))
		if !reflect.DeepEqual(first, second) {
			t.Errorf("re-segmenting changed output: %v -> %v", first, second)
		}
	})
}

func joinLines(lines []string) string {
	out := ""
	for i, line := range lines {
		if i > 0 {
			out += "\n"
		}
		out += line
	}
	return out
}
