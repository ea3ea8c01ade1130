package domain

// IngredientMention is one candidate ingredient extracted from the source,
// carrying its resolution outcome. Unresolved mentions are retained with an
// empty Canonical and Confidence 0, never dropped.
type IngredientMention struct {
	Raw        string  `json:"raw"`
	Normalized string  `json:"normalized"`
	Canonical  string  `json:"canonical,omitempty"` // display case, empty when unresolved
	Confidence float64 `json:"confidence"`          // 0-1
}

// Resolved reports whether the mention matched a canonical identity.
func (m IngredientMention) Resolved() bool {
	return m.Canonical != ""
}

// NutrientProfile holds per-mention nutrient values. A nil field means the
// source record lacked it; absent values are excluded from aggregation, never
// treated as zero.
type NutrientProfile struct {
	Calories          *float64 `json:"calories,omitempty"`
	ProteinG          *float64 `json:"proteinG,omitempty"`
	FiberG            *float64 `json:"fiberG,omitempty"`
	CarbsG            *float64 `json:"carbsG,omitempty"`
	FatG              *float64 `json:"fatG,omitempty"`
	GlycemicIndex     *float64 `json:"glycemicIndex,omitempty"`
	GlycemicLoad      *float64 `json:"glycemicLoad,omitempty"`
	InflammatoryIndex *float64 `json:"inflammatoryIndex,omitempty"`
	PortionG          float64  `json:"portionG"` // resolved portion mass (default 100)
}

// AggregateTotals holds report-wide combined values. Sums cover only mentions
// with a present value; GlycemicIndex is carb-weighted and InflammatoryIndex
// portion-weighted, each nil when its denominator is zero.
type AggregateTotals struct {
	Calories          *float64 `json:"calories,omitempty"`
	ProteinG          *float64 `json:"proteinG,omitempty"`
	FiberG            *float64 `json:"fiberG,omitempty"`
	CarbsG            *float64 `json:"carbsG,omitempty"`
	FatG              *float64 `json:"fatG,omitempty"`
	GlycemicLoad      *float64 `json:"glycemicLoad,omitempty"`
	GlycemicIndex     *float64 `json:"glycemicIndex,omitempty"`
	InflammatoryIndex *float64 `json:"inflammatoryIndex,omitempty"`
}

// IngredientRow is one line of the rendered report.
type IngredientRow struct {
	DisplayName    string          `json:"displayName"`
	Canonical      string          `json:"canonical"` // canonical identity or "unresolved"
	Confidence     float64         `json:"confidence"`
	Profile        NutrientProfile `json:"profile"`
	Benefits       []string        `json:"benefits,omitempty"`
	Microbiome     []string        `json:"microbiome,omitempty"`
	Micronutrients []string        `json:"micronutrients,omitempty"`
}

// Diet verdict values.
const (
	VerdictYes    = "Yes"
	VerdictLikely = "Likely"
	VerdictNo     = "No"
)

// DietVerdict is the per-diet-tag compatibility outcome: No (with offending
// ingredients) beats Likely (unknown/unresolved present) beats Yes.
type DietVerdict struct {
	Tag       string   `json:"tag"`
	Verdict   string   `json:"verdict"`
	Offenders []string `json:"offenders,omitempty"`
}

// Report is the complete output handed to the rendering collaborator.
type Report struct {
	Rows        []IngredientRow `json:"rows"`
	Totals      AggregateTotals `json:"totals"`
	Diets       []DietVerdict   `json:"diets,omitempty"`
	Diagnostics []string        `json:"diagnostics,omitempty"`
}

// TextReportRequest asks for a report from free text.
type TextReportRequest struct {
	Text string `json:"text" binding:"required"`
}

// SelectionReportRequest asks for a report from an explicit ingredient list,
// bypassing segmentation.
type SelectionReportRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}
