package domain

// IngredientDescriptor is one parsed ingredient line from a recipe or a
// pasted ingredient list.
type IngredientDescriptor struct {
	OriginalText string   `json:"originalText"`
	Quantity     *float64 `json:"quantity,omitempty"` // nil means unspecified
	Unit         string   `json:"unit,omitempty"`     // raw unit token, e.g. "cups", "gram"
	Name         string   `json:"name"`               // noun phrase with quantity/unit stripped
	Normalized   string   `json:"normalized"`         // lowercased, singularized, synonym-mapped search key
}

// HasQuantity reports whether the line carried an explicit numeric quantity.
func (d IngredientDescriptor) HasQuantity() bool {
	return d.Quantity != nil
}
