package domain

// Confidence tier thresholds shared between the classifier and any UI that
// renders tier badges. Keep these in sync with the frontend's tier colors.
const (
	// ConfidenceMatched is the lower bound for an auto-selected match.
	ConfidenceMatched = 0.7

	// ConfidencePartial is the lower bound for a partial match that is
	// pre-selected but flagged for confirmation.
	ConfidencePartial = 0.4
)

// CatalogProduct is a raw catalog search hit after the gateway adapter has
// normalized the external payload shape. The scoring layer never sees the
// vendor's wire format.
type CatalogProduct struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	UnitQuantity string `json:"unitQuantity,omitempty"`
	Price        int    `json:"price,omitempty"` // minor currency units, 0 = unknown
	ImageURL     string `json:"imageUrl,omitempty"`
}

// ProductCandidate is one scored catalog hit for a descriptor.
type ProductCandidate struct {
	ProductID    string  `json:"productId"`
	DisplayName  string  `json:"displayName"`
	UnitQuantity string  `json:"unitQuantity,omitempty"`
	Price        int     `json:"price,omitempty"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	Confidence   float64 `json:"confidence"` // 0..1
}

// MatchStatus is the classification tier for one descriptor.
type MatchStatus string

const (
	StatusMatched   MatchStatus = "matched"
	StatusPartial   MatchStatus = "partial"
	StatusUncertain MatchStatus = "uncertain"
	StatusNotFound  MatchStatus = "not_found"
)

// MatchRecord is the classified outcome for one descriptor. Status,
// BestConfidence and NeedsReview are derived by the classifier; only
// Selected changes afterwards, during review.
type MatchRecord struct {
	Ingredient     IngredientDescriptor `json:"ingredient"`
	Candidates     []ProductCandidate   `json:"candidates"`
	Status         MatchStatus          `json:"status"`
	BestConfidence float64              `json:"bestConfidence"`
	NeedsReview    bool                 `json:"needsReview"`
	Selected       *ProductCandidate    `json:"selected,omitempty"` // nil = excluded from commit
}

// ResolutionBatch aggregates the records for one user submission. Record
// order equals input line order.
type ResolutionBatch struct {
	Records             []MatchRecord `json:"records"`
	NeedsReviewCount    int           `json:"needsReviewCount"`
	HighConfidenceCount int           `json:"highConfidenceCount"`
}

// Tally recomputes the derived aggregate counters from Records.
func (b *ResolutionBatch) Tally() {
	b.NeedsReviewCount = 0
	b.HighConfidenceCount = 0
	for _, r := range b.Records {
		if r.NeedsReview {
			b.NeedsReviewCount++
		}
		if r.Status == StatusMatched {
			b.HighConfidenceCount++
		}
	}
}

// CommitItemResult is the per-item outcome of one cart add during commit.
type CommitItemResult struct {
	RecordIndex int    `json:"recordIndex"`
	ProductID   string `json:"productId"`
	DisplayName string `json:"displayName"`
	Quantity    int    `json:"quantity"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

// CommitResult reports a commit. Partial success is expected: failed items
// never roll back the ones that were added.
type CommitResult struct {
	Added  int                `json:"added"`
	Failed int                `json:"failed"`
	Items  []CommitItemResult `json:"items"`
}
