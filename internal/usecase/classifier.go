package usecase

import "github.com/recipecart/backend/internal/domain"

// ClassifyMatch applies the confidence tier policy to one descriptor's
// ranked candidates. It is a pure function: same inputs, same record.
//
// Tiers (thresholds are the shared domain constants, keep the UI in sync):
//
//	no candidates            -> not_found, review required, nothing selected
//	best >= ConfidenceMatched -> matched, auto-selected, no review
//	best >= ConfidencePartial -> partial, pre-selected, review required
//	otherwise                -> uncertain, pre-selected, review required
//
// Weak candidates are still pre-selected rather than left empty so the
// default "add everything" action stays useful; NeedsReview steers the
// user toward correcting them before commit.
func ClassifyMatch(descriptor domain.IngredientDescriptor, candidates []domain.ProductCandidate) domain.MatchRecord {
	record := domain.MatchRecord{
		Ingredient: descriptor,
		Candidates: candidates,
	}

	if len(candidates) == 0 {
		record.Status = domain.StatusNotFound
		record.NeedsReview = true
		return record
	}

	best := candidates[0]
	record.BestConfidence = best.Confidence
	selected := best
	record.Selected = &selected

	switch {
	case best.Confidence >= domain.ConfidenceMatched:
		record.Status = domain.StatusMatched
		record.NeedsReview = false
	case best.Confidence >= domain.ConfidencePartial:
		record.Status = domain.StatusPartial
		record.NeedsReview = true
	default:
		record.Status = domain.StatusUncertain
		record.NeedsReview = true
	}

	return record
}
