package usecase

import (
	"reflect"
	"testing"

	"github.com/recipecart/backend/internal/domain"
)

func TestClassifyMatchTiers(t *testing.T) {
	d := descriptor("flour")

	tests := []struct {
		name         string
		best         float64
		wantStatus   domain.MatchStatus
		wantReview   bool
		wantSelected bool
	}{
		{"exactly at matched threshold", 0.70, domain.StatusMatched, false, true},
		{"high confidence", 0.85, domain.StatusMatched, false, true},
		{"top of partial band", 0.69, domain.StatusPartial, true, true},
		{"exactly at partial threshold", 0.40, domain.StatusPartial, true, true},
		{"below partial threshold", 0.39, domain.StatusUncertain, true, true},
		{"very weak", 0.05, domain.StatusUncertain, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := []domain.ProductCandidate{
				{ProductID: "p1", DisplayName: "Wheat Flour", Confidence: tt.best},
				{ProductID: "p2", DisplayName: "Flour Mix", Confidence: tt.best / 2},
			}

			record := ClassifyMatch(d, candidates)

			if record.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", record.Status, tt.wantStatus)
			}
			if record.NeedsReview != tt.wantReview {
				t.Errorf("NeedsReview = %v, want %v", record.NeedsReview, tt.wantReview)
			}
			if record.BestConfidence != tt.best {
				t.Errorf("BestConfidence = %v, want %v", record.BestConfidence, tt.best)
			}
			if tt.wantSelected {
				if record.Selected == nil || record.Selected.ProductID != "p1" {
					t.Errorf("Selected = %+v, want first candidate", record.Selected)
				}
			}
		})
	}
}

func TestClassifyMatchNotFound(t *testing.T) {
	record := ClassifyMatch(descriptor("unobtainium"), nil)

	if record.Status != domain.StatusNotFound {
		t.Errorf("Status = %s, want not_found", record.Status)
	}
	if !record.NeedsReview {
		t.Error("NeedsReview = false, want true")
	}
	if record.Selected != nil {
		t.Errorf("Selected = %+v, want nil", record.Selected)
	}
	if record.BestConfidence != 0 {
		t.Errorf("BestConfidence = %v, want 0", record.BestConfidence)
	}
}

func TestClassifyMatchIsPure(t *testing.T) {
	d := descriptor("milk")
	candidates := []domain.ProductCandidate{
		{ProductID: "p1", DisplayName: "Milk", Confidence: 0.95},
		{ProductID: "p2", DisplayName: "Oat Milk", Confidence: 0.5},
	}

	first := ClassifyMatch(d, candidates)
	second := ClassifyMatch(d, candidates)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("ClassifyMatch not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestClassifyMatchSelectionIsCopy(t *testing.T) {
	candidates := []domain.ProductCandidate{{ProductID: "p1", DisplayName: "Milk", Confidence: 0.95}}
	record := ClassifyMatch(descriptor("milk"), candidates)

	record.Selected.DisplayName = "mutated"
	if candidates[0].DisplayName != "Milk" {
		t.Error("Selected aliases the candidates slice")
	}
}
