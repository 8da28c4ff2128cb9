package domain

import "time"

// SessionState is one step of the interactive resolution workflow.
type SessionState string

const (
	StateInput     SessionState = "input"
	StateParsing   SessionState = "parsing"
	StateMatching  SessionState = "matching"
	StateReview    SessionState = "review"
	StateCommitted SessionState = "committed"
	StateCancelled SessionState = "cancelled"
)

// allowedTransitions encodes the session state machine:
// input -> parsing -> matching -> review -> committed | cancelled.
// Review is never skipped, even when every record is high-confidence.
// committed -> committed permits a deliberate re-commit; the cart add is
// additive, so re-committing doubles quantities.
var allowedTransitions = map[SessionState][]SessionState{
	StateInput:     {StateParsing},
	StateParsing:   {StateMatching},
	StateMatching:  {StateReview},
	StateReview:    {StateCommitted, StateCancelled},
	StateCommitted: {StateCommitted},
}

// ResolutionSession owns one ResolutionBatch for the duration of one
// interactive resolve/review/commit flow. Sessions are never shared across
// users or submissions.
type ResolutionSession struct {
	ID        string           `json:"id"`
	Title     string           `json:"title,omitempty"`
	State     SessionState     `json:"state"`
	Batch     *ResolutionBatch `json:"batch,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// TransitionTo advances the session state, rejecting transitions the state
// machine does not allow.
func (s *ResolutionSession) TransitionTo(next SessionState) error {
	for _, allowed := range allowedTransitions[s.State] {
		if allowed == next {
			s.State = next
			s.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrInvalidTransition
}

// Terminal reports whether the session reached a final state. A committed
// session stays re-committable; cancelled is fully terminal.
func (s *ResolutionSession) Terminal() bool {
	return s.State == StateCommitted || s.State == StateCancelled
}
