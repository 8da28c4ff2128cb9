package usecase

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/recipecart/backend/internal/domain"
)

// ResolverConfig holds configuration for the resolution orchestrator.
type ResolverConfig struct {
	Concurrency   int           // bounded fan-out for matching and cart adds, default 5
	MatchTimeout  time.Duration // per catalog call, default 5s
	CommitTimeout time.Duration // per cart add, default 5s
	Debug         bool
}

// ResolveInput is one user submission: either a raw text blob or the
// pre-extracted ingredient lines an upstream scraper pulled from a URL.
type ResolveInput struct {
	Text  string
	Lines []string
	Title string
}

// ResolutionService drives the full pipeline for one submission: extract,
// fan-out matching, classification, the review step's selection changes,
// and the final commit against the cart service.
type ResolutionService struct {
	extractor     *IngredientExtractor
	matcher       *CatalogMatcher
	cart          domain.CartGateway
	sessions      domain.SessionRepository
	concurrency   int
	matchTimeout  time.Duration
	commitTimeout time.Duration
	debug         bool
}

// NewResolutionService creates the orchestrator with its dependencies.
func NewResolutionService(
	extractor *IngredientExtractor,
	matcher *CatalogMatcher,
	cart domain.CartGateway,
	sessions domain.SessionRepository,
	cfg ResolverConfig,
) *ResolutionService {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	matchTimeout := cfg.MatchTimeout
	if matchTimeout == 0 {
		matchTimeout = 5 * time.Second
	}
	commitTimeout := cfg.CommitTimeout
	if commitTimeout == 0 {
		commitTimeout = 5 * time.Second
	}

	return &ResolutionService{
		extractor:     extractor,
		matcher:       matcher,
		cart:          cart,
		sessions:      sessions,
		concurrency:   concurrency,
		matchTimeout:  matchTimeout,
		commitTimeout: commitTimeout,
		debug:         cfg.Debug,
	}
}

// Resolve runs extraction, concurrent matching and classification and
// leaves the session in the review state. A single descriptor's matcher
// failure degrades that one record to not_found and never fails the batch;
// the only error-shaped outcome is input that yields no descriptors.
func (s *ResolutionService) Resolve(ctx context.Context, input ResolveInput) (*domain.ResolutionSession, error) {
	session := &domain.ResolutionSession{
		ID:        uuid.NewString(),
		Title:     input.Title,
		State:     domain.StateInput,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := session.TransitionTo(domain.StateParsing); err != nil {
		return nil, err
	}

	var descriptors []domain.IngredientDescriptor
	if len(input.Lines) > 0 {
		descriptors = s.extractor.ExtractLines(input.Lines)
	} else {
		descriptors = s.extractor.Extract(input.Text)
	}
	if len(descriptors) == 0 {
		return nil, domain.ErrNothingToParse
	}
	if err := session.TransitionTo(domain.StateMatching); err != nil {
		return nil, err
	}

	// Bounded fan-out. Each record is written to its own slot, so the
	// batch comes out in input order no matter which call finishes first.
	records := make([]domain.MatchRecord, len(descriptors))
	p := pool.New().WithMaxGoroutines(s.concurrency)
	for i, descriptor := range descriptors {
		i, descriptor := i, descriptor
		p.Go(func() {
			records[i] = s.matchOne(ctx, descriptor)
		})
	}
	p.Wait()

	// The caller walked away; the partially assembled batch was never
	// published, so just drop it.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := &domain.ResolutionBatch{Records: records}
	batch.Tally()
	session.Batch = batch

	if err := session.TransitionTo(domain.StateReview); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	if s.debug {
		log.Printf("[RESOLVE] session=%s records=%d review=%d high=%d",
			session.ID, len(records), batch.NeedsReviewCount, batch.HighConfidenceCount)
	}
	return session, nil
}

// matchOne runs the matcher for one descriptor with its own timeout and
// classifies the outcome. Catalog failures become empty candidate lists.
func (s *ResolutionService) matchOne(ctx context.Context, descriptor domain.IngredientDescriptor) domain.MatchRecord {
	mctx, cancel := context.WithTimeout(ctx, s.matchTimeout)
	defer cancel()

	candidates, err := s.matcher.Match(mctx, descriptor)
	if err != nil {
		log.Printf("[RESOLVE] Match failed for %q, degrading to not_found: %v", descriptor.Normalized, err)
		candidates = nil
	}
	return ClassifyMatch(descriptor, candidates)
}

// Get returns a session by id.
func (s *ResolutionService) Get(ctx context.Context, id string) (*domain.ResolutionSession, error) {
	return s.sessions.Get(ctx, id)
}

// UpdateSelection changes one record's selection during review.
// candidateIndex picks from the record's ranked candidates; nil excludes
// the record from commit entirely.
func (s *ResolutionService) UpdateSelection(ctx context.Context, id string, recordIndex int, candidateIndex *int) (*domain.ResolutionSession, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State != domain.StateReview {
		return nil, domain.ErrInvalidTransition
	}

	batch := session.Batch
	if recordIndex < 0 || recordIndex >= len(batch.Records) {
		return nil, domain.ErrRecordOutOfRange
	}
	record := &batch.Records[recordIndex]

	if candidateIndex == nil {
		record.Selected = nil
	} else {
		if *candidateIndex < 0 || *candidateIndex >= len(record.Candidates) {
			return nil, domain.ErrRecordOutOfRange
		}
		selected := record.Candidates[*candidateIndex]
		record.Selected = &selected
	}

	session.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Commit issues one cart add per selected record, each attempted
// independently with the same bounded concurrency as matching. Partial
// success is surfaced per item; nothing is rolled back and nothing is
// retried here. Re-committing the same session is allowed and adds the
// quantities again.
func (s *ResolutionService) Commit(ctx context.Context, id string) (*domain.CommitResult, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := session.TransitionTo(domain.StateCommitted); err != nil {
		return nil, err
	}

	type pending struct {
		recordIndex int
		product     domain.ProductCandidate
		quantity    int
	}
	var selected []pending
	for i, record := range session.Batch.Records {
		if record.Selected == nil {
			continue
		}
		selected = append(selected, pending{
			recordIndex: i,
			product:     *record.Selected,
			quantity:    suggestedQuantity(record.Ingredient),
		})
	}

	items := make([]domain.CommitItemResult, len(selected))
	p := pool.New().WithMaxGoroutines(s.concurrency)
	for i, item := range selected {
		i, item := i, item
		p.Go(func() {
			result := domain.CommitItemResult{
				RecordIndex: item.recordIndex,
				ProductID:   item.product.ProductID,
				DisplayName: item.product.DisplayName,
				Quantity:    item.quantity,
			}

			cctx, cancel := context.WithTimeout(ctx, s.commitTimeout)
			defer cancel()
			if err := s.cart.AddItem(cctx, item.product.ProductID, item.quantity); err != nil {
				log.Printf("[COMMIT] Add failed for %q: %v", item.product.ProductID, err)
				result.Error = err.Error()
			} else {
				result.Success = true
			}
			items[i] = result
		})
	}
	p.Wait()

	result := &domain.CommitResult{Items: items}
	for _, item := range items {
		if item.Success {
			result.Added++
		} else {
			result.Failed++
		}
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	if s.debug {
		log.Printf("[COMMIT] session=%s added=%d failed=%d", session.ID, result.Added, result.Failed)
	}
	return result, nil
}

// Cancel discards the batch and ends the session.
func (s *ResolutionService) Cancel(ctx context.Context, id string) (*domain.ResolutionSession, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := session.TransitionTo(domain.StateCancelled); err != nil {
		return nil, err
	}
	session.Batch = nil
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Cart adds count whole products, so a parsed quantity only carries over
// when it plausibly counts pieces. Weight and volume amounts over half a
// kilo or liter suggest buying two.
const maxSuggestedCount = 10

var countUnits = map[string]bool{
	"": true, "stuks": true, "stuk": true, "st": true,
	"piece": true, "pieces": true, "can": true, "cans": true,
}

var bulkUnits = map[string]bool{
	"g": true, "gr": true, "gram": true, "grams": true, "ml": true,
}

func suggestedQuantity(d domain.IngredientDescriptor) int {
	if d.Quantity == nil {
		return 1
	}
	q := *d.Quantity

	if countUnits[d.Unit] && q >= 1 && q == math.Trunc(q) {
		if q > maxSuggestedCount {
			return maxSuggestedCount
		}
		return int(q)
	}
	if bulkUnits[d.Unit] && q > 500 {
		return 2
	}
	return 1
}
