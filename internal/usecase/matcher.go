package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/recipecart/backend/internal/domain"
)

// Package-level compiled regex pattern for performance
var punctuationRegex = regexp.MustCompile(`[^\w\s]`)

// Confidence weighting. Coverage (how much of the search key the product
// name contains) dominates; specificity penalizes length mismatch so an
// exact single-word match against a long bundle name ranks below an exact
// match against a same-length name.
//
// Identical token sets score 1.0, which keeps the >= 0.9 guarantee for
// exact matches. Zero-overlap hits are excluded before scoring.
const (
	tokenOverlapWeight = 0.80
	specificityWeight  = 0.20
)

// productStopWords are tokens in catalog display names that carry no
// matching signal (packaging, sizes, filler words).
var productStopWords = map[string]bool{
	// Filler
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "with": true, "per": true,
	"de": true, "het": true, "een": true, "en": true, "met": true,
	// Size/packaging
	"pack": true, "pak": true, "stuks": true, "gram": true, "gr": true,
	"kg": true, "ml": true, "liter": true, "g": true, "l": true,
	"ca": true, "zak": true, "fles": true, "pot": true, "blik": true,
}

// MatcherConfig holds configuration for the catalog matcher.
type MatcherConfig struct {
	MaxCandidates int           // candidates kept per descriptor, default 5
	CacheTTL      time.Duration // default 1 hour
	Debug         bool
}

// CatalogMatcher queries the external catalog for a descriptor's search key
// and turns raw hits into a ranked, bounded candidate list.
type CatalogMatcher struct {
	catalog       domain.CatalogGateway
	cache         domain.CacheRepository
	maxCandidates int
	cacheTTL      time.Duration
	debug         bool
}

// NewCatalogMatcher creates a matcher. cache may be nil to disable caching.
func NewCatalogMatcher(catalog domain.CatalogGateway, cache domain.CacheRepository, cfg MatcherConfig) *CatalogMatcher {
	maxCandidates := cfg.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = 5
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	return &CatalogMatcher{
		catalog:       catalog,
		cache:         cache,
		maxCandidates: maxCandidates,
		cacheTTL:      cacheTTL,
		debug:         cfg.Debug,
	}
}

// Match returns the ranked candidates for one descriptor, at most
// MaxCandidates, sorted by confidence descending with ties broken by
// shorter display name. A gateway failure is returned as-is; the
// orchestrator decides how to degrade.
func (m *CatalogMatcher) Match(ctx context.Context, descriptor domain.IngredientDescriptor) ([]domain.ProductCandidate, error) {
	if descriptor.Normalized == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := "search:" + descriptor.Normalized
	if cached, ok := m.getCached(ctx, cacheKey); ok {
		return cached, nil
	}

	hits, err := m.catalog.SearchProducts(ctx, descriptor.Normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	candidates := m.rank(descriptor.Normalized, hits)

	if m.cache != nil {
		if err := m.cache.Set(ctx, cacheKey, candidates, m.cacheTTL); err != nil && m.debug {
			log.Printf("[MATCH] Cache write failed for %q: %v", cacheKey, err)
		}
	}

	return candidates, nil
}

// rank scores raw hits against the search key, drops zero-overlap hits,
// sorts and truncates.
func (m *CatalogMatcher) rank(term string, hits []domain.CatalogProduct) []domain.ProductCandidate {
	termTokens := tokenizeProductName(term)
	if len(termTokens) == 0 {
		return nil
	}

	candidates := make([]domain.ProductCandidate, 0, len(hits))
	for _, hit := range hits {
		confidence := scoreHit(termTokens, hit.Name)
		if confidence <= 0 {
			// Whatever the vendor search returned, a hit sharing no
			// tokens with the search key is never a candidate.
			continue
		}
		candidates = append(candidates, domain.ProductCandidate{
			ProductID:    hit.ID,
			DisplayName:  hit.Name,
			UnitQuantity: hit.UnitQuantity,
			Price:        hit.Price,
			ImageURL:     hit.ImageURL,
			Confidence:   confidence,
		})

		if m.debug {
			log.Printf("[MATCH] %q vs %q -> %.3f", term, hit.Name, confidence)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		// Equal confidence: prefer the simpler base product over
		// bundles and variants.
		return len(candidates[i].DisplayName) < len(candidates[j].DisplayName)
	})

	if len(candidates) > m.maxCandidates {
		candidates = candidates[:m.maxCandidates]
	}
	return candidates
}

// scoreHit computes confidence in [0,1] for one hit.
//
//	coverage    = matched search-key tokens / search-key tokens
//	specificity = min(token counts) / max(token counts)
//	confidence  = coverage * (0.80 + 0.20*specificity)
//
// Confidence is strictly increasing in coverage, so more token overlap
// always ranks higher, and zero overlap yields 0.
func scoreHit(termTokens []string, productName string) float64 {
	nameTokens := tokenizeProductName(productName)
	if len(nameTokens) == 0 {
		return 0
	}

	matched := countIntersection(termTokens, nameTokens)
	if matched == 0 {
		return 0
	}

	coverage := float64(matched) / float64(len(termTokens))

	shorter, longer := len(termTokens), len(nameTokens)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	specificity := float64(shorter) / float64(longer)

	confidence := coverage * (tokenOverlapWeight + specificityWeight*specificity)
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

// tokenizeProductName splits a string into normalized lowercase tokens,
// dropping punctuation, stop words, single characters and pure numbers.
func tokenizeProductName(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")
	words := strings.Fields(cleaned)

	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) <= 1 {
			continue
		}
		if productStopWords[word] {
			continue
		}
		// Size tokens like "100g", "1.5l" or bare numbers carry no signal.
		if word[0] >= '0' && word[0] <= '9' {
			continue
		}
		tokens = append(tokens, singularize(word))
	}
	return tokens
}

// countIntersection returns how many distinct tokens of a appear in b.
func countIntersection(a, b []string) int {
	set := make(map[string]bool, len(b))
	for _, t := range b {
		set[t] = true
	}

	seen := make(map[string]bool, len(a))
	count := 0
	for _, t := range a {
		if set[t] && !seen[t] {
			count++
			seen[t] = true
		}
	}
	return count
}

// getCached retrieves a previously scored candidate list. The cache
// round-trips values through JSON, so a hit comes back as generic JSON
// values and is decoded into candidates again.
func (m *CatalogMatcher) getCached(ctx context.Context, key string) ([]domain.ProductCandidate, bool) {
	if m.cache == nil {
		return nil, false
	}

	value, err := m.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, false
	}
	var candidates []domain.ProductCandidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return nil, false
	}
	return candidates, true
}
