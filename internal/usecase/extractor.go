package usecase

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/recipecart/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	parentheticalRegex = regexp.MustCompile(`\([^)]*\)`)
	nonLetterRegex     = regexp.MustCompile(`[^a-z0-9\s]`)
	multiSpaceRegex    = regexp.MustCompile(`\s+`)

	// Leading quantity: mixed fractions ("1 1/2"), plain fractions ("1/2"),
	// decimals with dot or comma ("1.5", "1,5"), integers with an attached
	// unicode glyph ("1½"), or a lone unicode fraction glyph.
	quantityRegex = regexp.MustCompile(`^(\d+\s+\d+\s*/\s*\d+|\d+\s*/\s*\d+|\d+(?:[.,]\d+)?\s*[¼½¾⅐⅑⅒⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞]|\d+(?:[.,]\d+)?|[¼½¾⅐⅑⅒⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞])\s*(.*)$`)

	// Lines that are never ingredients: URLs, step markers, timings.
	skipLineRegexes = []*regexp.Regexp{
		regexp.MustCompile(`^https?://`),
		regexp.MustCompile(`(?i)^step\s*\d`),
		regexp.MustCompile(`(?i)^stap\s+\d`),
		regexp.MustCompile(`(?i)^\d+\s*min\b`),
	}
)

// unicodeFractions maps fraction glyphs to their decimal value.
var unicodeFractions = map[rune]float64{
	'¼': 0.25, '½': 0.5, '¾': 0.75,
	'⅐': 1.0 / 7, '⅑': 1.0 / 9, '⅒': 0.1,
	'⅓': 1.0 / 3, '⅔': 2.0 / 3,
	'⅕': 0.2, '⅖': 0.4, '⅗': 0.6, '⅘': 0.8,
	'⅙': 1.0 / 6, '⅚': 5.0 / 6,
	'⅛': 0.125, '⅜': 0.375, '⅝': 0.625, '⅞': 0.875,
}

// defaultUnits is the built-in unit vocabulary (volume, weight, count).
// Dutch tokens are included because the target retailer is Dutch.
var defaultUnits = []string{
	// Volume
	"cup", "cups", "tbsp", "tbs", "tablespoon", "tablespoons",
	"tsp", "teaspoon", "teaspoons", "ml", "cl", "dl", "l",
	"liter", "liters", "litre", "litres", "fl",
	// Weight
	"g", "gr", "gram", "grams", "kg", "kilo", "kilogram", "kilograms",
	"oz", "ounce", "ounces", "lb", "lbs", "pound", "pounds",
	// Count
	"pinch", "pinches", "dash", "clove", "cloves", "slice", "slices",
	"piece", "pieces", "stick", "sticks", "can", "cans", "bunch",
	"bunches", "sprig", "sprigs", "handful",
	// Dutch
	"el", "eetlepel", "eetlepels", "tl", "theelepel", "theelepels",
	"stuks", "stuk", "st", "snufje", "teen", "tenen", "plak", "plakken",
}

// descriptorNoisePhrases are multi-word or hyphenated modifiers stripped
// before tokenizing the name for normalization.
var descriptorNoisePhrases = []string{
	"all-purpose", "all purpose", "extra-virgin", "extra virgin",
	"self-raising", "self raising", "room temperature", "to taste",
	"to serve", "for serving", "for garnish",
}

// descriptorNoiseWords are single-word modifiers that do not narrow a
// catalog search. Dropping them collapses "finely chopped fresh parsley"
// and "parsley" onto the same search key.
var descriptorNoiseWords = map[string]bool{
	"fresh": true, "freshly": true, "finely": true, "coarsely": true,
	"roughly": true, "thinly": true, "chopped": true, "diced": true,
	"minced": true, "sliced": true, "grated": true, "shredded": true,
	"ground": true, "crushed": true, "peeled": true, "seeded": true,
	"pitted": true, "trimmed": true, "softened": true, "melted": true,
	"beaten": true, "cooked": true, "uncooked": true, "raw": true,
	"large": true, "medium": true, "small": true, "ripe": true,
	"cold": true, "warm": true, "hot": true, "boneless": true,
	"skinless": true, "optional": true, "extra": true, "more": true,
	"plus": true, "about": true, "approx": true, "heaped": true,
	"level": true, "a": true, "an": true, "the": true, "of": true,
	"or": true, "and": true, "some": true, "few": true,
}

// defaultSynonyms collapses near-duplicate vocabulary onto the term the
// catalog actually indexes. Overridable per locale via ExtractorConfig.
var defaultSynonyms = map[string]string{
	"scallion":            "spring onion",
	"green onion":         "spring onion",
	"cilantro":            "coriander",
	"garbanzo bean":       "chickpea",
	"powdered sugar":      "icing sugar",
	"confectioner sugar":  "icing sugar",
	"confectioners sugar": "icing sugar",
	"eggplant":            "aubergine",
	"zucchini":            "courgette",
	"corn starch":         "cornflour",
	"cornstarch":          "cornflour",
}

// ExtractorConfig holds configuration for the ingredient extractor.
// ExtraUnits extend the built-in unit vocabulary; Synonyms override or
// extend the built-in synonym table.
type ExtractorConfig struct {
	ExtraUnits []string
	Synonyms   map[string]string
	Debug      bool
}

// IngredientExtractor turns raw recipe text into structured ingredient
// descriptors. Malformed lines are dropped, never surfaced as errors.
type IngredientExtractor struct {
	units    map[string]bool
	synonyms map[string]string
	debug    bool
}

// NewIngredientExtractor creates an extractor with the given configuration.
func NewIngredientExtractor(cfg ExtractorConfig) *IngredientExtractor {
	units := make(map[string]bool, len(defaultUnits)+len(cfg.ExtraUnits))
	for _, u := range defaultUnits {
		units[u] = true
	}
	for _, u := range cfg.ExtraUnits {
		units[strings.ToLower(strings.TrimSpace(u))] = true
	}

	synonyms := make(map[string]string, len(defaultSynonyms)+len(cfg.Synonyms))
	for k, v := range defaultSynonyms {
		synonyms[k] = v
	}
	for k, v := range cfg.Synonyms {
		synonyms[strings.ToLower(k)] = strings.ToLower(v)
	}

	return &IngredientExtractor{
		units:    units,
		synonyms: synonyms,
		debug:    cfg.Debug,
	}
}

// Extract parses a raw multi-line text blob into descriptors, one per
// recognizable ingredient line, preserving line order. It never fails;
// at worst it returns an empty slice.
func (e *IngredientExtractor) Extract(rawText string) []domain.IngredientDescriptor {
	lines := strings.Split(strings.ReplaceAll(rawText, "\r\n", "\n"), "\n")
	return e.ExtractLines(lines)
}

// ExtractLines parses pre-extracted ingredient lines, e.g. the list an
// upstream HTML scraper pulled out of a recipe page.
func (e *IngredientExtractor) ExtractLines(lines []string) []domain.IngredientDescriptor {
	descriptors := make([]domain.IngredientDescriptor, 0, len(lines))
	for _, line := range lines {
		if d, ok := e.parseLine(line); ok {
			descriptors = append(descriptors, d)
		} else if e.debug && strings.TrimSpace(line) != "" {
			log.Printf("[EXTRACT] Dropped line: %q", strings.TrimSpace(line))
		}
	}
	return descriptors
}

// parseLine parses one line. The bool result is false for noise lines
// (blank, headers, URLs, step markers) and lines with no plausible name.
func (e *IngredientExtractor) parseLine(line string) (domain.IngredientDescriptor, bool) {
	original := strings.TrimSpace(line)
	if original == "" || len(original) > 200 {
		return domain.IngredientDescriptor{}, false
	}

	// Section headers like "For the sauce:" carry no ingredient.
	if strings.HasSuffix(original, ":") {
		return domain.IngredientDescriptor{}, false
	}
	for _, re := range skipLineRegexes {
		if re.MatchString(original) {
			return domain.IngredientDescriptor{}, false
		}
	}

	// Parenthetical asides ("(finely chopped)") are dropped from the name
	// but stay visible in OriginalText.
	work := parentheticalRegex.ReplaceAllString(original, " ")
	work = strings.TrimSpace(multiSpaceRegex.ReplaceAllString(work, " "))

	quantity, rest := parseQuantity(work)

	unit := ""
	if quantity != nil {
		// A unit token is only consumed when a quantity precedes it;
		// "gram crackers" stays a name, "200 gram bloem" does not.
		if tok, remainder, ok := e.splitUnit(rest); ok {
			unit = tok
			rest = remainder
		}
	} else {
		rest = work
	}

	name := strings.Trim(rest, " \t,.;:-–")
	name = strings.TrimSpace(multiSpaceRegex.ReplaceAllString(name, " "))
	if name == "" {
		return domain.IngredientDescriptor{}, false
	}

	normalized := e.normalize(name)
	if normalized == "" {
		return domain.IngredientDescriptor{}, false
	}

	return domain.IngredientDescriptor{
		OriginalText: original,
		Quantity:     quantity,
		Unit:         unit,
		Name:         name,
		Normalized:   normalized,
	}, true
}

// parseQuantity splits a leading numeric quantity off the line. Returns nil
// and the input unchanged when no quantity is present.
func parseQuantity(s string) (*float64, string) {
	m := quantityRegex.FindStringSubmatch(s)
	if m == nil {
		return nil, s
	}
	value, ok := parseQuantityToken(m[1])
	if !ok || value <= 0 {
		return nil, s
	}
	return &value, strings.TrimSpace(m[2])
}

// parseQuantityToken converts a matched quantity token ("1 1/2", "0,5",
// "1½", "¾") to its decimal value.
func parseQuantityToken(tok string) (float64, bool) {
	tok = strings.TrimSpace(tok)

	// Trailing unicode fraction glyph, with or without a leading integer.
	runes := []rune(tok)
	if frac, ok := unicodeFractions[runes[len(runes)-1]]; ok {
		whole := strings.TrimSpace(string(runes[:len(runes)-1]))
		if whole == "" {
			return frac, true
		}
		n, err := strconv.ParseFloat(strings.ReplaceAll(whole, ",", "."), 64)
		if err != nil {
			return 0, false
		}
		return n + frac, true
	}

	if strings.Contains(tok, "/") {
		var whole float64
		fields := strings.Fields(tok)
		fracPart := fields[len(fields)-1]
		if len(fields) == 2 {
			n, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return 0, false
			}
			whole = n
		}
		parts := strings.SplitN(strings.ReplaceAll(fracPart, " ", ""), "/", 2)
		num, err1 := strconv.ParseFloat(parts[0], 64)
		den, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil || den == 0 {
			return 0, false
		}
		return whole + num/den, true
	}

	n, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// splitUnit checks whether the first token of rest is a known unit.
func (e *IngredientExtractor) splitUnit(rest string) (unit, remainder string, ok bool) {
	fields := strings.SplitN(rest, " ", 2)
	if len(fields) == 0 || fields[0] == "" {
		return "", rest, false
	}
	tok := strings.ToLower(strings.TrimRight(fields[0], "."))
	if !e.units[tok] {
		return "", rest, false
	}
	if len(fields) == 2 {
		return tok, strings.TrimSpace(fields[1]), true
	}
	return tok, "", true
}

// normalize builds the search key for a name: lowercase, modifier words
// stripped, tokens singularized, synonym table applied last.
func (e *IngredientExtractor) normalize(name string) string {
	lower := strings.ToLower(name)
	for _, phrase := range descriptorNoisePhrases {
		lower = strings.ReplaceAll(lower, phrase, " ")
	}
	lower = nonLetterRegex.ReplaceAllString(lower, " ")

	fields := strings.Fields(lower)
	if len(fields) == 0 {
		return ""
	}

	kept := make([]string, 0, len(fields))
	for _, w := range fields {
		if descriptorNoiseWords[w] {
			continue
		}
		kept = append(kept, singularize(w))
	}
	if len(kept) == 0 {
		// Every token was a modifier; keep the singularized full name so
		// the descriptor still has a non-empty search key.
		for _, w := range fields {
			kept = append(kept, singularize(w))
		}
	}

	term := strings.Join(kept, " ")
	if mapped, ok := e.synonyms[term]; ok {
		return mapped
	}
	return term
}

// singularize applies a small set of English plural rules. Good enough for
// grocery nouns; anything exotic falls through unchanged.
func singularize(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return strings.TrimSuffix(w, "ies") + "y"
	case len(w) > 4 && strings.HasSuffix(w, "oes"):
		return strings.TrimSuffix(w, "es")
	case len(w) > 4 && (strings.HasSuffix(w, "ches") || strings.HasSuffix(w, "shes") ||
		strings.HasSuffix(w, "sses") || strings.HasSuffix(w, "xes") || strings.HasSuffix(w, "zes")):
		return strings.TrimSuffix(w, "es")
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && !strings.HasSuffix(w, "us"):
		return strings.TrimSuffix(w, "s")
	}
	return w
}
