package domain

import "errors"

var (
	// ErrNothingToParse is returned when the raw input yields zero
	// extractable ingredients. Distinct from "every line matched nothing"
	// so the UI can say "nothing to parse" instead of "nothing matched".
	ErrNothingToParse = errors.New("no ingredients could be extracted from input")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCatalogUnavailable is returned when the vendor catalog search fails
	ErrCatalogUnavailable = errors.New("catalog search unavailable")

	// ErrCartUnavailable is returned when a vendor cart mutation fails
	ErrCartUnavailable = errors.New("cart service unavailable")

	// ErrSessionNotFound is returned when a resolution session id is unknown or expired
	ErrSessionNotFound = errors.New("resolution session not found")

	// ErrInvalidTransition is returned for a session operation not allowed in its current state
	ErrInvalidTransition = errors.New("invalid session state transition")

	// ErrRecordOutOfRange is returned when a review operation names a record index outside the batch
	ErrRecordOutOfRange = errors.New("record index out of range")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
