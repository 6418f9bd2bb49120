package catalog

import "errors"

var (
	// ErrUnavailable covers fetch failures and non-success statuses for
	// the catalog resource. Callers surface it as a blocking error state
	// with a manual retry, never a crash.
	ErrUnavailable = errors.New("catalog unavailable")

	// ErrParse means the catalog body was not valid JSON.
	ErrParse = errors.New("catalog parse failure")

	// ErrNotFound means no product matched the requested id.
	ErrNotFound = errors.New("product not found")

	// ErrInvalidProduct marks a single rejected catalog entry.
	ErrInvalidProduct = errors.New("invalid product entry")
)
