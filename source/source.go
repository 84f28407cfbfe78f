package source

import (
	"context"
	"errors"

	"cart-recovery-service/models"
)

var (
	// ErrSourceUnavailable means the upstream commerce API call failed or
	// returned a non-success status. Listing requests fail on it.
	ErrSourceUnavailable = errors.New("checkout source unavailable")

	// ErrEmptyResult means the upstream response was structurally absent
	// or malformed. A well-formed response with zero checkouts is not an
	// error.
	ErrEmptyResult = errors.New("checkout source returned no result")
)

// CheckoutSource fetches candidate abandoned checkouts from the commerce
// platform. Read-only; implementations must not cache between calls.
type CheckoutSource interface {
	FetchCandidates(ctx context.Context, opts models.ListOptions) ([]models.Checkout, error)
}
