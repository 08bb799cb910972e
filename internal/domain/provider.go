package domain

import (
	"context"
	"errors"
)

// ErrMissingCredentials is returned by providers configured without an API key.
var ErrMissingCredentials = errors.New("provider credentials not configured")

// Provider is one upstream place search source.
type Provider interface {
	// Source identifies the records this provider emits.
	Source() Source

	// MinQueryLength is the shortest trimmed query the provider accepts.
	// Shorter queries are never sent upstream.
	MinQueryLength() int

	// Search returns normalized candidates for the query. A non-nil error means
	// the provider contributed nothing; callers treat it as an empty list.
	Search(ctx context.Context, q Query) ([]Place, error)
}
