package paginate

import (
	"context"
	"errors"
	"fmt"
)

// DefaultMaxPages bounds Collect when the caller passes a non-positive cap.
const DefaultMaxPages = 1000

var ErrLimitExceeded = errors.New("pagination limit exceeded")

// FetchFunc returns one page of items and the continuation token for the
// next page. A nil or empty token ends the walk.
type FetchFunc[T any] func(ctx context.Context, token *string) ([]T, *string, error)

// Collect follows continuation tokens until the service stops returning one
// and returns every item in page order. The first fetch error aborts the walk
// and is returned unchanged; partial results are discarded.
func Collect[T any](ctx context.Context, maxPages int, fetch FetchFunc[T]) ([]T, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	var (
		items []T
		token *string
	)
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch, next, err := fetch(ctx, token)
		if err != nil {
			return nil, err
		}
		items = append(items, batch...)
		if next == nil || *next == "" {
			return items, nil
		}
		if page >= maxPages {
			return nil, fmt.Errorf("%w: more than %d pages returned", ErrLimitExceeded, maxPages)
		}
		token = next
	}
}
