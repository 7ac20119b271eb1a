package upstream

import (
	"context"
	"errors"

	"github.com/nontonhub/nontonhub/internal/catalog"
)

// Detail path prefixes identifying which provider owns a catalog entry.
// Primary (curated) entries carry no prefix.
const (
	TagDramaBox = "db-"
	TagBotraiki = "bt-"
)

// ErrUnavailable wraps any provider call failure: timeout, non-2xx status, or
// a response body that failed to parse. Callers fall back or degrade on it.
var ErrUnavailable = errors.New("upstream provider unavailable")

// ListResult is one normalized upstream page. Items preserve upstream order.
type ListResult struct {
	Items   []catalog.Item
	Page    int
	HasMore bool
}

// Provider is one upstream listing/detail API. Implementations fail fast on
// network errors and never retry; redundancy comes from the cascade above.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// FetchList fetches a single upstream page for the given endpoint. The
	// endpoint string is provider-specific (a path or query suffix).
	FetchList(ctx context.Context, endpoint string, page int) (ListResult, error)

	// FetchDetail fetches a detail record by the provider's native id, with
	// the detail path tag already stripped.
	FetchDetail(ctx context.Context, id string) (*catalog.Detail, error)
}
