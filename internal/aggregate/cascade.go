// Package aggregate orchestrates the provider cascade: which upstream serves
// a category, in what order the fallbacks run, and how list responses degrade
// when everything is down.
package aggregate

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/nontonhub/nontonhub/internal/catalog"
	"github.com/nontonhub/nontonhub/internal/metrics"
	"github.com/nontonhub/nontonhub/internal/pager"
	"github.com/nontonhub/nontonhub/internal/upstream"
)

// Aggregator runs list, search and detail requests across the three upstream
// providers. Each request builds an ordered attempt list and walks it until
// one provider succeeds; a later provider is never contacted once an earlier
// one has answered.
type Aggregator struct {
	primary   upstream.Provider
	secondary upstream.Provider
	tertiary  upstream.Provider
	pager     *pager.Pager
	denylist  []string
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// New creates an aggregator. The metrics handle may be nil.
func New(primary, secondary, tertiary upstream.Provider, pg *pager.Pager, denylist []string, m *metrics.Metrics) *Aggregator {
	return &Aggregator{
		primary:   primary,
		secondary: secondary,
		tertiary:  tertiary,
		pager:     pg,
		denylist:  denylist,
		metrics:   m,
		log:       slog.With("component", "aggregate"),
	}
}

// attempt is one step of the cascade. Keeping the cascade as a list makes its
// order data, not control flow.
type attempt struct {
	provider string
	run      func(ctx context.Context) (catalog.Page, error)
}

// Category serves one UI page of a category, cascading across providers. It
// always returns a renderable page; exhausting every provider yields an
// empty successful page rather than an error.
func (a *Aggregator) Category(ctx context.Context, category string, page int) catalog.Page {
	if page < 1 {
		page = 1
	}
	return a.cascade(ctx, "category "+category, page, a.categoryAttempts(category, page))
}

// Search serves one page of search results: primary first, then the tertiary
// provider's own search. The secondary API has no search endpoint.
func (a *Aggregator) Search(ctx context.Context, query string, page int) catalog.Page {
	if page < 1 {
		page = 1
	}
	attempts := []attempt{
		{a.primary.Name(), a.directList(a.primary, "?action=search&q="+url.QueryEscape(query), page)},
		{a.tertiary.Name(), a.directList(a.tertiary, "/search?query="+url.QueryEscape(query), page)},
	}
	return a.cascade(ctx, "search", page, attempts)
}

// Detail routes a detail lookup straight to the provider named by the detail
// path's tag prefix. No cascade applies: the tag already identifies the only
// provider that can serve the record.
func (a *Aggregator) Detail(ctx context.Context, path string) (*catalog.Detail, error) {
	var (
		provider upstream.Provider
		id       string
	)
	switch {
	case strings.HasPrefix(path, upstream.TagDramaBox):
		provider, id = a.secondary, strings.TrimPrefix(path, upstream.TagDramaBox)
	case strings.HasPrefix(path, upstream.TagBotraiki):
		provider, id = a.tertiary, strings.TrimPrefix(path, upstream.TagBotraiki)
	default:
		provider, id = a.primary, path
	}

	detail, err := provider.FetchDetail(ctx, id)
	a.metrics.ObserveUpstream(provider.Name(), err)
	if err != nil {
		a.log.Warn("detail fetch failed", "provider", provider.Name(), "path", path, "error", err)
		return nil, err
	}
	return detail, nil
}

func (a *Aggregator) cascade(ctx context.Context, label string, page int, attempts []attempt) catalog.Page {
	for i, att := range attempts {
		result, err := att.run(ctx)
		a.metrics.ObserveUpstream(att.provider, err)
		if err == nil {
			return result
		}
		a.log.Warn("provider attempt failed", "request", label, "provider", att.provider, "error", err)
		if i < len(attempts)-1 {
			a.metrics.ObserveFallback(att.provider)
		}
	}
	a.log.Error("all providers exhausted", "request", label)
	return catalog.EmptyPage(page)
}

func (a *Aggregator) categoryAttempts(category string, page int) []attempt {
	// The drama-box category family lives natively on the secondary provider
	// and is re-paged there; the tertiary feed is its only fallback.
	if strings.HasPrefix(category, "drama-box") {
		endpoint := dramaBoxEndpoint(category)
		return []attempt{
			{a.secondary.Name(), a.pagedList(a.secondary, endpoint, page, nil)},
			{a.tertiary.Name(), a.directList(a.tertiary, tertiaryFallbackEndpoint, page)},
		}
	}

	var denylist []string
	if denylistApplies(category) {
		denylist = a.denylist
	}

	attempts := []attempt{
		{a.primary.Name(), a.pagedList(a.primary, primaryEndpoint(category), page, denylist)},
	}
	if endpoint, ok := dramaBoxFallback(category); ok {
		attempts = append(attempts, attempt{a.secondary.Name(), a.directList(a.secondary, endpoint, page)})
	}
	attempts = append(attempts, attempt{a.tertiary.Name(), a.directList(a.tertiary, tertiaryFallbackEndpoint, page)})
	return attempts
}

// pagedList runs the virtual pager over one provider endpoint. The denylist,
// when set, filters each upstream page before re-paging so the slice math
// sees the filtered stream.
func (a *Aggregator) pagedList(p upstream.Provider, endpoint string, page int, denylist []string) func(ctx context.Context) (catalog.Page, error) {
	return func(ctx context.Context) (catalog.Page, error) {
		return a.pager.Fetch(ctx, page, func(ctx context.Context, apiPage int) (upstream.ListResult, error) {
			res, err := p.FetchList(ctx, endpoint, apiPage)
			if err != nil {
				return upstream.ListResult{}, err
			}
			res.Items = filterDenied(res.Items, denylist)
			return res, nil
		})
	}
}

// directList runs a provider page at its native page size. Fallback providers
// are served directly rather than re-paged; their windows are best-effort
// replacements, not continuations of the failed provider's numbering.
func (a *Aggregator) directList(p upstream.Provider, endpoint string, page int) func(ctx context.Context) (catalog.Page, error) {
	return func(ctx context.Context) (catalog.Page, error) {
		res, err := p.FetchList(ctx, endpoint, page)
		if err != nil {
			return catalog.Page{}, err
		}
		items := res.Items
		if items == nil {
			items = []catalog.Item{}
		}
		return catalog.Page{Success: true, Items: items, Page: page, HasMore: res.HasMore}, nil
	}
}
