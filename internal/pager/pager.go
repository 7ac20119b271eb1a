// Package pager translates the frontend's fixed page size onto upstream APIs
// that paginate at a different fixed size, by fetching and stitching the
// upstream pages that cover the requested window.
package pager

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/nontonhub/nontonhub/internal/catalog"
	"github.com/nontonhub/nontonhub/internal/upstream"
)

// Default window sizes: the frontend renders 24 cards per page, upstream
// providers return 20 items per page.
const (
	DefaultUISize  = 24
	DefaultAPISize = 20
)

// ErrAllPagesFailed reports that every upstream page fetch in a window
// failed. The returned page is still usable (empty, successful); the caller
// decides whether to fall back to another provider.
var ErrAllPagesFailed = errors.New("all upstream pages in window failed")

// FetchFunc fetches one 1-indexed upstream page.
type FetchFunc func(ctx context.Context, page int) (upstream.ListResult, error)

// Pager re-pages an upstream source for the UI. Zero sizes fall back to the
// 24/20 defaults; both are configurable so the window math can be exercised
// at other ratios.
type Pager struct {
	uiSize  int
	apiSize int
	log     *slog.Logger
}

// New creates a pager with the given UI and upstream page sizes.
func New(uiSize, apiSize int) *Pager {
	if uiSize <= 0 {
		uiSize = DefaultUISize
	}
	if apiSize <= 0 {
		apiSize = DefaultAPISize
	}
	return &Pager{
		uiSize:  uiSize,
		apiSize: apiSize,
		log:     slog.With("component", "pager"),
	}
}

// UISize returns the page size served to the frontend.
func (p *Pager) UISize() int { return p.uiSize }

// Window is the upstream coverage of one UI page: the half-open global item
// range [StartItem, EndItem) and the closed range of 1-indexed upstream pages
// containing it.
type Window struct {
	StartItem int
	EndItem   int
	StartPage int
	EndPage   int
}

// WindowFor computes the upstream window covering UI page n. A window ending
// exactly on an upstream page boundary includes no extra page.
func (p *Pager) WindowFor(page int) Window {
	startItem := (page - 1) * p.uiSize
	endItem := page * p.uiSize
	return Window{
		StartItem: startItem,
		EndItem:   endItem,
		StartPage: startItem/p.apiSize + 1,
		EndPage:   (endItem-1)/p.apiSize + 1,
	}
}

// Fetch assembles UI page n from upstream. The upstream pages in the window
// are fetched concurrently and recombined in page order regardless of
// completion order; a single failing page contributes nothing instead of
// aborting the window. Only when every page fails does Fetch report
// ErrAllPagesFailed, alongside an empty page the caller may still serve.
func (p *Pager) Fetch(ctx context.Context, page int, fetch FetchFunc) (catalog.Page, error) {
	if page < 1 {
		page = 1
	}
	w := p.WindowFor(page)
	count := w.EndPage - w.StartPage + 1

	results := make([]upstream.ListResult, count)
	failed := make([]bool, count)

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := fetch(ctx, w.StartPage+i)
			if err != nil {
				failed[i] = true
				return
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	failures := 0
	var buffer []catalog.Item
	for i, res := range results {
		if failed[i] {
			failures++
			continue
		}
		buffer = append(buffer, res.Items...)
	}

	// The buffer starts at global item (StartPage-1)*apiSize.
	relativeStart := w.StartItem - (w.StartPage-1)*p.apiSize
	relativeEnd := relativeStart + p.uiSize

	start := min(relativeStart, len(buffer))
	end := min(relativeEnd, len(buffer))
	items := append([]catalog.Item{}, buffer[start:end]...)

	// A full slice with surplus in the buffer means the next UI page exists.
	// A full slice that exactly drained the buffer defers to the last
	// upstream page's own flag. A short slice is the end of the catalog.
	hasMore := false
	if len(items) == p.uiSize {
		if len(buffer) > relativeEnd {
			hasMore = true
		} else {
			hasMore = results[count-1].HasMore
		}
	}

	p.log.Debug("virtual page assembled",
		"ui_page", page,
		"start_item", w.StartItem,
		"end_item", w.EndItem,
		"api_pages", count,
		"got", len(items),
		"has_more", hasMore,
		"failed_pages", failures,
	)

	out := catalog.Page{Success: true, Items: items, Page: page, HasMore: hasMore}
	if failures == count {
		return catalog.EmptyPage(page), ErrAllPagesFailed
	}
	return out, nil
}
