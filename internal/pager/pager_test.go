package pager

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nontonhub/nontonhub/internal/catalog"
	"github.com/nontonhub/nontonhub/internal/upstream"
)

// fakePage builds one upstream page of apiSize items carrying their global
// zero-based index in the ID, so slices can be checked positionally.
func fakePage(page, apiSize, total int, hasMore bool) upstream.ListResult {
	start := (page - 1) * apiSize
	var items []catalog.Item
	for i := start; i < start+apiSize && i < total; i++ {
		items = append(items, catalog.Item{ID: fmt.Sprintf("item-%d", i)})
	}
	return upstream.ListResult{Items: items, Page: page, HasMore: hasMore}
}

func catalogFetcher(apiSize, total int, lastHasMore bool) FetchFunc {
	return func(_ context.Context, page int) (upstream.ListResult, error) {
		res := fakePage(page, apiSize, total, true)
		if page*apiSize >= total {
			res.HasMore = lastHasMore
		}
		return res, nil
	}
}

func TestNewDefaultsSizes(t *testing.T) {
	if got := New(0, 0).UISize(); got != DefaultUISize {
		t.Errorf("New(0, 0).UISize() = %d, want %d", got, DefaultUISize)
	}
	if got := New(12, 10).UISize(); got != 12 {
		t.Errorf("New(12, 10).UISize() = %d, want 12", got)
	}
}

func TestWindowFor(t *testing.T) {
	tests := []struct {
		name      string
		uiSize    int
		apiSize   int
		page      int
		wantStart int
		wantEnd   int
		wantFirst int
		wantLast  int
	}{
		{"first page", 24, 20, 1, 0, 24, 1, 2},
		{"second page", 24, 20, 2, 24, 48, 2, 3},
		{"third page", 24, 20, 3, 48, 72, 3, 4},
		{"window ends on api boundary", 24, 20, 5, 96, 120, 5, 6},
		{"tenth page boundary", 24, 20, 10, 216, 240, 11, 12},
		{"equal sizes collapse to identity", 20, 20, 7, 120, 140, 7, 7},
		{"three-page window", 50, 20, 1, 0, 50, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.uiSize, tt.apiSize)
			w := p.WindowFor(tt.page)
			if w.StartItem != tt.wantStart || w.EndItem != tt.wantEnd {
				t.Errorf("item range = [%d,%d), want [%d,%d)", w.StartItem, w.EndItem, tt.wantStart, tt.wantEnd)
			}
			if w.StartPage != tt.wantFirst || w.EndPage != tt.wantLast {
				t.Errorf("api pages = %d..%d, want %d..%d", w.StartPage, w.EndPage, tt.wantFirst, tt.wantLast)
			}
		})
	}
}

func TestWindowBoundaryFetchesNoExtraPage(t *testing.T) {
	// Page 5 of 24 covers items [96,120); item 119 is the last item of api
	// page 6, so page 7 must not be touched.
	p := New(24, 20)
	var fetched []int
	fetch := func(_ context.Context, page int) (upstream.ListResult, error) {
		fetched = append(fetched, page)
		return fakePage(page, 20, 1000, true), nil
	}

	if _, err := p.Fetch(context.Background(), 5, fetch); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	for _, page := range fetched {
		if page < 5 || page > 6 {
			t.Errorf("fetched api page %d, want only 5..6", page)
		}
	}
	if len(fetched) != 2 {
		t.Errorf("fetched %d pages, want 2", len(fetched))
	}
}

func TestFetchSlicesExactWindow(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		wantFirst string
		wantLast  string
	}{
		{"first page starts at item 0", 1, "item-0", "item-23"},
		{"second page offsets into buffer", 2, "item-24", "item-47"},
		{"boundary page", 5, "item-96", "item-119"},
	}

	p := New(24, 20)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.Fetch(context.Background(), tt.page, catalogFetcher(20, 1000, true))
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if len(result.Items) != 24 {
				t.Fatalf("got %d items, want 24", len(result.Items))
			}
			if result.Items[0].ID != tt.wantFirst {
				t.Errorf("first item = %s, want %s", result.Items[0].ID, tt.wantFirst)
			}
			if result.Items[23].ID != tt.wantLast {
				t.Errorf("last item = %s, want %s", result.Items[23].ID, tt.wantLast)
			}
			if !result.Success || result.Page != tt.page {
				t.Errorf("envelope = success %v page %d, want success true page %d", result.Success, result.Page, tt.page)
			}
		})
	}
}

func TestHasMore(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		total       int
		lastHasMore bool
		wantItems   int
		wantMore    bool
	}{
		// Buffer of pages 1-2 (40 items) has surplus beyond the 24 used.
		{"full slice with surplus", 1, 1000, true, 24, true},
		// Page 5 drains its buffer exactly; upstream flag decides.
		{"exact drain defers to upstream true", 5, 120, true, 24, true},
		{"exact drain defers to upstream false", 5, 120, false, 24, false},
		// 30 total items: page 2 gets items 24-29 only.
		{"short slice never has more", 2, 30, true, 6, false},
		{"empty tail page", 3, 30, true, 0, false},
	}

	p := New(24, 20)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.Fetch(context.Background(), tt.page, catalogFetcher(20, tt.total, tt.lastHasMore))
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if len(result.Items) != tt.wantItems {
				t.Errorf("got %d items, want %d", len(result.Items), tt.wantItems)
			}
			if result.HasMore != tt.wantMore {
				t.Errorf("HasMore = %v, want %v", result.HasMore, tt.wantMore)
			}
		})
	}
}

func TestPartialFailureIsolation(t *testing.T) {
	// First api page of the window fails; the second one's items are still
	// served and the degraded window reports no further pages.
	p := New(24, 20)
	fetch := func(ctx context.Context, page int) (upstream.ListResult, error) {
		if page == 1 {
			return upstream.ListResult{}, errors.New("boom")
		}
		return fakePage(page, 20, 1000, true), nil
	}

	result, err := p.Fetch(context.Background(), 1, fetch)
	if err != nil {
		t.Fatalf("Fetch() error = %v, want nil on partial failure", err)
	}
	if len(result.Items) != 20 {
		t.Errorf("got %d items, want the 20 from the surviving page", len(result.Items))
	}
	if result.HasMore {
		t.Error("HasMore = true, want false for a degraded short slice")
	}
	if !result.Success {
		t.Error("Success = false, want true")
	}
}

func TestAllPagesFailed(t *testing.T) {
	p := New(24, 20)
	fetch := func(ctx context.Context, page int) (upstream.ListResult, error) {
		return upstream.ListResult{}, errors.New("down")
	}

	result, err := p.Fetch(context.Background(), 1, fetch)
	if !errors.Is(err, ErrAllPagesFailed) {
		t.Fatalf("Fetch() error = %v, want ErrAllPagesFailed", err)
	}
	if result.Items == nil || len(result.Items) != 0 {
		t.Errorf("items = %v, want empty non-nil slice", result.Items)
	}
	if !result.Success {
		t.Error("Success = false, want true even when degraded")
	}
}

func TestRecombinationOrderIsStructural(t *testing.T) {
	// A 50/20 window spans three api pages. Later pages answer first; the
	// assembled buffer must still be in page order.
	p := New(50, 20)
	fetch := func(ctx context.Context, page int) (upstream.ListResult, error) {
		time.Sleep(time.Duration(4-page) * 20 * time.Millisecond)
		return fakePage(page, 20, 1000, true), nil
	}

	result, err := p.Fetch(context.Background(), 1, fetch)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(result.Items) != 50 {
		t.Fatalf("got %d items, want 50", len(result.Items))
	}
	for i, item := range result.Items {
		want := fmt.Sprintf("item-%d", i)
		if item.ID != want {
			t.Fatalf("item[%d] = %s, want %s", i, item.ID, want)
		}
	}
}
