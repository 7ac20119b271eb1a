package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func stubRating(v float64) RatingSource {
	return func() float64 { return v }
}

func TestCuratedFetchList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "trending" {
			t.Errorf("action = %q, want trending", r.URL.Query().Get("action"))
		}
		if r.URL.Query().Get("page") != "2" {
			t.Errorf("page = %q, want 2", r.URL.Query().Get("page"))
		}
		w.Write([]byte(`{
			"success": true,
			"items": [
				{"id": "m1", "title": "Laskar Pelangi", "poster": "p1.jpg", "rating": "7.5", "year": "2008", "type": "movie", "genre": "Drama", "detailPath": "/film/laskar"},
				{"id": 42, "title": "Sinetron Hits", "rating": 8.1, "type": "tv", "detailPath": "/tv/hits"},
				{"id": "m3", "title": "No Score", "detailPath": "/film/noscore"}
			],
			"page": 2,
			"hasMore": true
		}`))
	}))
	defer srv.Close()

	c := NewCurated(Options{BaseURL: srv.URL, Rating: stubRating(9.1)})
	res, err := c.FetchList(context.Background(), "?action=trending", 2)
	if err != nil {
		t.Fatalf("FetchList() error = %v", err)
	}

	if len(res.Items) != 3 || res.Page != 2 || !res.HasMore {
		t.Fatalf("result = %+v", res)
	}
	if res.Items[0].Rating != 7.5 {
		t.Errorf("string rating parsed to %v, want 7.5", res.Items[0].Rating)
	}
	if res.Items[1].ID != "42" || res.Items[1].Rating != 8.1 {
		t.Errorf("numeric id/rating item = %+v", res.Items[1])
	}
	if res.Items[2].Rating != 9.1 {
		t.Errorf("missing rating synthesized to %v, want stubbed 9.1", res.Items[2].Rating)
	}
	if res.Items[2].MediaType != "movie" {
		t.Errorf("missing type defaulted to %q, want movie", res.Items[2].MediaType)
	}
}

func TestCuratedNormalizationIsIdempotent(t *testing.T) {
	body := `{"success": true, "items": [{"id": "m1", "title": "X", "rating": "6.6", "detailPath": "/x"}], "hasMore": false}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewCurated(Options{BaseURL: srv.URL, Rating: stubRating(9.0)})
	first, err := c.FetchList(context.Background(), "?action=trending", 1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.FetchList(context.Background(), "?action=trending", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("normalization not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestCuratedFetchListErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"upstream 500", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewCurated(Options{BaseURL: srv.URL})
			if _, err := c.FetchList(context.Background(), "?action=trending", 1); err == nil {
				t.Error("FetchList() error = nil, want failure to propagate")
			}
		})
	}
}

func TestCuratedFetchDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "detail" {
			t.Errorf("action = %q, want detail", r.URL.Query().Get("action"))
		}
		if r.URL.Query().Get("detailPath") != "/film/laskar" {
			t.Errorf("detailPath = %q", r.URL.Query().Get("detailPath"))
		}
		// Nested under data, no rating, unsorted episodes with mixed URL fields.
		w.Write([]byte(`{"data": {
			"id": "m1",
			"title": "Laskar Pelangi",
			"type": "tv",
			"description": "desc",
			"seasons": [{
				"name": "Season 1",
				"season": "1",
				"episodes": [
					{"episode": "2", "title": "Dua", "url": "http://cdn/2.mp4"},
					{"episode": "10", "title": "Sepuluh", "playerUrl": "http://cdn/10.mp4", "url": "ignored"},
					{"episode": "1", "title": "Satu", "playerUrl": "http://cdn/1.mp4"}
				]
			}]
		}}`))
	}))
	defer srv.Close()

	c := NewCurated(Options{BaseURL: srv.URL})
	detail, err := c.FetchDetail(context.Background(), "/film/laskar")
	if err != nil {
		t.Fatalf("FetchDetail() error = %v", err)
	}

	if detail.Rating != 8.9 {
		t.Errorf("missing detail rating = %v, want the 8.9 default", detail.Rating)
	}
	if detail.DetailPath != "/film/laskar" {
		t.Errorf("DetailPath = %q, want request path preserved", detail.DetailPath)
	}
	eps := detail.Seasons[0].Episodes
	if len(eps) != 3 {
		t.Fatalf("got %d episodes, want 3", len(eps))
	}
	gotOrder := []string{eps[0].Episode, eps[1].Episode, eps[2].Episode}
	wantOrder := []string{"1", "2", "10"}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Errorf("episode order = %v, want numeric ascending %v", gotOrder, wantOrder)
	}
	if eps[1].PlayerURL != "http://cdn/2.mp4" || eps[1].URL != "http://cdn/2.mp4" {
		t.Errorf("url-only episode not normalized: %+v", eps[1])
	}
	if eps[2].PlayerURL != "http://cdn/10.mp4" {
		t.Errorf("playerUrl not preferred: %+v", eps[2])
	}
}
