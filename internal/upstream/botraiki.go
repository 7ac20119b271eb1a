package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nontonhub/nontonhub/internal/catalog"
)

// Botraiki is the tertiary provider: a loosely shaped fallback API whose
// endpoints disagree about envelope structure. Entries are tagged bt-.
//
// Its detail endpoint is unreliable, so detail lookups probe it first and
// then scan the listing endpoints for the requested book before giving up.
type Botraiki struct {
	baseURL        string
	client         *http.Client
	listTimeout    time.Duration
	detailTimeout  time.Duration
	episodeTimeout time.Duration
	probeTimeout   time.Duration
	rating         RatingSource
	log            *slog.Logger
}

// NewBotraiki creates the tertiary adapter.
func NewBotraiki(opts Options) *Botraiki {
	b := &Botraiki{
		baseURL:        opts.BaseURL,
		client:         opts.client(),
		listTimeout:    opts.ListTimeout,
		detailTimeout:  opts.DetailTimeout,
		episodeTimeout: opts.EpisodeTimeout,
		probeTimeout:   opts.ProbeTimeout,
		rating:         opts.Rating,
		log:            slog.With("provider", "botraiki"),
	}
	if b.listTimeout == 0 {
		b.listTimeout = 15 * time.Second
	}
	if b.detailTimeout == 0 {
		b.detailTimeout = 10 * time.Second
	}
	if b.episodeTimeout == 0 {
		// Episode resolution walks upstream CDN paths and is very slow.
		b.episodeTimeout = 90 * time.Second
	}
	if b.probeTimeout == 0 {
		b.probeTimeout = 8 * time.Second
	}
	if b.rating == nil {
		b.rating = randomRating(8.8, 0.7)
	}
	return b
}

func (b *Botraiki) Name() string { return "botraiki" }

type botraikiBook struct {
	BookID       flexString `json:"bookId"`
	ID           flexString `json:"id"`
	BookName     string     `json:"bookName"`
	Title        string     `json:"title"`
	CoverWap     string     `json:"coverWap"`
	Cover        string     `json:"cover"`
	BookCover    string     `json:"bookCover"`
	Introduction string     `json:"introduction"`
	Score        flexFloat  `json:"score"`
	ShelfTime    string     `json:"shelfTime"`
	Tags         []string   `json:"tags"`
	TagNames     []string   `json:"tagNames"`
	RankVo       struct {
		HotCode flexString `json:"hotCode"`
	} `json:"rankVo"`
}

type botraikiEpisode struct {
	ChapterIndex *flexFloat `json:"chapterIndex"`
	ChapterName  string     `json:"chapterName"`
	VideoURL     string     `json:"videoUrl"`
	VideoURLAlt  string     `json:"video_url"`
	CDNList      []struct {
		VideoPathList []struct {
			VideoPath string `json:"videoPath"`
			Quality   int    `json:"quality"`
			IsDefault int    `json:"isDefault"`
		} `json:"videoPathList"`
	} `json:"cdnList"`
}

// decodeBookList accepts a bare array or any of the envelope keys the API
// uses interchangeably.
func decodeBookList(raw json.RawMessage) []botraikiBook {
	var books []botraikiBook
	if err := json.Unmarshal(raw, &books); err == nil {
		return books
	}
	var envelope struct {
		Data        []botraikiBook `json:"data"`
		RankList    []botraikiBook `json:"rankList"`
		SuggestList []botraikiBook `json:"suggestList"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil
	}
	if len(envelope.Data) > 0 {
		return envelope.Data
	}
	if len(envelope.RankList) > 0 {
		return envelope.RankList
	}
	return envelope.SuggestList
}

// FetchList fetches one listing page. The endpoint is a path that may already
// carry a query string ("/search?query=x"), so the page parameter is appended
// with whichever separator applies.
func (b *Botraiki) FetchList(ctx context.Context, endpoint string, page int) (ListResult, error) {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	reqURL := fmt.Sprintf("%s%s%spage=%d", b.baseURL, endpoint, sep, page)

	var raw json.RawMessage
	if err := fetchJSON(ctx, b.client, http.MethodGet, reqURL, b.listTimeout, &raw); err != nil {
		b.log.Warn("list fetch failed", "endpoint", endpoint, "page", page, "error", err)
		return ListResult{}, err
	}

	books := decodeBookList(raw)
	items := make([]catalog.Item, 0, len(books))
	for _, book := range books {
		items = append(items, b.normalizeBook(book))
	}

	// This API reports no pagination metadata; a thin page is taken to mean
	// the catalog is exhausted.
	return ListResult{Items: items, Page: page, HasMore: len(books) >= 15}, nil
}

func (b *Botraiki) normalizeBook(book botraikiBook) catalog.Item {
	id := TagBotraiki + string(firstNonEmptyFlex(book.BookID, book.ID))
	return catalog.Item{
		ID:         id,
		Title:      firstNonEmpty(book.BookName, book.Title),
		Poster:     firstNonEmpty(book.CoverWap, book.Cover, book.BookCover),
		Rating:     b.bookRating(book),
		Year:       shelfYear(book.ShelfTime),
		MediaType:  catalog.TypeTV,
		Genre:      joinTags(book.Tags, book.TagNames),
		DetailPath: id,
	}
}

// bookRating prefers a real score, then the popularity signal, then the
// random fallback.
func (b *Botraiki) bookRating(book botraikiBook) float64 {
	if score := float64(book.Score); score > 0 {
		return round1(score)
	}
	if hot := string(book.RankVo.HotCode); hot != "" {
		return round1(hotCodeRating(hot))
	}
	return round1(b.rating())
}

// shelfYear extracts the year from a "YYYY-MM-DD hh:mm:ss" shelf time.
func shelfYear(shelfTime string) string {
	date, _, _ := strings.Cut(shelfTime, " ")
	year, _, _ := strings.Cut(date, "-")
	return year
}

func firstNonEmptyFlex(values ...flexString) flexString {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// FetchDetail resolves a book by id. The flow mirrors how unreliable the
// upstream is: probe the detail endpoint, scan the listing endpoints for the
// book, then fall back to a minimal record; episodes are fetched separately
// with a long timeout.
func (b *Botraiki) FetchDetail(ctx context.Context, bookID string) (*catalog.Detail, error) {
	book := b.probeDetail(ctx, bookID)
	if book == nil {
		book = b.scanListings(ctx, bookID)
	}
	if book == nil {
		book = &botraikiBook{
			BookID:       flexString(bookID),
			BookName:     "Drama #" + bookID,
			Introduction: "Loading content from DramaBox...",
		}
	}

	episodes := b.fetchEpisodes(ctx, bookID)

	id := string(book.BookID)
	if id == "" {
		id = bookID
	}
	tagged := TagBotraiki + id

	seasons := []catalog.Season{}
	if len(episodes) > 0 {
		seasons = append(seasons, catalog.Season{Name: "Season 1", Season: "1", Episodes: episodes})
	}

	return &catalog.Detail{
		Item: catalog.Item{
			ID:         tagged,
			Title:      firstNonEmpty(book.BookName, book.Title, "Unknown Title"),
			Poster:     firstNonEmpty(book.CoverWap, book.Cover, book.BookCover),
			Rating:     b.bookRating(*book),
			Year:       shelfYear(book.ShelfTime),
			MediaType:  catalog.TypeTV,
			Genre:      joinTags(book.Tags),
			DetailPath: tagged,
		},
		Description: book.Introduction,
		Seasons:     seasons,
	}, nil
}

func (b *Botraiki) probeDetail(ctx context.Context, bookID string) *botraikiBook {
	var resp struct {
		Data *botraikiBook `json:"data"`
	}
	reqURL := fmt.Sprintf("%s/detail?bookId=%s", b.baseURL, bookID)
	if err := fetchJSON(ctx, b.client, http.MethodGet, reqURL, b.detailTimeout, &resp); err != nil {
		return nil
	}
	if resp.Data == nil || resp.Data.BookID == "" {
		return nil
	}
	return resp.Data
}

// scanEndpoints are the listing endpoints searched, in order, for a book the
// detail endpoint would not serve.
var scanEndpoints = []string{"/trending", "/latest", "/for-you", "/dubbed?classify=terpopuler", "/random"}

func (b *Botraiki) scanListings(ctx context.Context, bookID string) *botraikiBook {
	for _, endpoint := range scanEndpoints {
		var raw json.RawMessage
		if err := fetchJSON(ctx, b.client, http.MethodGet, b.baseURL+endpoint, b.probeTimeout, &raw); err != nil {
			continue
		}
		for _, book := range decodeBookList(raw) {
			if string(book.BookID) == bookID {
				found := book
				return &found
			}
		}
	}
	return nil
}

func (b *Botraiki) fetchEpisodes(ctx context.Context, bookID string) []catalog.Episode {
	var raw json.RawMessage
	reqURL := fmt.Sprintf("%s/episodes?bookId=%s", b.baseURL, bookID)
	if err := fetchJSON(ctx, b.client, http.MethodGet, reqURL, b.episodeTimeout, &raw); err != nil {
		b.log.Warn("episode fetch failed", "bookId", bookID, "error", err)
		return nil
	}

	var eps []botraikiEpisode
	if err := json.Unmarshal(raw, &eps); err != nil {
		var envelope struct {
			Data []botraikiEpisode `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil
		}
		eps = envelope.Data
	}

	episodes := make([]catalog.Episode, 0, len(eps))
	for i, ep := range eps {
		num := i + 1
		if ep.ChapterIndex != nil {
			num = int(*ep.ChapterIndex) + 1
		}
		title := ep.ChapterName
		if title == "" {
			title = "Episode " + strconv.Itoa(num)
		}
		streamURL := firstNonEmpty(episodeVideoPath(ep), ep.VideoURL, ep.VideoURLAlt)
		episodes = append(episodes, catalog.Episode{
			Episode:   strconv.Itoa(num),
			Title:     title,
			URL:       streamURL,
			PlayerURL: streamURL,
		})
	}
	sortEpisodes(episodes)
	return episodes
}

// episodeVideoPath picks a stream from the CDN path list: the entry flagged
// default, else 720p, else the first one.
func episodeVideoPath(ep botraikiEpisode) string {
	if len(ep.CDNList) == 0 || len(ep.CDNList[0].VideoPathList) == 0 {
		return ""
	}
	paths := ep.CDNList[0].VideoPathList
	for _, p := range paths {
		if p.IsDefault == 1 {
			return p.VideoPath
		}
	}
	for _, p := range paths {
		if p.Quality == 720 {
			return p.VideoPath
		}
	}
	return paths[0].VideoPath
}
