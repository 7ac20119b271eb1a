package upstream

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/nontonhub/nontonhub/internal/catalog"
)

// Curated is the primary provider: an action-style API whose list endpoints
// look like ?action=<category>&page=<n>. Its entries carry no detail path
// prefix, so an untagged detail lookup always routes here.
type Curated struct {
	baseURL       string
	client        *http.Client
	listTimeout   time.Duration
	detailTimeout time.Duration
	rating        RatingSource
	log           *slog.Logger
}

// NewCurated creates the primary adapter.
func NewCurated(opts Options) *Curated {
	c := &Curated{
		baseURL:       opts.BaseURL,
		client:        opts.client(),
		listTimeout:   opts.ListTimeout,
		detailTimeout: opts.DetailTimeout,
		rating:        opts.Rating,
		log:           slog.With("provider", "curated"),
	}
	if c.listTimeout == 0 {
		c.listTimeout = 10 * time.Second
	}
	if c.detailTimeout == 0 {
		c.detailTimeout = 12 * time.Second
	}
	if c.rating == nil {
		c.rating = randomRating(8.8, 0.7)
	}
	return c
}

func (c *Curated) Name() string { return "curated" }

type curatedListResponse struct {
	Success bool          `json:"success"`
	Items   []curatedItem `json:"items"`
	Page    int           `json:"page"`
	HasMore bool          `json:"hasMore"`
}

type curatedItem struct {
	ID         flexString `json:"id"`
	Title      string     `json:"title"`
	Poster     string     `json:"poster"`
	Rating     flexFloat  `json:"rating"`
	Year       flexString `json:"year"`
	Type       string     `json:"type"`
	Genre      string     `json:"genre"`
	DetailPath string     `json:"detailPath"`
}

type curatedDetailEnvelope struct {
	Data *curatedDetail `json:"data"`
	curatedDetail
}

type curatedDetail struct {
	ID          flexString      `json:"id"`
	Title       string          `json:"title"`
	Poster      string          `json:"poster"`
	Rating      flexFloat       `json:"rating"`
	Year        flexString      `json:"year"`
	Type        string          `json:"type"`
	Genre       string          `json:"genre"`
	DetailPath  string          `json:"detailPath"`
	Description string          `json:"description"`
	PlayerURL   string          `json:"playerUrl"`
	Seasons     []curatedSeason `json:"seasons"`
}

type curatedSeason struct {
	Name     string           `json:"name"`
	Season   flexString       `json:"season"`
	Episodes []curatedEpisode `json:"episodes"`
}

type curatedEpisode struct {
	Episode   flexString `json:"episode"`
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	PlayerURL string     `json:"playerUrl"`
}

// FetchList fetches one upstream page. The endpoint is a query suffix such as
// "?action=trending" or "?action=search&q=horror".
func (c *Curated) FetchList(ctx context.Context, endpoint string, page int) (ListResult, error) {
	reqURL := fmt.Sprintf("%s%s&page=%d", c.baseURL, endpoint, page)

	var resp curatedListResponse
	if err := fetchJSON(ctx, c.client, http.MethodGet, reqURL, c.listTimeout, &resp); err != nil {
		c.log.Warn("list fetch failed", "endpoint", endpoint, "page", page, "error", err)
		return ListResult{}, err
	}

	items := make([]catalog.Item, 0, len(resp.Items))
	for _, raw := range resp.Items {
		items = append(items, c.normalizeItem(raw))
	}

	respPage := resp.Page
	if respPage == 0 {
		respPage = page
	}
	return ListResult{Items: items, Page: respPage, HasMore: resp.HasMore}, nil
}

func (c *Curated) normalizeItem(raw curatedItem) catalog.Item {
	rating := float64(raw.Rating)
	if rating <= 0 {
		rating = round1(c.rating())
	}
	mediaType := raw.Type
	if mediaType != catalog.TypeMovie && mediaType != catalog.TypeTV {
		mediaType = catalog.TypeMovie
	}
	return catalog.Item{
		ID:         string(raw.ID),
		Title:      raw.Title,
		Poster:     raw.Poster,
		Rating:     rating,
		Year:       string(raw.Year),
		MediaType:  mediaType,
		Genre:      raw.Genre,
		DetailPath: raw.DetailPath,
	}
}

// FetchDetail fetches a detail record by its untagged detail path. Responses
// sometimes nest the record under "data"; both shapes are accepted.
func (c *Curated) FetchDetail(ctx context.Context, path string) (*catalog.Detail, error) {
	reqURL := fmt.Sprintf("%s?action=detail&detailPath=%s", c.baseURL, url.QueryEscape(path))

	var envelope curatedDetailEnvelope
	if err := fetchJSON(ctx, c.client, http.MethodGet, reqURL, c.detailTimeout, &envelope); err != nil {
		c.log.Warn("detail fetch failed", "path", path, "error", err)
		return nil, err
	}

	raw := envelope.curatedDetail
	if envelope.Data != nil {
		raw = *envelope.Data
	}

	rating := float64(raw.Rating)
	if rating <= 0 {
		rating = 8.9
	}
	mediaType := raw.Type
	if mediaType != catalog.TypeMovie && mediaType != catalog.TypeTV {
		mediaType = catalog.TypeMovie
	}
	detailPath := raw.DetailPath
	if detailPath == "" {
		detailPath = path
	}

	detail := &catalog.Detail{
		Item: catalog.Item{
			ID:         string(raw.ID),
			Title:      raw.Title,
			Poster:     raw.Poster,
			Rating:     rating,
			Year:       string(raw.Year),
			MediaType:  mediaType,
			Genre:      raw.Genre,
			DetailPath: detailPath,
		},
		Description: raw.Description,
		PlayerURL:   raw.PlayerURL,
		Seasons:     make([]catalog.Season, 0, len(raw.Seasons)),
	}

	for _, rawSeason := range raw.Seasons {
		season := catalog.Season{
			Name:     rawSeason.Name,
			Season:   string(rawSeason.Season),
			Episodes: make([]catalog.Episode, 0, len(rawSeason.Episodes)),
		}
		for _, rawEp := range rawSeason.Episodes {
			streamURL := firstNonEmpty(rawEp.PlayerURL, rawEp.URL)
			season.Episodes = append(season.Episodes, catalog.Episode{
				Episode:   string(rawEp.Episode),
				Title:     rawEp.Title,
				URL:       streamURL,
				PlayerURL: streamURL,
			})
		}
		sortEpisodes(season.Episodes)
		detail.Seasons = append(detail.Seasons, season)
	}

	return detail, nil
}

// sortEpisodes orders episodes ascending by numeric index. Upstream ordering
// is not guaranteed; non-numeric labels sort to the front unchanged.
func sortEpisodes(episodes []catalog.Episode) {
	sort.SliceStable(episodes, func(i, j int) bool {
		a, _ := strconv.Atoi(episodes[i].Episode)
		b, _ := strconv.Atoi(episodes[j].Episode)
		return a < b
	})
}
