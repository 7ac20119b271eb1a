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

// DramaBox is the secondary provider: a REST-style drama listing API. Its
// catalog is episodic short drama, so every entry is typed tv and tagged db-.
type DramaBox struct {
	baseURL       string
	client        *http.Client
	listTimeout   time.Duration
	detailTimeout time.Duration
	rating        RatingSource
	log           *slog.Logger
}

// NewDramaBox creates the secondary adapter.
func NewDramaBox(opts Options) *DramaBox {
	d := &DramaBox{
		baseURL:       opts.BaseURL,
		client:        opts.client(),
		listTimeout:   opts.ListTimeout,
		detailTimeout: opts.DetailTimeout,
		rating:        opts.Rating,
		log:           slog.With("provider", "dramabox"),
	}
	if d.listTimeout == 0 {
		d.listTimeout = 15 * time.Second
	}
	if d.detailTimeout == 0 {
		d.detailTimeout = 15 * time.Second
	}
	if d.rating == nil {
		d.rating = randomRating(9.0, 0.8)
	}
	return d
}

func (d *DramaBox) Name() string { return "dramabox" }

type dramaBoxListResponse struct {
	Data []dramaBoxItem `json:"data"`
	Meta struct {
		Pagination struct {
			Page    int  `json:"page"`
			HasMore bool `json:"has_more"`
		} `json:"pagination"`
	} `json:"meta"`
}

type dramaBoxItem struct {
	ID         flexString `json:"id"`
	Title      string     `json:"title"`
	CoverImage string     `json:"cover_image"`
	Tags       []string   `json:"tags"`
}

type dramaBoxDetailResponse struct {
	Data dramaBoxDrama `json:"data"`
}

type dramaBoxDrama struct {
	ID           flexString `json:"id"`
	Title        string     `json:"title"`
	CoverImage   string     `json:"cover_image"`
	Introduction string     `json:"introduction"`
	Tags         []string   `json:"tags"`
	Genre        string     `json:"genre"`
	Score        flexFloat  `json:"score"`
	Rating       flexFloat  `json:"rating"`
	Year         flexString `json:"year"`
}

type dramaBoxChapter struct {
	Title        string         `json:"title"`
	ChapterIndex flexString     `json:"chapter_index"`
	StreamURL    dramaBoxStream `json:"stream_url"`
	URL          string         `json:"url"`
	VideoURL     string         `json:"video_url"`
	PlayerURL    string         `json:"playerUrl"`
	Cover        string         `json:"cover"`
}

// dramaBoxStream absorbs stream_url arriving either as a plain string or as a
// list of {url} objects, keeping the first entry.
type dramaBoxStream string

func (s *dramaBoxStream) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = dramaBoxStream(strings.TrimSpace(str))
		return nil
	}
	var list []struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(b, &list); err == nil && len(list) > 0 {
		*s = dramaBoxStream(list[0].URL)
		return nil
	}
	*s = ""
	return nil
}

// dramaBoxChapterList tolerates the chapter payload arriving either as an
// envelope with data/extras lists or as a bare array.
type dramaBoxChapterList []dramaBoxChapter

func (l *dramaBoxChapterList) UnmarshalJSON(b []byte) error {
	var bare []dramaBoxChapter
	if err := json.Unmarshal(b, &bare); err == nil {
		*l = bare
		return nil
	}
	var envelope struct {
		Data   []dramaBoxChapter `json:"data"`
		Extras []dramaBoxChapter `json:"extras"`
	}
	if err := json.Unmarshal(b, &envelope); err == nil {
		*l = append(envelope.Data, envelope.Extras...)
		return nil
	}
	*l = nil
	return nil
}

// FetchList fetches one listing page. The endpoint is a path such as
// "/dramas" or "/dramas/trending". All entries get a synthesized rating; the
// listing API never ships scores.
func (d *DramaBox) FetchList(ctx context.Context, endpoint string, page int) (ListResult, error) {
	reqURL := fmt.Sprintf("%s%s?page=%d", d.baseURL, endpoint, page)

	var resp dramaBoxListResponse
	if err := fetchJSON(ctx, d.client, http.MethodGet, reqURL, d.listTimeout, &resp); err != nil {
		d.log.Warn("list fetch failed", "endpoint", endpoint, "page", page, "error", err)
		return ListResult{}, err
	}

	items := make([]catalog.Item, 0, len(resp.Data))
	for _, raw := range resp.Data {
		id := TagDramaBox + string(raw.ID)
		items = append(items, catalog.Item{
			ID:         id,
			Title:      raw.Title,
			Poster:     raw.CoverImage,
			Rating:     round1(d.rating()),
			Year:       "",
			MediaType:  catalog.TypeTV,
			Genre:      joinTags(raw.Tags),
			DetailPath: id,
		})
	}

	respPage := resp.Meta.Pagination.Page
	if respPage == 0 {
		respPage = page
	}
	return ListResult{Items: items, Page: respPage, HasMore: resp.Meta.Pagination.HasMore}, nil
}

// FetchDetail fetches a drama record plus its chapter list. Chapter video
// resolution goes through a POST endpoint. Any failure degrades to a clearly
// marked placeholder record so the detail page stays navigable.
func (d *DramaBox) FetchDetail(ctx context.Context, id string) (*catalog.Detail, error) {
	var resp dramaBoxDetailResponse
	detailURL := fmt.Sprintf("%s/dramas/%s", d.baseURL, id)
	if err := fetchJSON(ctx, d.client, http.MethodGet, detailURL, d.detailTimeout, &resp); err != nil {
		d.log.Warn("detail fetch failed", "id", id, "error", err)
		return d.placeholderDetail(id), nil
	}
	drama := resp.Data

	episodes := d.fetchChapters(ctx, id, drama.CoverImage)

	dramaID := string(drama.ID)
	if dramaID == "" {
		dramaID = id
	}
	tagged := TagDramaBox + dramaID

	title := drama.Title
	if title == "" {
		title = "DramaBox Drama"
	}
	description := drama.Introduction
	if description == "" {
		description = "No description available."
	}
	year := string(drama.Year)
	if year == "" {
		year = strconv.Itoa(time.Now().Year())
	}

	return &catalog.Detail{
		Item: catalog.Item{
			ID:         tagged,
			Title:      title,
			Poster:     drama.CoverImage,
			Rating:     d.detailRating(drama, id),
			Year:       year,
			MediaType:  catalog.TypeTV,
			Genre:      firstNonEmpty(joinTags(drama.Tags), drama.Genre),
			DetailPath: tagged,
		},
		Description: description,
		Seasons: []catalog.Season{
			{Name: "Season 1", Season: "1", Episodes: episodes},
		},
	}, nil
}

func (d *DramaBox) fetchChapters(ctx context.Context, id, fallbackCover string) []catalog.Episode {
	chaptersURL := fmt.Sprintf("%s/chapters/video?book_id=%s", d.baseURL, id)

	var chapters dramaBoxChapterList
	if err := fetchJSON(ctx, d.client, http.MethodPost, chaptersURL, d.detailTimeout, &chapters); err != nil {
		d.log.Warn("chapter fetch failed", "id", id, "error", err)
		return []catalog.Episode{}
	}

	episodes := make([]catalog.Episode, 0, len(chapters))
	for i, chap := range chapters {
		streamURL := firstNonEmpty(string(chap.StreamURL), chap.URL, chap.VideoURL, chap.PlayerURL)
		index := string(chap.ChapterIndex)
		if index == "" || index == "0" {
			index = strconv.Itoa(i + 1)
		}
		title := chap.Title
		if title == "" {
			title = "Episode " + index
		}
		episodes = append(episodes, catalog.Episode{
			Episode:   index,
			Title:     title,
			URL:       streamURL,
			PlayerURL: streamURL,
			Cover:     firstNonEmpty(chap.Cover, fallbackCover),
		})
	}
	sortEpisodes(episodes)
	return episodes
}

// detailRating prefers a real upstream score; otherwise it derives a stable
// pseudo-rating from the trailing digits of the drama id.
func (d *DramaBox) detailRating(drama dramaBoxDrama, id string) float64 {
	score := float64(drama.Score)
	if score <= 0 {
		score = float64(drama.Rating)
	}
	if score > 0 {
		return round1(score)
	}
	suffix := id
	if len(suffix) > 3 {
		suffix = suffix[len(suffix)-3:]
	}
	n, _ := strconv.Atoi(suffix)
	return round1(8.8 + float64(n%10)/10)
}

func (d *DramaBox) placeholderDetail(id string) *catalog.Detail {
	tagged := TagDramaBox + id
	return &catalog.Detail{
		Item: catalog.Item{
			ID:         tagged,
			Title:      "Title Unavailable",
			Poster:     "",
			Rating:     8.5,
			Year:       "2024",
			MediaType:  catalog.TypeTV,
			Genre:      "",
			DetailPath: tagged,
		},
		Description: "Failed to load drama details.",
		Seasons:     []catalog.Season{},
	}
}
