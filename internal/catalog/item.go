package catalog

// Media type values used in the "type" field of list and detail responses.
const (
	TypeMovie = "movie"
	TypeTV    = "tv"
)

// Item is one normalized catalog entry as served to the frontend.
// Every upstream record, whatever its source shape, is coalesced into this.
type Item struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Poster     string  `json:"poster"`
	Rating     float64 `json:"rating"`
	Year       string  `json:"year"`
	MediaType  string  `json:"type"`
	Genre      string  `json:"genre"`
	DetailPath string  `json:"detailPath"`
}

// Page is the result of one list or search request. Items never exceeds the
// configured UI page size; fewer items means the end of the catalog or a
// degraded upstream.
type Page struct {
	Success bool   `json:"success"`
	Items   []Item `json:"items"`
	Page    int    `json:"page"`
	HasMore bool   `json:"hasMore"`
}

// EmptyPage returns a successful page with no items for the given UI page
// number. List endpoints degrade to this rather than erroring.
func EmptyPage(page int) Page {
	return Page{Success: true, Items: []Item{}, Page: page, HasMore: false}
}

// Episode is one playable entry within a season. PlayerURL and URL carry the
// same normalized stream URL; both are kept because the player reads either.
type Episode struct {
	Episode   string `json:"episode"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	PlayerURL string `json:"playerUrl"`
	Cover     string `json:"cover,omitempty"`
}

// Season groups episodes. Upstream drama APIs are single-season, so adapters
// typically emit exactly one.
type Season struct {
	Name     string    `json:"name"`
	Season   string    `json:"season"`
	Episodes []Episode `json:"episodes"`
}

// Detail extends Item with playback information. A detail record has either a
// PlayerURL (single-video movie) or seasons with episodes; adapters tolerate
// and surface the empty state instead of erroring.
type Detail struct {
	Item
	Description string   `json:"description"`
	PlayerURL   string   `json:"playerUrl,omitempty"`
	Seasons     []Season `json:"seasons"`
}
