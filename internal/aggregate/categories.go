package aggregate

import (
	"net/url"
	"strings"
)

// curatedActions are the categories the primary provider serves from
// dedicated curated endpoints. Every other category is answered through its
// search action instead.
var curatedActions = map[string]struct{}{
	"trending":          {},
	"indonesian-movies": {},
	"indonesian-drama":  {},
	"kdrama":            {},
	"short-tv":          {},
	"anime":             {},
	"adult-comedy":      {},
	"western-tv":        {},
	"indo-dub":          {},
}

func isCurated(category string) bool {
	_, ok := curatedActions[category]
	return ok
}

// primaryEndpoint maps a category onto the primary provider's query suffix.
// genre- categories search on the bare genre name; unknown categories search
// on the category with dashes restored to spaces.
func primaryEndpoint(category string) string {
	switch {
	case isCurated(category):
		return "?action=" + category
	case strings.HasPrefix(category, "genre-"):
		return "?action=search&q=" + url.QueryEscape(strings.TrimPrefix(category, "genre-"))
	default:
		return "?action=search&q=" + url.QueryEscape(strings.ReplaceAll(category, "-", " "))
	}
}

// dramaBoxEndpoint maps the drama-box category family onto the secondary
// provider's listing paths.
func dramaBoxEndpoint(category string) string {
	switch category {
	case "drama-box-trending":
		return "/dramas/trending"
	case "drama-box-indo":
		return "/dramas/indo"
	case "drama-box-must-sees":
		return "/dramas/must-sees"
	case "drama-box-hidden-gems":
		return "/dramas/hidden-gems"
	default:
		return "/dramas"
	}
}

// dramaBoxFallback returns the secondary endpoint backing a primary category
// when the primary fails. Only a few categories have a sensible secondary
// mapping; the rest skip straight to the tertiary catch-all.
func dramaBoxFallback(category string) (string, bool) {
	switch category {
	case "trending":
		return "/dramas/trending", true
	case "short-tv", "indonesian-movies":
		return "/dramas", true
	}
	return "", false
}

// tertiaryFallbackEndpoint is the generic for-you feed every category can
// fall through to, so list requests never hard-fail for lack of a mapping.
const tertiaryFallbackEndpoint = "/for-you"

// denylistApplies reports whether the regional content denylist post-filters
// a category's primary results. It covers the curated categories and anything
// Indonesian-flavored; fallback provider results are never filtered.
func denylistApplies(category string) bool {
	return isCurated(category) || strings.Contains(category, "indo")
}
