package aggregate

import (
	"strings"

	"github.com/nontonhub/nontonhub/internal/catalog"
)

// filterDenied removes items whose title contains any denylisted substring,
// case-insensitively. The membership is config data, not code; it is a
// content-policy decision, not an algorithmic one.
func filterDenied(items []catalog.Item, denylist []string) []catalog.Item {
	if len(denylist) == 0 {
		return items
	}
	kept := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		title := strings.ToLower(item.Title)
		denied := false
		for _, word := range denylist {
			if strings.Contains(title, strings.ToLower(word)) {
				denied = true
				break
			}
		}
		if !denied {
			kept = append(kept, item)
		}
	}
	return kept
}
