package marketplace

import "strings"

// newConditionMarkers are title fragments sellers use to flag unused
// items. Listings carrying any of them are excluded because a brand
// new item has no resale margin on a secondhand market.
var newConditionMarkers = []string{"brand new", "sealed", "nwt"}

// isNewCondition reports whether a listing title advertises the item
// as unused. Matching is case-insensitive.
func isNewCondition(title string) bool {
	lower := strings.ToLower(title)
	for _, marker := range newConditionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
