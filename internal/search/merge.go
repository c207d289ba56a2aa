package search

import (
	"sort"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
)

// Merge flattens per-marketplace result sets into one slice ordered by
// ascending effective price. The sort is stable, so listings that tie
// on price keep their source order, and unpriced listings sink to the
// end via the price sentinel. Listings are never deduplicated across
// marketplaces; the same physical item on two sites is two buying
// opportunities.
func Merge(batches ...[]model.Listing) []model.Listing {
	var total int
	for _, b := range batches {
		total += len(b)
	}

	merged := make([]model.Listing, 0, total)
	for _, b := range batches {
		merged = append(merged, b...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].EffectivePrice() < merged[j].EffectivePrice()
	})
	return merged
}

// SelectForAppraisal returns the indexes of the first k listings that
// carry an image URL. Appraisal is vision-based, so imageless listings
// are never candidates regardless of rank.
func SelectForAppraisal(listings []model.Listing, k int) []int {
	picked := make([]int, 0, k)
	for i, l := range listings {
		if len(picked) == k {
			break
		}
		if l.ImageURL != "" {
			picked = append(picked, i)
		}
	}
	return picked
}
