package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
)

func TestMergeSortsByPriceAscending(t *testing.T) {
	t.Parallel()

	ebay := []model.Listing{
		{ExternalID: "e1", ListedPrice: 80, Marketplace: model.MarketplaceEBay},
		{ExternalID: "e2", ListedPrice: 20, Marketplace: model.MarketplaceEBay},
	}
	vinted := []model.Listing{
		{ExternalID: "v1", ListedPrice: 50, Marketplace: model.MarketplaceVinted},
	}

	merged := Merge(ebay, vinted)

	ids := make([]string, len(merged))
	for i, l := range merged {
		ids[i] = l.ExternalID
	}
	assert.Equal(t, []string{"e2", "v1", "e1"}, ids)
}

func TestMergeStableOnEqualPrices(t *testing.T) {
	t.Parallel()

	ebay := []model.Listing{
		{ExternalID: "e1", ListedPrice: 30},
	}
	vinted := []model.Listing{
		{ExternalID: "v1", ListedPrice: 30},
		{ExternalID: "v2", ListedPrice: 30},
	}

	merged := Merge(ebay, vinted)

	ids := make([]string, len(merged))
	for i, l := range merged {
		ids[i] = l.ExternalID
	}
	assert.Equal(t, []string{"e1", "v1", "v2"}, ids)
}

func TestMergeUnpricedSortLast(t *testing.T) {
	t.Parallel()

	merged := Merge([]model.Listing{
		{ExternalID: "nopriced", ListedPrice: 0},
		{ExternalID: "cheap", ListedPrice: 5},
	})

	assert.Equal(t, "cheap", merged[0].ExternalID)
	assert.Equal(t, "nopriced", merged[1].ExternalID)
}

func TestMergeKeepsDuplicatesAcrossMarketplaces(t *testing.T) {
	t.Parallel()

	ebay := []model.Listing{{ExternalID: "123", ListedPrice: 10, Marketplace: model.MarketplaceEBay}}
	vinted := []model.Listing{{ExternalID: "123", ListedPrice: 10, Marketplace: model.MarketplaceVinted}}

	merged := Merge(ebay, vinted)
	assert.Len(t, merged, 2)
}

func TestSelectForAppraisal(t *testing.T) {
	t.Parallel()

	listings := []model.Listing{
		{ExternalID: "a", ImageURL: "https://img/a.jpg"},
		{ExternalID: "b"},
		{ExternalID: "c", ImageURL: "https://img/c.jpg"},
		{ExternalID: "d", ImageURL: "https://img/d.jpg"},
	}

	assert.Equal(t, []int{0, 2}, SelectForAppraisal(listings, 2))
	assert.Equal(t, []int{0, 2, 3}, SelectForAppraisal(listings, 5))
	assert.Empty(t, SelectForAppraisal(nil, 5))
}
