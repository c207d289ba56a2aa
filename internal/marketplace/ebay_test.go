package marketplace

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
	"github.com/KeenanSylo/TreasureHunt/pkg/ebay"
)

func TestEbaySearch(t *testing.T) {
	t.Parallel()

	client := new(mockEbayClient)
	client.On("Search", mock.Anything, ebay.SearchRequest{
		Query:    "vintage camera",
		MaxPrice: 100,
		Limit:    10,
	}).Return([]ebay.Item{
		{
			ItemID:     "v1|123|0",
			Title:      "Vintage Camera",
			Price:      ebay.Price{Value: "50.00", Currency: "USD"},
			Image:      &ebay.Image{ImageURL: "https://example.com/cam.jpg"},
			ItemWebURL: "https://ebay.com/itm/123",
			Condition:  "Used",
			Seller:     ebay.Seller{Username: "camguy"},
		},
		{
			ItemID: "v1|456|0",
			Title:  "Brand New Camera Sealed",
			Price:  ebay.Price{Value: "80.00"},
		},
	}, nil)

	source := NewEbaySource(client)
	assert.Equal(t, model.MarketplaceEBay, source.Name())

	listings, err := source.Search(context.Background(), "vintage camera", 100, 10)
	require.NoError(t, err)

	require.Len(t, listings, 1)
	assert.Equal(t, "v1|123|0", listings[0].ExternalID)
	assert.Equal(t, "Vintage Camera", listings[0].DeclaredTitle)
	assert.Equal(t, 50.0, listings[0].ListedPrice)
	assert.Equal(t, "https://example.com/cam.jpg", listings[0].ImageURL)
	assert.Equal(t, model.MarketplaceEBay, listings[0].Marketplace)
	assert.Equal(t, "camguy", listings[0].Seller)
}

func TestEbaySearchError(t *testing.T) {
	t.Parallel()

	client := new(mockEbayClient)
	client.On("Search", mock.Anything, mock.Anything).
		Return(nil, eris.New("ebay: status 500"))

	source := NewEbaySource(client)

	_, err := source.Search(context.Background(), "camera", 100, 10)
	require.Error(t, err)
}

func TestIsNewCondition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  bool
	}{
		{"Vintage Camera", false},
		{"Brand New Camera", true},
		{"BRAND NEW sealed box", true},
		{"Sealed Pokemon Booster", true},
		{"Designer dress NWT", true},
		{"Used denim jacket", false},
		{"newt figurine", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isNewCondition(tt.title), tt.title)
	}
}
