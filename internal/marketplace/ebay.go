package marketplace

import (
	"context"

	"go.uber.org/zap"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
	"github.com/KeenanSylo/TreasureHunt/pkg/ebay"
)

// EbaySource searches the eBay Browse API.
type EbaySource struct {
	client ebay.Client
}

// NewEbaySource wraps an eBay client as a Source.
func NewEbaySource(client ebay.Client) *EbaySource {
	return &EbaySource{client: client}
}

func (s *EbaySource) Name() model.Marketplace {
	return model.MarketplaceEBay
}

func (s *EbaySource) Search(ctx context.Context, text string, maxPrice, limit int) ([]model.Listing, error) {
	items, err := s.client.Search(ctx, ebay.SearchRequest{
		Query:    text,
		MaxPrice: maxPrice,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	listings := make([]model.Listing, 0, len(items))
	for _, item := range items {
		if isNewCondition(item.Title) {
			continue
		}
		listings = append(listings, model.Listing{
			ExternalID:    item.ItemID,
			DeclaredTitle: item.Title,
			ListedPrice:   item.Price.Amount(),
			ImageURL:      item.ImageURL(),
			MarketURL:     item.ItemWebURL,
			Marketplace:   model.MarketplaceEBay,
			Condition:     item.Condition,
			Seller:        item.Seller.Username,
		})
	}

	zap.L().Debug("ebay search complete",
		zap.String("query", text),
		zap.Int("raw", len(items)),
		zap.Int("kept", len(listings)))
	return listings, nil
}
