package marketplace

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
	"github.com/KeenanSylo/TreasureHunt/pkg/vinted"
)

// VintedSource searches the Vinted catalog API.
type VintedSource struct {
	client vinted.Client
	domain string
}

// NewVintedSource wraps a Vinted client as a Source. The domain is the
// marketplace TLD used to derive listing URLs, e.g. "com" or "co.uk".
func NewVintedSource(client vinted.Client, domain string) *VintedSource {
	return &VintedSource{client: client, domain: domain}
}

func (s *VintedSource) Name() model.Marketplace {
	return model.MarketplaceVinted
}

func (s *VintedSource) Search(ctx context.Context, text string, maxPrice, limit int) ([]model.Listing, error) {
	items, err := s.client.Search(ctx, vinted.SearchRequest{
		Query:    text,
		MaxPrice: maxPrice,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	listings := make([]model.Listing, 0, len(items))
	for _, item := range items {
		// The catalog occasionally returns reserved rows with a zero
		// price; they are not purchasable, so skip them.
		price := item.Price.Value()
		if price <= 0 {
			continue
		}
		if isNewCondition(item.Title) {
			continue
		}

		var seller string
		if item.User != nil {
			seller = item.User.Login
		}
		listings = append(listings, model.Listing{
			ExternalID:    strconv.FormatInt(item.ID, 10),
			DeclaredTitle: item.Title,
			ListedPrice:   price,
			ImageURL:      item.Photo.BestURL(),
			MarketURL:     item.MarketURL(s.domain),
			Marketplace:   model.MarketplaceVinted,
			Seller:        seller,
			Brand:         item.BrandTitle,
		})
	}

	zap.L().Debug("vinted search complete",
		zap.String("query", text),
		zap.Int("raw", len(items)),
		zap.Int("kept", len(listings)))
	return listings, nil
}
