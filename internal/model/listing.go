package model

// Marketplace identifies which source a listing came from.
type Marketplace string

const (
	MarketplaceEBay   Marketplace = "ebay"
	MarketplaceVinted Marketplace = "vinted"
)

// PriceSentinel is the effective price assigned to listings without a known
// price so they sort after every priced listing.
const PriceSentinel = 999999

// Listing is a normalized marketplace entry. ExternalID is only unique
// within its marketplace; the (ExternalID, Marketplace) pair identifies a
// listing globally.
type Listing struct {
	ExternalID    string      `json:"external_id"`
	DeclaredTitle string      `json:"title_vague"`
	ListedPrice   float64     `json:"price_listed"`
	ImageURL      string      `json:"image_url,omitempty"`
	MarketURL     string      `json:"market_url,omitempty"`
	Marketplace   Marketplace `json:"marketplace"`
	Condition     string      `json:"condition,omitempty"`
	Seller        string      `json:"seller,omitempty"`
	Brand         string      `json:"brand,omitempty"`
	LotSize       int         `json:"lot_size,omitempty"`
}

// HasPrice reports whether the seller published a usable price.
func (l Listing) HasPrice() bool {
	return l.ListedPrice > 0
}

// EffectivePrice is the price used for ranking. Listings without a known
// price sort last via the sentinel.
func (l Listing) EffectivePrice() float64 {
	if !l.HasPrice() {
		return PriceSentinel
	}
	return l.ListedPrice
}
