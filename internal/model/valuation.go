package model

// Confidence grades how certain the appraisal is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ParseConfidence maps free-text oracle output to a Confidence, defaulting
// to low for anything unrecognized.
func ParseConfidence(s string) Confidence {
	switch Confidence(s) {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return Confidence(s)
	default:
		return ConfidenceLow
	}
}

// Valuation is the appraisal attached to one listing. EstimatedPrice is
// never negative; Confidence is low whenever the oracle was bypassed or
// failed. Bundle fields are populated only in lot-analysis mode.
type Valuation struct {
	RealTitle             string     `json:"title_real"`
	EstimatedPrice        float64    `json:"price_estimated"`
	Confidence            Confidence `json:"confidence"`
	Reasoning             string     `json:"reasoning,omitempty"`
	IsBundle              bool       `json:"is_bundle,omitempty"`
	HiddenItems           []string   `json:"hidden_items,omitempty"`
	EstimatedBreakupValue float64    `json:"estimated_breakup_value,omitempty"`
}

// AnalyzedResult is a listing merged with its valuation and the derived
// profit potential. Negative profit is retained for transparency.
type AnalyzedResult struct {
	Listing
	Valuation
	ProfitPotential float64 `json:"profit_potential"`
}

// NewAnalyzedResult combines a listing with its valuation and computes the
// profit potential. For bundles the breakup value replaces the single-item
// estimate.
func NewAnalyzedResult(l Listing, v Valuation) AnalyzedResult {
	est := v.EstimatedPrice
	if v.IsBundle {
		est = v.EstimatedBreakupValue
	}
	return AnalyzedResult{
		Listing:         l,
		Valuation:       v,
		ProfitPotential: est - l.ListedPrice,
	}
}

// SearchResponse is the request surface returned by one query operation.
type SearchResponse struct {
	Query    string           `json:"query"`
	MaxPrice int              `json:"max_price"`
	Cached   bool             `json:"cached"`
	Results  []AnalyzedResult `json:"results"`
}
