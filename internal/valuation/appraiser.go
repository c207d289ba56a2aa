package valuation

import (
	"context"

	"go.uber.org/zap"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
)

// Request carries one listing into the appraisal oracle.
type Request struct {
	ImageURLs     []string
	DeclaredTitle string
	ListedPrice   float64
	CategoryHint  string
	Bundle        bool
}

// Appraiser identifies a listing and estimates its resale value. Implemented
// by the vision oracle; failures are expected and handled by SafeAppraiser.
type Appraiser interface {
	Appraise(ctx context.Context, req Request) (model.Valuation, error)
}

// SafeAppraiser wraps an Appraiser so that every request yields a usable
// valuation: oracle errors, timeouts, and non-positive estimates all fall
// back to the deterministic engine. It never returns an error.
type SafeAppraiser struct {
	oracle   Appraiser
	fallback *Engine
}

// NewSafeAppraiser combines an oracle with a fallback engine.
func NewSafeAppraiser(oracle Appraiser, fallback *Engine) *SafeAppraiser {
	return &SafeAppraiser{oracle: oracle, fallback: fallback}
}

// Appraise runs the oracle and degrades to the fallback engine on any
// failure or zero estimate. Fallback valuations carry low confidence and an
// empty hidden-items list; bundle breakup analysis is not recoverable
// heuristically, so fallback always prices the listing as a single item.
func (s *SafeAppraiser) Appraise(ctx context.Context, req Request) model.Valuation {
	v, err := s.oracle.Appraise(ctx, req)
	if err != nil {
		zap.L().Warn("appraisal failed, using fallback estimate",
			zap.String("title", req.DeclaredTitle),
			zap.Error(err),
		)
		return s.fallback.Valuate(req.DeclaredTitle, req.ListedPrice, "appraisal unavailable, heuristic estimate")
	}

	if v.EstimatedPrice <= 0 && (!v.IsBundle || v.EstimatedBreakupValue <= 0) {
		zap.L().Warn("appraisal returned no estimate, using fallback",
			zap.String("title", req.DeclaredTitle),
			zap.String("real_title", v.RealTitle),
		)
		return s.fallback.Valuate(req.DeclaredTitle, req.ListedPrice, "appraisal inconclusive, heuristic estimate")
	}

	return v
}
