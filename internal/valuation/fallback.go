// Package valuation estimates the resale value of marketplace listings,
// via the vision appraisal oracle when possible and a deterministic
// heuristic engine when not.
package valuation

import (
	"math"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
)

// Category buckets a listing title for markup selection.
type Category string

const (
	CategoryFashion      Category = "fashion"
	CategoryElectronics  Category = "electronics"
	CategoryCollectibles Category = "collectibles"
	CategoryGeneral      Category = "general"
)

// DefaultBasePrice is used when a listing carries no usable price.
const DefaultBasePrice = 50.0

// Heuristics holds the keyword sets and markup multipliers the engine
// classifies and prices with. Zero-value fields fall back to defaults.
type Heuristics struct {
	Keywords  map[Category][]string `yaml:"keywords"`
	Markups   map[Category]float64  `yaml:"markups"`
	BasePrice float64               `yaml:"base_price"`
}

func defaultHeuristics() Heuristics {
	return Heuristics{
		Keywords: map[Category][]string{
			CategoryFashion: {
				"jacket", "coat", "dress", "shoes", "sneaker", "boot",
				"bag", "handbag", "jeans", "shirt", "hoodie", "scarf", "denim",
			},
			CategoryElectronics: {
				"camera", "laptop", "phone", "console", "headphone",
				"speaker", "lens", "ipod", "walkman", "radio", "monitor",
			},
			CategoryCollectibles: {
				"vintage", "antique", "rare", "retro", "collectible",
				"figurine", "vinyl", "record", "card", "comic", "coin",
			},
		},
		Markups: map[Category]float64{
			CategoryFashion:      1.4,
			CategoryElectronics:  1.2,
			CategoryCollectibles: 1.5,
			CategoryGeneral:      1.3,
		},
		BasePrice: DefaultBasePrice,
	}
}

// classifyOrder fixes the category priority: the first category whose
// keyword set matches the title wins.
var classifyOrder = []Category{CategoryFashion, CategoryElectronics, CategoryCollectibles}

// Engine is a pure, deterministic valuation fallback. It performs no I/O
// and is safe for concurrent use.
type Engine struct {
	h Heuristics
}

// NewEngine creates an engine with the built-in heuristics.
func NewEngine() *Engine {
	return &Engine{h: defaultHeuristics()}
}

// NewEngineFromFile creates an engine with heuristics loaded from a YAML
// file. Omitted sections keep their defaults.
func NewEngineFromFile(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "valuation: read heuristics %s", path)
	}

	var override Heuristics
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, eris.Wrapf(err, "valuation: parse heuristics %s", path)
	}

	h := defaultHeuristics()
	if len(override.Keywords) > 0 {
		h.Keywords = override.Keywords
	}
	if len(override.Markups) > 0 {
		h.Markups = override.Markups
	}
	if override.BasePrice > 0 {
		h.BasePrice = override.BasePrice
	}
	return &Engine{h: h}, nil
}

// Classify maps a title to exactly one category by case-insensitive keyword
// membership, defaulting to general.
func (e *Engine) Classify(title string) Category {
	lower := strings.ToLower(title)
	for _, cat := range classifyOrder {
		for _, kw := range e.h.Keywords[cat] {
			if strings.Contains(lower, kw) {
				return cat
			}
		}
	}
	return CategoryGeneral
}

// Estimate applies the category markup to the base price, rounded to two
// decimal places. Non-positive base prices use the configured default.
func (e *Engine) Estimate(basePrice float64, cat Category) float64 {
	if basePrice <= 0 {
		basePrice = e.h.BasePrice
	}
	markup, ok := e.h.Markups[cat]
	if !ok {
		markup = e.h.Markups[CategoryGeneral]
	}
	return math.Round(basePrice*markup*100) / 100
}

// Valuate produces a complete fallback valuation for a listing title and
// price. Confidence is always low: the estimate is a heuristic, not an
// identification.
func (e *Engine) Valuate(title string, listedPrice float64, reason string) model.Valuation {
	cat := e.Classify(title)
	return model.Valuation{
		RealTitle:      title,
		EstimatedPrice: e.Estimate(listedPrice, cat),
		Confidence:     model.ConfidenceLow,
		Reasoning:      reason,
	}
}
