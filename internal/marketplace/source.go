// Package marketplace adapts secondhand listing providers to a common
// Source interface so the search orchestrator can fan out over them
// without knowing wire formats.
package marketplace

import (
	"context"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
)

// Source is a searchable secondhand marketplace.
type Source interface {
	// Name identifies the marketplace in results and logs.
	Name() model.Marketplace

	// Search returns listings matching the text under the price ceiling,
	// already converted to the common listing shape. Implementations
	// filter out listings sold as new.
	Search(ctx context.Context, text string, maxPrice, limit int) ([]model.Listing, error)
}
