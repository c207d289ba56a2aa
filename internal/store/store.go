// Package store persists user watchlists.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
)

// ErrDuplicateItem is returned when a user saves a listing they
// already have on their watchlist.
var ErrDuplicateItem = eris.New("store: item already saved")

// ErrItemNotFound is returned when deleting an item that does not
// exist or belongs to another user.
var ErrItemNotFound = eris.New("store: item not found")

// Store defines persistence for saved items. A (user, external ID,
// marketplace) triple is unique; saving it twice is a conflict.
type Store interface {
	Save(ctx context.Context, item model.SavedItem) (*model.SavedItem, error)
	List(ctx context.Context, userID string) ([]model.SavedItem, error)
	Delete(ctx context.Context, userID, itemID string) error
	Exists(ctx context.Context, userID, externalID string, marketplace model.Marketplace) (bool, error)

	Migrate(ctx context.Context) error
	Close() error
}
