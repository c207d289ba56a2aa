package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresFromPool(mock), mock
}

func TestPostgresStore_Save(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO saved_items`).
		WithArgs(pgxmock.AnyArg(), "u1", "e1", "ebay", "camera untested", "Canon AE-1",
			50.0, 120.0, "https://img/1.jpg", "https://ebay.com/itm/1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	saved, err := s.Save(context.Background(), model.SavedItem{
		UserID:         "u1",
		ExternalID:     "e1",
		Marketplace:    model.MarketplaceEBay,
		DeclaredTitle:  "camera untested",
		RealTitle:      "Canon AE-1",
		ListedPrice:    50,
		EstimatedPrice: 120,
		ImageURL:       "https://img/1.jpg",
		MarketURL:      "https://ebay.com/itm/1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Save_Duplicate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO saved_items`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.Save(context.Background(), model.SavedItem{UserID: "u1", ExternalID: "e1"})
	assert.ErrorIs(t, err, ErrDuplicateItem)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_List(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	realTitle := "Canon AE-1"
	listed := 50.0
	estimated := 120.0
	img := "https://img/1.jpg"
	url := "https://ebay.com/itm/1"

	mock.ExpectQuery(`SELECT .+ FROM saved_items WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "external_id", "marketplace", "title_vague", "title_real",
			"price_listed", "price_estimated", "image_url", "market_url", "created_at",
		}).AddRow("id-1", "u1", "e1", "ebay", "camera untested", &realTitle,
			&listed, &estimated, &img, &url, time.Now()))

	items, err := s.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Canon AE-1", items[0].RealTitle)
	assert.Equal(t, model.MarketplaceEBay, items[0].Marketplace)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM saved_items`).
		WithArgs("missing-id", "u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.Delete(context.Background(), "u1", "missing-id")
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Exists(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM saved_items`).
		WithArgs("u1", "e1", "vinted").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := s.Exists(context.Background(), "u1", "e1", model.MarketplaceVinted)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS saved_items`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
