package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS saved_items (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	external_id     TEXT NOT NULL,
	marketplace     TEXT NOT NULL,
	title_vague     TEXT NOT NULL,
	title_real      TEXT,
	price_listed    REAL,
	price_estimated REAL,
	image_url       TEXT,
	market_url      TEXT,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (user_id, external_id, marketplace)
);

CREATE INDEX IF NOT EXISTS idx_saved_items_user_id ON saved_items(user_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, item model.SavedItem) (*model.SavedItem, error) {
	item.ID = uuid.New().String()
	item.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saved_items (id, user_id, external_id, marketplace, title_vague, title_real,
		 price_listed, price_estimated, image_url, market_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, item.ExternalID, string(item.Marketplace),
		item.DeclaredTitle, item.RealTitle, item.ListedPrice, item.EstimatedPrice,
		item.ImageURL, item.MarketURL, item.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, ErrDuplicateItem
		}
		return nil, eris.Wrap(err, "sqlite: insert saved item")
	}
	return &item, nil
}

func (s *SQLiteStore) List(ctx context.Context, userID string) ([]model.SavedItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, external_id, marketplace, title_vague, title_real,
		 price_listed, price_estimated, image_url, market_url, created_at
		 FROM saved_items WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list saved items")
	}
	defer rows.Close()

	var items []model.SavedItem
	for rows.Next() {
		var it model.SavedItem
		var marketplace string
		var realTitle, imageURL, marketURL sql.NullString
		var listed, estimated sql.NullFloat64

		err := rows.Scan(&it.ID, &it.UserID, &it.ExternalID, &marketplace,
			&it.DeclaredTitle, &realTitle, &listed, &estimated,
			&imageURL, &marketURL, &it.CreatedAt)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan saved item")
		}

		it.Marketplace = model.Marketplace(marketplace)
		it.RealTitle = realTitle.String
		it.ListedPrice = listed.Float64
		it.EstimatedPrice = estimated.Float64
		it.ImageURL = imageURL.String
		it.MarketURL = marketURL.String
		items = append(items, it)
	}
	return items, eris.Wrap(rows.Err(), "sqlite: list saved items iterate")
}

func (s *SQLiteStore) Delete(ctx context.Context, userID, itemID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_items WHERE id = ? AND user_id = ?`,
		itemID, userID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete saved item %s", itemID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *SQLiteStore) Exists(ctx context.Context, userID, externalID string, marketplace model.Marketplace) (bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM saved_items WHERE user_id = ? AND external_id = ? AND marketplace = ?`,
		userID, externalID, string(marketplace),
	)
	var n int
	if err := row.Scan(&n); err != nil {
		return false, eris.Wrap(err, "sqlite: exists saved item")
	}
	return n > 0, nil
}
