package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/KeenanSylo/TreasureHunt/internal/db"
	"github.com/KeenanSylo/TreasureHunt/internal/model"
)

// PostgresStore implements Store using pgxpool, for deployments where
// several instances share one watchlist database.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool, primarily for tests.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS saved_items (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	external_id     TEXT NOT NULL,
	marketplace     TEXT NOT NULL,
	title_vague     TEXT NOT NULL,
	title_real      TEXT,
	price_listed    DOUBLE PRECISION,
	price_estimated DOUBLE PRECISION,
	image_url       TEXT,
	market_url      TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (user_id, external_id, marketplace)
);

CREATE INDEX IF NOT EXISTS idx_saved_items_user_id ON saved_items(user_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, item model.SavedItem) (*model.SavedItem, error) {
	item.ID = uuid.New().String()
	item.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO saved_items (id, user_id, external_id, marketplace, title_vague, title_real,
		 price_listed, price_estimated, image_url, market_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		item.ID, item.UserID, item.ExternalID, string(item.Marketplace),
		item.DeclaredTitle, item.RealTitle, item.ListedPrice, item.EstimatedPrice,
		item.ImageURL, item.MarketURL, item.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateItem
		}
		return nil, eris.Wrap(err, "postgres: insert saved item")
	}
	return &item, nil
}

func (s *PostgresStore) List(ctx context.Context, userID string) ([]model.SavedItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, external_id, marketplace, title_vague, title_real,
		 price_listed, price_estimated, image_url, market_url, created_at
		 FROM saved_items WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list saved items")
	}
	defer rows.Close()

	var items []model.SavedItem
	for rows.Next() {
		var it model.SavedItem
		var marketplace string
		var realTitle, imageURL, marketURL *string
		var listed, estimated *float64

		err := rows.Scan(&it.ID, &it.UserID, &it.ExternalID, &marketplace,
			&it.DeclaredTitle, &realTitle, &listed, &estimated,
			&imageURL, &marketURL, &it.CreatedAt)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan saved item")
		}

		it.Marketplace = model.Marketplace(marketplace)
		if realTitle != nil {
			it.RealTitle = *realTitle
		}
		if listed != nil {
			it.ListedPrice = *listed
		}
		if estimated != nil {
			it.EstimatedPrice = *estimated
		}
		if imageURL != nil {
			it.ImageURL = *imageURL
		}
		if marketURL != nil {
			it.MarketURL = *marketURL
		}
		items = append(items, it)
	}
	return items, eris.Wrap(rows.Err(), "postgres: list saved items iterate")
}

func (s *PostgresStore) Delete(ctx context.Context, userID, itemID string) error {
	res, err := s.pool.Exec(ctx,
		`DELETE FROM saved_items WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete saved item %s", itemID)
	}
	if res.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *PostgresStore) Exists(ctx context.Context, userID, externalID string, marketplace model.Marketplace) (bool, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM saved_items WHERE user_id = $1 AND external_id = $2 AND marketplace = $3`,
		userID, externalID, string(marketplace),
	)
	var n int
	if err := row.Scan(&n); err != nil {
		return false, eris.Wrap(err, "postgres: exists saved item")
	}
	return n > 0, nil
}
