package search

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
	"github.com/KeenanSylo/TreasureHunt/internal/valuation"
)

type mockSource struct {
	mock.Mock
	name model.Marketplace
}

func (m *mockSource) Name() model.Marketplace {
	return m.name
}

func (m *mockSource) Search(ctx context.Context, text string, maxPrice, limit int) ([]model.Listing, error) {
	args := m.Called(ctx, text, maxPrice, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Listing), args.Error(1)
}

type mockOracle struct {
	mock.Mock
}

func (m *mockOracle) Appraise(ctx context.Context, req valuation.Request) (model.Valuation, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.Valuation), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockCache) Close() error {
	return nil
}
