package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
)

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Handle(ctx context.Context, query model.SearchQuery) (*model.SearchResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SearchResponse), args.Error(1)
}

type mockItemStore struct {
	mock.Mock
}

func (m *mockItemStore) Save(ctx context.Context, item model.SavedItem) (*model.SavedItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavedItem), args.Error(1)
}

func (m *mockItemStore) List(ctx context.Context, userID string) ([]model.SavedItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SavedItem), args.Error(1)
}

func (m *mockItemStore) Delete(ctx context.Context, userID, itemID string) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *mockItemStore) Exists(ctx context.Context, userID, externalID string, marketplace model.Marketplace) (bool, error) {
	args := m.Called(ctx, userID, externalID, marketplace)
	return args.Bool(0), args.Error(1)
}

func (m *mockItemStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockItemStore) Close() error {
	return nil
}
