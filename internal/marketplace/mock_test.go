package marketplace

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/KeenanSylo/TreasureHunt/pkg/ebay"
	"github.com/KeenanSylo/TreasureHunt/pkg/vinted"
)

type mockEbayClient struct {
	mock.Mock
}

func (m *mockEbayClient) Search(ctx context.Context, req ebay.SearchRequest) ([]ebay.Item, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ebay.Item), args.Error(1)
}

type mockVintedClient struct {
	mock.Mock
}

func (m *mockVintedClient) Search(ctx context.Context, req vinted.SearchRequest) ([]vinted.Item, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vinted.Item), args.Error(1)
}
