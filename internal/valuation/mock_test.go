package valuation

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/KeenanSylo/TreasureHunt/pkg/anthropic"
)

// mockAIClient implements anthropic.Client for oracle tests.
type mockAIClient struct {
	mock.Mock
}

func (m *mockAIClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}
