package valuation

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
)

type mockAppraiser struct {
	mock.Mock
}

func (m *mockAppraiser) Appraise(ctx context.Context, req Request) (model.Valuation, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.Valuation), args.Error(1)
}

func TestSafeAppraiser_PassesThroughSuccess(t *testing.T) {
	t.Parallel()

	oracle := &mockAppraiser{}
	oracle.On("Appraise", mock.Anything, mock.Anything).
		Return(model.Valuation{RealTitle: "Canon AE-1", EstimatedPrice: 185, Confidence: model.ConfidenceHigh}, nil).Once()

	sa := NewSafeAppraiser(oracle, NewEngine())
	v := sa.Appraise(context.Background(), Request{DeclaredTitle: "old camera", ListedPrice: 50})

	assert.Equal(t, "Canon AE-1", v.RealTitle)
	assert.Equal(t, model.ConfidenceHigh, v.Confidence)
}

func TestSafeAppraiser_FallbackOnError(t *testing.T) {
	t.Parallel()

	oracle := &mockAppraiser{}
	oracle.On("Appraise", mock.Anything, mock.Anything).
		Return(model.Valuation{}, eris.New("oracle unreachable")).Once()

	sa := NewSafeAppraiser(oracle, NewEngine())
	v := sa.Appraise(context.Background(), Request{DeclaredTitle: "old camera", ListedPrice: 50})

	// Electronics markup on the listed price.
	assert.InDelta(t, 60.0, v.EstimatedPrice, 0.001)
	assert.Equal(t, model.ConfidenceLow, v.Confidence)
	assert.Equal(t, "old camera", v.RealTitle)
}

func TestSafeAppraiser_FallbackOnZeroEstimate(t *testing.T) {
	t.Parallel()

	oracle := &mockAppraiser{}
	oracle.On("Appraise", mock.Anything, mock.Anything).
		Return(model.Valuation{RealTitle: "Not a camera - trading cards", EstimatedPrice: 0}, nil).Once()

	sa := NewSafeAppraiser(oracle, NewEngine())
	v := sa.Appraise(context.Background(), Request{DeclaredTitle: "vintage dress", ListedPrice: 20})

	// Fashion markup: 20 × 1.4.
	assert.InDelta(t, 28.0, v.EstimatedPrice, 0.001)
	assert.Equal(t, model.ConfidenceLow, v.Confidence)
}

func TestSafeAppraiser_BundleBreakupAccepted(t *testing.T) {
	t.Parallel()

	oracle := &mockAppraiser{}
	oracle.On("Appraise", mock.Anything, mock.Anything).
		Return(model.Valuation{
			IsBundle:              true,
			EstimatedPrice:        0,
			HiddenItems:           []string{"Canon AE-1: $120"},
			EstimatedBreakupValue: 120,
		}, nil).Once()

	sa := NewSafeAppraiser(oracle, NewEngine())
	v := sa.Appraise(context.Background(), Request{DeclaredTitle: "camera lot", ListedPrice: 40, Bundle: true})

	assert.True(t, v.IsBundle)
	assert.InDelta(t, 120.0, v.EstimatedBreakupValue, 0.001)
}

func TestSafeAppraiser_BundleFallbackIsSingleItem(t *testing.T) {
	t.Parallel()

	oracle := &mockAppraiser{}
	oracle.On("Appraise", mock.Anything, mock.Anything).
		Return(model.Valuation{}, eris.New("timeout")).Once()

	sa := NewSafeAppraiser(oracle, NewEngine())
	v := sa.Appraise(context.Background(), Request{DeclaredTitle: "camera job lot", ListedPrice: 40, Bundle: true})

	// Breakup analysis is not recoverable heuristically.
	assert.False(t, v.IsBundle)
	assert.Empty(t, v.HiddenItems)
	assert.Zero(t, v.EstimatedBreakupValue)
	assert.Positive(t, v.EstimatedPrice)
	assert.Equal(t, model.ConfidenceLow, v.Confidence)
}
