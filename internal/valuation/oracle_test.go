package valuation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
	"github.com/KeenanSylo/TreasureHunt/internal/resilience"
	"github.com/KeenanSylo/TreasureHunt/pkg/anthropic"
)

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte{0xff, 0xd8, 0xff})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOracle_Appraise_Success(t *testing.T) {
	t.Parallel()

	srv := imageServer(t)

	ai := &mockAIClient{}
	ai.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Return(&anthropic.MessageResponse{
			Content: []anthropic.ContentBlock{{Type: "text", Text: `{"title_real": "Canon AE-1 Program", "price_estimated": 185.0, "confidence": "high", "reasoning": "distinctive shutter dial"}`}},
		}, nil).Once()

	o := NewOracle(ai, OracleConfig{Model: "claude-haiku-4-5-20251001"})
	v, err := o.Appraise(context.Background(), Request{
		ImageURLs:     []string{srv.URL + "/1.jpg"},
		DeclaredTitle: "old camera",
		ListedPrice:   50,
	})

	require.NoError(t, err)
	assert.Equal(t, "Canon AE-1 Program", v.RealTitle)
	assert.InDelta(t, 185.0, v.EstimatedPrice, 0.001)
	assert.Equal(t, model.ConfidenceHigh, v.Confidence)
	assert.False(t, v.IsBundle)
	ai.AssertExpectations(t)
}

func TestOracle_Appraise_BundleMode(t *testing.T) {
	t.Parallel()

	srv := imageServer(t)

	ai := &mockAIClient{}
	ai.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Return(&anthropic.MessageResponse{
			Content: []anthropic.ContentBlock{{Type: "text", Text: "```json\n" +
				`{"title_real": "camera lot with two bodies", "price_estimated": 0, "confidence": "medium", "reasoning": "two identifiable bodies", "hidden_items": ["Canon AE-1: $120", "Olympus Trip 35: $60"], "estimated_breakup_value": 180.0}` +
				"\n```"}},
		}, nil).Once()

	o := NewOracle(ai, OracleConfig{Model: "claude-haiku-4-5-20251001"})
	v, err := o.Appraise(context.Background(), Request{
		ImageURLs:     []string{srv.URL + "/lot.jpg"},
		DeclaredTitle: "camera job lot",
		CategoryHint:  "camera",
		Bundle:        true,
	})

	require.NoError(t, err)
	assert.True(t, v.IsBundle)
	assert.Len(t, v.HiddenItems, 2)
	assert.InDelta(t, 180.0, v.EstimatedBreakupValue, 0.001)
}

func TestOracle_Appraise_NoImages(t *testing.T) {
	t.Parallel()

	ai := &mockAIClient{}
	o := NewOracle(ai, OracleConfig{Model: "m"})

	_, err := o.Appraise(context.Background(), Request{DeclaredTitle: "old camera"})
	assert.Error(t, err)
	ai.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestOracle_Appraise_ImageFetchFails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	ai := &mockAIClient{}
	o := NewOracle(ai, OracleConfig{Model: "m"})

	_, err := o.Appraise(context.Background(), Request{
		ImageURLs:     []string{srv.URL + "/gone.jpg"},
		DeclaredTitle: "old camera",
	})
	assert.Error(t, err)
}

func TestOracle_Appraise_APIError(t *testing.T) {
	t.Parallel()

	srv := imageServer(t)

	ai := &mockAIClient{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, eris.New("overloaded")).Once()

	o := NewOracle(ai, OracleConfig{Model: "m"})
	_, err := o.Appraise(context.Background(), Request{
		ImageURLs:     []string{srv.URL + "/1.jpg"},
		DeclaredTitle: "old camera",
	})
	assert.Error(t, err)
}

func TestOracle_Appraise_CircuitOpen(t *testing.T) {
	t.Parallel()

	srv := imageServer(t)

	ai := &mockAIClient{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, eris.New("down")).Once()

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: 1,
		ResetTimeout:     time.Minute,
	})
	o := NewOracle(ai, OracleConfig{Model: "m", Breaker: breaker})

	req := Request{ImageURLs: []string{srv.URL + "/1.jpg"}, DeclaredTitle: "old camera"}

	_, err := o.Appraise(context.Background(), req)
	require.Error(t, err)

	// Second call is rejected by the breaker without reaching the API.
	_, err = o.Appraise(context.Background(), req)
	require.Error(t, err)
	ai.AssertNumberOfCalls(t, "CreateMessage", 1)
}

func TestParseAppraisal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		bundle  bool
		wantErr bool
	}{
		{"plain json", `{"title_real": "X", "price_estimated": 10, "confidence": "low"}`, false, false},
		{"json fence", "```json\n{\"title_real\": \"X\", \"price_estimated\": 10}\n```", false, false},
		{"bare fence", "```\n{\"title_real\": \"X\"}\n```", false, false},
		{"not json", "I cannot identify this item.", false, true},
		{"negative estimate", `{"title_real": "X", "price_estimated": -5}`, false, true},
		{"empty", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAppraisal(tt.text, tt.bundle)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseAppraisal_ConfidenceDefault(t *testing.T) {
	t.Parallel()

	v, err := parseAppraisal(`{"title_real": "X", "price_estimated": 10, "confidence": "absolutely"}`, false)
	require.NoError(t, err)
	assert.Equal(t, model.ConfidenceLow, v.Confidence)
}

func TestParseAppraisal_BundleFieldsIgnoredInSingleMode(t *testing.T) {
	t.Parallel()

	v, err := parseAppraisal(`{"title_real": "X", "price_estimated": 10, "hidden_items": ["a"], "estimated_breakup_value": 99}`, false)
	require.NoError(t, err)
	assert.False(t, v.IsBundle)
	assert.Empty(t, v.HiddenItems)
	assert.Zero(t, v.EstimatedBreakupValue)
}
