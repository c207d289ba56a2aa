package valuation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
	"github.com/KeenanSylo/TreasureHunt/internal/resilience"
	"github.com/KeenanSylo/TreasureHunt/pkg/anthropic"
)

const (
	maxImagesPerAppraisal = 3
	appraisalMaxTokens    = 1024
)

const appraiserSystemPrompt = `You are an expert product appraiser specializing in identifying specific models of secondhand items from marketplace photos.

First determine whether the item actually IS the product type suggested by the listing title. Reject accessories, parts, memorabilia, or media that merely contain the product keyword ("Lights Camera Action" trading cards are not a camera; a guitar pick variety pack is not a guitar; a watch battery is not a watch).

If the item does not match the expected category, respond with:
{"title_real": "Not a [category] - [what it actually is]", "price_estimated": 0.00, "confidence": "low", "reasoning": "why it does not match"}

If it does match, identify the specific model and brand as precisely as possible and estimate its used market value in USD. Be conservative: only answer high confidence when you are certain of the model.

Respond with ONLY valid JSON:
{"title_real": "Exact Model Name", "price_estimated": 1200.00, "confidence": "high", "reasoning": "brief explanation"}`

const bundleSystemPrompt = `You are an expert product appraiser specializing in multi-item lots and bundles from secondhand marketplaces.

Examine the photos for individually valuable items hidden inside the lot. For each one, estimate its used market value in USD. Be conservative and only list items you can actually identify in the images.

Respond with ONLY valid JSON:
{"title_real": "what the lot actually contains", "price_estimated": 0.00, "confidence": "medium", "reasoning": "brief explanation", "hidden_items": ["Item description: $120", "Other item: $40"], "estimated_breakup_value": 160.00}`

// OracleConfig configures the vision appraisal oracle.
type OracleConfig struct {
	Model        string
	ImageTimeout time.Duration
	// Breaker lets a dead oracle fail fast instead of timing out per item.
	Breaker *resilience.CircuitBreaker
}

// Oracle appraises listings with Claude vision. Malformed model output is
// surfaced as an error so callers fall back rather than crash.
type Oracle struct {
	ai      anthropic.Client
	http    *http.Client
	model   string
	breaker *resilience.CircuitBreaker
}

// NewOracle creates a vision appraisal oracle.
func NewOracle(ai anthropic.Client, cfg OracleConfig) *Oracle {
	timeout := cfg.ImageTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Oracle{
		ai:      ai,
		http:    &http.Client{Timeout: timeout},
		model:   cfg.Model,
		breaker: cfg.Breaker,
	}
}

// Appraise downloads the listing images and asks the model for an
// identification and estimate. It errors when no image can be fetched, the
// API call fails, or the output cannot be parsed.
func (o *Oracle) Appraise(ctx context.Context, req Request) (model.Valuation, error) {
	images := o.fetchImages(ctx, req.ImageURLs)
	if len(images) == 0 {
		return model.Valuation{}, eris.New("oracle: no images available for appraisal")
	}

	system := appraiserSystemPrompt
	if req.Bundle {
		system = bundleSystemPrompt
	}

	msgReq := anthropic.MessageRequest{
		Model:     o.model,
		MaxTokens: appraisalMaxTokens,
		System:    anthropic.BuildCachedSystemBlocks(system),
		Messages: []anthropic.Message{{
			Role:    "user",
			Content: buildAppraisalPrompt(req),
			Images:  images,
		}},
	}

	call := func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return o.ai.CreateMessage(ctx, msgReq)
	}

	var resp *anthropic.MessageResponse
	var err error
	if o.breaker != nil {
		resp, err = resilience.ExecuteVal(ctx, o.breaker, call)
	} else {
		resp, err = call(ctx)
	}
	if err != nil {
		return model.Valuation{}, eris.Wrap(err, "oracle: appraisal call")
	}
	resp.Usage.LogCost(o.model, "appraise")

	return parseAppraisal(resp.Text(), req.Bundle)
}

func buildAppraisalPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The seller listed this item as: %q\n", req.DeclaredTitle)
	if req.ListedPrice > 0 {
		fmt.Fprintf(&b, "Listed price: $%.2f\n", req.ListedPrice)
	}
	if req.CategoryHint != "" {
		fmt.Fprintf(&b, "Expected product category: %s\n", req.CategoryHint)
	}
	return b.String()
}

// fetchImages downloads up to maxImagesPerAppraisal listing photos. A failed
// download skips that image, never the appraisal.
func (o *Oracle) fetchImages(ctx context.Context, urls []string) []anthropic.Image {
	if len(urls) > maxImagesPerAppraisal {
		urls = urls[:maxImagesPerAppraisal]
	}

	var images []anthropic.Image
	for _, u := range urls {
		img, err := o.fetchImage(ctx, u)
		if err != nil {
			zap.L().Warn("image download failed",
				zap.String("url", u),
				zap.Error(err),
			)
			continue
		}
		images = append(images, img)
	}
	return images
}

func (o *Oracle) fetchImage(ctx context.Context, url string) (anthropic.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return anthropic.Image{}, eris.Wrap(err, "oracle: create image request")
	}

	resp, err := o.http.Do(req)
	if err != nil {
		return anthropic.Image{}, eris.Wrap(err, "oracle: fetch image")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return anthropic.Image{}, eris.Errorf("oracle: image fetch status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return anthropic.Image{}, eris.Wrap(err, "oracle: read image body")
	}

	mediaType := resp.Header.Get("Content-Type")
	if mediaType == "" || !strings.HasPrefix(mediaType, "image/") {
		mediaType = "image/jpeg"
	}
	return anthropic.Image{MediaType: mediaType, Data: data}, nil
}

// appraisalPayload mirrors the JSON shape the prompt demands.
type appraisalPayload struct {
	TitleReal             string   `json:"title_real"`
	PriceEstimated        float64  `json:"price_estimated"`
	Confidence            string   `json:"confidence"`
	Reasoning             string   `json:"reasoning"`
	HiddenItems           []string `json:"hidden_items"`
	EstimatedBreakupValue float64  `json:"estimated_breakup_value"`
}

// parseAppraisal extracts the valuation JSON from model output, tolerating
// markdown code fences. Anything unparseable is an error, not a panic.
func parseAppraisal(text string, bundle bool) (model.Valuation, error) {
	cleaned := stripCodeFence(text)

	var payload appraisalPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return model.Valuation{}, eris.Wrapf(err, "oracle: malformed appraisal output: %.120s", cleaned)
	}
	if payload.PriceEstimated < 0 || payload.EstimatedBreakupValue < 0 {
		return model.Valuation{}, eris.New("oracle: negative estimate in appraisal output")
	}

	v := model.Valuation{
		RealTitle:      payload.TitleReal,
		EstimatedPrice: payload.PriceEstimated,
		Confidence:     model.ParseConfidence(payload.Confidence),
		Reasoning:      payload.Reasoning,
	}
	if bundle {
		v.IsBundle = true
		v.HiddenItems = payload.HiddenItems
		v.EstimatedBreakupValue = payload.EstimatedBreakupValue
	}
	return v, nil
}

// stripCodeFence unwraps ```json ... ``` fences models sometimes add.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
	} else {
		return text
	}
	if end := strings.Index(text, "```"); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSpace(text)
}
