// Package ebay implements a minimal eBay Browse API client: OAuth2
// client-credentials auth with token caching, plus item summary search.
package ebay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/KeenanSylo/TreasureHunt/internal/resilience"
)

const (
	defaultBaseURL = "https://api.ebay.com"
	// Refresh the token five minutes before it actually expires.
	tokenExpiryMargin = 5 * time.Minute
)

// Client performs searches against the eBay Browse API.
type Client interface {
	Search(ctx context.Context, req SearchRequest) ([]Item, error)
}

// SearchRequest describes one item summary search.
type SearchRequest struct {
	Query    string
	MaxPrice int
	Limit    int
}

// Item is one item summary as returned by the Browse API.
type Item struct {
	ItemID          string  `json:"itemId"`
	Title           string  `json:"title"`
	Price           Price   `json:"price"`
	Image           *Image  `json:"image,omitempty"`
	ThumbnailImages []Image `json:"thumbnailImages,omitempty"`
	ItemWebURL      string  `json:"itemWebUrl"`
	Condition       string  `json:"condition"`
	Seller          Seller  `json:"seller"`
}

// Price is the API's decimal-as-string price representation.
type Price struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Amount parses the price value, returning 0 when absent or malformed.
func (p Price) Amount() float64 {
	v, err := strconv.ParseFloat(p.Value, 64)
	if err != nil {
		return 0
	}
	return v
}

// Image holds one listing photo URL.
type Image struct {
	ImageURL string `json:"imageUrl"`
}

// ImageURL returns the best available photo URL for an item.
func (i Item) ImageURL() string {
	if i.Image != nil && i.Image.ImageURL != "" {
		return i.Image.ImageURL
	}
	if len(i.ThumbnailImages) > 0 {
		return i.ThumbnailImages[0].ImageURL
	}
	return ""
}

// Seller identifies the listing seller.
type Seller struct {
	Username string `json:"username"`
}

type searchResponse struct {
	ItemSummaries []Item `json:"itemSummaries"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outgoing request rate.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetryConfig overrides the default retry behavior.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	appID   string
	certID  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates an eBay Browse API client.
func NewClient(appID, certID string, opts ...Option) Client {
	c := &httpClient{
		appID:   appID,
		certID:  certID,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
		retry:   resilience.DefaultRetryConfig(),
	}
	c.retry.OnRetry = resilience.RetryLogger("ebay", "search")
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, req SearchRequest) ([]Item, error) {
	token, err := c.oauthToken(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("limit", strconv.Itoa(req.Limit))
	params.Set("filter", fmt.Sprintf("price:[..%d],priceCurrency:USD,conditions:{USED}", req.MaxPrice))
	params.Set("sort", "price")

	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]Item, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "ebay: rate limit wait")
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.baseURL+"/buy/browse/v1/item_summary/search?"+params.Encode(), nil)
		if err != nil {
			return nil, eris.Wrap(err, "ebay: create search request")
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
		httpReq.Header.Set("X-EBAY-C-MARKETPLACE-ID", "EBAY_US")

		resp, err := c.http.Do(httpReq)
		if err != nil {
			return nil, eris.Wrap(err, "ebay: send search request")
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "ebay: read search response")
		}

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("ebay: search status %d: %s", resp.StatusCode, string(body))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		var result searchResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, eris.Wrap(err, "ebay: unmarshal search response")
		}
		return result.ItemSummaries, nil
	})
}

// oauthToken returns a cached application token, minting a new one via the
// client-credentials grant when missing or near expiry.
func (c *httpClient) oauthToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	creds := base64.StdEncoding.EncodeToString([]byte(c.appID + ":" + c.certID))
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "https://api.ebay.com/oauth/api_scope")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/identity/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", eris.Wrap(err, "ebay: create token request")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Basic "+creds)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", eris.Wrap(err, "ebay: send token request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "ebay: read token response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("ebay: token status %d: %s", resp.StatusCode, string(body))
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", eris.Wrap(err, "ebay: unmarshal token response")
	}
	if tok.AccessToken == "" {
		return "", eris.New("ebay: empty access token")
	}

	c.token = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenExpiryMargin)
	return c.token, nil
}
