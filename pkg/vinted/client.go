// Package vinted implements a minimal Vinted catalog search client. Vinted
// has no public API; searches ride on the web catalog endpoint and need a
// session cookie obtained from the landing page.
package vinted

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/KeenanSylo/TreasureHunt/internal/resilience"
)

const defaultDomain = "com"

// Client performs catalog searches against Vinted.
type Client interface {
	Search(ctx context.Context, req SearchRequest) ([]Item, error)
}

// SearchRequest describes one catalog search.
type SearchRequest struct {
	Query    string
	MaxPrice int
	Limit    int
}

// Item is one catalog entry as returned by the Vinted API.
type Item struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Price      Price  `json:"price"`
	Photo      *Photo `json:"photo,omitempty"`
	URL        string `json:"url"`
	BrandTitle string `json:"brand_title"`
	User       *User  `json:"user,omitempty"`
}

// Price is Vinted's amount-as-string price representation.
type Price struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

// Value parses the amount, returning 0 when absent or malformed.
func (p Price) Value() float64 {
	v, err := strconv.ParseFloat(p.Amount, 64)
	if err != nil {
		return 0
	}
	return v
}

// Photo holds listing photo URLs.
type Photo struct {
	URL         string `json:"url"`
	FullSizeURL string `json:"full_size_url"`
}

// BestURL prefers the full-size photo.
func (p *Photo) BestURL() string {
	if p == nil {
		return ""
	}
	if p.FullSizeURL != "" {
		return p.FullSizeURL
	}
	return p.URL
}

// User identifies the seller.
type User struct {
	Login string `json:"login"`
}

// MarketURL returns the public listing URL, deriving one from the item ID
// when the API omits it.
func (i Item) MarketURL(domain string) string {
	if i.URL != "" {
		return i.URL
	}
	return fmt.Sprintf("https://www.vinted.%s/items/%d", domain, i.ID)
}

type catalogResponse struct {
	Items []Item `json:"items"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the derived base URL (tests).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithDomain selects the Vinted country domain ("com", "co.uk", "fr", ...).
func WithDomain(domain string) Option {
	return func(c *httpClient) {
		c.domain = domain
		c.baseURL = "https://www.vinted." + domain
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRetryConfig overrides the default retry behavior.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	domain  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig

	mu      sync.Mutex
	session string
}

// NewClient creates a Vinted catalog client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		domain:  defaultDomain,
		baseURL: "https://www.vinted." + defaultDomain,
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(2), 2),
		retry:   resilience.DefaultRetryConfig(),
	}
	c.retry.OnRetry = resilience.RetryLogger("vinted", "search")
	for _, o := range opts {
		o(c)
	}
	return c
}

// Domain returns the configured country domain.
func (c *httpClient) Domain() string {
	return c.domain
}

func (c *httpClient) Search(ctx context.Context, req SearchRequest) ([]Item, error) {
	session, err := c.sessionCookie(ctx)
	if err != nil {
		// Some catalog deployments answer without a cookie; try anyway.
		session = ""
	}

	params := url.Values{}
	params.Set("page", "1")
	params.Set("per_page", strconv.Itoa(req.Limit))
	params.Set("search_text", req.Query)
	params.Set("price_to", strconv.Itoa(req.MaxPrice))
	params.Set("order", "newest_first")

	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]Item, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "vinted: rate limit wait")
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.baseURL+"/api/v2/catalog/items?"+params.Encode(), nil)
		if err != nil {
			return nil, eris.Wrap(err, "vinted: create search request")
		}
		httpReq.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
		httpReq.Header.Set("Accept", "application/json")
		if session != "" {
			httpReq.Header.Set("Cookie", session)
		}

		resp, err := c.http.Do(httpReq)
		if err != nil {
			return nil, eris.Wrap(err, "vinted: send search request")
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "vinted: read search response")
		}

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("vinted: search status %d", resp.StatusCode)
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		var result catalogResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, eris.Wrap(err, "vinted: unmarshal search response")
		}
		return result.Items, nil
	})
}

// sessionCookie fetches and caches the anonymous session cookie from the
// landing page.
func (c *httpClient) sessionCookie(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != "" {
		return c.session, nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "vinted: create session request")
	}
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", eris.Wrap(err, "vinted: fetch session")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("vinted: session status %d", resp.StatusCode)
	}

	var cookie string
	for _, ck := range resp.Cookies() {
		if cookie != "" {
			cookie += "; "
		}
		cookie += ck.Name + "=" + ck.Value
	}
	if cookie == "" {
		return "", eris.New("vinted: no session cookie issued")
	}

	c.session = cookie
	return c.session, nil
}
