// Package upstash implements a minimal Upstash Redis REST client covering
// the GET/SET-with-expiry/DEL commands the search cache needs.
package upstash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/KeenanSylo/TreasureHunt/internal/resilience"
)

// Client talks to an Upstash Redis REST endpoint.
type Client interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttlSeconds int) error
	Del(ctx context.Context, key string) error
}

// Option configures the client.
type Option func(*httpClient)

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
	baseURL string
	token   string
	http    *http.Client
	retry   resilience.RetryConfig
}

// NewClient creates an Upstash REST client for the given endpoint and token.
func NewClient(baseURL, token string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 2 * time.Second},
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// restResult is the envelope every Upstash REST response uses.
type restResult struct {
	Result *string `json:"result"`
	Error  string  `json:"error"`
}

func (c *httpClient) Get(ctx context.Context, key string) (string, bool, error) {
	res, err := c.do(ctx, http.MethodGet, "/get/"+url.PathEscape(key), "")
	if err != nil {
		return "", false, err
	}
	if res.Result == nil {
		return "", false, nil
	}
	return *res.Result, true, nil
}

func (c *httpClient) Set(ctx context.Context, key, value string, ttlSeconds int) error {
	path := fmt.Sprintf("/set/%s?EX=%d", url.PathEscape(key), ttlSeconds)
	_, err := c.do(ctx, http.MethodPost, path, value)
	return err
}

func (c *httpClient) Del(ctx context.Context, key string) error {
	_, err := c.do(ctx, http.MethodGet, "/del/"+url.PathEscape(key), "")
	return err
}

func (c *httpClient) do(ctx context.Context, method, path, body string) (*restResult, error) {
	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*restResult, error) {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, eris.Wrap(err, "upstash: create request")
		}
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "upstash: send request")
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "upstash: read response")
		}

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("upstash: status %d: %s", resp.StatusCode, string(respBody))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		var result restResult
		if err := json.Unmarshal(respBody, &result); err != nil {
			return nil, eris.Wrap(err, "upstash: unmarshal response")
		}
		if result.Error != "" {
			return nil, eris.Errorf("upstash: command error: %s", result.Error)
		}
		return &result, nil
	})
}
