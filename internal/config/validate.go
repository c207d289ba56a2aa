package config

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks the configuration for the given run mode ("search"
// or "serve"). It collects every problem instead of stopping at the
// first one.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "search":
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Ebay.ClientID == "" {
		problems = append(problems, "ebay.client_id is required")
	}
	if c.Ebay.ClientSecret == "" {
		problems = append(problems, "ebay.client_secret is required")
	}
	if c.Anthropic.Key == "" {
		problems = append(problems, "anthropic.key is required")
	}

	if c.Search.TopK < 1 || c.Search.TopK > 20 {
		problems = append(problems, "search.top_k must be between 1 and 20")
	}
	if c.Search.Limit < 1 || c.Search.Limit > 100 {
		problems = append(problems, "search.limit must be between 1 and 100")
	}

	switch c.Cache.Driver {
	case "sqlite":
		if c.Cache.Path == "" {
			problems = append(problems, "cache.path is required for the sqlite driver")
		}
	case "upstash":
		if c.Cache.URL == "" || c.Cache.Token == "" {
			problems = append(problems, "cache.url and cache.token are required for the upstash driver")
		}
	default:
		problems = append(problems, "cache.driver must be sqlite or upstash")
	}

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			problems = append(problems, "store.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for the postgres driver")
		}
	default:
		problems = append(problems, "store.driver must be sqlite or postgres")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}
