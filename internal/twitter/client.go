// Package twitter fetches timelines from the Twitter API v2 and converts them to posts.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/lepinkainen/babble/pkg/api"
)

// DefaultBaseURL is the Twitter API host.
const DefaultBaseURL = "https://api.twitter.com"

// DefaultCacheTTL is how long account and list lookups are reused.
const DefaultCacheTTL = 24 * time.Hour

const meCacheKey = "me"

// Cache stores lookup results between runs.
type Cache interface {
	Get(key string) (string, bool, error)
	Set(key, value string, ttl time.Duration) error
	Clear() error
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL     string
	Cache       Cache
	CacheTTL    time.Duration
	RetryPolicy *api.RetryPolicy
	RateLimiter api.RateLimiter
	Logger      *slog.Logger
}

// Account is the authenticated user.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Client talks to the Twitter API on behalf of one authenticated user.
type Client struct {
	api      *api.Client
	cache    Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewClient creates a client. httpClient must authorize its requests, normally
// it comes from the auth package.
func NewClient(httpClient *http.Client, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RateLimiter == nil {
		// Timeline endpoints allow 180 requests per 15 minute window per user.
		opts.RateLimiter = api.NewWindowRateLimiter(180, 15*time.Minute)
	}

	return &Client{
		api: api.NewClient(api.ClientConfig{
			HTTPClient:  httpClient,
			BaseURL:     opts.BaseURL,
			RateLimiter: opts.RateLimiter,
			RetryPolicy: opts.RetryPolicy,
			Logger:      opts.Logger,
		}),
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		logger:   opts.Logger,
	}
}

// Verify fetches the authenticated account, bypassing the cache, and caches it.
// A rejected token is reported as api.ErrUnauthorized.
func (c *Client) Verify(ctx context.Context) (*Account, error) {
	var resp userResponse
	if err := c.api.GetJSON(ctx, "/2/users/me", url.Values{"user.fields": {"username,name"}}, &resp); err != nil {
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}

	account := &Account{ID: resp.Data.ID, Username: resp.Data.Username, Name: resp.Data.Name}
	if encoded, err := json.Marshal(account); err == nil {
		c.cacheSet(meCacheKey, string(encoded))
	}

	c.logger.Debug("Verified credentials", "username", account.Username, "id", account.ID)
	return account, nil
}

// Me returns the authenticated account, from the cache when possible.
func (c *Client) Me(ctx context.Context) (*Account, error) {
	if cached, ok := c.cacheGet(meCacheKey); ok {
		var account Account
		if err := json.Unmarshal([]byte(cached), &account); err == nil && account.ID != "" {
			return &account, nil
		}
	}
	return c.Verify(ctx)
}

// ListID finds the id of the list named name among the lists owned by ownerID.
// A missing list is reported as api.ErrNotFound.
func (c *Client) ListID(ctx context.Context, ownerID, name string) (string, error) {
	key := "list:" + ownerID + ":" + name
	if id, ok := c.cacheGet(key); ok {
		return id, nil
	}

	query := url.Values{"max_results": {"100"}, "list.fields": {"name"}}
	for {
		var resp listsResponse
		if err := c.api.GetJSON(ctx, "/2/users/"+url.PathEscape(ownerID)+"/owned_lists", query, &resp); err != nil {
			return "", fmt.Errorf("failed to fetch owned lists: %w", err)
		}

		for _, list := range resp.Data {
			if list.Name == name {
				c.cacheSet(key, list.ID)
				return list.ID, nil
			}
		}

		if resp.Meta.NextToken == "" {
			return "", fmt.Errorf("list %q: %w", name, api.ErrNotFound)
		}
		query.Set("pagination_token", resp.Meta.NextToken)
	}
}

// Forget drops every cached lookup, used when the user logs out.
func (c *Client) Forget() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Clear()
}

func (c *Client) cacheGet(key string) (string, bool) {
	if c.cache == nil {
		return "", false
	}
	value, ok, err := c.cache.Get(key)
	if err != nil {
		c.logger.Warn("Failed to read cache", "key", key, "error", err)
		return "", false
	}
	return value, ok
}

func (c *Client) cacheSet(key, value string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(key, value, c.cacheTTL); err != nil {
		c.logger.Warn("Failed to write cache", "key", key, "error", err)
	}
}
