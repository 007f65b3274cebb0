// Package tonapi is a client for the TON API REST service, the secondary NFT data provider.
package tonapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/TeaDudePro/AOSNFTTMAtest/internal/models"
	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/units"
)

const (
	// DefaultBaseURL is the public TON API v2 endpoint.
	DefaultBaseURL = "https://tonapi.io/v2"
	// DefaultTimeout bounds a single REST call.
	DefaultTimeout = 15 * time.Second

	maxErrorBody = 512
)

// Client issues REST requests against TON API.
// It returns provider-native documents and does not normalize them.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	timeout time.Duration
	limiter *rate.Limiter
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithAPIKey sends the key as a bearer token.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithRateLimiter throttles outgoing calls.
func WithRateLimiter(l *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a new TON API client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AccountNFTs returns the NFTs held by an account. The same endpoint lists the
// items of a collection when given the collection address.
// Malformed items come back as nil entries.
func (c *Client) AccountNFTs(ctx context.Context, account string, limit, offset int) ([]*NFTItem, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))
	query.Set("indirect_ownership", "false")

	var resp nftItemsResponse
	if err := c.get(ctx, "/accounts/"+url.PathEscape(account)+"/nfts", query, &resp); err != nil {
		return nil, err
	}
	if resp.NFTItems == nil {
		return nil, fmt.Errorf("%w: tonapi response has no nft_items", models.ErrProviderDataInvalid)
	}
	return *resp.NFTItems, nil
}

// Account returns the account document.
func (c *Client) Account(ctx context.Context, address string) (*Account, error) {
	var account Account
	if err := c.get(ctx, "/accounts/"+url.PathEscape(address), nil, &account); err != nil {
		return nil, err
	}
	if account.Address == nil || *account.Address == "" {
		return nil, fmt.Errorf("%w: tonapi account has no address", models.ErrProviderDataInvalid)
	}
	return &account, nil
}

// Balance returns the account balance in nanotons.
func (c *Client) Balance(ctx context.Context, address string) (units.Nano, error) {
	account, err := c.Account(ctx, address)
	if err != nil {
		return "", err
	}
	if !account.Balance.IsSet() {
		return "", fmt.Errorf("%w: tonapi account has no balance", models.ErrProviderDataInvalid)
	}
	return account.Balance, nil
}

// get performs one REST call without retries.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", models.ErrProviderUnavailable, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create tonapi request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: tonapi: %v", models.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: tonapi status %d: %s", models.ErrProviderUnavailable, resp.StatusCode, string(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode tonapi response: %v", models.ErrProviderDataInvalid, err)
	}
	return nil
}
