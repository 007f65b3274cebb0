// Package toncenter is a client for the TON Center HTTP API, the primary balance provider.
package toncenter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/TeaDudePro/AOSNFTTMAtest/internal/models"
	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/units"
)

const (
	// DefaultBaseURL is the public TON Center v2 endpoint.
	DefaultBaseURL = "https://toncenter.com/api/v2"
	// DefaultTimeout bounds a single call.
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 512
)

// AddressInformation is the result of getAddressInformation. Balance is in nanotons.
type AddressInformation struct {
	Balance units.Nano `json:"balance"`
	State   *string    `json:"state"`
}

type addressInformationResponse struct {
	OK     bool                `json:"ok"`
	Result *AddressInformation `json:"result"`
	Error  *string             `json:"error"`
}

// Client queries TON Center.
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

// WithAPIKey sends the key in the X-API-Key header.
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

// NewClient creates a new TON Center client.
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

// Balance returns the address balance in nanotons.
func (c *Client) Balance(ctx context.Context, address string) (units.Nano, error) {
	info, err := c.AddressInformation(ctx, address)
	if err != nil {
		return "", err
	}
	if !info.Balance.IsSet() {
		return "", fmt.Errorf("%w: toncenter result has no balance", models.ErrProviderDataInvalid)
	}
	return info.Balance, nil
}

// AddressInformation calls getAddressInformation once, without retries.
func (c *Client) AddressInformation(ctx context.Context, address string) (*AddressInformation, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", models.ErrProviderUnavailable, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/getAddressInformation?" + url.Values{"address": {address}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create toncenter request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: toncenter: %v", models.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: toncenter status %d: %s", models.ErrProviderUnavailable, resp.StatusCode, string(msg))
	}

	var decoded addressInformationResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode toncenter response: %v", models.ErrProviderDataInvalid, err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("%w: toncenter error: %s", models.ErrProviderDataInvalid, *decoded.Error)
	}
	if decoded.Result == nil {
		return nil, fmt.Errorf("%w: toncenter response has no result", models.ErrProviderDataInvalid)
	}
	return decoded.Result, nil
}
