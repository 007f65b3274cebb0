// Package getgems is a client for the Getgems GraphQL API, the primary NFT data provider.
package getgems

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/TeaDudePro/AOSNFTTMAtest/internal/models"
)

const (
	// DefaultEndpoint is the public Getgems GraphQL endpoint.
	DefaultEndpoint = "https://api.getgems.io/graphql"
	// DefaultTimeout bounds a single GraphQL call.
	DefaultTimeout = 15 * time.Second

	maxErrorBody = 512
)

// Client issues GraphQL queries against Getgems.
// It returns provider-native nodes and does not normalize them.
type Client struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	limiter  *rate.Limiter
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

// WithRateLimiter throttles outgoing calls.
func WithRateLimiter(l *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a new Getgems client.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		client:   &http.Client{},
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CollectionNFTs returns a page of items of the given collection.
// Malformed items come back as nil entries.
func (c *Client) CollectionNFTs(ctx context.Context, collection string, limit, offset int) ([]*NFTNode, error) {
	var data nftItemsData
	err := c.query(ctx, collectionItemsQuery, map[string]interface{}{
		"collectionAddress": collection,
		"limit":             limit,
		"offset":            offset,
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.NFTItems == nil {
		return nil, fmt.Errorf("%w: getgems response has no nftItems", models.ErrProviderDataInvalid)
	}

	nodes := make([]*NFTNode, 0, len(data.NFTItems.Edges))
	for _, e := range data.NFTItems.Edges {
		nodes = append(nodes, e.Node)
	}
	return nodes, nil
}

// NFT returns a single item by address, or ErrNotFound if Getgems does not know it.
func (c *Client) NFT(ctx context.Context, address string) (*NFTNode, error) {
	var data nftItemData
	if err := c.query(ctx, nftItemQuery, map[string]interface{}{"address": address}, &data); err != nil {
		return nil, err
	}
	if data.NFTItem == nil {
		return nil, fmt.Errorf("%w: getgems has no nft %s", models.ErrNotFound, address)
	}
	return data.NFTItem, nil
}

// Collection returns collection metadata by address, or ErrNotFound.
func (c *Client) Collection(ctx context.Context, address string) (*CollectionNode, error) {
	var data collectionData
	if err := c.query(ctx, collectionQuery, map[string]interface{}{"address": address}, &data); err != nil {
		return nil, err
	}
	if data.Collection == nil {
		return nil, fmt.Errorf("%w: getgems has no collection %s", models.ErrNotFound, address)
	}
	return data.Collection, nil
}

// query performs one GraphQL call. There are no retries: a failed call
// is reported once so the caller can move on to the next provider.
func (c *Client) query(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", models.ErrProviderUnavailable, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: getgems: %v", models.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: getgems status %d: %s", models.ErrProviderUnavailable, resp.StatusCode, string(msg))
	}

	var gqlResp gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("%w: decode getgems response: %v", models.ErrProviderDataInvalid, err)
	}

	if len(gqlResp.Errors) > 0 {
		messages := make([]string, 0, len(gqlResp.Errors))
		for _, e := range gqlResp.Errors {
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("%w: getgems errors: %s", models.ErrProviderDataInvalid, strings.Join(messages, "; "))
	}

	if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return fmt.Errorf("%w: getgems response has no data", models.ErrProviderDataInvalid)
	}

	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("%w: decode getgems data: %v", models.ErrProviderDataInvalid, err)
	}
	return nil
}
