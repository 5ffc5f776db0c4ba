package ims

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Lovable-Leapmile/ims-robot-console/services"
)

// TokenSource supplies the operator bearer token for robot-manager requests.
// The session store implements this; requests made with an empty token fail
// with ErrNoSession before touching the network.
type TokenSource interface {
	Token() string
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// Client is the entry point for both collaborator services: the
// robot-manager REST API (business state) and the pubsub event service
// (device control and telemetry). After creation the client is immutable
// and safe for concurrent use.
type Client struct {
	baseURL     string
	pubsubURL   string
	pubsubToken string
	tokenSource TokenSource
	httpClient  *http.Client

	// Custom headers to include in all requests
	headers map[string]string

	timeout time.Duration

	// Service groups
	Auth      *services.AuthService
	Tray      *services.TrayService
	PubSub    *services.PubSubService
	Retrieval *services.RetrievalService
}

// NewClient creates a new Client with the given options
func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		baseURL:   "https://robotmanagerv1test.qikpod.com",
		pubsubURL: "https://robotmanagerv1test.qikpod.com",
		headers:   make(map[string]string),
		timeout:   30 * time.Second,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	// Apply options
	for _, opt := range opts {
		opt(client)
	}

	// Initialize services
	client.Auth = services.NewAuthService(client)
	client.Tray = services.NewTrayService(client)
	client.PubSub = services.NewPubSubService(client)
	client.Retrieval = services.NewRetrievalService(client.Tray)

	return client
}

// WithBaseURL sets a custom robot-manager base URL
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithPubSubBaseURL sets a custom pubsub service base URL
func WithPubSubBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.pubsubURL = url
	}
}

// WithPubSubToken sets the fixed bearer credential for the pubsub service
func WithPubSubToken(token string) ClientOption {
	return func(c *Client) {
		c.pubsubToken = token
	}
}

// WithTokenSource sets the source of the operator bearer token
func WithTokenSource(ts TokenSource) ClientOption {
	return func(c *Client) {
		c.tokenSource = ts
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader adds a custom header that will be included in all requests
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithHeaders adds multiple custom headers that will be included in all requests
func WithHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// GetBaseURL returns the configured robot-manager base URL
func (c *Client) GetBaseURL() string {
	return c.baseURL
}

// GetPubSubBaseURL returns the configured pubsub base URL
func (c *Client) GetPubSubBaseURL() string {
	return c.pubsubURL
}

// NewRequest creates a robot-manager request with the operator bearer token.
// Unauthenticated endpoints (login) pass through with no Authorization header
// by using NewPublicRequest instead.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if c.tokenSource == nil || c.tokenSource.Token() == "" {
		return nil, ErrNoSession
	}

	req, err := c.newRequest(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.tokenSource.Token())
	return req, nil
}

// NewPublicRequest creates a robot-manager request without authentication
func (c *Client) NewPublicRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	return c.newRequest(ctx, method, c.baseURL+path, body)
}

// NewPubSubRequest creates a pubsub request with the fixed pubsub credential
func (c *Client) NewPubSubRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := c.newRequest(ctx, method, c.pubsubURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.pubsubToken)
	return req, nil
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// Do executes an HTTP request. Requests are never retried automatically;
// callers decide what a failure means (the guard checks in the retrieval
// sequencer treat it as a non-match, everything else reports it).
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return resp, nil
}
