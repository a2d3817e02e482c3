package berth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the Berth API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// NewClient creates a new Berth API client.
//
// Parameters:
//   - baseURL: The API base URL (e.g., "https://api.example.com")
//   - token: The operator access token
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckAvailability reports whether the pool currently has assignable ports.
func (c *Client) CheckAvailability(ctx context.Context) (*Availability, error) {
	url := fmt.Sprintf("%s/availability", c.baseURL)

	var availability Availability
	if err := c.doRequest(ctx, http.MethodGet, url, nil, &availability); err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	return &availability, nil
}

// ListAvailablePorts retrieves the current allocation candidates.
func (c *Client) ListAvailablePorts(ctx context.Context, limit int) ([]Port, error) {
	url := fmt.Sprintf("%s/allocations/available-ports?limit=%d", c.baseURL, limit)

	var ports []Port
	if err := c.doRequest(ctx, http.MethodGet, url, nil, &ports); err != nil {
		return nil, fmt.Errorf("list available ports: %w", err)
	}
	return ports, nil
}

// GetPort retrieves a single port by its public ID.
func (c *Client) GetPort(ctx context.Context, portID string) (*Port, error) {
	url := fmt.Sprintf("%s/ports/%s", c.baseURL, portID)

	var port Port
	if err := c.doRequest(ctx, http.MethodGet, url, nil, &port); err != nil {
		return nil, fmt.Errorf("get port: %w", err)
	}
	return &port, nil
}

// AllocatePort requests a port allocation for the given subscription.
func (c *Client) AllocatePort(ctx context.Context, subscriptionID string) (*AllocationResult, error) {
	url := fmt.Sprintf("%s/subscriptions/%s/allocate", c.baseURL, subscriptionID)

	var result AllocationResult
	if err := c.doRequest(ctx, http.MethodPost, url, nil, &result); err != nil {
		return nil, fmt.Errorf("allocate port: %w", err)
	}
	return &result, nil
}

// ReleasePort releases a port back to the available pool.
func (c *Client) ReleasePort(ctx context.Context, portID, reason string) (*ReleaseResult, error) {
	url := fmt.Sprintf("%s/ports/%s/release", c.baseURL, portID)

	var body any
	if reason != "" {
		body = map[string]string{"reason": reason}
	}

	var result ReleaseResult
	if err := c.doRequest(ctx, http.MethodPost, url, body, &result); err != nil {
		return nil, fmt.Errorf("release port: %w", err)
	}
	return &result, nil
}

// ReassignPort moves a port to another subscription.
func (c *Client) ReassignPort(ctx context.Context, portID, subscriptionID string) (*ReassignResult, error) {
	url := fmt.Sprintf("%s/ports/%s/reassign", c.baseURL, portID)

	body := map[string]string{"subscription_id": subscriptionID}

	var result ReassignResult
	if err := c.doRequest(ctx, http.MethodPost, url, body, &result); err != nil {
		return nil, fmt.Errorf("reassign port: %w", err)
	}
	return &result, nil
}

// GetSubscription retrieves a subscription by its public ID.
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	url := fmt.Sprintf("%s/subscriptions/%s", c.baseURL, subscriptionID)

	var wrapper struct {
		Subscription *Subscription `json:"subscription"`
	}
	if err := c.doRequest(ctx, http.MethodGet, url, nil, &wrapper); err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return wrapper.Subscription, nil
}

// doRequest performs an HTTP request and decodes the response.
func (c *Client) doRequest(ctx context.Context, method, url string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("api error: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	if result == nil {
		return nil
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if !apiResp.Success {
		return fmt.Errorf("api error: %s", apiResp.Message)
	}

	if apiResp.Data == nil {
		return nil
	}

	// Re-marshal and unmarshal to convert Data to the target type
	dataBytes, err := json.Marshal(apiResp.Data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	if err := json.Unmarshal(dataBytes, result); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}

	return nil
}
