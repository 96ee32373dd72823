package dtdc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP/JSON.
type HTTPAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAPIClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateConsignment uploads consignment softdata via the DTDC API.
func (c *HTTPAPIClient) CreateConsignment(ctx context.Context, req *ConsignmentRequest) (*ConsignmentResponse, error) {
	var out ConsignmentResponse
	if err := c.doRequest(ctx, "/customer/integration/consignment/softdata", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelConsignment cancels consignments via the DTDC API.
func (c *HTTPAPIClient) CancelConsignment(ctx context.Context, req *CancelConsignmentRequest) (*CancelConsignmentResponse, error) {
	var out CancelConsignmentResponse
	if err := c.doRequest(ctx, "/customer/integration/consignment/cancel", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPAPIClient) doRequest(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Code: "TRANSPORT", Description: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *HTTPAPIClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return &APIError{
			Code:        apiErr.Status,
			Description: apiErr.Message,
		}
	}

	return &APIError{
		Code:        fmt.Sprintf("HTTP_%d", resp.StatusCode),
		Description: string(body),
	}
}

var _ APIClient = (*HTTPAPIClient)(nil)
