package bluedart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP/JSON.
type HTTPAPIClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	tokens       *TokenCache
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	c := &HTTPAPIClient{
		baseURL:      cfg.BaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	c.tokens = NewTokenCache(c.login)
	return c
}

// login calls the Blue Dart token endpoint. Credentials travel as query
// parameters; the response carries the token in a JWTToken field.
func (c *HTTPAPIClient) login(ctx context.Context) (string, error) {
	u := fmt.Sprintf("%s/token/v1/login?clientID=%s&clientSecret=%s",
		c.baseURL, url.QueryEscape(c.clientID), url.QueryEscape(c.clientSecret))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &APIError{Code: "AUTH_TRANSPORT", Description: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &APIError{
			Code:        fmt.Sprintf("AUTH_HTTP_%d", resp.StatusCode),
			Description: string(body),
		}
	}

	var login LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if login.JWTToken == "" {
		return "", &APIError{Code: "AUTH_EMPTY_TOKEN", Description: "login response carried no JWTToken"}
	}
	return login.JWTToken, nil
}

// GenerateWaybill books a shipment via the Blue Dart API.
func (c *HTTPAPIClient) GenerateWaybill(ctx context.Context, req *WaybillRequest) (*WaybillResponse, error) {
	var out WaybillResponse
	if err := c.doAuthenticated(ctx, "/waybill/v1/GenerateWayBill", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelWaybill cancels a booked shipment via the Blue Dart API.
func (c *HTTPAPIClient) CancelWaybill(ctx context.Context, req *CancelWaybillRequest) (*CancelWaybillResponse, error) {
	var out CancelWaybillResponse
	if err := c.doAuthenticated(ctx, "/waybill/v1/CancelWaybill", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doAuthenticated posts a JSON body with the cached JWT token. Blue Dart
// expects the raw token in a "JWTToken" header, not a bearer scheme.
func (c *HTTPAPIClient) doAuthenticated(ctx context.Context, path string, body, out interface{}) error {
	token, err := c.tokens.Get(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("JWTToken", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Code: "TRANSPORT", Description: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Token revoked server-side before our expiry window; drop it so the
		// next attempt logs in again.
		c.tokens.Invalidate()
	}
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

	// Blue Dart error bodies are a bare error-response array.
	var apiErrs struct {
		ErrorResponse []struct {
			ErrorCode    string `json:"error-code"`
			ErrorMessage string `json:"error-message"`
		} `json:"error-response"`
	}
	if err := json.Unmarshal(body, &apiErrs); err == nil && len(apiErrs.ErrorResponse) > 0 {
		return &APIError{
			Code:        apiErrs.ErrorResponse[0].ErrorCode,
			Description: apiErrs.ErrorResponse[0].ErrorMessage,
		}
	}

	return &APIError{
		Code:        fmt.Sprintf("HTTP_%d", resp.StatusCode),
		Description: string(body),
	}
}

var _ APIClient = (*HTTPAPIClient)(nil)
