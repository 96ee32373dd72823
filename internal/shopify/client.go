// Package shopify imports paid, unfulfilled Shopify orders as bookable
// shipments.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const apiVersion = "2024-01"

// Order is the subset of a Shopify Admin API order the importer consumes.
type Order struct {
	ID                int64      `json:"id"`
	OrderNumber       int        `json:"order_number"`
	FinancialStatus   string     `json:"financial_status"`
	FulfillmentStatus string     `json:"fulfillment_status"`
	TotalPrice        string     `json:"total_price"`
	Customer          Customer   `json:"customer"`
	ShippingAddress   ShipAddr   `json:"shipping_address"`
	LineItems         []LineItem `json:"line_items"`
}

// Customer is the order's customer block.
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// ShipAddr is the order's shipping address.
type ShipAddr struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Province string `json:"province"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
}

// LineItem is one order line.
type LineItem struct {
	SKU      string `json:"sku"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Grams    int    `json:"grams"`
}

// API fetches orders from the Shopify Admin REST API.
type API interface {
	ListOpenOrders(ctx context.Context) ([]Order, error)
}

// Client is the production Shopify Admin API client.
type Client struct {
	shopDomain  string
	accessToken string
	httpClient  *http.Client
}

// NewClient creates a Shopify Admin API client for one shop.
func NewClient(shopDomain, accessToken string) *Client {
	return &Client{
		shopDomain:  shopDomain,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListOpenOrders returns paid, unfulfilled orders.
func (c *Client) ListOpenOrders(ctx context.Context) ([]Order, error) {
	url := fmt.Sprintf("https://%s/admin/api/%s/orders.json?status=open&financial_status=paid&fulfillment_status=unfulfilled",
		c.shopDomain, apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating orders request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching shopify orders: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("shopify orders request failed with %d: %s", resp.StatusCode, body)
	}

	var out struct {
		Orders []Order `json:"orders"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding shopify orders: %w", err)
	}
	return out.Orders, nil
}

var _ API = (*Client)(nil)
