// Package paypal looks up checkout orders at PayPal. Only the completion
// signal and the raw order record are consumed; the provider's own state
// machine is not modelled here.
package paypal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// StatusCompleted is the only provider status this service treats as a
// successful payment.
const StatusCompleted = "COMPLETED"

// OrderResult is the provider's record of a checkout order. Raw keeps the
// unparsed response body for audit and dispute purposes.
type OrderResult struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Raw    json.RawMessage `json:"-"`
}

// Completed reports whether the provider considers the order captured.
func (o *OrderResult) Completed() bool {
	return o.Status == StatusCompleted
}

// Client talks to the PayPal Orders API using basic auth with the merchant
// client credentials.
type Client struct {
	baseURL string
	auth    string
	client  *http.Client
}

// Config holds PayPal client configuration
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// NewClient creates a new PayPal client
func NewClient(cfg Config) *Client {
	credentials := base64.StdEncoding.EncodeToString([]byte(cfg.ClientID + ":" + cfg.ClientSecret))
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		auth:    "Basic " + credentials,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// LookupOrder fetches the provider's record of a checkout order by the
// capture id asserted by the client-side payment widget.
func (c *Client) LookupOrder(ctx context.Context, captureID string) (*OrderResult, error) {
	requestURL := fmt.Sprintf("%s/v2/checkout/orders/%s", c.baseURL, captureID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.auth)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var result OrderResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	result.Raw = body

	return &result, nil
}
