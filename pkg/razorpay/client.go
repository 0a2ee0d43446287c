package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/ghartak/ghartak-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://api.razorpay.com/v1"
	errorBodyReadLimit   int64 = 4096
	testKeyPrefix              = "rzp_test_"
	liveKeyPrefix              = "rzp_live_"
)

var (
	errKeyIDRequired     = errors.New("razorpay key id is required")
	errKeySecretRequired = errors.New("razorpay key secret is required")
	errKeyIDFormat       = fmt.Errorf("razorpay key id must start with %q or %q", testKeyPrefix, liveKeyPrefix)
)

// Client talks to the Razorpay Orders API with basic-auth credentials.
type Client struct {
	httpClient *http.Client
	baseURL    string
	keyID      string
	keySecret  string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient validates the credential pair up front so misconfiguration is
// caught before any remote call is attempted.
func NewClient(keyID, keySecret string, opts ...Option) (*Client, error) {
	trimmedID := strings.TrimSpace(keyID)
	if trimmedID == "" {
		return nil, errKeyIDRequired
	}
	trimmedSecret := strings.TrimSpace(keySecret)
	if trimmedSecret == "" {
		return nil, errKeySecretRequired
	}
	if !strings.HasPrefix(trimmedID, testKeyPrefix) && !strings.HasPrefix(trimmedID, liveKeyPrefix) {
		return nil, errKeyIDFormat
	}

	client := &Client{
		keyID:      trimmedID,
		keySecret:  trimmedSecret,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// KeyID returns the public key identifier handed to browser checkout.
func (c *Client) KeyID() string {
	if c == nil {
		return ""
	}
	return c.keyID
}

// KeySecret returns the server-held secret used for callback signatures.
func (c *Client) KeySecret() string {
	if c == nil {
		return ""
	}
	return c.keySecret
}

// OrderParams describes the payload sent to the orders endpoint. Amount is in
// the currency's minor unit (paise for INR).
type OrderParams struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// GatewayOrder is the provider-side transaction record referenced by the
// local order for reconciliation.
type GatewayOrder struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

// CreateOrder creates a gateway order. Authentication rejections surface as a
// distinguished upstream-auth error so the caller can auto-switch to COD;
// other provider failures carry the upstream status through.
func (c *Client) CreateOrder(ctx context.Context, params OrderParams) (*GatewayOrder, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode gateway order")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build gateway request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "call payment gateway")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, pkgerrors.New(pkgerrors.CodeUpstreamAuth, "payment gateway rejected credentials").
			WithDetails(readErrorBody(resp.Body))
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, fmt.Sprintf("payment gateway error (%d)", resp.StatusCode)).
			WithHTTPStatus(resp.StatusCode).
			WithDetails(readErrorBody(resp.Body))
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode gateway order")
	}
	return &order, nil
}

func readErrorBody(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, errorBodyReadLimit))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}
