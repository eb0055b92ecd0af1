package gateway

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// RefundResult is the gateway's confirmation of a processed refund.
type RefundResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Client calls the payment provider's refund endpoint. Request signing
// follows the provider's merchant-credential scheme: an md5 over the
// colon-joined request fields and the merchant password.
type Client struct {
	merchantLogin string
	password      string
	baseURL       string
	http          *http.Client
	loggerf       func(format string, args ...interface{})
}

func NewClient(loggerf func(format string, args ...interface{})) *Client {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Client{
		merchantLogin: os.Getenv("GATEWAY_MERCHANT_LOGIN"),
		password:      os.Getenv("GATEWAY_PASSWORD"),
		baseURL:       envOrDefault("GATEWAY_REFUND_URL", "https://gateway.example.com/merchant/refund"),
		http:          &http.Client{Timeout: 15 * time.Second},
		loggerf:       loggerf,
	}
}

// NewClientWith builds a client against an explicit endpoint. Used by the
// tests and by deployments that configure programmatically.
func NewClientWith(baseURL, merchantLogin, password string, loggerf func(format string, args ...interface{})) *Client {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Client{
		merchantLogin: merchantLogin,
		password:      password,
		baseURL:       baseURL,
		http:          &http.Client{Timeout: 15 * time.Second},
		loggerf:       loggerf,
	}
}

type refundResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Refund asks the gateway to return amountMinor to the payer of paymentRef.
// Error classification: network/timeout/5xx -> *TransientError (caller may
// retry), an explicit rejection -> *DeclinedError (terminal).
func (c *Client) Refund(ctx context.Context, paymentRef string, amountMinor int64) (*RefundResult, error) {
	if c.merchantLogin == "" || c.password == "" {
		return nil, fmt.Errorf("gateway credentials are not configured")
	}

	form := url.Values{}
	form.Set("MerchantLogin", c.merchantLogin)
	form.Set("PaymentRef", paymentRef)
	form.Set("Amount", strconv.FormatInt(amountMinor, 10))
	form.Set("SignatureValue", c.refundSignature(paymentRef, amountMinor))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		c.loggerf("level=error msg=gateway refund request failed payment_ref=%s err=%v", paymentRef, err)
		return nil, &TransientError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		c.loggerf("level=error msg=gateway refund 5xx payment_ref=%s status=%d", paymentRef, resp.StatusCode)
		return nil, &TransientError{Err: fmt.Errorf("gateway returned status %d", resp.StatusCode)}
	}

	var body refundResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &TransientError{Err: fmt.Errorf("decode gateway response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK || strings.EqualFold(body.Status, "declined") {
		c.loggerf("level=info msg=gateway declined refund payment_ref=%s code=%s", paymentRef, body.ErrorCode)
		return nil, &DeclinedError{Code: body.ErrorCode, Message: body.ErrorMessage}
	}

	return &RefundResult{ID: body.ID, Status: body.Status}, nil
}

func (c *Client) refundSignature(paymentRef string, amountMinor int64) string {
	parts := []string{c.merchantLogin, paymentRef, strconv.FormatInt(amountMinor, 10), c.password}
	sum := md5.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
