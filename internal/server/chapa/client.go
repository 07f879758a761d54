// Package chapa is a minimal client for the Chapa payment API: transaction
// initialization and verification.
package chapa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/travelapp/internal/common"
)

const statusSuccess = "success"

type Customization struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type InitializeRequest struct {
	Amount        string        `json:"amount"`
	Currency      string        `json:"currency"`
	Email         string        `json:"email"`
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	PhoneNumber   string        `json:"phone_number"`
	TxRef         string        `json:"tx_ref"`
	CallbackURL   string        `json:"callback_url,omitempty"`
	ReturnURL     string        `json:"return_url,omitempty"`
	Customization Customization `json:"customization"`
}

type InitializeResponse struct {
	CheckoutURL string
	// Raw is the provider body as received.
	Raw json.RawMessage
}

type VerifyResponse struct {
	// Status is the transaction status reported in data.status.
	Status string
	// Reference is the provider-side transaction id.
	Reference string
	Raw       json.RawMessage
}

// Succeeded reports whether the provider considers the transaction paid.
func (v *VerifyResponse) Succeeded() bool {
	return v.Status == statusSuccess
}

// envelope is the common shape of Chapa responses.
type envelope struct {
	Status  string          `json:"status"`
	Message json.RawMessage `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client calls the Chapa HTTP API with a bearer secret key. Failures come
// back as *common.ProviderError.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	env, raw, err := c.do(ctx, http.MethodPost, "/v1/transaction/initialize", body)
	if err != nil {
		return nil, err
	}
	if env.Status != statusSuccess {
		return nil, &common.ProviderError{
			Message: messageOr(env.Message, "Payment initiation failed"),
			Data:    decodeAny(raw),
		}
	}

	var data struct {
		CheckoutURL string `json:"checkout_url"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.CheckoutURL == "" {
		return nil, &common.ProviderError{Message: "Payment initiation failed", Data: decodeAny(raw)}
	}

	return &InitializeResponse{CheckoutURL: data.CheckoutURL, Raw: raw}, nil
}

func (c *Client) Verify(ctx context.Context, txRef string) (*VerifyResponse, error) {
	env, raw, err := c.do(ctx, http.MethodGet, "/v1/transaction/verify/"+url.PathEscape(txRef), nil)
	if err != nil {
		return nil, err
	}
	if env.Status != statusSuccess {
		return nil, &common.ProviderError{
			Message: "Verification failed",
			Detail:  messageOr(env.Message, "Unknown error"),
			Data:    decodeAny(raw),
		}
	}

	var data struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, &common.ProviderError{Message: "Verification failed", Detail: "malformed data", Data: decodeAny(raw)}
		}
	}

	return &VerifyResponse{Status: data.Status, Reference: data.Reference, Raw: raw}, nil
}

// do sends the request and decodes the envelope. A body that is not JSON,
// or a transport failure, is a provider error.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*envelope, json.RawMessage, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &common.ProviderError{Message: "payment provider unreachable: " + err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &common.ProviderError{Message: "payment provider read failed: " + err.Error()}
	}

	env := &envelope{}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, nil, &common.ProviderError{
			Message: fmt.Sprintf("payment provider returned %d with a non-JSON body", resp.StatusCode),
		}
	}
	return env, raw, nil
}

// messageOr returns the provider message as text. Chapa sends either a
// string or an object of field errors.
func messageOr(msg json.RawMessage, fallback string) string {
	if len(msg) == 0 || string(msg) == "null" {
		return fallback
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		if s == "" {
			return fallback
		}
		return s
	}
	return string(msg)
}

func decodeAny(raw json.RawMessage) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
