// Package wa talks to the outbound WhatsApp gateway. It offers two
// independent capabilities: an authenticated API send through a registered
// device credential (Client), and a prefilled chat link for manual sharing
// (ShareLink). Callers choose one explicitly; neither implies the other.
package wa

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
)

// maxErrorBody caps how much of a gateway error response ends up in the
// returned error message.
const maxErrorBody = 512

// Client is the HTTP client for the gateway's send-text-message endpoint.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient builds a gateway client. timeout bounds each request on top of
// whatever deadline the caller's context carries.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type sendRequest struct {
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
}

// Send posts the message to the gateway using the credential identified by
// deviceID. On success it returns the gateway's response body verbatim; the
// payload shape is the gateway's business, not ours.
func (c *Client) Send(ctx context.Context, phone, text, deviceID string) (json.RawMessage, error) {
	body, err := json.Marshal(sendRequest{PhoneNumber: phone, Message: text})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/send-text-message?cred_id=%s", c.baseURL, url.QueryEscape(deviceID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, truncate(respBody, maxErrorBody))
	}

	return json.RawMessage(respBody), nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
