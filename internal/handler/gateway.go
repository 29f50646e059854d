package handler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultGatewayTimeout bounds one outbound gateway call when no timeout is
// configured.
const DefaultGatewayTimeout = 10 * time.Second

// maxErrorBodySize bounds how much of a gateway error response is kept as
// the dispatch error detail.
const maxErrorBodySize = 4 << 10

// OutboundMessage is one SMS ready to hand to the gateway.
type OutboundMessage struct {
	To   string
	From string
	Body string
}

// DispatchResult is the classified outcome of a single gateway call.
// StatusCode is zero when the call failed before an HTTP response arrived.
type DispatchResult struct {
	Success     bool
	StatusCode  int
	ErrorDetail string
}

// Gateway sends one SMS per call. Each call is a single attempt; retries,
// if wanted, belong to whoever is calling the relay.
type Gateway interface {
	Send(ctx context.Context, msg OutboundMessage) DispatchResult
}

// KannelClient sends SMS via a Kannel-style HTTP sendsms endpoint: one GET
// per message with the sender, recipient and text as query parameters and
// HTTP basic auth for the gateway credentials.
type KannelClient struct {
	httpClient *http.Client
	url        string
	username   string
	password   string
	timeout    time.Duration
}

// NewKannelClient creates a KannelClient for the given sendsms URL.
// TLS verification is on unless skipTLSVerify is set; a non-positive
// timeout falls back to DefaultGatewayTimeout.
func NewKannelClient(gatewayURL, username, password string, timeout time.Duration, skipTLSVerify bool) *KannelClient {
	if timeout <= 0 {
		timeout = DefaultGatewayTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if skipTLSVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit operator opt-in
	}
	return &KannelClient{
		httpClient: &http.Client{Transport: transport},
		url:        gatewayURL,
		username:   username,
		password:   password,
		timeout:    timeout,
	}
}

// Send performs one gateway call for one message. Transport failures and
// non-2xx responses are both reported through the DispatchResult; Send
// never retries.
func (c *KannelClient) Send(ctx context.Context, msg OutboundMessage) DispatchResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return DispatchResult{ErrorDetail: fmt.Sprintf("gateway: invalid request: %v", err)}
	}

	q := req.URL.Query()
	q.Set("from", msg.From)
	q.Set("to", msg.To)
	q.Set("text", msg.Body)
	q.Set("charset", "utf-8")
	req.URL.RawQuery = q.Encode()
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return DispatchResult{ErrorDetail: fmt.Sprintf("gateway: request timed out after %s", c.timeout)}
		}
		return DispatchResult{ErrorDetail: fmt.Sprintf("gateway: request failed: %v", err)}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("gateway: failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return DispatchResult{Success: true, StatusCode: resp.StatusCode}
	}

	detail, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if readErr != nil {
		return DispatchResult{
			StatusCode:  resp.StatusCode,
			ErrorDetail: fmt.Sprintf("gateway: status %d, failed to read error response", resp.StatusCode),
		}
	}
	return DispatchResult{
		StatusCode:  resp.StatusCode,
		ErrorDetail: fmt.Sprintf("gateway: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))),
	}
}
