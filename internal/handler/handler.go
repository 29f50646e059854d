package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// maxBodySize is the maximum allowed request body size (5 MB).
// This prevents denial-of-service attacks via large request bodies
// while allowing for large alert batches.
const maxBodySize = 5 << 20

// Config holds the configuration for the handler
//
//nolint:govet // fieldalignment: minor optimization not worth reduced readability
type Config struct {
	GatewayURL       string        `yaml:"gateway_url"`        // Kannel sendsms endpoint
	GatewayUsername  string        `yaml:"gateway_username"`   // Gateway basic auth user
	GatewayPassword  string        `yaml:"gateway_password"`   // Gateway basic auth password
	Sender           string        `yaml:"sender"`             // Sender ID shown to SMS recipients
	DefaultRecipient string        `yaml:"default_recipient"`  // Fallback number when alerts carry no phone label
	WebhookSecret    string        `yaml:"webhook_secret"`     // If set, POST /webhook/sms requires a matching x-webhook-token header
	TLSSkipVerify    bool          `yaml:"tls_skip_verify"`    // Disable TLS verification of the gateway (default: verify)
	GatewayTimeout   time.Duration `yaml:"gateway_timeout"`    // Per-call gateway timeout (default: 10s)
	MaxMessageLength int           `yaml:"max_message_length"` // Message length before truncation (default: 459)
	MessagePrefix    string        `yaml:"message_prefix"`     // Custom prefix to prepend to all messages (optional)
	LogFormat        string        `yaml:"log_format"`         // Access log format: "simple" (default) or "nginx"
	DryRun           bool          `yaml:"dry_run"`            // If true, log messages instead of calling the gateway
}

// Validate checks that all required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if c.GatewayURL == "" {
		return fmt.Errorf("missing required configuration: GatewayURL (env KANEL_URL)")
	}
	if u, err := url.Parse(c.GatewayURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("GatewayURL %q is not a valid URL", c.GatewayURL)
	}
	if c.GatewayUsername == "" {
		return fmt.Errorf("missing required configuration: GatewayUsername (env KANEL_USER)")
	}
	if c.GatewayPassword == "" {
		return fmt.Errorf("missing required configuration: GatewayPassword (env KANEL_PASS)")
	}
	if c.Sender == "" {
		return fmt.Errorf("missing required configuration: Sender (env KANEL_SENDER)")
	}
	if c.GatewayTimeout < 0 {
		return fmt.Errorf("GatewayTimeout must be >= 0 (got %s)", c.GatewayTimeout)
	}
	if c.MaxMessageLength < 0 {
		return fmt.Errorf("MaxMessageLength must be >= 0 (got %d)", c.MaxMessageLength)
	}
	switch c.LogFormat {
	case "", "simple", "nginx":
	default:
		return fmt.Errorf("LogFormat must be \"simple\" or \"nginx\" (got %q)", c.LogFormat)
	}
	return nil
}

// Handler handles HTTP requests for the graftosms service
type Handler struct {
	Config    *Config
	Gateway   Gateway
	StartTime time.Time
	Version   string
	metrics   *Metrics
}

// New creates a new Handler with the given configuration
func New(cfg *Config, version string) *Handler {
	gw := NewKannelClient(cfg.GatewayURL, cfg.GatewayUsername, cfg.GatewayPassword, cfg.GatewayTimeout, cfg.TLSSkipVerify)
	return NewWithGateway(cfg, gw, version)
}

// NewWithGateway creates a new Handler with a custom Gateway (useful for testing)
func NewWithGateway(cfg *Config, gw Gateway, version string) *Handler {
	return &Handler{
		Config:    cfg,
		Gateway:   gw,
		StartTime: time.Now(),
		Version:   version,
		metrics:   NewMetrics(),
	}
}

// RegisterRoutes registers all HTTP routes on the given mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", h.metrics.HTTPHandler())

	var webhook http.Handler = http.HandlerFunc(h.Webhook)
	if h.Config.WebhookSecret != "" {
		webhook = RequireWebhookToken(h.Config.WebhookSecret, webhook)
	}
	mux.Handle("POST /webhook/sms", webhook)
}

// Health handles the health check endpoint. It depends on nothing: no
// configuration, no gateway reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.StartTime).Round(time.Second)
	response := HealthResponse{
		Status:  "ok",
		Version: h.Version,
		Uptime:  uptime.String(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("health: failed to encode JSON response", "error", err)
	}
}

// Webhook handles the alert webhook endpoint: it normalizes the payload and
// relays each alert as one SMS, each attempt independent of the others.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	h.metrics.WebhooksReceived.Inc()

	contentType := r.Header.Get("Content-Type")
	// Handle Content-Type case-insensitively and allow charset parameters
	// e.g., "application/json", "Application/JSON", "application/json; charset=utf-8"
	if !strings.HasPrefix(strings.ToLower(contentType), "application/json") {
		slog.Error("webhook: invalid Content-Type", "content_type", contentType)
		http.Error(w, "webhook: Content-Type must be application/json", http.StatusBadRequest)
		return
	}

	defer func() {
		if err := r.Body.Close(); err != nil {
			slog.Error("webhook: failed to close request body", "error", err)
		}
	}()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		slog.Error("webhook: failed to read request body", "error", err)
		http.Error(w, "webhook: failed to read request body", http.StatusBadRequest)
		return
	}

	alerts, err := ParsePayload(body)
	if err != nil {
		slog.Error("webhook: rejected payload", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.metrics.AlertsProcessed.Add(float64(len(alerts)))

	// One dispatch attempt per alert, all concurrent. Results are stored by
	// input index so the aggregate never depends on completion order. If the
	// caller disconnects, r.Context() cancels the in-flight gateway calls.
	results := make([]AlertResult, len(alerts))
	var wg sync.WaitGroup
	for i := range alerts {
		wg.Go(func() {
			results[i] = h.relayAlert(r.Context(), &alerts[i])
		})
	}
	wg.Wait()

	var sent, failed int
	for i := range results {
		if results[i].Sent {
			sent++
		} else {
			failed++
		}
	}

	response := WebhookResponse{
		Success: failed == 0,
		Sent:    sent,
		Failed:  failed,
		Results: results,
	}

	code := http.StatusOK
	switch {
	case failed == 0:
		// all sent (or nothing to send)
	case sent == 0:
		code = http.StatusBadGateway
	default:
		code = http.StatusMultiStatus
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("webhook: failed to encode JSON response", "error", err)
	}
}

// relayAlert formats and dispatches a single alert, converting every
// failure into the per-alert result instead of an HTTP error.
func (h *Handler) relayAlert(ctx context.Context, alert *Alert) AlertResult {
	result := AlertResult{Alertname: orUnknown(alert.Name())}

	msg, err := BuildMessage(alert, h.Config)
	if err != nil {
		slog.Warn("webhook: skipping alert", "alert", result.Alertname, "error", err)
		result.Error = err.Error()
		return result
	}
	result.Recipient = msg.To

	if h.Config.DryRun {
		slog.Info("dry-run: would send SMS", "recipient", msg.To, "body", msg.Body)
		result.Sent = true
		return result
	}

	dispatch := h.Gateway.Send(ctx, msg)
	if !dispatch.Success {
		h.metrics.SMSFailed.Inc()
		slog.Error("gateway: failed to send SMS",
			"recipient", msg.To,
			"status", dispatch.StatusCode,
			"error", dispatch.ErrorDetail,
		)
		result.Error = dispatch.ErrorDetail
		return result
	}

	h.metrics.SMSSent.Inc()
	slog.Info("SMS sent", "recipient", msg.To, "alert", result.Alertname)
	result.Sent = true
	return result
}
