package handler

import (
	"errors"
	"fmt"
)

// DefaultMaxMessageLength is the truncation limit applied when none is
// configured: three concatenated GSM segments.
const DefaultMaxMessageLength = 459

// ErrNoRecipient marks an alert for which no destination number could be
// resolved. It is scoped to the one alert; the rest of the batch proceeds.
var ErrNoRecipient = errors.New("no recipient for alert")

// BuildMessage resolves the recipient for one alert and renders its SMS.
// Resolution order: the alert's phone label, then the configured default
// recipient, then ErrNoRecipient.
func BuildMessage(alert *Alert, cfg *Config) (OutboundMessage, error) {
	to := alert.Recipient()
	if to == "" {
		to = cfg.DefaultRecipient
	}
	if to == "" {
		return OutboundMessage{}, ErrNoRecipient
	}

	body := FormatBody(alert)
	if cfg.MessagePrefix != "" {
		body = cfg.MessagePrefix + " " + body
	}

	maxLen := cfg.MaxMessageLength
	if maxLen <= 0 {
		maxLen = DefaultMaxMessageLength
	}
	body = TruncateMessage(body, maxLen)

	return OutboundMessage{To: to, From: cfg.Sender, Body: body}, nil
}

// FormatBody renders the fixed "[status] alertname: summary" template,
// substituting "unknown" for any field the alert does not carry.
func FormatBody(alert *Alert) string {
	return fmt.Sprintf("[%s] %s: %s",
		orUnknown(alert.Status),
		orUnknown(alert.Name()),
		orUnknown(alert.GetAnnotation("summary")),
	)
}
