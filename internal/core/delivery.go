package core

// delivery.go implements the send workflow and the per-recipient delivery
// status machine.
//
// States: pending (initial) -> sent | failed. "failed" is a last known
// outcome, not a dead end: a later attempt may move the recipient to "sent".
// Status never changes without an actual send attempt, and a recipient with
// no phone number fails validation before any network call.

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Messenger sends a rendered message to a normalized phone number through
// the outbound gateway credential identified by deviceID. On success it
// returns the gateway's opaque response payload.
type Messenger interface {
	Send(ctx context.Context, phone, text, deviceID string) (json.RawMessage, error)
}

// PhoneRule is the locale-specific phone normalization policy.
// Digits are kept, everything else is stripped; a number that does not
// already start with CountryCode gets it prepended after dropping a leading
// TrunkPrefix, if present.
type PhoneRule struct {
	CountryCode string // e.g. "62"
	TrunkPrefix string // e.g. "0"
}

// Normalize applies the rule to a raw phone value.
func (r PhoneRule) Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, c := range raw {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", &ValidationError{Field: "phone_number", Message: "contains no digits"}
	}
	if r.CountryCode == "" || strings.HasPrefix(digits, r.CountryCode) {
		return digits, nil
	}
	return r.CountryCode + strings.TrimPrefix(digits, r.TrunkPrefix), nil
}

// SendResult is the outcome of a successful delivery.
type SendResult struct {
	Recipient Recipient       `json:"recipient"`
	Payload   json.RawMessage `json:"data,omitempty"`
}

// Delivery coordinates renders, outbound sends, and status writes.
// Sends for distinct recipients are independent; each gets its own timeout.
type Delivery struct {
	roster    *Roster
	messenger Messenger
	rule      PhoneRule
	timeout   time.Duration
}

// NewDelivery wires the workflow. timeout bounds each individual send;
// zero means no per-send deadline beyond the caller's context.
func NewDelivery(roster *Roster, messenger Messenger, rule PhoneRule, timeout time.Duration) *Delivery {
	return &Delivery{
		roster:    roster,
		messenger: messenger,
		rule:      rule,
		timeout:   timeout,
	}
}

// Send renders the template for recipient id and delivers it via deviceID.
//
// On gateway failure the recipient is marked "failed" before the error is
// returned; that status write is best effort and never masks the send error.
// Validation failures (unknown id, empty phone) leave the status untouched.
func (d *Delivery) Send(ctx context.Context, id uuid.UUID, renderer *Renderer, deviceID string) (SendResult, error) {
	rec, err := d.roster.Get(ctx, id)
	if err != nil {
		return SendResult{}, err
	}

	if strings.TrimSpace(rec.PhoneNumber) == "" {
		return SendResult{}, &ValidationError{Field: "phone_number", Message: "recipient has no phone number"}
	}
	phone, err := d.rule.Normalize(rec.PhoneNumber)
	if err != nil {
		return SendResult{}, err
	}

	msg := renderer.RenderRecipient(rec)

	sendCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	payload, sendErr := d.messenger.Send(sendCtx, phone, msg.Full, deviceID)
	if sendErr != nil {
		if err := d.roster.setDeliveryStatus(ctx, id, StatusFailed); err != nil {
			slog.Warn("failed to record delivery failure",
				"recipient_id", id, "error", err)
		}
		rec.DeliveryStatus = StatusFailed
		return SendResult{Recipient: rec}, &DeliveryError{Reason: "gateway send failed", Err: sendErr}
	}

	if err := d.roster.setDeliveryStatus(ctx, id, StatusSent); err != nil {
		// The message went out; a stale "pending" in the list is preferable
		// to reporting a delivery failure that did not happen.
		slog.Warn("message sent but status update failed",
			"recipient_id", id, "error", err)
	}
	rec.DeliveryStatus = StatusSent

	slog.Info("message delivered",
		"recipient_id", id, "device_id", deviceID)
	return SendResult{Recipient: rec, Payload: payload}, nil
}
