package core

// errors.go defines the error taxonomy shared by every component and the
// mapping from technical errors to user-facing messages.
//
// The taxonomy:
//
//	ParseError      - the uploaded file could not be read as a workbook
//	ValidationError - caller input must be corrected, never retried as-is
//	NotFoundError   - an unknown recipient id was referenced
//	TemplateError   - the template's placeholder syntax is malformed
//	DeliveryError   - an outbound send failed; recorded as status "failed"
//
// All of them carry a human-readable cause. MapError translates any error
// into a UserMessage with a support code; patterns are matched with
// strings.Contains, specific before general, ERR000 as the fallback.

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError reports an input file that could not be parsed as tabular data.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse: %s: %v", e.Message, e.Err)
	}
	return "parse: " + e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports caller input that failed a precondition.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NotFoundError reports an operation that referenced an unknown recipient.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("recipient %s not found", e.ID)
}

// TemplateError reports structurally invalid placeholder syntax.
type TemplateError struct {
	Message string
}

func (e *TemplateError) Error() string { return "template: " + e.Message }

// DeliveryError reports a failed outbound send. The recipient's status has
// already been set to "failed" (best effort) by the time it is returned.
type DeliveryError struct {
	Reason string
	Err    error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("delivery: %s: %v", e.Reason, e.Err)
	}
	return "delivery: " + e.Reason
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a technical error substring and its user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns covers infrastructure errors that do not belong to the typed
// taxonomy. Matched case-insensitively; first match wins, so specific
// patterns come before general ones.
var errorPatterns = []errorPattern{
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach a backing service",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "A backing service connection was interrupted",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Try again, or check the gateway device status",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "UPL001",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Please try again later",
			Code:    "UPL002",
		},
	},
}

// MapError converts any error into a user-facing message.
// Typed domain errors map directly; everything else goes through the
// pattern table and finally the ERR000 fallback.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{Message: "OK", Code: "OK"}
	}

	var (
		parseErr    *ParseError
		validErr    *ValidationError
		notFound    *NotFoundError
		templateErr *TemplateError
		deliveryErr *DeliveryError
	)

	switch {
	case errors.As(err, &parseErr):
		return UserMessage{
			Message: "The file could not be read as a spreadsheet",
			Action:  "Re-save the file as .xlsx and upload it again",
			Code:    "FILE001",
		}
	case errors.As(err, &validErr):
		return UserMessage{
			Message: validErr.Error(),
			Action:  "Correct the highlighted input and try again",
			Code:    "VAL001",
		}
	case errors.As(err, &notFound):
		return UserMessage{
			Message: "That recipient no longer exists",
			Action:  "Refresh the list and try again",
			Code:    "NF001",
		}
	case errors.As(err, &templateErr):
		return UserMessage{
			Message: templateErr.Message,
			Action:  "Balance the {{ and }} markers in the template",
			Code:    "TPL001",
		}
	case errors.As(err, &deliveryErr):
		return UserMessage{
			Message: "The message could not be delivered: " + deliveryErr.Reason,
			Action:  "Check the device connection and resend",
			Code:    "SND001",
		}
	}

	lower := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(lower, p.pattern) {
			return p.msg
		}
	}

	return UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Please try again or contact support",
		Code:    "ERR000",
	}
}
