// Package core provides the business logic for the mail-merge pipeline:
// the recipient roster, template rendering, and the delivery workflow.
// This package has no HTTP dependencies and can be used by any frontend.
package core

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus is the last known outcome of sending a message to a recipient.
type DeliveryStatus string

const (
	StatusPending DeliveryStatus = "pending"
	StatusSent    DeliveryStatus = "sent"
	StatusFailed  DeliveryStatus = "failed"
)

// Valid reports whether s is one of the known delivery statuses.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusSent, StatusFailed:
		return true
	}
	return false
}

// Recipient is a single roster entry. ID and CreatedAt are immutable after
// creation; Name and PhoneNumber change through Roster.Update, and
// DeliveryStatus changes only through the delivery workflow.
type Recipient struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	PhoneNumber    string         `json:"phone_number"`
	DeliveryStatus DeliveryStatus `json:"delivery_status"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Entry is one candidate recipient extracted from an uploaded spreadsheet
// or submitted for batch creation. Phone may be empty.
type Entry struct {
	Name  string
	Phone string
}

// RenderedMessage is the per-recipient output of a template render.
// It is derived on demand and never persisted.
type RenderedMessage struct {
	// Full is the placeholder-substituted text with newlines preserved.
	Full string
	// SingleLine is Full with each line trimmed, blank lines removed, and
	// the remaining lines joined by single spaces.
	SingleLine string
}

// ExportRow is one data row of the exported workbook.
type ExportRow struct {
	Name       string
	Full       string
	SingleLine string
}

// StoredTemplate is the single shared message template.
type StoredTemplate struct {
	Raw       string    `json:"template"`
	UpdatedAt time.Time `json:"updated_at"`
}
