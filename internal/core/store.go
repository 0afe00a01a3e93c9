package core

import (
	"context"

	"github.com/google/uuid"
)

// RecipientStore is the persistence contract for the roster.
//
// Implementations must apply Replace and Delete atomically with respect to a
// single record (a whole-record write guarded by the id) so that two
// concurrent mutations of the same recipient cannot interleave field-by-field.
// List may return a snapshot that is one mutation stale.
type RecipientStore interface {
	// List returns all recipients, most recently created first.
	List(ctx context.Context) ([]Recipient, error)
	// Get returns the recipient with the given id, or a NotFoundError.
	Get(ctx context.Context, id uuid.UUID) (Recipient, error)
	// Insert adds a new recipient record.
	Insert(ctx context.Context, rec Recipient) error
	// Replace overwrites the whole record identified by rec.ID,
	// or returns a NotFoundError if it no longer exists.
	Replace(ctx context.Context, rec Recipient) error
	// Delete removes the record, or returns a NotFoundError.
	Delete(ctx context.Context, id uuid.UUID) error
}

// TemplateStore persists the single shared message template.
type TemplateStore interface {
	// GetTemplate returns the stored template. A never-saved template is not
	// an error; it comes back with an empty Raw.
	GetTemplate(ctx context.Context) (StoredTemplate, error)
	// SaveTemplate upserts the template text and refreshes its timestamp.
	SaveTemplate(ctx context.Context, raw string) error
}
