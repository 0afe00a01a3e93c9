package core

// roster.go implements the authoritative recipient collection.
//
// The Roster owns all mutations; callers hold transient copies only. Every
// new recipient starts with status "pending", and status changes flow
// exclusively through the delivery workflow (see delivery.go), which is why
// setDeliveryStatus is unexported.

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Roster provides CRUD, search, and status bookkeeping over a RecipientStore.
type Roster struct {
	store RecipientStore

	// Overridable for deterministic tests.
	now   func() time.Time
	newID func() uuid.UUID
}

// NewRoster creates a roster backed by the given store.
func NewRoster(store RecipientStore) *Roster {
	return &Roster{
		store: store,
		now:   time.Now,
		newID: uuid.New,
	}
}

// List returns every recipient, most recently created first.
func (r *Roster) List(ctx context.Context) ([]Recipient, error) {
	return r.store.List(ctx)
}

// Get returns a single recipient by id.
func (r *Roster) Get(ctx context.Context, id uuid.UUID) (Recipient, error) {
	return r.store.Get(ctx, id)
}

// Add creates a recipient with a fresh id and pending status.
// The name is trimmed and must not be empty; the phone is trimmed and may be.
func (r *Roster) Add(ctx context.Context, name, phone string) (Recipient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Recipient{}, &ValidationError{Field: "name", Message: "cannot be empty"}
	}

	rec := Recipient{
		ID:             r.newID(),
		Name:           name,
		PhoneNumber:    strings.TrimSpace(phone),
		DeliveryStatus: StatusPending,
		CreatedAt:      r.now().UTC(),
	}
	if err := r.store.Insert(ctx, rec); err != nil {
		return Recipient{}, err
	}
	return rec, nil
}

// BatchResult reports the outcome of AddBatch. Entries that failed
// validation are counted as skipped; the caller decides how to present
// partial success.
type BatchResult struct {
	Added   []Recipient `json:"added"`
	Skipped int         `json:"skipped"`
}

// AddBatch applies Add to each entry in order. It is not atomic: a failing
// entry does not roll back earlier successes. Blank-name entries are skipped;
// a storage failure stops the batch and returns the partial result.
func (r *Roster) AddBatch(ctx context.Context, entries []Entry) (BatchResult, error) {
	result := BatchResult{Added: make([]Recipient, 0, len(entries))}
	for _, e := range entries {
		rec, err := r.Add(ctx, e.Name, e.Phone)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				result.Skipped++
				continue
			}
			return result, err
		}
		result.Added = append(result.Added, rec)
	}
	slog.Debug("batch import applied", "added", len(result.Added), "skipped", result.Skipped)
	return result, nil
}

// UpdateParams holds the optional fields of an update. Nil means unchanged.
type UpdateParams struct {
	Name  *string
	Phone *string
}

// Update applies a partial edit to name and/or phone. The id, creation time,
// and delivery status are never touched. The stored record is left unchanged
// when validation fails.
func (r *Roster) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Recipient, error) {
	rec, err := r.store.Get(ctx, id)
	if err != nil {
		return Recipient{}, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return Recipient{}, &ValidationError{Field: "name", Message: "cannot be empty"}
		}
		rec.Name = name
	}
	if params.Phone != nil {
		rec.PhoneNumber = strings.TrimSpace(*params.Phone)
	}

	if err := r.store.Replace(ctx, rec); err != nil {
		return Recipient{}, err
	}
	return rec, nil
}

// Delete removes a recipient. Unknown ids fail with a NotFoundError.
func (r *Roster) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, id)
}

// Search returns recipients whose name contains query, case-insensitively.
// An empty query returns the full list. Ordering matches List.
func (r *Roster) Search(ctx context.Context, query string) ([]Recipient, error) {
	all, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all, nil
	}

	matched := make([]Recipient, 0, len(all))
	for _, rec := range all {
		if strings.Contains(strings.ToLower(rec.Name), query) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

// setDeliveryStatus records the outcome of a send attempt. It is internal to
// the delivery workflow; there is no public way to mutate status directly.
func (r *Roster) setDeliveryStatus(ctx context.Context, id uuid.UUID, status DeliveryStatus) error {
	rec, err := r.store.Get(ctx, id)
	if err != nil {
		return err
	}
	rec.DeliveryStatus = status
	return r.store.Replace(ctx, rec)
}
