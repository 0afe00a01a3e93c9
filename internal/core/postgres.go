package core

// postgres.go is the production RecipientStore / TemplateStore.
//
// Every mutation is a single-row statement, so per-record atomicity comes
// from the database: a Replace writes the whole record in one UPDATE keyed
// by id. The shared template lives in app_settings under the fixed row id 1.

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// templateRowID is the singleton key for the shared template.
const templateRowID = 1

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresStore implements RecipientStore and TemplateStore on Postgres.
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore wraps a pgx pool or transaction.
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context) ([]Recipient, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, phone_number, delivery_status, created_at
		FROM names
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	defer rows.Close()

	var out []Recipient
	for rows.Next() {
		rec, err := scanRecipient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (Recipient, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, phone_number, delivery_status, created_at
		FROM names
		WHERE id = $1
	`, pgUUID(id))

	rec, err := scanRecipient(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Recipient{}, &NotFoundError{ID: id.String()}
	}
	if err != nil {
		return Recipient{}, fmt.Errorf("get recipient: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Insert(ctx context.Context, rec Recipient) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO names (id, name, phone_number, delivery_status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, pgUUID(rec.ID), rec.Name, rec.PhoneNumber, string(rec.DeliveryStatus), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert recipient: %w", err)
	}
	return nil
}

func (s *PostgresStore) Replace(ctx context.Context, rec Recipient) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE names
		SET name = $2, phone_number = $3, delivery_status = $4
		WHERE id = $1
	`, pgUUID(rec.ID), rec.Name, rec.PhoneNumber, string(rec.DeliveryStatus))
	if err != nil {
		return fmt.Errorf("replace recipient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{ID: rec.ID.String()}
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM names WHERE id = $1`, pgUUID(id))
	if err != nil {
		return fmt.Errorf("delete recipient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{ID: id.String()}
	}
	return nil
}

func (s *PostgresStore) GetTemplate(ctx context.Context) (StoredTemplate, error) {
	var (
		raw       pgtype.Text
		updatedAt pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, `
		SELECT template, updated_at FROM app_settings WHERE id = $1
	`, templateRowID).Scan(&raw, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return StoredTemplate{}, nil
	}
	if err != nil {
		return StoredTemplate{}, fmt.Errorf("get template: %w", err)
	}

	tmpl := StoredTemplate{Raw: raw.String}
	if updatedAt.Valid {
		tmpl.UpdatedAt = updatedAt.Time
	}
	return tmpl, nil
}

func (s *PostgresStore) SaveTemplate(ctx context.Context, raw string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO app_settings (id, template, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET template = EXCLUDED.template, updated_at = now()
	`, templateRowID, raw)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

// scanRecipient reads one recipient row from a pgx.Row or pgx.Rows.
func scanRecipient(row pgx.Row) (Recipient, error) {
	var (
		id        pgtype.UUID
		rec       Recipient
		status    string
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &rec.Name, &rec.PhoneNumber, &status, &createdAt); err != nil {
		return Recipient{}, err
	}
	if id.Valid {
		rec.ID = uuid.UUID(id.Bytes)
	}
	rec.DeliveryStatus = DeliveryStatus(status)
	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time
	}
	return rec, nil
}

// pgUUID converts a google/uuid value to pgx's UUID type.
func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}
