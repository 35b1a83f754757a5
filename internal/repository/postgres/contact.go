package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/contactkeeper/internal/model"
)

var _ model.ContactStore = (*ContactRepository)(nil)

const contactColumns = `id, user_id, name, email, phone, type, created_at, updated_at`

type ContactRepository struct {
	db *Connection
}

func NewContactRepository(db *Connection) *ContactRepository {
	return &ContactRepository{
		db: db,
	}
}

func (r *ContactRepository) Create(ctx context.Context, contact model.Contact) (model.Contact, error) {
	query := `
		INSERT INTO contacts (id, user_id, name, email, phone, type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + contactColumns

	saved, err := scanContact(r.db.QueryRow(ctx, query,
		contact.ID, contact.UserID, contact.Name, contact.Email, contact.Phone, string(contact.Type),
	))
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}

	return saved, nil
}

func (r *ContactRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1
		ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]model.Contact, 0)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return contacts, nil
}

// Modify runs fn against the locked row and writes back the mutable fields
// of its result. Owner and id are never taken from fn.
func (r *ContactRepository) Modify(ctx context.Context, id uuid.UUID, fn func(current model.Contact) (model.Contact, error)) (model.Contact, error) {
	var updated model.Contact
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		current, err := lockContact(ctx, tx, id)
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		query := `
			UPDATE contacts
			SET name = $2, email = $3, phone = $4, type = $5, updated_at = NOW()
			WHERE id = $1
			RETURNING ` + contactColumns
		updated, err = scanContact(tx.QueryRow(ctx, query,
			id, next.Name, next.Email, next.Phone, string(next.Type),
		))
		return err
	})
	if err != nil {
		return model.Contact{}, err
	}

	return updated, nil
}

func (r *ContactRepository) DeleteIf(ctx context.Context, id uuid.UUID, check func(current model.Contact) error) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		current, err := lockContact(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := check(current); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete contact: %w", err)
		}
		return nil
	})
}

func lockContact(ctx context.Context, tx pgx.Tx, id uuid.UUID) (model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 FOR UPDATE`

	contact, err := scanContact(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Contact{}, model.ErrNotFound
		}
		return model.Contact{}, fmt.Errorf("failed to lock contact: %w", err)
	}

	return contact, nil
}

func scanContact(row pgx.Row) (model.Contact, error) {
	var c model.Contact
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Type,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}
