package database

import (
	"context"
	"encoding/json"
	"fmt"

	"xrgi-portal/backend/models"
	"xrgi-portal/backend/registration"
)

// CreateRegistration stores the form and attaches the device it registers.
// An existing device keeps its status; a new one starts as pending. A device
// attached to another user's registration is left untouched and
// ErrDeviceClaimed is returned.
func (s *Store) CreateRegistration(ctx context.Context, r models.Registration, d models.Device) error {
	fb, err := json.Marshal(r.Form)
	if err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO registrations(id, user_id, xrgi_id, form) VALUES($1,$2,$3,$4::jsonb)`,
		r.ID, r.UserID, r.XRGIID, string(fb)); err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	tag, err := tx.Exec(ctx, `
        INSERT INTO devices(xrgi_id, name, model, status, site_city, site_country, registration_id, updated_at)
        VALUES($1,$2,$3,$4,$5,$6,$7,now())
        ON CONFLICT (xrgi_id) DO UPDATE SET name=EXCLUDED.name, model=EXCLUDED.model, site_city=EXCLUDED.site_city,
            site_country=EXCLUDED.site_country, registration_id=EXCLUDED.registration_id, updated_at=now()
        WHERE devices.registration_id IS NULL
           OR devices.registration_id IN (SELECT id FROM registrations WHERE user_id=$8)`,
		d.XRGIID, d.Name, d.Model, models.StatusPending, d.SiteCity, d.SiteCountry, r.ID, r.UserID)
	if err != nil {
		return fmt.Errorf("upsert device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDeviceClaimed
	}
	return tx.Commit(ctx)
}

func (s *Store) Registration(ctx context.Context, id string, userID int64) (models.Registration, error) {
	var r models.Registration
	var formText string
	err := s.pool.QueryRow(ctx, `SELECT id, user_id, xrgi_id, form::text, created_at, updated_at FROM registrations WHERE id=$1 AND user_id=$2`, id, userID).
		Scan(&r.ID, &r.UserID, &r.XRGIID, &formText, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return models.Registration{}, notFound(err)
	}
	if err := json.Unmarshal([]byte(formText), &r.Form); err != nil {
		return models.Registration{}, fmt.Errorf("decode form: %w", err)
	}
	return r, nil
}

func (s *Store) ListRegistrations(ctx context.Context, userID int64, limit, offset int) ([]models.Registration, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT id, user_id, xrgi_id, form::text, created_at, updated_at
        FROM registrations WHERE user_id=$1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()
	out := []models.Registration{}
	for rows.Next() {
		var r models.Registration
		var formText string
		if err := rows.Scan(&r.ID, &r.UserID, &r.XRGIID, &formText, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		if err := json.Unmarshal([]byte(formText), &r.Form); err != nil {
			return nil, fmt.Errorf("decode form: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) UpdateRegistrationForm(ctx context.Context, id string, userID int64, form registration.Form) error {
	fb, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE registrations SET form=$1::jsonb, updated_at=now() WHERE id=$2 AND user_id=$3`, string(fb), id, userID)
	if err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
