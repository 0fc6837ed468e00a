package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"xrgi-portal/backend/models"
)

const uniqueViolation = "23505"

func (s *Store) CreateUser(ctx context.Context, u models.User) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `INSERT INTO users(name,company,email,password_hash) VALUES($1,$2,$3,$4) RETURNING id`,
		u.Name, u.Company, u.Email, u.PasswordHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.userWhere(ctx, `email=$1`, email)
}

func (s *Store) UserByID(ctx context.Context, id int64) (models.User, error) {
	return s.userWhere(ctx, `id=$1`, id)
}

func (s *Store) userWhere(ctx context.Context, cond string, arg any) (models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, `SELECT id, name, company, email, password_hash, created_at FROM users WHERE `+cond, arg).
		Scan(&u.ID, &u.Name, &u.Company, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return models.User{}, notFound(err)
	}
	return u, nil
}

func (s *Store) CreateResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO password_resets(token, user_id, expires_at) VALUES($1,$2,$3)`, token, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

// ResetPassword consumes token and sets the user's password hash in one transaction.
func (s *Store) ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID int64
	err = tx.QueryRow(ctx, `SELECT user_id FROM password_resets WHERE token=$1 AND used_at IS NULL AND expires_at > $2 FOR UPDATE`, token, now).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrTokenInvalid
	}
	if err != nil {
		return fmt.Errorf("lookup reset token: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE users SET password_hash=$1 WHERE id=$2`, passwordHash, userID); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE password_resets SET used_at=$1 WHERE token=$2`, now, token); err != nil {
		return fmt.Errorf("mark token used: %w", err)
	}
	return tx.Commit(ctx)
}
