package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type PGRepo struct {
	DB *sql.DB
}

// GetOrCreate upserts on phone_number. xmax is zero only for freshly inserted rows.
func (r *PGRepo) GetOrCreate(ctx context.Context, phone string) (User, bool, error) {
	const query = `
INSERT INTO users (id, phone_number, is_premium, created_at, last_active)
VALUES ($1, $2, FALSE, now(), now())
ON CONFLICT (phone_number) DO UPDATE SET last_active = now()
RETURNING id, phone_number, name, email, is_premium, created_at, last_active, (xmax = 0) AS inserted`
	var (
		user    User
		name    sql.NullString
		email   sql.NullString
		created bool
	)
	err := r.DB.QueryRowContext(ctx, query, uuid.NewString(), phone).Scan(
		&user.ID,
		&user.PhoneNumber,
		&name,
		&email,
		&user.IsPremium,
		&user.CreatedAt,
		&user.LastActive,
		&created,
	)
	if err != nil {
		return User{}, false, err
	}
	user.Name = name.String
	user.Email = email.String
	return user, created, nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, phone_number, name, email, is_premium, created_at, last_active
FROM users
WHERE id = $1
LIMIT 1`
	var user User
	var name sql.NullString
	var email sql.NullString
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.PhoneNumber,
		&name,
		&email,
		&user.IsPremium,
		&user.CreatedAt,
		&user.LastActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.Name = name.String
	user.Email = email.String
	return user, nil
}

func (r *PGRepo) SetPremium(ctx context.Context, userID string, premium bool) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET is_premium = $2 WHERE id = $1`, userID, premium)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) FillContact(ctx context.Context, userID, name, email string) error {
	const query = `
UPDATE users SET
  name = COALESCE(NULLIF(name, ''), $2),
  email = COALESCE(NULLIF(email, ''), $3)
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID, nullableString(name), nullableString(email))
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
