package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"project-tracker/tracker/internal/model"
	"project-tracker/tracker/internal/store"
)

const userColumns = `id::text, email, username, coalesce(first_name, ''), coalesce(last_name, ''),
	coalesce(otp_code, ''), otp_expiry, is_otp_verified, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.OTPCode,
		&u.OTPExpiry,
		&u.IsOTPVerified,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, mapPgErr(err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	email := strings.TrimSpace(strings.ToLower(u.Email))
	if email == "" {
		return model.User{}, errors.New("email_required")
	}
	username := strings.TrimSpace(u.Username)
	if username == "" {
		username = email
	}

	out, err := scanUser(s.pool.QueryRow(ctx, `
		insert into public.users (email, username, first_name, last_name, is_active)
		values ($1, $2, nullif($3, ''), nullif($4, ''), $5)
		returning `+userColumns+`
	`, email, username, u.FirstName, u.LastName, u.IsActive))
	if err != nil {
		return model.User{}, err
	}
	return *out, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `
		select `+userColumns+`
		from public.users
		where lower(email) = lower($1)
	`, email))
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `
		select `+userColumns+`
		from public.users
		where id = $1::uuid
	`, id))
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.pool.Query(ctx, `
		select `+userColumns+`
		from public.users
		order by email asc
	`)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}

func (s *Store) SetUserChallenge(ctx context.Context, userID, code string, expiresAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		update public.users
		set otp_code = $2,
		    otp_expiry = $3,
		    updated_at = now()
		where id = $1::uuid
	`, userID, code, expiresAt.UTC())
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ConsumeUserChallenge(ctx context.Context, email, code string) (*model.User, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Row lock serializes concurrent verifications for the same identity, so
	// only the first matching caller sees the code still set.
	var u model.User
	err = tx.QueryRow(ctx, `
		select id::text, coalesce(otp_code, ''), otp_expiry
		from public.users
		where lower(email) = lower($1)
		for update
	`, email).Scan(&u.ID, &u.OTPCode, &u.OTPExpiry)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, mapPgErr(err)
	}

	if u.OTPCode == "" || u.OTPCode != code {
		return nil, store.ErrCodeMismatch
	}
	if u.OTPExpiry == nil || !time.Now().Before(*u.OTPExpiry) {
		return nil, store.ErrCodeExpired
	}

	out, err := scanUser(tx.QueryRow(ctx, `
		update public.users
		set otp_code = null,
		    otp_expiry = null,
		    is_otp_verified = true,
		    updated_at = now()
		where id = $1::uuid
		returning `+userColumns+`
	`, u.ID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapPgErr(err)
	}
	return out, nil
}

func (s *Store) ClearVerified(ctx context.Context, userID string) error {
	tag, err := s.pool.Exec(ctx, `
		update public.users
		set is_otp_verified = false,
		    updated_at = now()
		where id = $1::uuid
	`, userID)
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) PurgeExpiredChallenges(ctx context.Context, before time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		update public.users
		set otp_code = null,
		    otp_expiry = null,
		    updated_at = now()
		where otp_code is not null
		  and otp_expiry < $1
	`, before.UTC())
	if err != nil {
		return 0, mapPgErr(err)
	}
	return int(tag.RowsAffected()), nil
}
