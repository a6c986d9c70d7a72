package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"project-tracker/tracker/internal/model"
	"project-tracker/tracker/internal/store"
)

func (s *Store) CreateSession(ctx context.Context, sess model.Session) (model.Session, error) {
	if strings.TrimSpace(sess.Token) == "" {
		return model.Session{}, errors.New("token_required")
	}

	var out model.Session
	err := s.pool.QueryRow(ctx, `
		insert into public.sessions (token, user_id, expires_at)
		values ($1, $2::uuid, $3)
		returning token, user_id::text, expires_at, created_at
	`, sess.Token, sess.UserID, sess.ExpiresAt).Scan(
		&out.Token,
		&out.UserID,
		&out.ExpiresAt,
		&out.CreatedAt,
	)
	if err != nil {
		return model.Session{}, mapPgErr(err)
	}
	return out, nil
}

func (s *Store) GetSession(ctx context.Context, token string) (*model.Session, error) {
	var sess model.Session
	err := s.pool.QueryRow(ctx, `
		select token, user_id::text, expires_at, created_at
		from public.sessions
		where token = $1
		  and expires_at > now()
	`, token).Scan(&sess.Token, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, mapPgErr(err)
	}
	return &sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	tag, err := s.pool.Exec(ctx, `
		delete from public.sessions
		where token = $1
	`, token)
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
