package memory

import (
	"context"
	"strings"
	"time"

	"project-tracker/tracker/internal/model"
	"project-tracker/tracker/internal/store"
)

func (s *Store) CreateSession(_ context.Context, sess model.Session) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(sess.Token) == "" {
		return model.Session{}, errWithCode("token_required")
	}
	if _, ok := s.users[sess.UserID]; !ok {
		return model.Session{}, store.ErrNotFound
	}

	sess.CreatedAt = time.Now().UTC()
	s.sessions[sess.Token] = sess
	return sess, nil
}

func (s *Store) GetSession(_ context.Context, token string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, store.ErrNotFound
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return nil, store.ErrNotFound
	}
	return &sess, nil
}

func (s *Store) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return store.ErrNotFound
	}
	delete(s.sessions, token)
	return nil
}
