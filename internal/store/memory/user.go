package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"project-tracker/tracker/internal/model"
	"project-tracker/tracker/internal/store"
)

func (s *Store) CreateUser(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.TrimSpace(strings.ToLower(u.Email))
	if email == "" {
		return model.User{}, errWithCode("email_required")
	}

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, email) {
			return model.User{}, store.ErrConflict
		}
	}

	now := time.Now().UTC()
	u.ID = newID()
	u.Email = email
	if strings.TrimSpace(u.Username) == "" {
		u.Username = email
	}
	u.OTPCode = ""
	u.OTPExpiry = nil
	u.IsOTPVerified = false
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Email < out[j].Email
	})
	return out, nil
}

func (s *Store) SetUserChallenge(_ context.Context, userID, code string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}

	now := time.Now().UTC()
	u.OTPCode = code
	expiry := expiresAt.UTC()
	u.OTPExpiry = &expiry
	u.UpdatedAt = now
	s.users[u.ID] = u
	return nil
}

func (s *Store) ConsumeUserChallenge(_ context.Context, email, code string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var u model.User
	found := false
	for _, candidate := range s.users {
		if strings.EqualFold(candidate.Email, email) {
			u = candidate
			found = true
			break
		}
	}
	if !found {
		return nil, store.ErrNotFound
	}

	// Exact string comparison, mismatch checked before expiry. An absent
	// code can never match a submitted one.
	if u.OTPCode == "" || u.OTPCode != code {
		return nil, store.ErrCodeMismatch
	}

	now := time.Now().UTC()
	if u.OTPExpiry == nil || !now.Before(*u.OTPExpiry) {
		return nil, store.ErrCodeExpired
	}

	u.OTPCode = ""
	u.OTPExpiry = nil
	u.IsOTPVerified = true
	u.UpdatedAt = now
	s.users[u.ID] = u
	return &u, nil
}

func (s *Store) ClearVerified(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}

	u.IsOTPVerified = false
	u.UpdatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return nil
}

// PurgeExpiredChallenges clears codes whose expiry passed before the given
// instant. Used by the background sweep in main.
func (s *Store) PurgeExpiredChallenges(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, u := range s.users {
		if u.OTPCode == "" || u.OTPExpiry == nil || !u.OTPExpiry.Before(before) {
			continue
		}
		u.OTPCode = ""
		u.OTPExpiry = nil
		u.UpdatedAt = time.Now().UTC()
		s.users[id] = u
		n++
	}
	return n, nil
}
