package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-tracker/tracker/internal/model"
	"project-tracker/tracker/internal/store"
)

func newVerifiableUser(t *testing.T, s *Store, email string) model.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), model.User{Email: email, IsActive: true})
	require.NoError(t, err)
	return u
}

func TestConsumeUserChallengeSucceedsExactlyOnce(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u := newVerifiableUser(t, s, "alice@example.com")

	err := s.SetUserChallenge(ctx, u.ID, "493021", time.Now().Add(10*time.Minute))
	require.NoError(t, err)

	verified, err := s.ConsumeUserChallenge(ctx, "alice@example.com", "493021")
	require.NoError(t, err)
	assert.True(t, verified.IsOTPVerified)
	assert.Empty(t, verified.OTPCode)
	assert.Nil(t, verified.OTPExpiry)

	// The code was cleared, so replaying it is a mismatch.
	_, err = s.ConsumeUserChallenge(ctx, "alice@example.com", "493021")
	assert.ErrorIs(t, err, store.ErrCodeMismatch)
}

func TestConsumeUserChallengeUnknownEmail(t *testing.T) {
	s := NewStore()

	_, err := s.ConsumeUserChallenge(context.Background(), "ghost@example.com", "123456")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestConsumeUserChallengeMismatchLeavesStateUntouched(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u := newVerifiableUser(t, s, "bob@example.com")

	expiry := time.Now().Add(10 * time.Minute)
	require.NoError(t, s.SetUserChallenge(ctx, u.ID, "111111", expiry))

	_, err := s.ConsumeUserChallenge(ctx, "bob@example.com", "222222")
	assert.ErrorIs(t, err, store.ErrCodeMismatch)

	after, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "111111", after.OTPCode)
	require.NotNil(t, after.OTPExpiry)
	assert.WithinDuration(t, expiry, *after.OTPExpiry, time.Second)
	assert.False(t, after.IsOTPVerified)

	// The original code is still usable after the failed attempt.
	_, err = s.ConsumeUserChallenge(ctx, "bob@example.com", "111111")
	assert.NoError(t, err)
}

func TestConsumeUserChallengeExpired(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u := newVerifiableUser(t, s, "carol@example.com")

	require.NoError(t, s.SetUserChallenge(ctx, u.ID, "654321", time.Now().Add(-time.Second)))

	_, err := s.ConsumeUserChallenge(ctx, "carol@example.com", "654321")
	assert.ErrorIs(t, err, store.ErrCodeExpired)
}

func TestConsumeUserChallengeNoChallengeOutstanding(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	newVerifiableUser(t, s, "dave@example.com")

	_, err := s.ConsumeUserChallenge(ctx, "dave@example.com", "000000")
	assert.ErrorIs(t, err, store.ErrCodeMismatch)
}

func TestSetUserChallengeOverwritesStaleCode(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u := newVerifiableUser(t, s, "erin@example.com")

	require.NoError(t, s.SetUserChallenge(ctx, u.ID, "111111", time.Now().Add(10*time.Minute)))
	require.NoError(t, s.SetUserChallenge(ctx, u.ID, "222222", time.Now().Add(10*time.Minute)))

	_, err := s.ConsumeUserChallenge(ctx, "erin@example.com", "111111")
	assert.ErrorIs(t, err, store.ErrCodeMismatch)

	verified, err := s.ConsumeUserChallenge(ctx, "erin@example.com", "222222")
	require.NoError(t, err)
	assert.True(t, verified.IsOTPVerified)
}

func TestConsumeUserChallengeConcurrentSingleWinner(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u := newVerifiableUser(t, s, "race@example.com")

	require.NoError(t, s.SetUserChallenge(ctx, u.ID, "777777", time.Now().Add(10*time.Minute)))

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ConsumeUserChallenge(ctx, "race@example.com", "777777")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, store.ErrCodeMismatch)
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent verification may win")
}

func TestPurgeExpiredChallenges(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	expired := newVerifiableUser(t, s, "old@example.com")
	live := newVerifiableUser(t, s, "new@example.com")

	require.NoError(t, s.SetUserChallenge(ctx, expired.ID, "111111", time.Now().Add(-time.Hour)))
	require.NoError(t, s.SetUserChallenge(ctx, live.ID, "222222", time.Now().Add(time.Hour)))

	n, err := s.PurgeExpiredChallenges(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	gone, err := s.GetUserByID(ctx, expired.ID)
	require.NoError(t, err)
	assert.Empty(t, gone.OTPCode)
	assert.Nil(t, gone.OTPExpiry)

	kept, err := s.GetUserByID(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, "222222", kept.OTPCode)
}

func TestClearVerified(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u := newVerifiableUser(t, s, "frank@example.com")

	require.NoError(t, s.SetUserChallenge(ctx, u.ID, "333333", time.Now().Add(time.Minute)))
	_, err := s.ConsumeUserChallenge(ctx, "frank@example.com", "333333")
	require.NoError(t, err)

	require.NoError(t, s.ClearVerified(ctx, u.ID))

	after, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, after.IsOTPVerified)

	assert.ErrorIs(t, s.ClearVerified(ctx, "missing-id"), store.ErrNotFound)
}
