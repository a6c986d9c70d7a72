package model

import "time"

// User is the durable identity record keyed by email. Email is the only
// login credential substitute; there is no password field at all.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Username      string     `json:"username"`
	FirstName     string     `json:"first_name,omitempty"`
	LastName      string     `json:"last_name,omitempty"`
	OTPCode       string     `json:"-"`
	OTPExpiry     *time.Time `json:"-"`
	IsOTPVerified bool       `json:"is_otp_verified"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HasValidChallenge reports whether an outstanding code is still usable at
// the given instant. The code and expiry travel together: either both are
// set or both are absent.
func (u User) HasValidChallenge(now time.Time) bool {
	return u.OTPCode != "" && u.OTPExpiry != nil && now.Before(*u.OTPExpiry)
}

// Session is an authenticated bearer token backed by the store, created only
// after a successful code verification. Expired sessions behave as absent.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
