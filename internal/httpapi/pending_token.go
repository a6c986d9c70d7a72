package httpapi

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The pending token carries the email awaiting code entry as a signed claim,
// so verification never trusts a client-supplied email directly.

func newPendingKey(secret string) []byte {
	if secret != "" {
		return []byte(secret)
	}
	// Random per-process key when no secret is configured. Pending tokens
	// then die with the process, which is fine for a 10 minute lifetime.
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate pending token key: " + err.Error())
	}
	return b
}

func (s *Server) signPendingToken(email string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"pending_email": email,
		"exp":           time.Now().Add(ttl).Unix(),
		"iat":           time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.pendingKey)
}

func (s *Server) parsePendingToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.pendingKey, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrSignatureInvalid
	}
	email, _ := claims["pending_email"].(string)
	if email == "" {
		return "", fmt.Errorf("pending token without email claim")
	}
	return email, nil
}
