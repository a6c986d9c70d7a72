package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"project-tracker/tracker/internal/model"
	"project-tracker/tracker/internal/otp"
	"project-tracker/tracker/internal/store"
)

type otpRequestRequest struct {
	Email string `json:"email"`
}

type otpRequestResponse struct {
	Status       string `json:"status"`
	PendingToken string `json:"pending_token"`
}

type otpVerifyRequest struct {
	PendingToken string `json:"pending_token"`
	OTPCode      string `json:"otp_code"`
}

type otpVerifyResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// invalidCodeMessage is shared by mismatch, expiry and unknown-email
// failures so the response never reveals which one happened.
const invalidCodeMessage = "invalid or expired code"

func newSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *Server) otpValidity() time.Duration {
	return time.Duration(s.cfg.OTPValidityMinutes) * time.Minute
}

func (s *Server) handleOTPRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST only")
		return
	}

	var req otpRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "email is required")
		return
	}

	validity := s.otpValidity()

	// The pending token is issued whether or not the email maps to a user,
	// so an unknown address gets the same outward response as a known one.
	pendingToken, err := s.signPendingToken(email, validity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to issue pending token")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), email)
	if err != nil || !user.IsActive {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "internal", "failed to look up user")
			return
		}
		// Unknown or inactive: no challenge is issued and no mail goes out.
		log.Printf("[auth] otp request for %s ignored", email)
		writeJSON(w, http.StatusOK, otpRequestResponse{Status: "sent", PendingToken: pendingToken})
		return
	}

	code, err := otp.Generate(s.cfg.OTPCodeLength)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to generate code")
		return
	}

	expiresAt := time.Now().Add(validity)
	if err := s.store.SetUserChallenge(r.Context(), user.ID, code, expiresAt); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to store challenge")
		return
	}

	ctxSend, cancel := context.WithTimeout(r.Context(), time.Duration(s.cfg.SendTimeoutSeconds)*time.Second)
	defer cancel()
	if err := s.mailer.SendCode(ctxSend, user.Email, code, validity); err != nil {
		// The stored challenge stays put; a retry overwrites it.
		log.Printf("[auth] send code to %s failed: %v", user.Email, err)
		writeError(w, http.StatusBadGateway, "delivery_failed", "failed to send code, please try again")
		return
	}

	writeJSON(w, http.StatusOK, otpRequestResponse{Status: "sent", PendingToken: pendingToken})
}

func (s *Server) handleOTPVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST only")
		return
	}

	var req otpVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}

	if strings.TrimSpace(req.PendingToken) == "" || strings.TrimSpace(req.OTPCode) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "pending_token and otp_code are required")
		return
	}

	email, err := s.parsePendingToken(strings.TrimSpace(req.PendingToken))
	if err != nil {
		log.Printf("[auth] pending token rejected: %v", err)
		writeError(w, http.StatusUnauthorized, "invalid_code", invalidCodeMessage)
		return
	}

	// No normalization of the submitted code: leading zeros and whitespace
	// are significant.
	user, err := s.store.ConsumeUserChallenge(r.Context(), email, req.OTPCode)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound),
			errors.Is(err, store.ErrCodeMismatch),
			errors.Is(err, store.ErrCodeExpired):
			log.Printf("[auth] verify for %s failed: %v", email, err)
			writeError(w, http.StatusUnauthorized, "invalid_code", invalidCodeMessage)
		default:
			writeError(w, http.StatusInternalServerError, "internal", "failed to verify code")
		}
		return
	}

	token, err := newSessionToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to generate session token")
		return
	}

	sess := model.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.SessionTTLHours) * time.Hour),
	}
	if _, err := s.store.CreateSession(r.Context(), sess); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, otpVerifyResponse{Token: token, User: *user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST only")
		return
	}

	token := sessionTokenFromContext(r.Context())
	userID := userIDFromContext(r.Context())

	if err := s.store.DeleteSession(r.Context(), token); err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "internal", "failed to clear session")
		return
	}
	// Next login starts a fresh cycle.
	if err := s.store.ClearVerified(r.Context(), userID); err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "internal", "failed to reset login state")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
