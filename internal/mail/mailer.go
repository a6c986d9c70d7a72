// Package mail delivers login codes to users by email.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"
	"text/template"
	"time"
)

// Sender delivers a login code to an address. Implementations must honor the
// context deadline and report failure so the caller can tell the user to
// retry.
type Sender interface {
	SendCode(ctx context.Context, toEmail, code string, validity time.Duration) error
}

const subject = "Your login code"

// bodyTemplate renders the message text. Kept as plain text on purpose: the
// code is the only payload that matters.
var bodyTemplate = template.Must(template.New("otp").Parse(`Hi {{.Email}},

Your login code is: {{.Code}}

The code is valid for {{printf "%.f" .Validity.Minutes}} minutes.

If you did not request a code, you can ignore this email.
`))

type bodyParams struct {
	Email    string
	Code     string
	Validity time.Duration
}

func renderBody(toEmail, code string, validity time.Duration) (string, error) {
	var buf bytes.Buffer
	err := bodyTemplate.Execute(&buf, bodyParams{Email: toEmail, Code: code, Validity: validity})
	if err != nil {
		return "", fmt.Errorf("render body: %w", err)
	}
	return buf.String(), nil
}

// SMTPSender sends through a plain SMTP endpoint with optional AUTH.
type SMTPSender struct {
	Addr     string // host:port
	From     string
	Username string
	Password string

	// TLSConfig overrides the STARTTLS client config. When nil the server
	// certificate is verified against the host part of Addr.
	TLSConfig *tls.Config
}

func (s *SMTPSender) SendCode(ctx context.Context, toEmail, code string, validity time.Duration) error {
	body, err := renderBody(toEmail, code, validity)
	if err != nil {
		return err
	}

	timeout := 10 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}

	conn, err := net.DialTimeout("tcp", s.Addr, timeout)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", s.Addr, err)
	}
	// A single deadline covers the whole exchange.
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	} else {
		_ = conn.SetDeadline(time.Now().Add(timeout))
	}

	host := s.Addr
	if h, _, splitErr := net.SplitHostPort(s.Addr); splitErr == nil {
		host = h
	}

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		tlsCfg := s.TLSConfig
		if tlsCfg == nil {
			tlsCfg = &tls.Config{ServerName: host}
		}
		if err := c.StartTLS(tlsCfg); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	if s.Username != "" {
		auth := smtp.PlainAuth("", s.Username, s.Password, host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(s.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(toEmail); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	msg := strings.Join([]string{
		"From: " + s.From,
		"To: " + toEmail,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")
	if _, err := wc.Write([]byte(msg)); err != nil {
		wc.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	return c.Quit()
}

// LogSender writes the code to the process log instead of sending anything.
// Used when no SMTP endpoint is configured.
type LogSender struct{}

func (LogSender) SendCode(_ context.Context, toEmail, code string, validity time.Duration) error {
	log.Printf("[mail] login code for %s: %s (valid %s)", toEmail, code, validity)
	return nil
}
