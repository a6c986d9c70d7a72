package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        int    `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`

	OTPValidityMinutes int    `yaml:"otp_validity_minutes"`
	OTPCodeLength      int    `yaml:"otp_code_length"`
	SessionTTLHours    int    `yaml:"session_ttl_hours"`
	PendingTokenSecret string `yaml:"pending_token_secret"`

	SMTPAddr           string `yaml:"smtp_addr"`
	SMTPFrom           string `yaml:"smtp_from"`
	SMTPUsername       string `yaml:"smtp_username"`
	SMTPPassword       string `yaml:"smtp_password"`
	SendTimeoutSeconds int    `yaml:"send_timeout_seconds"`

	ChallengeSweepMinutes int `yaml:"challenge_sweep_minutes"`
}

// Load builds the config from an optional YAML file (path in TRACKER_CONFIG)
// overridden by environment variables. Env always wins.
func Load() Config {
	cfg := Config{
		Port:                  8080,
		OTPValidityMinutes:    10,
		OTPCodeLength:         6,
		SessionTTLHours:       24,
		SendTimeoutSeconds:    10,
		ChallengeSweepMinutes: 10,
	}

	if path := os.Getenv("TRACKER_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			log.Printf("config file %s unreadable: %v", path, err)
		} else if err := yaml.Unmarshal(b, &cfg); err != nil {
			log.Printf("config file %s invalid: %v", path, err)
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("PENDING_TOKEN_SECRET"); v != "" {
		cfg.PendingTokenSecret = v
	}
	if v := os.Getenv("SMTP_ADDR"); v != "" {
		cfg.SMTPAddr = v
	}
	if v := os.Getenv("SMTP_FROM"); v != "" {
		cfg.SMTPFrom = v
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		cfg.SMTPUsername = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.SMTPPassword = v
	}

	if v := os.Getenv("TRACKER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p < 65536 {
			cfg.Port = p
		}
	}
	if v := os.Getenv("OTP_VALIDITY_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.OTPValidityMinutes = n
		}
	}
	if v := os.Getenv("OTP_CODE_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.OTPCodeLength = n
		}
	}
	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionTTLHours = n
		}
	}
	if v := os.Getenv("SEND_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SendTimeoutSeconds = n
		}
	}
	if v := os.Getenv("CHALLENGE_SWEEP_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.ChallengeSweepMinutes = n
		}
	}

	return cfg
}

func (c Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.Port)
}
