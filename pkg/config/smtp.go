package config

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Keys used across all three lookup layers for the mail transport.
const (
	SMTPKeyServer   = "SMTP_SERVER"
	SMTPKeyPort     = "SMTP_PORT"
	SMTPKeyEmail    = "SMTP_EMAIL"
	SMTPKeyPassword = "SMTP_PASSWORD"

	defaultSMTPPort = 587
)

// SMTPSettings are the effective transport settings after the layered lookup.
type SMTPSettings struct {
	Server   string
	Port     int
	Email    string
	Password string
}

// Configured reports whether the transport can actually send mail.
// Port alone never gates sending; it falls back to 587.
func (s SMTPSettings) Configured() bool {
	return s.Server != "" && s.Email != "" && s.Password != ""
}

// SMTPSource resolves mail transport settings per field through three
// layers, first non-empty wins: session override, secrets store,
// environment.
type SMTPSource struct {
	mu        sync.RWMutex
	overrides map[string]string
	secrets   map[string]string
	env       SMTPConfig
}

// NewSMTPSource builds a source over the environment layer and an
// optional secrets map (see LoadSecrets).
func NewSMTPSource(envLayer SMTPConfig, secrets map[string]string) *SMTPSource {
	if secrets == nil {
		secrets = map[string]string{}
	}
	return &SMTPSource{
		overrides: map[string]string{},
		secrets:   secrets,
		env:       envLayer,
	}
}

// SetOverride installs a session-scoped value for one SMTP key. Empty
// values remove the override so the lower layers show through again.
func (s *SMTPSource) SetOverride(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key = strings.ToUpper(strings.TrimSpace(key))
	if value == "" {
		delete(s.overrides, key)
		return
	}
	s.overrides[key] = value
}

// Resolve walks the layers per field and returns the winning values.
func (s *SMTPSource) Resolve() SMTPSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := SMTPSettings{
		Server:   s.lookup(SMTPKeyServer, s.env.Server),
		Email:    s.lookup(SMTPKeyEmail, s.env.Email),
		Password: s.lookup(SMTPKeyPassword, s.env.Password),
		Port:     defaultSMTPPort,
	}
	if s.env.Port > 0 {
		settings.Port = s.env.Port
	}
	if raw := s.lookup(SMTPKeyPort, ""); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil && port > 0 {
			settings.Port = port
		}
	}
	return settings
}

func (s *SMTPSource) lookup(key, envValue string) string {
	if v := s.overrides[key]; v != "" {
		return v
	}
	if v := s.secrets[key]; v != "" {
		return v
	}
	return envValue
}

// LoadSecrets reads the secrets-store layer from a dotenv-formatted
// file. A missing file is not an error; the layer is simply empty.
func LoadSecrets(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, err
	}
	return values, nil
}
