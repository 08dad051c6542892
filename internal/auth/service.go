// Package auth exchanges a resolved identity for an access token. The
// OAuth handshake itself happens upstream; this service only needs the
// resulting email and display name. The first identity ever to log in
// becomes the sole admin.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/mwickstrom1817/5gjobs/internal/document"
	pkgauth "github.com/mwickstrom1817/5gjobs/pkg/auth"
	"github.com/mwickstrom1817/5gjobs/pkg/config"
	pkgerrors "github.com/mwickstrom1817/5gjobs/pkg/errors"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
)

// LoginResult carries the issued token and the caller's standing.
type LoginResult struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Admin bool   `json:"admin"`
}

// Service issues access tokens for resolved identities and manages
// the admin email list.
type Service interface {
	Login(ctx context.Context, email, name string) (LoginResult, error)
	ListAdmins(ctx context.Context) ([]string, error)
	SetAdmins(ctx context.Context, emails []string) ([]string, error)
}

type service struct {
	store document.Store
	jwt   config.JWTConfig
	log   *logger.Logger
	now   func() time.Time
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Store  document.Store
	JWT    config.JWTConfig
	Logger *logger.Logger
	Now    func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "document store is required")
	}
	if params.JWT.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "jwt secret is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		store: params.Store,
		jwt:   params.JWT,
		log:   params.Logger,
		now:   params.Now,
	}, nil
}

// Login mints a token for the identity. If no admin exists yet, the
// caller is promoted and persisted as the sole admin.
func (s *service) Login(ctx context.Context, email, name string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return LoginResult{}, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return LoginResult{}, err
	}

	if len(doc.AdminEmails) == 0 {
		doc.AdminEmails = []string{email}
		if err := s.store.Save(ctx, doc); err != nil {
			return LoginResult{}, err
		}
		s.log.Info(s.log.WithUserEmail(ctx, email), "bootstrapped first admin")
	}

	admin := doc.IsAdmin(email)
	token, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		Email: email,
		Name:  name,
		Admin: admin,
	})
	if err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	return LoginResult{Token: token, Email: email, Name: name, Admin: admin}, nil
}

func (s *service) ListAdmins(ctx context.Context) ([]string, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.AdminEmails, nil
}

// SetAdmins replaces the admin list. Completion emails fan out to
// these addresses, so an empty list is rejected.
func (s *service) SetAdmins(ctx context.Context, emails []string) ([]string, error) {
	cleaned := make([]string, 0, len(emails))
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			cleaned = append(cleaned, email)
		}
	}
	if len(cleaned) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one admin email is required")
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	doc.AdminEmails = cleaned
	if err := s.store.Save(ctx, doc); err != nil {
		return nil, err
	}
	return cleaned, nil
}
