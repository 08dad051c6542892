package controllers

import (
	"net/http"

	"github.com/mwickstrom1817/5gjobs/api/responses"
	"github.com/mwickstrom1817/5gjobs/api/validators"
	"github.com/mwickstrom1817/5gjobs/internal/auth"
	"github.com/mwickstrom1817/5gjobs/pkg/config"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
)

type smtpOverrideRequest struct {
	Server   *string `json:"server"`
	Port     *string `json:"port"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password"`
}

type smtpStatusView struct {
	Server     string `json:"server"`
	Port       int    `json:"port"`
	Email      string `json:"email"`
	Configured bool   `json:"configured"`
}

// GetSMTPStatus reports the effective transport settings without the
// credential.
func GetSMTPStatus(source *config.SMTPSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings := source.Resolve()
		responses.WriteSuccess(w, smtpStatusView{
			Server:     settings.Server,
			Port:       settings.Port,
			Email:      settings.Email,
			Configured: settings.Configured(),
		})
	}
}

// SetSMTPOverrides installs session-scoped transport overrides. These
// sit above the secrets file and the environment in the lookup; an
// empty string clears the override for that field.
func SetSMTPOverrides(source *config.SMTPSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req smtpOverrideRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if req.Server != nil {
			source.SetOverride(config.SMTPKeyServer, *req.Server)
		}
		if req.Port != nil {
			source.SetOverride(config.SMTPKeyPort, *req.Port)
		}
		if req.Email != nil {
			source.SetOverride(config.SMTPKeyEmail, *req.Email)
		}
		if req.Password != nil {
			source.SetOverride(config.SMTPKeyPassword, *req.Password)
		}

		settings := source.Resolve()
		responses.WriteSuccess(w, smtpStatusView{
			Server:     settings.Server,
			Port:       settings.Port,
			Email:      settings.Email,
			Configured: settings.Configured(),
		})
	}
}

type adminEmailsRequest struct {
	Emails []string `json:"emails" validate:"required,min=1,dive,email"`
}

func GetAdminEmails(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		emails, err := svc.ListAdmins(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string][]string{"emails": emails})
	}
}

func SetAdminEmails(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminEmailsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		emails, err := svc.SetAdmins(r.Context(), req.Emails)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string][]string{"emails": emails})
	}
}
