package controllers

import (
	"net/http"

	"github.com/mwickstrom1817/5gjobs/api/responses"
	"github.com/mwickstrom1817/5gjobs/api/validators"
	"github.com/mwickstrom1817/5gjobs/internal/auth"
	pkgerrors "github.com/mwickstrom1817/5gjobs/pkg/errors"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
)

type loginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"max=200"`
}

// AuthLogin exchanges a provider-resolved identity for an access
// token. The OAuth code exchange happens upstream of this API.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var req loginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), req.Email, req.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
