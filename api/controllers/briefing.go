package controllers

import (
	"net/http"

	"github.com/mwickstrom1817/5gjobs/api/responses"
	"github.com/mwickstrom1817/5gjobs/internal/briefing"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
)

type briefingView struct {
	Briefing string `json:"briefing"`
}

// GetBriefing returns the cached briefing, regenerating when a job
// mutation has marked it stale.
func GetBriefing(svc briefing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, briefingView{Briefing: text})
	}
}

// RefreshBriefing forces regeneration.
func RefreshBriefing(svc briefing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, err := svc.Refresh(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, briefingView{Briefing: text})
	}
}
