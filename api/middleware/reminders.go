package middleware

import (
	"net/http"
	"time"

	"github.com/mwickstrom1817/5gjobs/internal/reminders"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
)

// Reminders runs the daily reminder sweep at the start of every
// request. The scheduler's own date guard makes this cheap after the
// first qualifying request of the day; there is no cron.
func Reminders(svc reminders.Service, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if svc != nil {
				if err := svc.Run(r.Context(), time.Now()); err != nil && logg != nil {
					// Reminder failures never block the request.
					logg.Error(r.Context(), "daily reminders run failed", err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
