package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mwickstrom1817/5gjobs/api/controllers"
	"github.com/mwickstrom1817/5gjobs/api/middleware"
	"github.com/mwickstrom1817/5gjobs/internal/auth"
	"github.com/mwickstrom1817/5gjobs/internal/briefing"
	"github.com/mwickstrom1817/5gjobs/internal/geocode"
	"github.com/mwickstrom1817/5gjobs/internal/jobs"
	"github.com/mwickstrom1817/5gjobs/internal/reminders"
	"github.com/mwickstrom1817/5gjobs/internal/roster"
	"github.com/mwickstrom1817/5gjobs/internal/sites"
	"github.com/mwickstrom1817/5gjobs/pkg/config"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
	pkgredis "github.com/mwickstrom1817/5gjobs/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         controllers.Pinger
	Idem       pkgredis.IdempotencyStore
	SMTPSource *config.SMTPSource
	Registry   *prometheus.Registry

	Auth      auth.Service
	Jobs      jobs.Service
	Roster    roster.Service
	Sites     sites.Service
	Geocode   geocode.Service
	Briefing  briefing.Service
	Reminders reminders.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins...),
		// Every inbound request gives the scheduler a chance to do its
		// once-per-weekday sweep.
		middleware.Reminders(deps.Reminders, logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(deps.Idem, logg))

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", controllers.ListJobs(deps.Jobs, logg))
			r.Post("/", controllers.CreateJob(deps.Jobs, logg))
			r.Route("/{jobID}", func(r chi.Router) {
				r.Get("/", controllers.GetJob(deps.Jobs, logg))
				r.Patch("/", controllers.UpdateJob(deps.Jobs, logg))
				r.Delete("/", controllers.DeleteJob(deps.Jobs, logg))
				r.Post("/progress", controllers.PostProgress(deps.Jobs, logg))
				r.Post("/daily-report", controllers.SubmitDailyReport(deps.Jobs, logg))
				r.Post("/complete", controllers.ConfirmCompletion(deps.Jobs, logg))
			})
		})

		r.Get("/briefing", controllers.GetBriefing(deps.Briefing, logg))
		r.Post("/briefing/refresh", controllers.RefreshBriefing(deps.Briefing, logg))

		r.Get("/techs", controllers.ListTechs(deps.Roster, logg))
		r.Get("/locations", controllers.ListLocations(deps.Sites, logg))
		r.Post("/locations/{locationID}/resolve", controllers.ResolveLocation(deps.Geocode, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Post("/techs", controllers.CreateTech(deps.Roster, logg))
			r.Patch("/techs/{techID}", controllers.UpdateTech(deps.Roster, logg))
			r.Delete("/techs/{techID}", controllers.DeleteTech(deps.Roster, logg))

			r.Post("/locations", controllers.CreateLocation(deps.Sites, logg))
			r.Patch("/locations/{locationID}", controllers.UpdateLocation(deps.Sites, logg))
			r.Delete("/locations/{locationID}", controllers.DeleteLocation(deps.Sites, logg))

			r.Route("/settings", func(r chi.Router) {
				r.Get("/smtp", controllers.GetSMTPStatus(deps.SMTPSource, logg))
				r.Put("/smtp", controllers.SetSMTPOverrides(deps.SMTPSource, logg))
				r.Get("/admins", controllers.GetAdminEmails(deps.Auth, logg))
				r.Put("/admins", controllers.SetAdminEmails(deps.Auth, logg))
			})
		})
	})

	return r
}
