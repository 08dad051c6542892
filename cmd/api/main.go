package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mwickstrom1817/5gjobs/api/routes"
	"github.com/mwickstrom1817/5gjobs/internal/auth"
	"github.com/mwickstrom1817/5gjobs/internal/briefing"
	"github.com/mwickstrom1817/5gjobs/internal/dispatch"
	"github.com/mwickstrom1817/5gjobs/internal/document"
	"github.com/mwickstrom1817/5gjobs/internal/geocode"
	"github.com/mwickstrom1817/5gjobs/internal/jobs"
	"github.com/mwickstrom1817/5gjobs/internal/reminders"
	"github.com/mwickstrom1817/5gjobs/internal/roster"
	"github.com/mwickstrom1817/5gjobs/internal/sites"
	"github.com/mwickstrom1817/5gjobs/pkg/config"
	"github.com/mwickstrom1817/5gjobs/pkg/db"
	"github.com/mwickstrom1817/5gjobs/pkg/docrender"
	"github.com/mwickstrom1817/5gjobs/pkg/geocoder"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
	"github.com/mwickstrom1817/5gjobs/pkg/mailer"
	"github.com/mwickstrom1817/5gjobs/pkg/metrics"
	pkgredis "github.com/mwickstrom1817/5gjobs/pkg/redis"
	"github.com/mwickstrom1817/5gjobs/pkg/textgen"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	store, err := document.NewGormStore(document.GormStoreParams{
		Conn:        dbClient.DB(),
		AutoMigrate: cfg.FeatureFlags.AutoMigrate,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create document store", err)
		os.Exit(1)
	}

	var idemStore pkgredis.IdempotencyStore
	if cfg.Redis.Enabled() {
		redisClient, err := pkgredis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		idemStore = redisClient
	}

	secrets, err := config.LoadSecrets(cfg.Secrets.File)
	if err != nil {
		logg.Error(context.Background(), "failed to load secrets file", err)
		os.Exit(1)
	}
	smtpSource := config.NewSMTPSource(cfg.SMTP, secrets)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var renderer dispatch.ReportRenderer
	if cfg.DocRender.BaseURL != "" {
		renderer = docrender.NewClient(cfg.DocRender.BaseURL, docrender.WithTimeout(cfg.DocRender.Timeout))
	}

	dispatcher, err := dispatch.NewService(dispatch.ServiceParams{
		Source:   smtpSource,
		Sender:   mailer.NewSMTPSender(cfg.SMTP.Timeout),
		Renderer: renderer,
		Metrics:  metrics.NewDispatchMetrics(registry),
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create dispatcher", err)
		os.Exit(1)
	}

	jobsService, err := jobs.NewService(jobs.ServiceParams{
		Store:      store,
		Dispatcher: dispatcher,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create jobs service", err)
		os.Exit(1)
	}

	remindersService, err := reminders.NewService(reminders.ServiceParams{
		Store:      store,
		Dispatcher: dispatcher,
		Metrics:    metrics.NewReminderMetrics(registry),
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reminders service", err)
		os.Exit(1)
	}

	geocodeService, err := geocode.NewService(geocode.ServiceParams{
		Store: store,
		Geocoder: geocoder.NewClient(
			geocoder.WithBaseURL(cfg.Geocoder.BaseURL),
			geocoder.WithUserAgent(cfg.Geocoder.UserAgent),
			geocoder.WithTimeout(cfg.Geocoder.Timeout),
		),
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create geocode service", err)
		os.Exit(1)
	}

	var generator briefing.Generator
	if cfg.TextGen.APIKey != "" {
		generator, err = textgen.NewClient(cfg.TextGen.APIKey,
			textgen.WithModel(cfg.TextGen.Model),
			textgen.WithTimeout(cfg.TextGen.Timeout),
		)
		if err != nil {
			logg.Error(context.Background(), "failed to create text generator", err)
			os.Exit(1)
		}
	}

	briefingService, err := briefing.NewService(briefing.ServiceParams{
		Store:     store,
		Generator: generator,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create briefing service", err)
		os.Exit(1)
	}

	rosterService, err := roster.NewService(roster.ServiceParams{Store: store, Logger: logg})
	if err != nil {
		logg.Error(context.Background(), "failed to create roster service", err)
		os.Exit(1)
	}

	sitesService, err := sites.NewService(sites.ServiceParams{Store: store, Logger: logg})
	if err != nil {
		logg.Error(context.Background(), "failed to create sites service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Store:  store,
		JWT:    cfg.JWT,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			DB:         dbClient,
			Idem:       idemStore,
			SMTPSource: smtpSource,
			Registry:   registry,
			Auth:       authService,
			Jobs:       jobsService,
			Roster:     rosterService,
			Sites:      sitesService,
			Geocode:    geocodeService,
			Briefing:   briefingService,
			Reminders:  remindersService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
