// Package reminders emails each technician a summary of their open
// jobs, at most once per weekday. It is invoked on every inbound
// request; the persisted lastReminderDate is the only idempotence
// guard, so there is no cron to configure.
package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/mwickstrom1817/5gjobs/internal/dispatch"
	"github.com/mwickstrom1817/5gjobs/internal/document"
	"github.com/mwickstrom1817/5gjobs/pkg/enums"
	pkgerrors "github.com/mwickstrom1817/5gjobs/pkg/errors"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
	"github.com/mwickstrom1817/5gjobs/pkg/metrics"
)

const dateLayout = "2006-01-02"

// Run outcomes used as the metrics label.
const (
	outcomeSent          = "sent"
	outcomeWeekend       = "weekend"
	outcomeAlreadySent   = "already_sent"
	outcomeNotConfigured = "not_configured"
	outcomeError         = "error"
)

// Service runs the daily reminder sweep.
type Service interface {
	Run(ctx context.Context, now time.Time) error
}

type service struct {
	store      document.Store
	dispatcher dispatch.Service
	metrics    *metrics.ReminderMetrics
	log        *logger.Logger
}

// ServiceParams carries the dependencies for NewService. Metrics is
// optional.
type ServiceParams struct {
	Store      document.Store
	Dispatcher dispatch.Service
	Metrics    *metrics.ReminderMetrics
	Logger     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "document store is required")
	}
	if params.Dispatcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "dispatcher is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{
		store:      params.Store,
		dispatcher: params.Dispatcher,
		metrics:    params.Metrics,
		log:        params.Logger,
	}, nil
}

// Run sends each technician one summary of their non-Completed jobs.
// Weekends and already-reminded days are no-ops. An unconfigured
// transport is also a no-op, but one that leaves lastReminderDate
// untouched so a later-configured transport still sends that day.
func (s *service) Run(ctx context.Context, now time.Time) error {
	started := time.Now()
	outcome, err := s.run(ctx, now)
	s.observe(outcome, time.Since(started))
	return err
}

func (s *service) run(ctx context.Context, now time.Time) (string, error) {
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return outcomeWeekend, nil
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return outcomeError, err
	}

	today := now.Format(dateLayout)
	if doc.LastReminderDate == today {
		return outcomeAlreadySent, nil
	}

	if !s.dispatcher.Configured() {
		return outcomeNotConfigured, nil
	}

	var sendErrs error
	sent := 0
	for _, tech := range doc.Techs {
		open := openJobs(doc, tech.ID)
		if len(open) == 0 {
			continue
		}
		result := s.dispatcher.SendReminder(ctx, tech, reminderSubject(today), reminderBody(doc, tech, open))
		s.incSend(string(result.Status))
		if result.Err != nil {
			sendErrs = multierr.Append(sendErrs, result.Err)
			continue
		}
		if result.Sent() {
			sent++
		}
	}
	if sendErrs != nil {
		s.log.Error(ctx, "some reminder emails failed to send", sendErrs)
	}

	// The date advances even when nobody had open jobs, so later
	// requests today skip the sweep entirely.
	doc.LastReminderDate = today
	if err := s.store.Save(ctx, doc); err != nil {
		return outcomeError, err
	}

	s.log.Info(ctx, fmt.Sprintf("daily reminders run complete, %d sent", sent))
	return outcomeSent, nil
}

func openJobs(doc document.Document, techID string) []document.Job {
	var open []document.Job
	for _, job := range doc.Jobs {
		if job.TechID == techID && job.Status != enums.JobStatusCompleted {
			open = append(open, job)
		}
	}
	return open
}

func reminderSubject(today string) string {
	return fmt.Sprintf("Your Open Jobs - %s", today)
}

func reminderBody(doc document.Document, tech document.Technician, open []document.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nYou have %d open job(s):\n\n", tech.Name, len(open))
	for _, job := range open {
		locationName := "Unknown location"
		if loc := doc.LocationByID(job.LocationID); loc != nil {
			locationName = loc.Name
		}
		fmt.Fprintf(&b, "- %s [%s] at %s (%s)\n", job.Title, job.Priority, locationName, job.Status)
	}
	b.WriteString("\nPlease check the ServiceCommand dashboard for full details.\n")
	return b.String()
}

func (s *service) observe(outcome string, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveRun(outcome, elapsed)
	}
}

func (s *service) incSend(result string) {
	if s.metrics != nil {
		s.metrics.IncSend(result)
	}
}
