// Package dispatch sends transactional email for job events. Every
// send is best effort: methods return Outcome values describing what
// happened instead of errors, so a transport failure never aborts the
// job mutation that triggered it.
package dispatch

import (
	"context"
	"fmt"

	"github.com/mwickstrom1817/5gjobs/internal/document"
	"github.com/mwickstrom1817/5gjobs/pkg/config"
	"github.com/mwickstrom1817/5gjobs/pkg/docrender"
	pkgerrors "github.com/mwickstrom1817/5gjobs/pkg/errors"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
	"github.com/mwickstrom1817/5gjobs/pkg/mailer"
	"github.com/mwickstrom1817/5gjobs/pkg/metrics"
)

const unassignedTechName = "Unassigned"

// ReportRenderer produces the completion attachment. Unavailable is a
// valid outcome; the completion email goes out without it.
type ReportRenderer interface {
	Render(ctx context.Context, payload docrender.Payload) ([]byte, bool, error)
}

// Service dispatches notification email for job lifecycle events.
type Service interface {
	SendAssignment(ctx context.Context, job document.Job, tech document.Technician, location document.Location) Outcome
	SendCompletion(ctx context.Context, job document.Job, tech *document.Technician, location document.Location, report document.Report, adminEmails []string) Outcome
	SendReminder(ctx context.Context, tech document.Technician, subject, body string) Outcome
	Configured() bool
}

type service struct {
	source   *config.SMTPSource
	sender   mailer.Sender
	renderer ReportRenderer
	metrics  *metrics.DispatchMetrics
	log      *logger.Logger
}

// ServiceParams carries the dependencies for NewService. Renderer and
// Metrics are optional.
type ServiceParams struct {
	Source   *config.SMTPSource
	Sender   mailer.Sender
	Renderer ReportRenderer
	Metrics  *metrics.DispatchMetrics
	Logger   *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Source == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "smtp source is required")
	}
	if params.Sender == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mail sender is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{
		source:   params.Source,
		sender:   params.Sender,
		renderer: params.Renderer,
		metrics:  params.Metrics,
		log:      params.Logger,
	}, nil
}

// Configured reports whether the layered lookup currently resolves a
// usable transport.
func (s *service) Configured() bool {
	return s.source.Resolve().Configured()
}

func (s *service) SendAssignment(ctx context.Context, job document.Job, tech document.Technician, location document.Location) Outcome {
	outcome := Outcome{
		Kind:      KindAssignment,
		MailtoURL: AssignmentMailto(job, tech, location),
	}

	settings := s.source.Resolve()
	if !settings.Configured() {
		s.log.Info(ctx, "mail transport not configured, assignment falls back to mailto")
		return s.record(outcome, StatusNotConfigured)
	}

	msg := mailer.Message{
		To:      tech.Email,
		Subject: assignmentSubject(job),
		Body:    assignmentBody(job, tech, location),
	}
	if err := s.sender.Send(ctx, settings, msg); err != nil {
		s.log.Error(ctx, "sending assignment email", err)
		outcome.Err = err
		return s.record(outcome, StatusFailed)
	}
	return s.record(outcome, StatusSent)
}

func (s *service) SendCompletion(ctx context.Context, job document.Job, tech *document.Technician, location document.Location, report document.Report, adminEmails []string) Outcome {
	outcome := Outcome{Kind: KindCompletion}

	if len(adminEmails) == 0 {
		return s.record(outcome, StatusSkipped)
	}

	settings := s.source.Resolve()
	if !settings.Configured() {
		s.log.Info(ctx, "mail transport not configured, skipping completion email")
		return s.record(outcome, StatusNotConfigured)
	}

	techName := unassignedTechName
	if tech != nil {
		techName = tech.Name
	}

	var attachments []mailer.Attachment
	if s.renderer != nil {
		data, ok, err := s.renderer.Render(ctx, completionPayload(job, techName, location, report))
		switch {
		case err != nil:
			// Attachment is optional; the email still goes out.
			s.log.Warn(ctx, fmt.Sprintf("rendering completion attachment: %v", err))
		case ok:
			attachments = []mailer.Attachment{{
				Filename: fmt.Sprintf("completion-report-%s.pdf", job.ID),
				Data:     data,
			}}
		}
	}

	subject := completionSubject(job)
	body := completionBody(job, techName, location, report)
	msgs := make([]mailer.Message, 0, len(adminEmails))
	for _, recipient := range adminEmails {
		msgs = append(msgs, mailer.Message{
			To:          recipient,
			Subject:     subject,
			Body:        body,
			Attachments: attachments,
		})
	}

	if err := s.sender.Send(ctx, settings, msgs...); err != nil {
		s.log.Error(ctx, "sending completion email", err)
		outcome.Err = err
		return s.record(outcome, StatusFailed)
	}
	return s.record(outcome, StatusSent)
}

func (s *service) SendReminder(ctx context.Context, tech document.Technician, subject, body string) Outcome {
	outcome := Outcome{Kind: KindReminder}

	settings := s.source.Resolve()
	if !settings.Configured() {
		return s.record(outcome, StatusNotConfigured)
	}

	msg := mailer.Message{To: tech.Email, Subject: subject, Body: body}
	if err := s.sender.Send(ctx, settings, msg); err != nil {
		s.log.Error(ctx, "sending reminder email", err)
		outcome.Err = err
		return s.record(outcome, StatusFailed)
	}
	return s.record(outcome, StatusSent)
}

func (s *service) record(outcome Outcome, status Status) Outcome {
	outcome.Status = status
	if s.metrics != nil {
		s.metrics.IncOutcome(outcome.Kind, string(status))
	}
	return outcome
}
