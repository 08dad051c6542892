// Package briefing maintains the cached operational briefing. It is
// regenerated only when a job mutation has marked it stale, and any
// generator failure degrades to a static fallback string.
package briefing

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwickstrom1817/5gjobs/internal/document"
	"github.com/mwickstrom1817/5gjobs/pkg/enums"
	pkgerrors "github.com/mwickstrom1817/5gjobs/pkg/errors"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
)

const fallbackBriefing = "Briefing unavailable. Review the job board directly."

// Generator is the external text generation collaborator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service returns the current briefing, regenerating it when stale.
type Service interface {
	Get(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

type service struct {
	store     document.Store
	generator Generator
	log       *logger.Logger
}

// ServiceParams carries the dependencies for NewService. Generator may
// be nil when no text generation key is configured.
type ServiceParams struct {
	Store     document.Store
	Generator Generator
	Logger    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "document store is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{
		store:     params.Store,
		generator: params.Generator,
		log:       params.Logger,
	}, nil
}

// Get returns the cached briefing, regenerating first if a job
// mutation has invalidated it. With no jobs there is nothing to brief
// on and the stale sentinel is returned as-is.
func (s *service) Get(ctx context.Context) (string, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return "", err
	}
	if !doc.BriefingStale() || len(doc.Jobs) == 0 {
		return doc.Briefing, nil
	}
	return s.regenerate(ctx, doc)
}

// Refresh forces regeneration regardless of staleness.
func (s *service) Refresh(ctx context.Context) (string, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return "", err
	}
	if len(doc.Jobs) == 0 {
		doc.InvalidateBriefing()
		if err := s.store.Save(ctx, doc); err != nil {
			return "", err
		}
		return doc.Briefing, nil
	}
	return s.regenerate(ctx, doc)
}

func (s *service) regenerate(ctx context.Context, doc document.Document) (string, error) {
	text := fallbackBriefing
	if s.generator != nil {
		generated, err := s.generator.Generate(ctx, buildPrompt(doc))
		if err != nil {
			s.log.Warn(ctx, "briefing generation failed: "+err.Error())
		} else if generated != "" {
			text = generated
		}
	}

	doc.Briefing = text
	if err := s.store.Save(ctx, doc); err != nil {
		return "", err
	}
	return text, nil
}

func buildPrompt(doc document.Document) string {
	var active, critical []document.Job
	for _, job := range doc.Jobs {
		if job.Status == enums.JobStatusCompleted {
			continue
		}
		active = append(active, job)
		if job.Priority.IsUrgent() {
			critical = append(critical, job)
		}
	}

	techNames := make([]string, 0, len(doc.Techs))
	for _, tech := range doc.Techs {
		techNames = append(techNames, tech.Name)
	}

	var issues strings.Builder
	for _, job := range critical {
		fmt.Fprintf(&issues, "- %s (%s)\n", job.Title, job.Priority)
	}

	return fmt.Sprintf(`You are the Operations Manager. Generate a concise "Morning Briefing" for the dashboard.

Data:
- Active Jobs: %d
- Critical: %d
- Techs: %s

Critical Issues:
%s
Format: 1. Coach's Corner (Motivation), 2. Critical Focus, 3. Safety Tip.
Max 150 words. No markdown headers (#), use Bold instead.`,
		len(active), len(critical), strings.Join(techNames, ", "), issues.String())
}
