// Package jobs owns the job lifecycle: creation, updates, progress and
// daily reports, and the two-phase completion gate. Every mutation
// loads the aggregate document, applies one logical change, and writes
// the document back whole.
package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mwickstrom1817/5gjobs/internal/dispatch"
	"github.com/mwickstrom1817/5gjobs/internal/document"
	"github.com/mwickstrom1817/5gjobs/internal/reports"
	"github.com/mwickstrom1817/5gjobs/pkg/enums"
	pkgerrors "github.com/mwickstrom1817/5gjobs/pkg/errors"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
)

// Service is the entry point for every job mutation.
type Service interface {
	List(ctx context.Context) ([]document.Job, error)
	Get(ctx context.Context, jobID string) (document.Job, error)
	Create(ctx context.Context, input CreateJobInput) (document.Job, dispatch.Outcome, error)
	Update(ctx context.Context, jobID string, input UpdateJobInput) (document.Job, error)
	Delete(ctx context.Context, jobID string) error
	PostProgress(ctx context.Context, jobID string, input ProgressInput) (document.Report, error)
	SubmitDailyReport(ctx context.Context, jobID string, input DailyReportInput) (SubmitResult, error)
	ConfirmCompletion(ctx context.Context, input CompletionInput) (document.Job, dispatch.Outcome, error)
}

type service struct {
	store      document.Store
	dispatcher dispatch.Service
	log        *logger.Logger
	now        func() time.Time
	newID      func() string
}

// ServiceParams carries the dependencies for NewService. Now and NewID
// default to the wall clock and random UUIDs.
type ServiceParams struct {
	Store      document.Store
	Dispatcher dispatch.Service
	Logger     *logger.Logger
	Now        func() time.Time
	NewID      func() string
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
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.NewID == nil {
		params.NewID = uuid.NewString
	}
	return &service{
		store:      params.Store,
		dispatcher: params.Dispatcher,
		log:        params.Logger,
		now:        params.Now,
		newID:      params.NewID,
	}, nil
}

func (s *service) List(ctx context.Context) ([]document.Job, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Jobs, nil
}

func (s *service) Get(ctx context.Context, jobID string) (document.Job, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return document.Job{}, err
	}
	job := doc.JobByID(jobID)
	if job == nil {
		return document.Job{}, pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
	}
	return *job, nil
}

// Create opens a new job in Pending status at the front of the
// collection. If a technician is assigned, an assignment email is
// attempted after the write; its outcome is returned alongside the job
// and never fails the creation.
func (s *service) Create(ctx context.Context, input CreateJobInput) (document.Job, dispatch.Outcome, error) {
	outcome := dispatch.Outcome{Kind: dispatch.KindAssignment, Status: dispatch.StatusSkipped}

	if input.Title == "" {
		return document.Job{}, outcome, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if !input.Type.IsValid() {
		return document.Job{}, outcome, pkgerrors.New(pkgerrors.CodeValidation, "invalid job type")
	}
	if !input.Priority.IsValid() {
		return document.Job{}, outcome, pkgerrors.New(pkgerrors.CodeValidation, "invalid priority")
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return document.Job{}, outcome, err
	}
	location := doc.LocationByID(input.LocationID)
	if location == nil {
		return document.Job{}, outcome, pkgerrors.New(pkgerrors.CodeValidation, "location does not exist")
	}
	var tech *document.Technician
	if input.TechID != "" {
		if tech = doc.TechByID(input.TechID); tech == nil {
			return document.Job{}, outcome, pkgerrors.New(pkgerrors.CodeValidation, "technician does not exist")
		}
	}

	job := document.Job{
		ID:            s.newID(),
		Title:         input.Title,
		Description:   input.Description,
		Type:          input.Type,
		Priority:      input.Priority,
		Status:        enums.JobStatusPending,
		LocationID:    input.LocationID,
		TechID:        input.TechID,
		ScheduledDate: input.ScheduledDate,
		Reports:       []document.Report{},
		Credentials:   input.Credentials,
	}

	// Newest first; consumers may re-sort.
	doc.Jobs = append([]document.Job{job}, doc.Jobs...)
	doc.InvalidateBriefing()
	if err := s.store.Save(ctx, doc); err != nil {
		return document.Job{}, outcome, err
	}

	if tech != nil {
		outcome = s.dispatcher.SendAssignment(ctx, job, *tech, *location)
	}
	return job, outcome, nil
}

// Update partially rewrites a job's descriptive fields. Reassigning
// the technician here does not re-send the assignment email.
func (s *service) Update(ctx context.Context, jobID string, input UpdateJobInput) (document.Job, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return document.Job{}, err
	}
	job := doc.JobByID(jobID)
	if job == nil {
		return document.Job{}, pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
	}

	if input.Title != nil {
		if *input.Title == "" {
			return document.Job{}, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		}
		job.Title = *input.Title
	}
	if input.Description != nil {
		job.Description = *input.Description
	}
	if input.Type != nil {
		if !input.Type.IsValid() {
			return document.Job{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid job type")
		}
		job.Type = *input.Type
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return document.Job{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid priority")
		}
		job.Priority = *input.Priority
	}
	if input.LocationID != nil {
		if doc.LocationByID(*input.LocationID) == nil {
			return document.Job{}, pkgerrors.New(pkgerrors.CodeValidation, "location does not exist")
		}
		job.LocationID = *input.LocationID
	}
	if input.TechID != nil {
		if *input.TechID != "" && doc.TechByID(*input.TechID) == nil {
			return document.Job{}, pkgerrors.New(pkgerrors.CodeValidation, "technician does not exist")
		}
		job.TechID = *input.TechID
	}
	if input.ScheduledDate != nil {
		job.ScheduledDate = *input.ScheduledDate
	}
	if input.Credentials != nil {
		job.Credentials = input.Credentials
	}

	if err := s.store.Save(ctx, doc); err != nil {
		return document.Job{}, err
	}
	return *job, nil
}

func (s *service) Delete(ctx context.Context, jobID string) error {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i := range doc.Jobs {
		if doc.Jobs[i].ID == jobID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
	}
	doc.Jobs = append(doc.Jobs[:idx], doc.Jobs[idx+1:]...)
	doc.InvalidateBriefing()
	return s.store.Save(ctx, doc)
}

// PostProgress appends a progress update to the job's history. The
// first update on a Pending job moves it to In Progress.
func (s *service) PostProgress(ctx context.Context, jobID string, input ProgressInput) (document.Report, error) {
	if input.Note == "" && len(input.Photos) == 0 {
		return document.Report{}, pkgerrors.New(pkgerrors.CodeValidation, "a note or at least one photo is required")
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return document.Report{}, err
	}
	job := doc.JobByID(jobID)
	if job == nil {
		return document.Report{}, pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
	}

	report := document.Report{
		ID:        s.newID(),
		TechID:    s.authorID(*job),
		Timestamp: s.now(),
		Content:   input.Note,
		Photos:    input.Photos,
	}
	job.Reports = append(job.Reports, report)
	if job.Status == enums.JobStatusPending {
		job.Status = enums.JobStatusInProgress
	}
	doc.InvalidateBriefing()

	if err := s.store.Save(ctx, doc); err != nil {
		return document.Report{}, err
	}
	return report, nil
}

// SubmitDailyReport folds today's progress photos into a structured
// report. A Completed requested status writes nothing; it hands back a
// PendingCompletion token for ConfirmCompletion instead.
func (s *service) SubmitDailyReport(ctx context.Context, jobID string, input DailyReportInput) (SubmitResult, error) {
	if !input.RequestedStatus.IsValid() {
		return SubmitResult{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid requested status")
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return SubmitResult{}, err
	}
	job := doc.JobByID(jobID)
	if job == nil {
		return SubmitResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
	}

	now := s.now()
	photos := reports.SameDayProgressPhotos(*job, now)
	photos = append(photos, input.Photos...)

	report := document.Report{
		ID:            s.newID(),
		TechID:        s.authorID(*job),
		Timestamp:     now,
		Content:       input.Note,
		Photos:        photos,
		TechsOnSite:   input.TechsOnSite,
		TimeArrived:   input.TimeArrived,
		TimeDeparted:  input.TimeDeparted,
		HoursWorked:   input.HoursWorked,
		PartsUsed:     input.PartsUsed,
		BillableItems: input.BillableItems,
	}

	if input.RequestedStatus == enums.JobStatusCompleted {
		return SubmitResult{
			Pending: &PendingCompletion{JobID: job.ID, Report: report},
		}, nil
	}

	job.Reports = append(job.Reports, report)
	job.Status = input.RequestedStatus
	doc.InvalidateBriefing()

	if err := s.store.Save(ctx, doc); err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{Applied: true, Report: report}, nil
}

// ConfirmCompletion lands a pending daily report, marks the job
// Completed, and attempts the completion email to the admin list. The
// email outcome never fails the completion.
func (s *service) ConfirmCompletion(ctx context.Context, input CompletionInput) (document.Job, dispatch.Outcome, error) {
	outcome := dispatch.Outcome{Kind: dispatch.KindCompletion, Status: dispatch.StatusSkipped}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return document.Job{}, outcome, err
	}
	// The job may have been deleted between the two phases.
	job := doc.JobByID(input.Pending.JobID)
	if job == nil {
		return document.Job{}, outcome, pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
	}

	report := input.Pending.Report
	if input.ClosingNote != "" {
		if report.Content != "" {
			report.Content += "\n\n"
		}
		report.Content += input.ClosingNote
	}
	report.Checklist = input.Checklist
	report.SignatureRef = input.SignatureRef

	job.Reports = append(job.Reports, report)
	job.Status = enums.JobStatusCompleted
	job.Checklist = input.Checklist
	job.SignatureRef = input.SignatureRef
	doc.InvalidateBriefing()

	if err := s.store.Save(ctx, doc); err != nil {
		return document.Job{}, outcome, err
	}

	location := doc.LocationByID(job.LocationID)
	if location == nil {
		location = &document.Location{}
	}
	outcome = s.dispatcher.SendCompletion(ctx, *job, doc.TechByID(job.TechID), *location, report, doc.AdminEmails)
	return *job, outcome, nil
}

func (s *service) authorID(job document.Job) string {
	if job.Assigned() {
		return job.TechID
	}
	return document.UnknownTechID
}
