package jobs

import (
	"github.com/mwickstrom1817/5gjobs/internal/document"
	"github.com/mwickstrom1817/5gjobs/pkg/enums"
)

// CreateJobInput carries everything needed to open a new job.
type CreateJobInput struct {
	Title         string
	Description   string
	Type          enums.JobType
	Priority      enums.Priority
	LocationID    string
	TechID        string
	ScheduledDate string
	Credentials   *document.Credentials
}

// UpdateJobInput is a partial update; nil fields are left alone.
type UpdateJobInput struct {
	Title         *string
	Description   *string
	Type          *enums.JobType
	Priority      *enums.Priority
	LocationID    *string
	TechID        *string
	ScheduledDate *string
	Credentials   *document.Credentials
}

// ProgressInput is a lightweight field update: a note, photos, or both.
type ProgressInput struct {
	Note   string
	Photos []string
}

// DailyReportInput carries the structured end-of-day submission.
type DailyReportInput struct {
	Note            string
	Photos          []string
	TechsOnSite     string
	TimeArrived     string
	TimeDeparted    string
	HoursWorked     string
	PartsUsed       string
	BillableItems   string
	RequestedStatus enums.JobStatus
}

// PendingCompletion is the token handed back when a daily report
// requests Completed status. Nothing is written until the caller
// confirms with it; completing a job always passes through this gate.
type PendingCompletion struct {
	JobID  string          `json:"jobId"`
	Report document.Report `json:"report"`
}

// SubmitResult is the outcome of a daily report submission: either the
// report was applied, or completion is pending confirmation.
type SubmitResult struct {
	Applied bool
	Report  document.Report
	Pending *PendingCompletion
}

// CompletionInput closes out a pending completion.
type CompletionInput struct {
	Pending      PendingCompletion
	Checklist    map[string]bool
	SignatureRef string
	ClosingNote  string
}
