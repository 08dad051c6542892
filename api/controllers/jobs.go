package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mwickstrom1817/5gjobs/api/responses"
	"github.com/mwickstrom1817/5gjobs/api/validators"
	"github.com/mwickstrom1817/5gjobs/internal/dispatch"
	"github.com/mwickstrom1817/5gjobs/internal/document"
	"github.com/mwickstrom1817/5gjobs/internal/jobs"
	"github.com/mwickstrom1817/5gjobs/pkg/enums"
	pkgerrors "github.com/mwickstrom1817/5gjobs/pkg/errors"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
)

type credentialsBody struct {
	Username string `json:"username" validate:"max=200"`
	Password string `json:"password" validate:"max=200"`
	Notes    string `json:"notes" validate:"max=2000"`
}

type createJobRequest struct {
	Title         string           `json:"title" validate:"required,max=200"`
	Description   string           `json:"description" validate:"max=5000"`
	Type          string           `json:"type" validate:"required,oneof=Service Project"`
	Priority      string           `json:"priority" validate:"required,oneof=Low Medium High Critical"`
	LocationID    string           `json:"locationId" validate:"required"`
	TechID        string           `json:"techId"`
	ScheduledDate string           `json:"scheduledDate" validate:"max=40"`
	Credentials   *credentialsBody `json:"credentials"`
}

type updateJobRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	Type          *string          `json:"type" validate:"omitempty,oneof=Service Project"`
	Priority      *string          `json:"priority" validate:"omitempty,oneof=Low Medium High Critical"`
	LocationID    *string          `json:"locationId"`
	TechID        *string          `json:"techId"`
	ScheduledDate *string          `json:"scheduledDate"`
	Credentials   *credentialsBody `json:"credentials"`
}

type progressRequest struct {
	Note   string   `json:"note" validate:"max=5000"`
	Photos []string `json:"photos"`
}

type dailyReportRequest struct {
	Note            string   `json:"note" validate:"max=5000"`
	Photos          []string `json:"photos"`
	TechsOnSite     string   `json:"techsOnSite" validate:"max=500"`
	TimeArrived     string   `json:"timeArrived" validate:"max=40"`
	TimeDeparted    string   `json:"timeDeparted" validate:"max=40"`
	HoursWorked     string   `json:"hoursWorked" validate:"max=40"`
	PartsUsed       string   `json:"partsUsed" validate:"max=2000"`
	BillableItems   string   `json:"billableItems" validate:"max=2000"`
	RequestedStatus string   `json:"requestedStatus" validate:"required,oneof=Pending 'In Progress' Completed"`
}

type confirmCompletionRequest struct {
	Pending      jobs.PendingCompletion `json:"pending" validate:"required"`
	Checklist    map[string]bool        `json:"checklist"`
	SignatureRef string                 `json:"signatureRef" validate:"max=500"`
	ClosingNote  string                 `json:"closingNote" validate:"max=5000"`
}

// notificationView is the dispatch outcome surfaced to the client so
// it can offer the manual fallback when sending was not possible.
type notificationView struct {
	Status    string `json:"status"`
	MailtoURL string `json:"mailtoUrl,omitempty"`
	Error     string `json:"error,omitempty"`
}

func newNotificationView(outcome dispatch.Outcome) notificationView {
	view := notificationView{Status: string(outcome.Status), MailtoURL: outcome.MailtoURL}
	if outcome.Err != nil {
		view.Error = outcome.Err.Error()
	}
	return view
}

type jobWithNotification struct {
	Job          document.Job     `json:"job"`
	Notification notificationView `json:"notification"`
}

func ListJobs(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, all)
	}
}

func GetJob(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := svc.Get(r.Context(), chi.URLParam(r, "jobID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, job)
	}
}

func CreateJob(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createJobRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := jobs.CreateJobInput{
			Title:         req.Title,
			Description:   req.Description,
			Type:          enums.JobType(req.Type),
			Priority:      enums.Priority(req.Priority),
			LocationID:    req.LocationID,
			TechID:        req.TechID,
			ScheduledDate: req.ScheduledDate,
			Credentials:   req.Credentials.toDomain(),
		}
		job, outcome, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, jobWithNotification{
			Job:          job,
			Notification: newNotificationView(outcome),
		})
	}
}

func UpdateJob(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateJobRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := jobs.UpdateJobInput{
			Title:         req.Title,
			Description:   req.Description,
			LocationID:    req.LocationID,
			TechID:        req.TechID,
			ScheduledDate: req.ScheduledDate,
			Credentials:   req.Credentials.toDomain(),
		}
		if req.Type != nil {
			t := enums.JobType(*req.Type)
			input.Type = &t
		}
		if req.Priority != nil {
			p := enums.Priority(*req.Priority)
			input.Priority = &p
		}

		job, err := svc.Update(r.Context(), chi.URLParam(r, "jobID"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, job)
	}
}

func DeleteJob(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "jobID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func PostProgress(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req progressRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.PostProgress(r.Context(), chi.URLParam(r, "jobID"), jobs.ProgressInput{
			Note:   req.Note,
			Photos: req.Photos,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, report)
	}
}

func SubmitDailyReport(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dailyReportRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SubmitDailyReport(r.Context(), chi.URLParam(r, "jobID"), jobs.DailyReportInput{
			Note:            req.Note,
			Photos:          req.Photos,
			TechsOnSite:     req.TechsOnSite,
			TimeArrived:     req.TimeArrived,
			TimeDeparted:    req.TimeDeparted,
			HoursWorked:     req.HoursWorked,
			PartsUsed:       req.PartsUsed,
			BillableItems:   req.BillableItems,
			RequestedStatus: enums.JobStatus(req.RequestedStatus),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if result.Pending != nil {
			// Nothing was written; the client must confirm completion
			// with this token.
			responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]any{
				"pending": result.Pending,
			})
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result.Report)
	}
}

func ConfirmCompletion(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req confirmCompletionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if jobID := chi.URLParam(r, "jobID"); jobID != req.Pending.JobID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "pending token does not match job"))
			return
		}

		job, outcome, err := svc.ConfirmCompletion(r.Context(), jobs.CompletionInput{
			Pending:      req.Pending,
			Checklist:    req.Checklist,
			SignatureRef: req.SignatureRef,
			ClosingNote:  req.ClosingNote,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, jobWithNotification{
			Job:          job,
			Notification: newNotificationView(outcome),
		})
	}
}

func (c *credentialsBody) toDomain() *document.Credentials {
	if c == nil {
		return nil
	}
	return &document.Credentials{
		Username: c.Username,
		Password: c.Password,
		Notes:    c.Notes,
	}
}
