package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/mwickstrom1817/5gjobs/internal/dispatch"
	"github.com/mwickstrom1817/5gjobs/internal/document"
	"github.com/mwickstrom1817/5gjobs/pkg/enums"
	pkgerrors "github.com/mwickstrom1817/5gjobs/pkg/errors"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
)

type fakeStore struct {
	doc     document.Document
	saves   int
	loadErr error
	saveErr error
}

func (f *fakeStore) Load(_ context.Context) (document.Document, error) {
	if f.loadErr != nil {
		return document.Document{}, f.loadErr
	}
	// Round-trip through JSON so the caller gets an independent copy,
	// same as the real store.
	data, err := json.Marshal(f.doc)
	if err != nil {
		return document.Document{}, err
	}
	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document.Document{}, err
	}
	doc.ApplyDefaults()
	return doc, nil
}

func (f *fakeStore) Save(_ context.Context, doc document.Document) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.doc = doc
	f.saves++
	return nil
}

type fakeDispatcher struct {
	assignments int
	completions int
	reminders   int
	configured  bool
	outcome     dispatch.Outcome
}

func (f *fakeDispatcher) SendAssignment(_ context.Context, _ document.Job, _ document.Technician, _ document.Location) dispatch.Outcome {
	f.assignments++
	return f.outcome
}

func (f *fakeDispatcher) SendCompletion(_ context.Context, _ document.Job, _ *document.Technician, _ document.Location, _ document.Report, _ []string) dispatch.Outcome {
	f.completions++
	return f.outcome
}

func (f *fakeDispatcher) SendReminder(_ context.Context, _ document.Technician, _, _ string) dispatch.Outcome {
	f.reminders++
	return f.outcome
}

func (f *fakeDispatcher) Configured() bool {
	return f.configured
}

type jobsTestHelper struct {
	svc        Service
	store      *fakeStore
	dispatcher *fakeDispatcher
	now        time.Time
}

func createJobsTest(t *testing.T) *jobsTestHelper {
	t.Helper()
	helper := &jobsTestHelper{
		store:      &fakeStore{},
		dispatcher: &fakeDispatcher{outcome: dispatch.Outcome{Status: dispatch.StatusSent}},
		now:        time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), // a Monday
	}
	helper.store.doc.ApplyDefaults()
	helper.store.doc.Techs = []document.Technician{
		{ID: "t1", Name: "Maria Santos", Email: "maria@example.com"},
	}
	helper.store.doc.Locations = []document.Location{
		{ID: "l1", Name: "North Plant", Address: "1 Plant Rd"},
	}

	seq := 0
	svc, err := NewService(ServiceParams{
		Store:      helper.store,
		Dispatcher: helper.dispatcher,
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Now: func() time.Time {
			seq++
			return helper.now.Add(time.Duration(seq) * time.Minute)
		},
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	helper.svc = svc
	return helper
}

func validCreateInput() CreateJobInput {
	return CreateJobInput{
		Title:         "Replace compressor",
		Description:   "Unit 4 compressor failing",
		Type:          enums.JobTypeService,
		Priority:      enums.PriorityHigh,
		LocationID:    "l1",
		TechID:        "t1",
		ScheduledDate: "2026-03-10",
	}
}

func TestCreate_unknownLocationFails(t *testing.T) {
	helper := createJobsTest(t)
	input := validCreateInput()
	input.LocationID = "nope"

	_, _, err := helper.svc.Create(context.Background(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if helper.store.saves != 0 {
		t.Fatalf("expected no save, got %d", helper.store.saves)
	}
	if len(helper.store.doc.Jobs) != 0 {
		t.Fatalf("job collection changed: %d", len(helper.store.doc.Jobs))
	}
}

func TestCreate_emptyTitleFails(t *testing.T) {
	helper := createJobsTest(t)
	input := validCreateInput()
	input.Title = ""

	if _, _, err := helper.svc.Create(context.Background(), input); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_insertsAtFrontAndDispatches(t *testing.T) {
	helper := createJobsTest(t)
	helper.store.doc.Jobs = []document.Job{{ID: "old", Title: "Old job", Status: enums.JobStatusPending, LocationID: "l1"}}
	helper.store.doc.Briefing = "previous briefing"

	job, outcome, err := helper.svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if job.Status != enums.JobStatusPending {
		t.Fatalf("expected Pending, got %s", job.Status)
	}
	if helper.store.doc.Jobs[0].ID != job.ID {
		t.Fatalf("expected new job at front, got %s", helper.store.doc.Jobs[0].ID)
	}
	if helper.dispatcher.assignments != 1 {
		t.Fatalf("expected 1 assignment dispatch, got %d", helper.dispatcher.assignments)
	}
	if outcome.Status != dispatch.StatusSent {
		t.Fatalf("unexpected outcome: %s", outcome.Status)
	}
	if helper.store.doc.Briefing != document.StaleBriefing {
		t.Fatalf("expected briefing invalidated, got %q", helper.store.doc.Briefing)
	}
}

func TestCreate_unassignedSkipsDispatch(t *testing.T) {
	helper := createJobsTest(t)
	input := validCreateInput()
	input.TechID = ""

	_, outcome, err := helper.svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if helper.dispatcher.assignments != 0 {
		t.Fatalf("expected no dispatch, got %d", helper.dispatcher.assignments)
	}
	if outcome.Status != dispatch.StatusSkipped {
		t.Fatalf("expected skipped outcome, got %s", outcome.Status)
	}
}

func TestCreate_assignmentFailureDoesNotFailCreation(t *testing.T) {
	helper := createJobsTest(t)
	helper.dispatcher.outcome = dispatch.Outcome{Status: dispatch.StatusNotConfigured, MailtoURL: "mailto:maria@example.com"}

	job, outcome, err := helper.svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if outcome.Status != dispatch.StatusNotConfigured {
		t.Fatalf("expected not_configured outcome, got %s", outcome.Status)
	}
	if helper.store.doc.JobByID(job.ID) == nil {
		t.Fatal("job was not persisted")
	}
}

func TestPostProgress_emptyFails(t *testing.T) {
	helper := createJobsTest(t)
	helper.store.doc.Jobs = []document.Job{{ID: "j1", Status: enums.JobStatusPending, LocationID: "l1"}}

	_, err := helper.svc.PostProgress(context.Background(), "j1", ProgressInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(helper.store.doc.Jobs[0].Reports) != 0 {
		t.Fatalf("history changed: %d", len(helper.store.doc.Jobs[0].Reports))
	}
	if helper.store.saves != 0 {
		t.Fatalf("expected no save, got %d", helper.store.saves)
	}
}

func TestPostProgress_transitionsPendingToInProgressOnce(t *testing.T) {
	helper := createJobsTest(t)
	helper.store.doc.Jobs = []document.Job{{ID: "j1", Status: enums.JobStatusPending, LocationID: "l1", TechID: "t1"}}

	if _, err := helper.svc.PostProgress(context.Background(), "j1", ProgressInput{Note: "arrived"}); err != nil {
		t.Fatalf("first PostProgress: %v", err)
	}
	if got := helper.store.doc.Jobs[0].Status; got != enums.JobStatusInProgress {
		t.Fatalf("expected In Progress, got %s", got)
	}

	if _, err := helper.svc.PostProgress(context.Background(), "j1", ProgressInput{Note: "still here"}); err != nil {
		t.Fatalf("second PostProgress: %v", err)
	}
	if got := helper.store.doc.Jobs[0].Status; got != enums.JobStatusInProgress {
		t.Fatalf("expected status unchanged, got %s", got)
	}
	if got := len(helper.store.doc.Jobs[0].Reports); got != 2 {
		t.Fatalf("expected 2 reports, got %d", got)
	}
}

func TestPostProgress_unassignedJobUsesUnknownAuthor(t *testing.T) {
	helper := createJobsTest(t)
	helper.store.doc.Jobs = []document.Job{{ID: "j1", Status: enums.JobStatusPending, LocationID: "l1"}}

	report, err := helper.svc.PostProgress(context.Background(), "j1", ProgressInput{Note: "arrived"})
	if err != nil {
		t.Fatalf("PostProgress: %v", err)
	}
	if report.TechID != document.UnknownTechID {
		t.Fatalf("expected unknown author, got %q", report.TechID)
	}
}

func TestSubmitDailyReport_completionIsDeferred(t *testing.T) {
	helper := createJobsTest(t)
	helper.store.doc.Jobs = []document.Job{{ID: "j1", Status: enums.JobStatusInProgress, LocationID: "l1", TechID: "t1"}}

	result, err := helper.svc.SubmitDailyReport(context.Background(), "j1", DailyReportInput{
		Note:            "done for the day",
		HoursWorked:     "8",
		RequestedStatus: enums.JobStatusCompleted,
	})
	if err != nil {
		t.Fatalf("SubmitDailyReport: %v", err)
	}
	if result.Pending == nil {
		t.Fatal("expected pending completion token")
	}
	if result.Applied {
		t.Fatal("report must not be applied yet")
	}
	if helper.store.saves != 0 {
		t.Fatalf("expected no save before confirmation, got %d", helper.store.saves)
	}
	if got := helper.store.doc.Jobs[0].Status; got != enums.JobStatusInProgress {
		t.Fatalf("status changed before confirmation: %s", got)
	}
	if got := len(helper.store.doc.Jobs[0].Reports); got != 0 {
		t.Fatalf("history changed before confirmation: %d", got)
	}

	checklist := map[string]bool{"site cleaned": true}
	job, _, err := helper.svc.ConfirmCompletion(context.Background(), CompletionInput{
		Pending:      *result.Pending,
		Checklist:    checklist,
		SignatureRef: "sig-1",
		ClosingNote:  "customer signed off",
	})
	if err != nil {
		t.Fatalf("ConfirmCompletion: %v", err)
	}
	if job.Status != enums.JobStatusCompleted {
		t.Fatalf("expected Completed, got %s", job.Status)
	}
	if got := len(helper.store.doc.Jobs[0].Reports); got != 1 {
		t.Fatalf("expected 1 report, got %d", got)
	}
	landed := helper.store.doc.Jobs[0].Reports[0]
	if !landed.Checklist["site cleaned"] || landed.SignatureRef != "sig-1" {
		t.Fatalf("checklist/signature not attached: %+v", landed)
	}
	if helper.dispatcher.completions != 1 {
		t.Fatalf("expected 1 completion dispatch, got %d", helper.dispatcher.completions)
	}
}

func TestConfirmCompletion_jobGoneBetweenPhases(t *testing.T) {
	helper := createJobsTest(t)
	helper.store.doc.Jobs = []document.Job{{ID: "j1", Status: enums.JobStatusInProgress, LocationID: "l1"}}

	result, err := helper.svc.SubmitDailyReport(context.Background(), "j1", DailyReportInput{
		HoursWorked:     "4",
		RequestedStatus: enums.JobStatusCompleted,
	})
	if err != nil {
		t.Fatalf("SubmitDailyReport: %v", err)
	}

	if err := helper.svc.Delete(context.Background(), "j1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, _, err = helper.svc.ConfirmCompletion(context.Background(), CompletionInput{Pending: *result.Pending})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmitDailyReport_foldsSameDayProgressPhotos(t *testing.T) {
	helper := createJobsTest(t)
	helper.store.doc.Jobs = []document.Job{{ID: "j1", Status: enums.JobStatusPending, LocationID: "l1", TechID: "t1"}}

	for i, photo := range []string{"p1", "p2", "p3"} {
		if _, err := helper.svc.PostProgress(context.Background(), "j1", ProgressInput{
			Note:   fmt.Sprintf("update %d", i+1),
			Photos: []string{photo},
		}); err != nil {
			t.Fatalf("PostProgress %d: %v", i, err)
		}
	}

	result, err := helper.svc.SubmitDailyReport(context.Background(), "j1", DailyReportInput{
		Note:            "wrap up",
		HoursWorked:     "6",
		RequestedStatus: enums.JobStatusInProgress,
	})
	if err != nil {
		t.Fatalf("SubmitDailyReport: %v", err)
	}
	if !result.Applied {
		t.Fatal("expected report applied")
	}
	want := []string{"p1", "p2", "p3"}
	if len(result.Report.Photos) != len(want) {
		t.Fatalf("expected %d photos, got %d", len(want), len(result.Report.Photos))
	}
	for i, photo := range want {
		if result.Report.Photos[i] != photo {
			t.Fatalf("photo %d: expected %s, got %s", i, photo, result.Report.Photos[i])
		}
	}
}

func TestSubmitDailyReport_reopensCompletedJob(t *testing.T) {
	helper := createJobsTest(t)
	helper.store.doc.Jobs = []document.Job{{
		ID:           "j1",
		Status:       enums.JobStatusCompleted,
		LocationID:   "l1",
		SignatureRef: "old-sig",
	}}

	result, err := helper.svc.SubmitDailyReport(context.Background(), "j1", DailyReportInput{
		HoursWorked:     "2",
		RequestedStatus: enums.JobStatusInProgress,
	})
	if err != nil {
		t.Fatalf("SubmitDailyReport: %v", err)
	}
	if !result.Applied {
		t.Fatal("expected report applied")
	}
	reopened := helper.store.doc.Jobs[0]
	if reopened.Status != enums.JobStatusInProgress {
		t.Fatalf("expected reopened job, got %s", reopened.Status)
	}
	// Stale completion artifacts stay on the job until overwritten.
	if reopened.SignatureRef != "old-sig" {
		t.Fatalf("signature should be kept, got %q", reopened.SignatureRef)
	}
}

func TestUpdate_techChangeDoesNotDispatch(t *testing.T) {
	helper := createJobsTest(t)
	helper.store.doc.Jobs = []document.Job{{ID: "j1", Title: "Job", Status: enums.JobStatusPending, LocationID: "l1"}}

	techID := "t1"
	job, err := helper.svc.Update(context.Background(), "j1", UpdateJobInput{TechID: &techID})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if job.TechID != "t1" {
		t.Fatalf("tech not updated: %q", job.TechID)
	}
	if helper.dispatcher.assignments != 0 {
		t.Fatalf("update must not dispatch assignment, got %d", helper.dispatcher.assignments)
	}
}

func TestUpdate_unknownJobFails(t *testing.T) {
	helper := createJobsTest(t)

	title := "x"
	_, err := helper.svc.Update(context.Background(), "nope", UpdateJobInput{Title: &title})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDelete_removesJob(t *testing.T) {
	helper := createJobsTest(t)
	helper.store.doc.Jobs = []document.Job{
		{ID: "j1", LocationID: "l1"},
		{ID: "j2", LocationID: "l1"},
	}

	if err := helper.svc.Delete(context.Background(), "j1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(helper.store.doc.Jobs) != 1 || helper.store.doc.Jobs[0].ID != "j2" {
		t.Fatalf("unexpected jobs after delete: %+v", helper.store.doc.Jobs)
	}
	if err := helper.svc.Delete(context.Background(), "j1"); pkgerrors.As(err) == nil {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
