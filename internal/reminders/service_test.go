package reminders

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/mwickstrom1817/5gjobs/internal/dispatch"
	"github.com/mwickstrom1817/5gjobs/internal/document"
	"github.com/mwickstrom1817/5gjobs/pkg/enums"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
)

type fakeStore struct {
	doc   document.Document
	saves int
}

func (f *fakeStore) Load(_ context.Context) (document.Document, error) {
	doc := f.doc
	doc.ApplyDefaults()
	return doc, nil
}

func (f *fakeStore) Save(_ context.Context, doc document.Document) error {
	f.doc = doc
	f.saves++
	return nil
}

type fakeDispatcher struct {
	configured bool
	sent       []sentReminder
}

type sentReminder struct {
	tech    document.Technician
	subject string
	body    string
}

func (f *fakeDispatcher) SendAssignment(_ context.Context, _ document.Job, _ document.Technician, _ document.Location) dispatch.Outcome {
	return dispatch.Outcome{Kind: dispatch.KindAssignment, Status: dispatch.StatusSent}
}

func (f *fakeDispatcher) SendCompletion(_ context.Context, _ document.Job, _ *document.Technician, _ document.Location, _ document.Report, _ []string) dispatch.Outcome {
	return dispatch.Outcome{Kind: dispatch.KindCompletion, Status: dispatch.StatusSent}
}

func (f *fakeDispatcher) SendReminder(_ context.Context, tech document.Technician, subject, body string) dispatch.Outcome {
	f.sent = append(f.sent, sentReminder{tech: tech, subject: subject, body: body})
	return dispatch.Outcome{Kind: dispatch.KindReminder, Status: dispatch.StatusSent}
}

func (f *fakeDispatcher) Configured() bool {
	return f.configured
}

type remindersTestHelper struct {
	svc        Service
	store      *fakeStore
	dispatcher *fakeDispatcher
	monday     time.Time
}

func createRemindersTest(t *testing.T) *remindersTestHelper {
	t.Helper()
	helper := &remindersTestHelper{
		store:      &fakeStore{},
		dispatcher: &fakeDispatcher{configured: true},
		monday:     time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC),
	}
	helper.store.doc.ApplyDefaults()
	helper.store.doc.Techs = []document.Technician{
		{ID: "t1", Name: "Maria Santos", Email: "maria@example.com"},
		{ID: "t2", Name: "Dev Patel", Email: "dev@example.com"},
	}
	helper.store.doc.Locations = []document.Location{
		{ID: "l1", Name: "North Plant"},
	}
	helper.store.doc.Jobs = []document.Job{
		{ID: "j1", Title: "Replace compressor", Priority: enums.PriorityHigh, Status: enums.JobStatusPending, LocationID: "l1", TechID: "t1"},
		{ID: "j2", Title: "Inspect roofline", Priority: enums.PriorityLow, Status: enums.JobStatusCompleted, LocationID: "l1", TechID: "t1"},
	}

	svc, err := NewService(ServiceParams{
		Store:      helper.store,
		Dispatcher: helper.dispatcher,
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	helper.svc = svc
	return helper
}

func TestRun_sendsOncePerDay(t *testing.T) {
	helper := createRemindersTest(t)

	if err := helper.svc.Run(context.Background(), helper.monday); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if got := len(helper.dispatcher.sent); got != 1 {
		t.Fatalf("expected 1 reminder, got %d", got)
	}
	if helper.store.doc.LastReminderDate != "2026-03-09" {
		t.Fatalf("lastReminderDate not advanced: %q", helper.store.doc.LastReminderDate)
	}

	if err := helper.svc.Run(context.Background(), helper.monday.Add(4*time.Hour)); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if got := len(helper.dispatcher.sent); got != 1 {
		t.Fatalf("expected no second send, got %d", got)
	}
	if helper.store.saves != 1 {
		t.Fatalf("expected 1 save, got %d", helper.store.saves)
	}
}

func TestRun_skipsCompletedJobsAndIdleTechs(t *testing.T) {
	helper := createRemindersTest(t)

	if err := helper.svc.Run(context.Background(), helper.monday); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := len(helper.dispatcher.sent); got != 1 {
		t.Fatalf("expected 1 reminder, got %d", got)
	}
	sent := helper.dispatcher.sent[0]
	if sent.tech.ID != "t1" {
		t.Fatalf("reminder went to wrong tech: %s", sent.tech.ID)
	}
	if !strings.Contains(sent.body, "Replace compressor") {
		t.Fatalf("open job missing from body: %q", sent.body)
	}
	if strings.Contains(sent.body, "Inspect roofline") {
		t.Fatalf("completed job leaked into body: %q", sent.body)
	}
	if !strings.Contains(sent.subject, "2026-03-09") {
		t.Fatalf("subject missing date: %q", sent.subject)
	}
}

func TestRun_neverSendsOnWeekends(t *testing.T) {
	helper := createRemindersTest(t)
	saturday := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	sunday := saturday.Add(24 * time.Hour)

	for _, day := range []time.Time{saturday, sunday} {
		if err := helper.svc.Run(context.Background(), day); err != nil {
			t.Fatalf("Run on %s: %v", day.Weekday(), err)
		}
	}
	if got := len(helper.dispatcher.sent); got != 0 {
		t.Fatalf("expected no weekend sends, got %d", got)
	}
	if helper.store.doc.LastReminderDate != "" {
		t.Fatalf("weekend run advanced lastReminderDate: %q", helper.store.doc.LastReminderDate)
	}
}

func TestRun_unconfiguredTransportLeavesDateUntouched(t *testing.T) {
	helper := createRemindersTest(t)
	helper.dispatcher.configured = false

	if err := helper.svc.Run(context.Background(), helper.monday); err != nil {
		t.Fatalf("unconfigured Run: %v", err)
	}
	if got := len(helper.dispatcher.sent); got != 0 {
		t.Fatalf("expected no sends, got %d", got)
	}
	if helper.store.doc.LastReminderDate != "" {
		t.Fatalf("lastReminderDate advanced without a transport: %q", helper.store.doc.LastReminderDate)
	}

	// Transport configured later the same day: the sweep still runs.
	helper.dispatcher.configured = true
	if err := helper.svc.Run(context.Background(), helper.monday.Add(time.Hour)); err != nil {
		t.Fatalf("configured Run: %v", err)
	}
	if got := len(helper.dispatcher.sent); got != 1 {
		t.Fatalf("expected 1 send after configuration, got %d", got)
	}
}

func TestRun_advancesDateWithZeroOpenJobs(t *testing.T) {
	helper := createRemindersTest(t)
	helper.store.doc.Jobs = nil

	if err := helper.svc.Run(context.Background(), helper.monday); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := len(helper.dispatcher.sent); got != 0 {
		t.Fatalf("expected no sends, got %d", got)
	}
	if helper.store.doc.LastReminderDate != "2026-03-09" {
		t.Fatalf("lastReminderDate not advanced: %q", helper.store.doc.LastReminderDate)
	}
}
