package briefing

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

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

type fakeGenerator struct {
	text    string
	err     error
	calls   int
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

type briefingTestHelper struct {
	svc       Service
	store     *fakeStore
	generator *fakeGenerator
}

func createBriefingTest(t *testing.T) *briefingTestHelper {
	t.Helper()
	helper := &briefingTestHelper{
		store:     &fakeStore{},
		generator: &fakeGenerator{text: "Good morning team."},
	}
	helper.store.doc.ApplyDefaults()
	helper.store.doc.Techs = []document.Technician{{ID: "t1", Name: "Maria Santos"}}
	helper.store.doc.Jobs = []document.Job{
		{ID: "j1", Title: "Replace compressor", Priority: enums.PriorityCritical, Status: enums.JobStatusPending},
		{ID: "j2", Title: "Routine check", Priority: enums.PriorityLow, Status: enums.JobStatusCompleted},
	}

	svc, err := NewService(ServiceParams{
		Store:     helper.store,
		Generator: helper.generator,
		Logger:    logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	helper.svc = svc
	return helper
}

func TestGet_regeneratesOnlyWhenStale(t *testing.T) {
	helper := createBriefingTest(t)
	helper.store.doc.Briefing = document.StaleBriefing

	text, err := helper.svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if text != "Good morning team." {
		t.Fatalf("unexpected briefing: %q", text)
	}
	if helper.store.doc.Briefing != text {
		t.Fatalf("briefing not persisted: %q", helper.store.doc.Briefing)
	}

	// Fresh cache short-circuits the generator.
	if _, err := helper.svc.Get(context.Background()); err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if helper.generator.calls != 1 {
		t.Fatalf("expected 1 generation, got %d", helper.generator.calls)
	}
}

func TestGet_staleWithNoJobsReturnsSentinel(t *testing.T) {
	helper := createBriefingTest(t)
	helper.store.doc.Jobs = nil
	helper.store.doc.Briefing = document.StaleBriefing

	text, err := helper.svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if text != document.StaleBriefing {
		t.Fatalf("expected sentinel, got %q", text)
	}
	if helper.generator.calls != 0 {
		t.Fatalf("generator must not run with no jobs, got %d calls", helper.generator.calls)
	}
}

func TestGet_generatorFailureFallsBack(t *testing.T) {
	helper := createBriefingTest(t)
	helper.store.doc.Briefing = document.StaleBriefing
	helper.generator.err = errors.New("quota exceeded")

	text, err := helper.svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if text != fallbackBriefing {
		t.Fatalf("expected fallback, got %q", text)
	}
	if helper.store.doc.Briefing != fallbackBriefing {
		t.Fatalf("fallback not persisted: %q", helper.store.doc.Briefing)
	}
}

func TestGet_nilGeneratorUsesFallback(t *testing.T) {
	helper := createBriefingTest(t)
	helper.store.doc.Briefing = document.StaleBriefing

	svc, err := NewService(ServiceParams{
		Store:  helper.store,
		Logger: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	text, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if text != fallbackBriefing {
		t.Fatalf("expected fallback, got %q", text)
	}
}

func TestRefresh_forcesRegeneration(t *testing.T) {
	helper := createBriefingTest(t)
	helper.store.doc.Briefing = "already fresh"

	text, err := helper.svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if text != "Good morning team." {
		t.Fatalf("unexpected briefing: %q", text)
	}
	if helper.generator.calls != 1 {
		t.Fatalf("expected regeneration, got %d calls", helper.generator.calls)
	}
}

func TestRefresh_noJobsResetsToSentinel(t *testing.T) {
	helper := createBriefingTest(t)
	helper.store.doc.Jobs = nil
	helper.store.doc.Briefing = "old briefing"

	text, err := helper.svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if text != document.StaleBriefing {
		t.Fatalf("expected sentinel, got %q", text)
	}
	if helper.store.doc.Briefing != document.StaleBriefing {
		t.Fatalf("sentinel not persisted: %q", helper.store.doc.Briefing)
	}
}

func TestBuildPrompt_countsActiveAndCritical(t *testing.T) {
	helper := createBriefingTest(t)
	helper.store.doc.Briefing = document.StaleBriefing

	if _, err := helper.svc.Get(context.Background()); err != nil {
		t.Fatalf("Get: %v", err)
	}
	prompt := helper.generator.prompts[0]
	if !strings.Contains(prompt, "Active Jobs: 1") {
		t.Fatalf("completed jobs must not count as active: %q", prompt)
	}
	if !strings.Contains(prompt, "Critical: 1") {
		t.Fatalf("critical count missing: %q", prompt)
	}
	if !strings.Contains(prompt, "Maria Santos") {
		t.Fatalf("tech roster missing: %q", prompt)
	}
}
