package document

import (
	"encoding/json"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	var doc Document
	doc.ApplyDefaults()

	if doc.Jobs == nil || doc.Techs == nil || doc.Locations == nil || doc.AdminEmails == nil {
		t.Fatalf("collections must be non-nil: %+v", doc)
	}
	if doc.Briefing != StaleBriefing {
		t.Fatalf("empty briefing should default to the stale sentinel, got %q", doc.Briefing)
	}

	doc.Briefing = "fresh"
	doc.ApplyDefaults()
	if doc.Briefing != "fresh" {
		t.Fatalf("defaults must not clobber a real briefing: %q", doc.Briefing)
	}
}

func TestBriefingStale(t *testing.T) {
	doc := Document{Briefing: "fresh"}
	if doc.BriefingStale() {
		t.Fatal("fresh briefing reported stale")
	}
	doc.InvalidateBriefing()
	if !doc.BriefingStale() {
		t.Fatal("invalidated briefing reported fresh")
	}
	if (&Document{}).BriefingStale() != true {
		t.Fatal("empty briefing should be stale")
	}
}

func TestLookupsReturnPointersIntoTheDocument(t *testing.T) {
	doc := Document{
		Jobs:  []Job{{ID: "j1"}},
		Techs: []Technician{{ID: "t1"}},
	}

	job := doc.JobByID("j1")
	if job == nil {
		t.Fatal("job not found")
	}
	job.Title = "renamed"
	if doc.Jobs[0].Title != "renamed" {
		t.Fatal("lookup must alias the document's slice")
	}

	if doc.JobByID("nope") != nil || doc.TechByID("nope") != nil || doc.LocationByID("nope") != nil {
		t.Fatal("unknown ids must return nil")
	}
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	doc := Document{
		Jobs: []Job{{
			ID:        "j1",
			Checklist: map[string]bool{"site cleaned": true},
			Reports:   []Report{{ID: "r1", Photos: []string{"p1"}}},
		}},
		AdminEmails:      []string{"owner@example.com"},
		LastReminderDate: "2026-03-09",
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var loaded Document
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if loaded.LastReminderDate != "2026-03-09" {
		t.Fatalf("lastReminderDate lost: %q", loaded.LastReminderDate)
	}
	if !loaded.Jobs[0].Checklist["site cleaned"] {
		t.Fatalf("checklist lost: %+v", loaded.Jobs[0])
	}
}
