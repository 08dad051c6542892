package document

import (
	"time"

	"github.com/mwickstrom1817/5gjobs/pkg/enums"
)

// StaleBriefing is the sentinel stored in place of a generated
// briefing whenever job data changes underneath it.
const StaleBriefing = "Data required to generate briefing."

// UnknownTechID labels reports filed against an unassigned job.
const UnknownTechID = "unknown"

// Technician is a field worker who can be assigned jobs.
type Technician struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Initials string `json:"initials"`
	Color    string `json:"color"`
}

// Location is a service site. Coordinates are filled lazily the first
// time an address resolves and persisted from then on.
type Location struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
	MapURL  string   `json:"mapUrl,omitempty"`
}

// Credentials holds free-text site access secrets attached to a job.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Report is one entry in a job's history. A report with every
// structured field empty is a progress update; anything else is a
// daily report. The distinction is inferred, never stored.
type Report struct {
	ID        string    `json:"id"`
	TechID    string    `json:"techId"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`
	Photos    []string  `json:"photos,omitempty"`

	TechsOnSite   string `json:"techsOnSite,omitempty"`
	TimeArrived   string `json:"timeArrived,omitempty"`
	TimeDeparted  string `json:"timeDeparted,omitempty"`
	HoursWorked   string `json:"hoursWorked,omitempty"`
	PartsUsed     string `json:"partsUsed,omitempty"`
	BillableItems string `json:"billableItems,omitempty"`

	Checklist    map[string]bool `json:"checklist,omitempty"`
	SignatureRef string          `json:"signatureRef,omitempty"`
}

// Job is the aggregate's central entity. Reports are kept in
// insertion order, which is also chronological order.
type Job struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Type          enums.JobType   `json:"type"`
	Priority      enums.Priority  `json:"priority"`
	Status        enums.JobStatus `json:"status"`
	LocationID    string          `json:"locationId"`
	TechID        string          `json:"techId,omitempty"`
	ScheduledDate string          `json:"scheduledDate"`
	Reports       []Report        `json:"reports"`
	Credentials   *Credentials    `json:"credentials,omitempty"`
	Checklist     map[string]bool `json:"checklist,omitempty"`
	SignatureRef  string          `json:"signatureRef,omitempty"`
}

// Assigned reports whether the job references a technician.
func (j Job) Assigned() bool {
	return j.TechID != ""
}

// Document is the single persistence root. Every operation loads it
// whole, mutates it in memory, and writes it back whole.
type Document struct {
	Jobs             []Job        `json:"jobs"`
	Techs            []Technician `json:"techs"`
	Locations        []Location   `json:"locations"`
	Briefing         string       `json:"briefing"`
	AdminEmails      []string     `json:"adminEmails"`
	LastReminderDate string       `json:"lastReminderDate,omitempty"`
}

// ApplyDefaults normalizes a freshly loaded or zero-value document.
func (d *Document) ApplyDefaults() {
	if d.Jobs == nil {
		d.Jobs = []Job{}
	}
	if d.Techs == nil {
		d.Techs = []Technician{}
	}
	if d.Locations == nil {
		d.Locations = []Location{}
	}
	if d.AdminEmails == nil {
		d.AdminEmails = []string{}
	}
	if d.Briefing == "" {
		d.Briefing = StaleBriefing
	}
}

// InvalidateBriefing resets the cached briefing to the stale sentinel.
func (d *Document) InvalidateBriefing() {
	d.Briefing = StaleBriefing
}

// BriefingStale reports whether the briefing needs regeneration.
func (d *Document) BriefingStale() bool {
	return d.Briefing == "" || d.Briefing == StaleBriefing
}

// JobByID returns a pointer into the document's job slice, or nil.
func (d *Document) JobByID(id string) *Job {
	for i := range d.Jobs {
		if d.Jobs[i].ID == id {
			return &d.Jobs[i]
		}
	}
	return nil
}

// TechByID returns a pointer into the technician slice, or nil.
func (d *Document) TechByID(id string) *Technician {
	for i := range d.Techs {
		if d.Techs[i].ID == id {
			return &d.Techs[i]
		}
	}
	return nil
}

// LocationByID returns a pointer into the location slice, or nil.
func (d *Document) LocationByID(id string) *Location {
	for i := range d.Locations {
		if d.Locations[i].ID == id {
			return &d.Locations[i]
		}
	}
	return nil
}

// IsAdmin reports whether the email is on the admin list.
func (d *Document) IsAdmin(email string) bool {
	for _, admin := range d.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}
