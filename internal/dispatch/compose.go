package dispatch

import (
	"fmt"
	"strings"

	"github.com/mwickstrom1817/5gjobs/internal/document"
	"github.com/mwickstrom1817/5gjobs/pkg/docrender"
)

const sectionRule = "--------------------------------------------------"

func assignmentSubject(job document.Job) string {
	return fmt.Sprintf("New Job Assignment: %s", job.Title)
}

func assignmentBody(job document.Job, tech document.Technician, location document.Location) string {
	return fmt.Sprintf(`Hello %s,

You have been assigned a new job task.

JOB DETAILS
%s
Title:    %s
Priority: %s
Type:     %s

LOCATION
%s
Name:    %s
Address: %s

DESCRIPTION
%s
%s

Please check the ServiceCommand dashboard for full details.
`, tech.Name, sectionRule, job.Title, job.Priority, job.Type,
		sectionRule, location.Name, location.Address,
		sectionRule, job.Description)
}

func completionSubject(job document.Job) string {
	return fmt.Sprintf("Job Completed: %s", job.Title)
}

func completionBody(job document.Job, techName string, location document.Location, report document.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The following job has been marked complete.\n\n")
	fmt.Fprintf(&b, "JOB DETAILS\n%s\n", sectionRule)
	fmt.Fprintf(&b, "Title:     %s\n", job.Title)
	fmt.Fprintf(&b, "Priority:  %s\n", job.Priority)
	fmt.Fprintf(&b, "Type:      %s\n", job.Type)
	fmt.Fprintf(&b, "Tech:      %s\n", techName)
	fmt.Fprintf(&b, "Location:  %s, %s\n\n", location.Name, location.Address)
	fmt.Fprintf(&b, "COMPLETION REPORT\n%s\n", sectionRule)
	if report.TechsOnSite != "" {
		fmt.Fprintf(&b, "Techs on site: %s\n", report.TechsOnSite)
	}
	if report.TimeArrived != "" || report.TimeDeparted != "" {
		fmt.Fprintf(&b, "On site:       %s - %s\n", report.TimeArrived, report.TimeDeparted)
	}
	if report.HoursWorked != "" {
		fmt.Fprintf(&b, "Hours worked:  %s\n", report.HoursWorked)
	}
	if report.PartsUsed != "" {
		fmt.Fprintf(&b, "Parts used:    %s\n", report.PartsUsed)
	}
	if report.BillableItems != "" {
		fmt.Fprintf(&b, "Billable:      %s\n", report.BillableItems)
	}
	if report.Content != "" {
		fmt.Fprintf(&b, "\nNotes:\n%s\n", report.Content)
	}
	return b.String()
}

func completionPayload(job document.Job, techName string, location document.Location, report document.Report) docrender.Payload {
	sections := []string{
		fmt.Sprintf("Job: %s (%s, %s)", job.Title, job.Type, job.Priority),
		fmt.Sprintf("Technician: %s", techName),
		fmt.Sprintf("Location: %s, %s", location.Name, location.Address),
		fmt.Sprintf("Completed: %s", report.Timestamp.Format("2006-01-02 15:04")),
	}
	if report.HoursWorked != "" {
		sections = append(sections, fmt.Sprintf("Hours worked: %s", report.HoursWorked))
	}
	if report.PartsUsed != "" {
		sections = append(sections, fmt.Sprintf("Parts used: %s", report.PartsUsed))
	}
	if report.BillableItems != "" {
		sections = append(sections, fmt.Sprintf("Billable items: %s", report.BillableItems))
	}
	if report.Content != "" {
		sections = append(sections, report.Content)
	}
	return docrender.Payload{
		Title:    fmt.Sprintf("Completion Report - %s", job.Title),
		Sections: sections,
	}
}
