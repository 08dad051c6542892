package dispatch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mwickstrom1817/5gjobs/internal/document"
)

// AssignmentMailto builds a pre-filled mailto link for notifying the
// technician by hand. It depends only on the job, tech, and location,
// so it is available even when no transport is configured.
func AssignmentMailto(job document.Job, tech document.Technician, location document.Location) string {
	subject := fmt.Sprintf("Assignment: %s", job.Title)
	body := fmt.Sprintf(`Hello %s,

New Assignment:
%s (%s)

Location:
%s
%s

Details:
%s
`, tech.Name, job.Title, job.Priority, location.Name, location.Address, job.Description)

	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		tech.Email, encodeMailtoParam(subject), encodeMailtoParam(body))
}

// Mail clients want %20 for spaces, not the form-encoding plus sign.
func encodeMailtoParam(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
