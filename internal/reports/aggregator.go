// Package reports classifies job history entries and folds same-day
// progress photos into daily report submissions.
package reports

import (
	"time"

	"github.com/mwickstrom1817/5gjobs/internal/document"
)

// IsProgress reports whether the entry is a progress update, meaning
// every structured field is empty. Anything else is a daily report.
func IsProgress(r document.Report) bool {
	return r.TechsOnSite == "" &&
		r.TimeArrived == "" &&
		r.TimeDeparted == "" &&
		r.HoursWorked == "" &&
		r.PartsUsed == "" &&
		r.BillableItems == ""
}

// SameDayProgressPhotos collects the photo references of every
// progress update posted on the given calendar day, in chronological
// order. The source entries are left untouched, so submitting a second
// daily report the same day folds the same photos again.
func SameDayProgressPhotos(job document.Job, day time.Time) []string {
	y, m, d := day.Date()

	var photos []string
	for _, r := range job.Reports {
		if !IsProgress(r) {
			continue
		}
		ry, rm, rd := r.Timestamp.Date()
		if ry != y || rm != m || rd != d {
			continue
		}
		photos = append(photos, r.Photos...)
	}
	return photos
}
