package enums

import "fmt"

// JobType distinguishes one-off service calls from longer projects.
type JobType string

const (
	JobTypeService JobType = "Service"
	JobTypeProject JobType = "Project"
)

var validJobTypes = []JobType{
	JobTypeService,
	JobTypeProject,
}

// String returns the literal string for the type.
func (t JobType) String() string {
	return string(t)
}

// IsValid reports whether the type is known.
func (t JobType) IsValid() bool {
	for _, candidate := range validJobTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseJobType converts raw input into a JobType.
func ParseJobType(value string) (JobType, error) {
	for _, candidate := range validJobTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid job type %q", value)
}
