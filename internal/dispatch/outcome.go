package dispatch

// Status classifies the result of one dispatch attempt.
type Status string

const (
	// StatusSent means the transport accepted every message.
	StatusSent Status = "sent"
	// StatusNotConfigured means no usable transport was resolved.
	// Callers surface the mailto fallback instead.
	StatusNotConfigured Status = "not_configured"
	// StatusFailed means the transport rejected the send. The error is
	// carried on the outcome and never propagated as the triggering
	// operation's failure.
	StatusFailed Status = "failed"
	// StatusSkipped means there was nobody to send to.
	StatusSkipped Status = "skipped"
)

// Kinds of dispatches, used as the metrics label.
const (
	KindAssignment = "assignment"
	KindCompletion = "completion"
	KindReminder   = "reminder"
)

// Outcome reports how a dispatch attempt ended. Dispatch methods
// return outcomes, never errors: sending is best effort and must not
// fail the business operation that triggered it.
type Outcome struct {
	Kind      string
	Status    Status
	Err       error
	MailtoURL string
}

// Sent reports whether the messages went out.
func (o Outcome) Sent() bool {
	return o.Status == StatusSent
}
