package services

// SendOutcome records what happened for a single recipient during a batch run.
type SendOutcome struct {
	Email   string `json:"email"`
	EventID string `json:"event_id,omitempty"`
	Status  string `json:"status"` // "sent", "skipped" or "failed"
	Reason  string `json:"reason,omitempty"`
}

// BatchResult accumulates per-recipient outcomes of a batch job so callers
// can assert on failure counts without parsing logs.
type BatchResult struct {
	Sent     int           `json:"sent"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Outcomes []SendOutcome `json:"outcomes"`
}

func (r *BatchResult) addSent(email, eventID string) {
	r.Sent++
	r.Outcomes = append(r.Outcomes, SendOutcome{Email: email, EventID: eventID, Status: "sent"})
}

func (r *BatchResult) addSkipped(email, eventID, reason string) {
	r.Skipped++
	r.Outcomes = append(r.Outcomes, SendOutcome{Email: email, EventID: eventID, Status: "skipped", Reason: reason})
}

func (r *BatchResult) addFailed(email, eventID, reason string) {
	r.Failed++
	r.Outcomes = append(r.Outcomes, SendOutcome{Email: email, EventID: eventID, Status: "failed", Reason: reason})
}
