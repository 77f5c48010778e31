package domain

import "time"

// FeedbackRating is the three-value satisfaction scale.
type FeedbackRating string

const (
	FeedbackPositive FeedbackRating = "positive"
	FeedbackNeutral  FeedbackRating = "neutral"
	FeedbackNegative FeedbackRating = "negative"
)

// ValidRating reports whether r is a known rating.
func ValidRating(r FeedbackRating) bool {
	switch r {
	case FeedbackPositive, FeedbackNeutral, FeedbackNegative:
		return true
	}
	return false
}

// Feedback rates a resolved ticket. At most one record exists per
// (ticket, submitter) pair; records are immutable and not deletable.
type Feedback struct {
	ID          string
	TicketID    string
	SubmitterID string
	AgentID     string
	Rating      FeedbackRating
	Comment     string
	CreatedAt   time.Time
}
