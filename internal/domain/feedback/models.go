package feedback

import "time"

type Feedback struct {
	ID               string    `json:"id"`
	ProfileID        string    `json:"profileId"`
	FeedbackBy       string    `json:"feedbackBy"`
	AuthorName       string    `json:"authorName,omitempty"`
	FeedbackText     string    `json:"feedbackText"`
	PolishedFeedback string    `json:"polishedFeedback,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
