package ai

import "context"

// Review is the structured result of a narrative evaluation. A zero Score is
// reserved for evaluations that could not be performed.
type Review struct {
	Summary   string
	Score     int
	Issues    string
	FollowUps string
}

// Enrichment carries profile improvement suggestions.
type Enrichment struct {
	Skills       []string
	ProjectTypes []string
}

// Reviewer produces narrative evaluations of canonical applicant profiles.
type Reviewer interface {
	// Review never fails: exhausted retries yield the fixed failure review.
	Review(ctx context.Context, profileJSON string) *Review
	Suggest(ctx context.Context, profileJSON string) (*Enrichment, error)
}
