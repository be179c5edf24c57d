package gemini

import (
	"strconv"
	"strings"

	"github.com/hireloop/shortlister/internal/ai"
)

const (
	markerSummary   = "Summary:"
	markerScore     = "Score:"
	markerIssues    = "Issues:"
	markerFollowUps = "Follow-Ups:"

	markerSkills       = "Suggested Skills:"
	markerProjectTypes = "Project Types:"

	// Score assigned when the model answered with a Score line whose value
	// is not an integer.
	unreadableScore = 5
)

// parseReview extracts the structured review from the model's marker-line
// response. Markers are matched case-sensitively at the start of each line;
// bullet lines extend the follow-ups. A response without a Score line keeps
// the zero score.
func parseReview(raw string) *ai.Review {
	review := &ai.Review{}

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		switch {
		case strings.HasPrefix(line, markerSummary):
			review.Summary = strings.TrimSpace(strings.TrimPrefix(line, markerSummary))
		case strings.HasPrefix(line, markerScore):
			text := strings.TrimSpace(strings.TrimPrefix(line, markerScore))
			score, err := strconv.Atoi(text)
			if err != nil {
				score = unreadableScore
			}
			review.Score = score
		case strings.HasPrefix(line, markerIssues):
			review.Issues = strings.TrimSpace(strings.TrimPrefix(line, markerIssues))
		case strings.HasPrefix(line, markerFollowUps):
			review.FollowUps = strings.TrimSpace(strings.TrimPrefix(line, markerFollowUps))
		case strings.HasPrefix(line, "•"), strings.HasPrefix(line, "-"):
			review.FollowUps += "\n" + strings.TrimSpace(line)
		}
	}

	return review
}

// parseEnrichment reads the suggestion markers out of the model's response.
// Unmarked lines are ignored.
func parseEnrichment(raw string) *ai.Enrichment {
	enrichment := &ai.Enrichment{}

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		switch {
		case strings.HasPrefix(line, markerSkills):
			enrichment.Skills = splitList(strings.TrimPrefix(line, markerSkills))
		case strings.HasPrefix(line, markerProjectTypes):
			enrichment.ProjectTypes = splitList(strings.TrimPrefix(line, markerProjectTypes))
		}
	}

	return enrichment
}

func splitList(text string) []string {
	var items []string
	for _, item := range strings.Split(text, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}

	return items
}
