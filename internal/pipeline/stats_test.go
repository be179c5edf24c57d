package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/shortlister/internal/applicant"
)

func TestCollectStats(t *testing.T) {
	store := newFakeStore()
	store.add(testTables.Applicants, map[string]any{
		applicant.FieldApplicantID: "APP-1",
		FieldCompressedJSON:        "{}",
		FieldShortlistStatus:       StatusShortlisted,
		FieldLLMSummary:            "Strong candidate",
		FieldLLMScore:              float64(8),
	})
	store.add(testTables.Applicants, map[string]any{
		applicant.FieldApplicantID: "APP-2",
		FieldCompressedJSON:        "{}",
		FieldShortlistStatus:       StatusNotQualified,
	})
	store.add(testTables.Applicants, map[string]any{
		applicant.FieldApplicantID: "APP-3",
		FieldLLMScore:              float64(7),
	})

	store.add(testTables.Personal, map[string]any{applicant.FieldFullName: "Ada"})
	store.add(testTables.Experience, map[string]any{applicant.FieldCompany: "Google"})
	store.add(testTables.Experience, map[string]any{applicant.FieldCompany: "NASA"})
	store.add(testTables.Salary, map[string]any{applicant.FieldPreferredRate: float64(90)})
	store.add(testTables.Shortlisted, map[string]any{FieldScoreReason: "QUALIFIED: looks great"})

	processor := newTestProcessor(store, &stubReviewer{})

	stats, err := processor.CollectStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Applicants)
	assert.Equal(t, 1, stats.PersonalRows)
	assert.Equal(t, 2, stats.ExperienceRows)
	assert.Equal(t, 1, stats.SalaryRows)
	assert.Equal(t, 1, stats.ShortlistedLeads)

	assert.Equal(t, 2, stats.WithProfile)
	assert.Equal(t, 1, stats.Shortlisted)
	assert.Equal(t, 1, stats.Reviewed)

	assert.Equal(t, 2, stats.Scored)
	assert.InDelta(t, 7.5, stats.AverageScore, 1e-9)
}

func TestCollectStatsNoScores(t *testing.T) {
	store := newFakeStore()
	store.add(testTables.Applicants, map[string]any{applicant.FieldApplicantID: "APP-1"})

	processor := newTestProcessor(store, &stubReviewer{})

	stats, err := processor.CollectStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Scored)
	assert.Zero(t, stats.AverageScore)
}

func TestCollectStatsListFailure(t *testing.T) {
	store := newFakeStore()
	listErr := fmt.Errorf("bad status: 500 Internal Server Error")
	store.failList[testTables.Experience] = listErr

	processor := newTestProcessor(store, &stubReviewer{})

	stats, err := processor.CollectStats(context.Background())
	require.ErrorIs(t, err, listErr)
	assert.Nil(t, stats)
}
