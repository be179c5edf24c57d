package shortlist

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hireloop/shortlister/internal/applicant"
)

func profileJSON(t *testing.T, p *applicant.Profile) string {
	t.Helper()

	text, err := p.JSON()
	if err != nil {
		t.Fatalf("encoding profile: %v", err)
	}
	return text
}

func qualifiedProfile() *applicant.Profile {
	return &applicant.Profile{
		Personal: applicant.PersonalDetails{
			Name:     "Ada Lovelace",
			Location: "San Francisco, USA",
		},
		Experience: []applicant.ExperienceEntry{
			{Company: "Initech", Start: "2020-01-01", End: "2024-01-01"},
		},
		Salary: applicant.SalaryPreferences{
			PreferredRate: 100,
			MinimumRate:   80,
			Currency:      "USD",
			Availability:  20,
		},
	}
}

func TestEvaluateQualifiedCandidate(t *testing.T) {
	evaluator := NewEvaluator(DefaultCriteria(), zap.NewNop())

	decision := evaluator.Evaluate(profileJSON(t, qualifiedProfile()))

	if !decision.Passed {
		t.Fatalf("expected candidate to qualify, rationale: %s", decision.Rationale)
	}

	expected := "QUALIFIED: 4.0 years experience; Rate $100/hr, 20hrs/week available; Located in san francisco, usa"
	if decision.Rationale != expected {
		t.Fatalf("unexpected rationale: %q", decision.Rationale)
	}

	if len(decision.Reasons) != 3 {
		t.Fatalf("expected 3 reasons, got %d: %v", len(decision.Reasons), decision.Reasons)
	}
}

func TestEvaluateExperienceBoundary(t *testing.T) {
	cases := []struct {
		name   string
		start  string
		end    string
		passed bool
	}{
		{name: "exactly four years", start: "2020-01-01", end: "2024-01-01", passed: true},
		{name: "one month short", start: "2020-01-01", end: "2023-12-01", passed: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profile := qualifiedProfile()
			profile.Experience = []applicant.ExperienceEntry{
				{Company: "Initech", Start: tc.start, End: tc.end},
			}

			decision := NewEvaluator(DefaultCriteria(), zap.NewNop()).Evaluate(profileJSON(t, profile))
			if decision.Passed != tc.passed {
				t.Fatalf("expected passed=%v, rationale: %s", tc.passed, decision.Rationale)
			}
		})
	}
}

func TestEvaluateTier1Substring(t *testing.T) {
	profile := qualifiedProfile()
	profile.Experience = []applicant.ExperienceEntry{
		{Company: "Google Inc", Start: "2023-06-01", End: "2023-12-01"},
	}

	decision := NewEvaluator(DefaultCriteria(), zap.NewNop()).Evaluate(profileJSON(t, profile))

	if !decision.Passed {
		t.Fatalf("expected tier-1 company to satisfy experience, rationale: %s", decision.Rationale)
	}

	if !strings.Contains(decision.Rationale, "Tier-1 company experience") {
		t.Fatalf("expected tier-1 reason, got: %s", decision.Rationale)
	}

	if strings.Contains(decision.Rationale, "years experience") {
		t.Fatalf("half a year must not produce a years reason: %s", decision.Rationale)
	}
}

func TestEvaluateBothExperienceReasons(t *testing.T) {
	profile := qualifiedProfile()
	profile.Experience = []applicant.ExperienceEntry{
		{Company: "Google", Start: "2018-01-01", End: "2024-01-01"},
	}

	decision := NewEvaluator(DefaultCriteria(), zap.NewNop()).Evaluate(profileJSON(t, profile))

	if !strings.Contains(decision.Rationale, "6.0 years experience") {
		t.Fatalf("expected years reason, got: %s", decision.Rationale)
	}

	if !strings.Contains(decision.Rationale, "Tier-1 company experience") {
		t.Fatalf("expected tier-1 reason, got: %s", decision.Rationale)
	}
}

func TestEvaluateCompensationBoundaries(t *testing.T) {
	cases := []struct {
		name         string
		rate         float64
		availability float64
		passed       bool
	}{
		{name: "at both limits", rate: 100, availability: 20, passed: true},
		{name: "rate too high", rate: 101, availability: 20, passed: false},
		{name: "availability too low", rate: 100, availability: 19, passed: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profile := qualifiedProfile()
			profile.Salary.PreferredRate = tc.rate
			profile.Salary.Availability = tc.availability

			decision := NewEvaluator(DefaultCriteria(), zap.NewNop()).Evaluate(profileJSON(t, profile))
			if decision.Passed != tc.passed {
				t.Fatalf("expected passed=%v, rationale: %s", tc.passed, decision.Rationale)
			}
		})
	}
}

func TestEvaluateLocationRequired(t *testing.T) {
	profile := qualifiedProfile()
	profile.Personal.Location = "Mars Colony"

	decision := NewEvaluator(DefaultCriteria(), zap.NewNop()).Evaluate(profileJSON(t, profile))

	if decision.Passed {
		t.Fatalf("expected unqualified location to fail, rationale: %s", decision.Rationale)
	}

	if strings.Contains(decision.Rationale, "Located in") {
		t.Fatalf("failing location must not appear in rationale: %s", decision.Rationale)
	}
}

func TestEvaluateRationaleOmitsFailedCriteria(t *testing.T) {
	profile := &applicant.Profile{
		Personal:   applicant.PersonalDetails{Location: "Atlantis"},
		Experience: []applicant.ExperienceEntry{},
		Salary:     applicant.SalaryPreferences{PreferredRate: 500, Currency: "USD"},
	}

	decision := NewEvaluator(DefaultCriteria(), zap.NewNop()).Evaluate(profileJSON(t, profile))

	if decision.Passed {
		t.Fatal("expected candidate to fail every criterion")
	}

	// The rationale names passing criteria only, so here it carries none.
	if decision.Rationale != "NOT QUALIFIED: " {
		t.Fatalf("unexpected rationale: %q", decision.Rationale)
	}

	if len(decision.Reasons) != 0 {
		t.Fatalf("expected no reasons, got %v", decision.Reasons)
	}
}

func TestEvaluateBadInput(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{name: "malformed json", text: "{not json"},
		{name: "wrong field type", text: `{"salary": {"preferred_rate": "ninety"}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision := NewEvaluator(DefaultCriteria(), zap.NewNop()).Evaluate(tc.text)

			if decision.Passed {
				t.Fatal("expected failure for bad input")
			}

			if decision.Rationale != "Error in evaluation" {
				t.Fatalf("unexpected rationale: %q", decision.Rationale)
			}
		})
	}
}

func TestExperienceYearsSkipsUnparsableDates(t *testing.T) {
	evaluator := NewEvaluator(DefaultCriteria(), zap.NewNop())

	years := evaluator.experienceYears([]applicant.ExperienceEntry{
		{Start: "not-a-date", End: "2024-01-01"},
		{Start: "2023-01-01", End: "whenever"},
		{Start: "2020-01-01", End: "2022-01-01"},
	})

	if years != 2.0 {
		t.Fatalf("expected only the valid entry to count, got %v years", years)
	}
}

func TestExperienceYearsOngoingEngagement(t *testing.T) {
	evaluator := NewEvaluator(DefaultCriteria(), zap.NewNop())
	evaluator.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }

	cases := []struct {
		name  string
		end   string
		years float64
	}{
		{name: "present keyword", end: "present", years: 10},
		{name: "uppercase present", end: "PRESENT", years: 10},
		{name: "empty end", end: "", years: 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			years := evaluator.experienceYears([]applicant.ExperienceEntry{
				{Start: "2014-03-01", End: tc.end},
			})

			if years != tc.years {
				t.Fatalf("expected %v years, got %v", tc.years, years)
			}
		})
	}
}

func TestExperienceYearsClampsNegativeSpans(t *testing.T) {
	evaluator := NewEvaluator(DefaultCriteria(), zap.NewNop())

	years := evaluator.experienceYears([]applicant.ExperienceEntry{
		{Start: "2024-01-01", End: "2020-01-01"},
		{Start: "2020-01-01", End: "2021-01-01"},
	})

	if years != 1.0 {
		t.Fatalf("expected negative span to count as zero, got %v years", years)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	evaluator := NewEvaluator(DefaultCriteria(), zap.NewNop())
	text := profileJSON(t, qualifiedProfile())

	first := evaluator.Evaluate(text)
	second := evaluator.Evaluate(text)

	if first.Passed != second.Passed || first.Rationale != second.Rationale {
		t.Fatalf("expected identical decisions, got %q and %q", first.Rationale, second.Rationale)
	}
}
