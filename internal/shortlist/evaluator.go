package shortlist

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hireloop/shortlister/internal/applicant"
)

const dateLayout = "2006-01-02"

// Criteria is the shortlist policy. Thresholds and lists arrive from
// configuration; the evaluator itself never reads ambient state.
type Criteria struct {
	MinExperienceYears   float64  `mapstructure:"min-experience-years"`
	MaxHourlyRate        float64  `mapstructure:"max-hourly-rate"`
	MinAvailabilityHours float64  `mapstructure:"min-availability-hours"`
	Tier1Companies       []string `mapstructure:"tier1-companies"`
	QualifiedLocations   []string `mapstructure:"qualified-locations"`
}

// DefaultCriteria returns the stock policy.
func DefaultCriteria() Criteria {
	return Criteria{
		MinExperienceYears:   4,
		MaxHourlyRate:        100,
		MinAvailabilityHours: 20,
		Tier1Companies: []string{
			"google", "meta", "facebook", "openai", "apple", "microsoft",
			"amazon", "netflix", "uber", "airbnb", "stripe", "tesla",
			"salesforce", "adobe", "nvidia", "spacex", "palantir",
		},
		QualifiedLocations: []string{
			"us", "usa", "united states", "canada", "uk", "united kingdom",
			"germany", "india", "australia", "singapore", "netherlands",
		},
	}
}

// Decision is the outcome of one evaluation: the verdict, the reasons behind
// it, and the rendered rationale line. Decisions are plain values, never
// mutated after Evaluate returns.
type Decision struct {
	Passed    bool
	Reasons   []string
	Rationale string
}

// Evaluator applies the criteria to canonical profiles.
type Evaluator struct {
	criteria Criteria
	logger   *zap.Logger
	now      func() time.Time
}

func NewEvaluator(criteria Criteria, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Evaluator{criteria: criteria, logger: logger, now: time.Now}
}

// Evaluate judges a canonical JSON document against the policy. All three
// criteria must hold. The rationale lists only the criteria that passed, so a
// failing decision names no culprits; callers wanting diagnostics read the
// individual reasons. Unparsable input yields the fixed error decision rather
// than an error value.
func (e *Evaluator) Evaluate(profileJSON string) Decision {
	profile, err := applicant.ParseProfile(profileJSON)
	if err != nil {
		e.logger.Error("evaluating shortlist criteria", zap.Error(err))
		return Decision{Passed: false, Rationale: "Error in evaluation"}
	}

	var reasons []string

	years := e.experienceYears(profile.Experience)
	tier1 := e.hasTier1Experience(profile.Experience)
	experiencePassed := years >= e.criteria.MinExperienceYears || tier1
	if experiencePassed {
		if years >= e.criteria.MinExperienceYears {
			reasons = append(reasons, fmt.Sprintf("%.1f years experience", years))
		}
		if tier1 {
			reasons = append(reasons, "Tier-1 company experience")
		}
	}

	rate := profile.Salary.PreferredRate
	availability := profile.Salary.Availability
	compensationPassed := rate <= e.criteria.MaxHourlyRate && availability >= e.criteria.MinAvailabilityHours
	if compensationPassed {
		reasons = append(reasons, fmt.Sprintf("Rate $%g/hr, %ghrs/week available", rate, availability))
	}

	location := strings.ToLower(profile.Personal.Location)
	locationPassed := false
	for _, qualified := range e.criteria.QualifiedLocations {
		if strings.Contains(location, qualified) {
			locationPassed = true
			break
		}
	}
	if locationPassed {
		reasons = append(reasons, fmt.Sprintf("Located in %s", location))
	}

	passed := experiencePassed && compensationPassed && locationPassed

	verdict := "NOT QUALIFIED"
	if passed {
		verdict = "QUALIFIED"
	}

	return Decision{
		Passed:    passed,
		Reasons:   reasons,
		Rationale: fmt.Sprintf("%s: %s", verdict, strings.Join(reasons, "; ")),
	}
}

// experienceYears sums whole months between start and end across entries. An
// empty or "present" end resolves to the current date. Entries with
// unparsable dates are silently skipped, and a negative span counts as zero.
func (e *Evaluator) experienceYears(entries []applicant.ExperienceEntry) float64 {
	totalMonths := 0

	for _, entry := range entries {
		start, err := time.Parse(dateLayout, entry.Start)
		if err != nil {
			continue
		}

		end := e.now()
		if entry.End != "" && !strings.EqualFold(entry.End, "present") {
			end, err = time.Parse(dateLayout, entry.End)
			if err != nil {
				continue
			}
		}

		months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
		if months > 0 {
			totalMonths += months
		}
	}

	return float64(totalMonths) / 12
}

// hasTier1Experience matches company names against the tier-1 list by
// case-insensitive substring, so "Google Inc" and "Google LLC" both count.
func (e *Evaluator) hasTier1Experience(entries []applicant.ExperienceEntry) bool {
	for _, entry := range entries {
		company := strings.ToLower(entry.Company)
		for _, tier1 := range e.criteria.Tier1Companies {
			if strings.Contains(company, tier1) {
				return true
			}
		}
	}

	return false
}
