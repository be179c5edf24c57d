package pipeline

import (
	"context"
	"fmt"
)

// Stats summarizes table sizes and processing progress.
type Stats struct {
	Applicants       int
	PersonalRows     int
	ExperienceRows   int
	SalaryRows       int
	ShortlistedLeads int

	WithProfile int
	Shortlisted int
	Reviewed    int

	Scored       int
	AverageScore float64
}

// CollectStats reads every table once and derives the processing counters
// from the applicant records. The average score covers applicants with a
// non-zero score; zero is the could-not-evaluate sentinel.
func (p *Processor) CollectStats(ctx context.Context) (*Stats, error) {
	applicants, err := p.store.ListAll(ctx, p.tables.Applicants)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", p.tables.Applicants, err)
	}

	stats := &Stats{Applicants: len(applicants)}

	if stats.PersonalRows, err = p.countRows(ctx, p.tables.Personal); err != nil {
		return nil, err
	}
	if stats.ExperienceRows, err = p.countRows(ctx, p.tables.Experience); err != nil {
		return nil, err
	}
	if stats.SalaryRows, err = p.countRows(ctx, p.tables.Salary); err != nil {
		return nil, err
	}
	if stats.ShortlistedLeads, err = p.countRows(ctx, p.tables.Shortlisted); err != nil {
		return nil, err
	}

	var total float64
	for _, rec := range applicants {
		if rec.StringField(FieldCompressedJSON) != "" {
			stats.WithProfile++
		}
		if rec.StringField(FieldShortlistStatus) == StatusShortlisted {
			stats.Shortlisted++
		}
		if rec.StringField(FieldLLMSummary) != "" {
			stats.Reviewed++
		}
		if score := rec.NumberField(FieldLLMScore); score != 0 {
			stats.Scored++
			total += score
		}
	}

	if stats.Scored > 0 {
		stats.AverageScore = total / float64(stats.Scored)
	}

	return stats, nil
}

func (p *Processor) countRows(ctx context.Context, table string) (int, error) {
	records, err := p.store.ListAll(ctx, table)
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", table, err)
	}

	return len(records), nil
}
