package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hireloop/shortlister/internal/applicant"
	"github.com/hireloop/shortlister/internal/logger"
)

// Results tallies one batch run. Shortlisted and Reviewed count completed
// steps, not passing applicants.
type Results struct {
	Compressed  int
	Shortlisted int
	Reviewed    int
	Errors      int
}

// ProcessAll pipelines every applicant in the table, strictly one at a time.
// Records without an applicant identifier are skipped without counting. The
// first failed step of an applicant is logged, counted once, and the batch
// moves on to the next applicant.
func (p *Processor) ProcessAll(ctx context.Context) (Results, error) {
	var results Results

	applicants, err := p.store.ListAll(ctx, p.tables.Applicants)
	if err != nil {
		return results, fmt.Errorf("list %s: %w", p.tables.Applicants, err)
	}

	for _, rec := range applicants {
		applicantID := rec.StringField(applicant.FieldApplicantID)
		if applicantID == "" {
			continue
		}

		log := logger.WithApplicant(p.logger, applicantID)

		profileJSON, err := p.compressRecord(ctx, rec, applicantID)
		if err != nil {
			log.Error("batch compress failed", zap.Error(err))
			results.Errors++
			continue
		}
		results.Compressed++

		if _, err := p.shortlistRecord(ctx, rec, applicantID, profileJSON); err != nil {
			log.Error("batch shortlist failed", zap.Error(err))
			results.Errors++
			continue
		}
		results.Shortlisted++

		if _, err := p.reviewRecord(ctx, rec, applicantID, profileJSON); err != nil {
			log.Error("batch review failed", zap.Error(err))
			results.Errors++
			continue
		}
		results.Reviewed++
	}

	p.logger.Info("batch processing completed",
		zap.Int("compressed", results.Compressed),
		zap.Int("shortlisted", results.Shortlisted),
		zap.Int("reviewed", results.Reviewed),
		zap.Int("errors", results.Errors),
	)

	return results, nil
}
