package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hireloop/shortlister/internal/ai"
	"github.com/hireloop/shortlister/internal/airtable"
	"github.com/hireloop/shortlister/internal/applicant"
	"github.com/hireloop/shortlister/internal/logger"
	"github.com/hireloop/shortlister/internal/shortlist"
)

// Fields written on applicant records and shortlisted leads.
const (
	FieldCompressedJSON  = "Compressed JSON"
	FieldShortlistStatus = "Shortlist Status"
	FieldLLMSummary      = "LLM Summary"
	FieldLLMScore        = "LLM Score"
	FieldLLMFollowUps    = "LLM Follow-Ups"
	FieldLeadApplicant   = "Applicant"
	FieldScoreReason     = "Score Reason"

	StatusShortlisted  = "Shortlisted"
	StatusNotQualified = "Not Qualified"
)

var (
	ErrApplicantNotFound = errors.New("applicant not found")
	ErrNoProfile         = errors.New("no compressed profile stored")
)

// Processor drives the per-applicant operations end to end: building and
// restoring canonical profiles, rule evaluation, and narrative review.
type Processor struct {
	store      applicant.Store
	transcoder *applicant.Transcoder
	evaluator  *shortlist.Evaluator
	reviewer   ai.Reviewer
	tables     applicant.Tables
	logger     *zap.Logger
}

func NewProcessor(store applicant.Store, transcoder *applicant.Transcoder, evaluator *shortlist.Evaluator, reviewer ai.Reviewer, tables applicant.Tables, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}

	return &Processor{
		store:      store,
		transcoder: transcoder,
		evaluator:  evaluator,
		reviewer:   reviewer,
		tables:     tables,
		logger:     log,
	}
}

// Compress builds the canonical profile from the normalized tables and
// persists it on the applicant record. The stored JSON is returned.
func (p *Processor) Compress(ctx context.Context, applicantID string) (string, error) {
	rec, err := p.findApplicant(ctx, applicantID)
	if err != nil {
		return "", err
	}

	return p.compressRecord(ctx, rec, applicantID)
}

// Decompress restores the normalized tables from the profile stored on the
// applicant record.
func (p *Processor) Decompress(ctx context.Context, applicantID string) error {
	rec, err := p.findApplicant(ctx, applicantID)
	if err != nil {
		return err
	}

	profileJSON := rec.StringField(FieldCompressedJSON)
	if profileJSON == "" {
		return fmt.Errorf("applicant %s: %w", applicantID, ErrNoProfile)
	}

	return p.transcoder.Decompress(ctx, applicantID, profileJSON)
}

// Shortlist evaluates the stored profile against the rules and persists the
// outcome on the applicant record. A passing applicant also gets a lead row.
func (p *Processor) Shortlist(ctx context.Context, applicantID string) (*shortlist.Decision, error) {
	rec, profileJSON, err := p.findProfile(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	return p.shortlistRecord(ctx, rec, applicantID, profileJSON)
}

// Review asks the narrative reviewer for an evaluation of the stored profile
// and persists it. The reviewer itself never fails; only store writes can.
func (p *Processor) Review(ctx context.Context, applicantID string) (*ai.Review, error) {
	rec, profileJSON, err := p.findProfile(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	return p.reviewRecord(ctx, rec, applicantID, profileJSON)
}

// Outcome reports one full pipeline run. A failed shortlist or review step
// leaves its result nil and the error beside it.
type Outcome struct {
	ProfileJSON  string
	Decision     *shortlist.Decision
	ShortlistErr error
	Review       *ai.Review
	ReviewErr    error
}

// Process runs the full pipeline for one applicant: compress, shortlist,
// review. A compress failure aborts the run; later step failures are carried
// in the outcome so callers can present partial progress.
func (p *Processor) Process(ctx context.Context, applicantID string) (*Outcome, error) {
	rec, err := p.findApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	profileJSON, err := p.compressRecord(ctx, rec, applicantID)
	if err != nil {
		return nil, err
	}

	out := &Outcome{ProfileJSON: profileJSON}
	out.Decision, out.ShortlistErr = p.shortlistRecord(ctx, rec, applicantID, profileJSON)
	out.Review, out.ReviewErr = p.reviewRecord(ctx, rec, applicantID, profileJSON)

	return out, nil
}

// Suggest returns enrichment ideas for the stored profile. Nothing is
// persisted; the suggestions are advisory.
func (p *Processor) Suggest(ctx context.Context, applicantID string) (*ai.Enrichment, error) {
	_, profileJSON, err := p.findProfile(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	return p.reviewer.Suggest(ctx, profileJSON)
}

// Export writes the stored profile to a temporary file, pretty-printed, and
// returns the file path.
func (p *Processor) Export(ctx context.Context, applicantID string) (string, error) {
	_, profileJSON, err := p.findProfile(ctx, applicantID)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(profileJSON), "", "  "); err != nil {
		return "", fmt.Errorf("format profile: %w", err)
	}

	f, err := os.CreateTemp("", "profile-*.json")
	if err != nil {
		return "", fmt.Errorf("create profile export: %w", err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return "", fmt.Errorf("write profile export: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close profile export: %w", err)
	}

	logger.WithApplicant(p.logger, applicantID).Info("profile exported",
		zap.String("path", f.Name()),
	)

	return f.Name(), nil
}

func (p *Processor) compressRecord(ctx context.Context, rec *airtable.Record, applicantID string) (string, error) {
	profile, err := p.transcoder.Compress(ctx, applicantID)
	if err != nil {
		return "", err
	}

	profileJSON, err := profile.JSON()
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}

	fields := map[string]any{FieldCompressedJSON: profileJSON}
	if _, err := p.store.Update(ctx, p.tables.Applicants, rec.ID, fields); err != nil {
		return "", fmt.Errorf("persist profile: %w", err)
	}

	logger.WithApplicant(p.logger, applicantID).Info("profile compressed and stored")

	return profileJSON, nil
}

func (p *Processor) shortlistRecord(ctx context.Context, rec *airtable.Record, applicantID, profileJSON string) (*shortlist.Decision, error) {
	decision := p.evaluator.Evaluate(profileJSON)

	status := StatusNotQualified
	if decision.Passed {
		status = StatusShortlisted
	}

	fields := map[string]any{FieldShortlistStatus: status}
	if _, err := p.store.Update(ctx, p.tables.Applicants, rec.ID, fields); err != nil {
		return nil, fmt.Errorf("persist shortlist status: %w", err)
	}

	log := logger.WithApplicant(p.logger, applicantID)

	if decision.Passed {
		lead := map[string]any{
			FieldLeadApplicant:  []string{rec.ID},
			FieldCompressedJSON: profileJSON,
			FieldScoreReason:    decision.Rationale,
		}
		if _, err := p.store.Create(ctx, p.tables.Shortlisted, lead); err != nil {
			return nil, fmt.Errorf("create shortlisted lead: %w", err)
		}
		log.Info("created shortlisted lead")
	}

	log.Info("shortlist processed",
		zap.String("status", status),
		zap.String("rationale", decision.Rationale),
	)

	return &decision, nil
}

func (p *Processor) reviewRecord(ctx context.Context, rec *airtable.Record, applicantID, profileJSON string) (*ai.Review, error) {
	review := p.reviewer.Review(ctx, profileJSON)

	fields := map[string]any{
		FieldLLMSummary:   review.Summary,
		FieldLLMScore:     review.Score,
		FieldLLMFollowUps: review.FollowUps,
	}
	if _, err := p.store.Update(ctx, p.tables.Applicants, rec.ID, fields); err != nil {
		return nil, fmt.Errorf("persist review: %w", err)
	}

	logger.WithApplicant(p.logger, applicantID).Info("review stored",
		zap.Int("score", review.Score),
	)

	return review, nil
}

func (p *Processor) findApplicant(ctx context.Context, applicantID string) (*airtable.Record, error) {
	records, err := p.store.ListAll(ctx, p.tables.Applicants)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.StringField(applicant.FieldApplicantID) == applicantID {
			return rec, nil
		}
	}

	return nil, fmt.Errorf("applicant %s: %w", applicantID, ErrApplicantNotFound)
}

func (p *Processor) findProfile(ctx context.Context, applicantID string) (*airtable.Record, string, error) {
	rec, err := p.findApplicant(ctx, applicantID)
	if err != nil {
		return nil, "", err
	}

	profileJSON := rec.StringField(FieldCompressedJSON)
	if profileJSON == "" {
		return nil, "", fmt.Errorf("applicant %s: %w", applicantID, ErrNoProfile)
	}

	return rec, profileJSON, nil
}
