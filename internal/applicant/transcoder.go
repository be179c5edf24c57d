package applicant

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/hireloop/shortlister/internal/airtable"
	"github.com/hireloop/shortlister/internal/logger"
)

// Store is the slice of the record-store client the transcoder needs.
type Store interface {
	ListAll(ctx context.Context, table string) ([]*airtable.Record, error)
	Create(ctx context.Context, table string, fields map[string]any) (*airtable.Record, error)
	Update(ctx context.Context, table, id string, fields map[string]any) (*airtable.Record, error)
	Delete(ctx context.Context, table, id string) error
}

// Transcoder folds the normalized tables into canonical profiles and unfolds
// them back.
type Transcoder struct {
	store  Store
	tables Tables
	logger *zap.Logger
}

func NewTranscoder(store Store, tables Tables, log *zap.Logger) *Transcoder {
	if log == nil {
		log = zap.NewNop()
	}

	return &Transcoder{store: store, tables: tables, logger: log}
}

// Compress gathers the applicant's rows from the three normalized tables and
// folds them into one Profile. Personal and salary match at most one row each
// (first linked row wins); experience collects every linked row in table
// order. Missing rows leave default-filled sections. Only a fetch failure
// aborts.
func (t *Transcoder) Compress(ctx context.Context, applicantID string) (*Profile, error) {
	profile := &Profile{}

	personal, err := t.findLinked(ctx, t.tables.Personal, applicantID)
	if err != nil {
		return nil, err
	}
	if personal != nil {
		t.decodeFields(personal, &profile.Personal, t.tables.Personal)
	}

	experience, err := t.store.ListAll(ctx, t.tables.Experience)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", t.tables.Experience, err)
	}
	for _, rec := range experience {
		if !rec.LinkedTo(FieldApplicantID, applicantID) {
			continue
		}

		var entry ExperienceEntry
		t.decodeFields(rec, &entry, t.tables.Experience)
		profile.Experience = append(profile.Experience, entry)
	}

	salary, err := t.findLinked(ctx, t.tables.Salary, applicantID)
	if err != nil {
		return nil, err
	}
	if salary != nil {
		t.decodeFields(salary, &profile.Salary, t.tables.Salary)
	}

	profile.Normalize()

	t.logger.Debug("compressed applicant data",
		zap.String(logger.FieldApplicant, applicantID),
		zap.Int("experience_entries", len(profile.Experience)),
	)

	return profile, nil
}

// Decompress writes canonical JSON text back into the normalized tables.
// Personal and salary rows are updated in place when a linked row exists and
// created otherwise. Experience rows are replaced wholesale: every linked row
// is deleted, then one row per entry is created in sequence order. The replace
// is deliberately destructive and assumes a single writer. A remote failure
// aborts the remaining steps without rolling back rows already written.
func (t *Transcoder) Decompress(ctx context.Context, applicantID, jsonText string) error {
	profile, err := ParseProfile(jsonText)
	if err != nil {
		return err
	}

	if err := t.upsertLinked(ctx, t.tables.Personal, applicantID, personalFields(profile.Personal, applicantID)); err != nil {
		return err
	}

	if err := t.replaceExperience(ctx, applicantID, profile.Experience); err != nil {
		return err
	}

	if err := t.upsertLinked(ctx, t.tables.Salary, applicantID, salaryFields(profile.Salary, applicantID)); err != nil {
		return err
	}

	t.logger.Info("restored normalized tables", zap.String(logger.FieldApplicant, applicantID))

	return nil
}

// findLinked returns the first record of the table linked to the applicant, or
// nil when none match.
func (t *Transcoder) findLinked(ctx context.Context, table, applicantID string) (*airtable.Record, error) {
	records, err := t.store.ListAll(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}

	for _, rec := range records {
		if rec.LinkedTo(FieldApplicantID, applicantID) {
			return rec, nil
		}
	}

	return nil, nil
}

func (t *Transcoder) upsertLinked(ctx context.Context, table, applicantID string, fields map[string]any) error {
	existing, err := t.findLinked(ctx, table, applicantID)
	if err != nil {
		return err
	}

	if existing != nil {
		_, err = t.store.Update(ctx, table, existing.ID, fields)
		return err
	}

	_, err = t.store.Create(ctx, table, fields)
	return err
}

func (t *Transcoder) replaceExperience(ctx context.Context, applicantID string, entries []ExperienceEntry) error {
	records, err := t.store.ListAll(ctx, t.tables.Experience)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", t.tables.Experience, err)
	}

	for _, rec := range records {
		if !rec.LinkedTo(FieldApplicantID, applicantID) {
			continue
		}
		if err := t.store.Delete(ctx, t.tables.Experience, rec.ID); err != nil {
			return err
		}
	}

	for _, entry := range entries {
		if _, err := t.store.Create(ctx, t.tables.Experience, experienceFields(entry, applicantID)); err != nil {
			return err
		}
	}

	return nil
}

// decodeFields maps a raw field map onto a typed section. Decoding is weakly
// typed, so numbers arriving as strings still land. Fields that cannot be
// coerced keep their zero values and the record is logged; one bad row never
// aborts a profile.
func (t *Transcoder) decodeFields(rec *airtable.Record, target any, table string) {
	cfg := &mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err == nil {
		err = decoder.Decode(rec.Fields)
	}
	if err != nil {
		t.logger.Warn("undecodable record fields, keeping defaults",
			zap.String(logger.FieldTable, table),
			zap.String("record_id", rec.ID),
			zap.Error(err),
		)
	}
}

func personalFields(p PersonalDetails, applicantID string) map[string]any {
	return map[string]any{
		FieldApplicantID: []string{applicantID},
		FieldFullName:    p.Name,
		FieldEmail:       p.Email,
		FieldLocation:    p.Location,
		FieldLinkedIn:    p.LinkedIn,
	}
}

func experienceFields(e ExperienceEntry, applicantID string) map[string]any {
	return map[string]any{
		FieldApplicantID:  []string{applicantID},
		FieldCompany:      e.Company,
		FieldTitle:        e.Title,
		FieldStartDate:    e.Start,
		FieldEndDate:      e.End,
		FieldTechnologies: e.Technologies,
	}
}

func salaryFields(s SalaryPreferences, applicantID string) map[string]any {
	return map[string]any{
		FieldApplicantID:   []string{applicantID},
		FieldPreferredRate: s.PreferredRate,
		FieldMinimumRate:   s.MinimumRate,
		FieldCurrency:      s.Currency,
		FieldAvailability:  s.Availability,
	}
}
