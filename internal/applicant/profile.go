package applicant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Field names of the normalized tables.
const (
	FieldApplicantID = "Applicant ID"

	FieldFullName = "Full Name"
	FieldEmail    = "Email"
	FieldLocation = "Location"
	FieldLinkedIn = "LinkedIn"

	FieldCompany      = "Company"
	FieldTitle        = "Title"
	FieldStartDate    = "Start Date"
	FieldEndDate      = "End Date"
	FieldTechnologies = "Technologies"

	FieldPreferredRate = "Preferred Rate"
	FieldMinimumRate   = "Minimum Rate"
	FieldCurrency      = "Currency"
	FieldAvailability  = "Availability"
)

const defaultCurrency = "USD"

// Profile is the canonical form of one applicant: the three normalized tables
// folded into a single document. Sections are always present and fully
// populated; missing source data shows up as zero values, so consumers never
// branch on absence.
type Profile struct {
	Personal   PersonalDetails   `json:"personal"`
	Experience []ExperienceEntry `json:"experience"`
	Salary     SalaryPreferences `json:"salary"`
}

type PersonalDetails struct {
	Name     string `json:"name" mapstructure:"Full Name"`
	Email    string `json:"email" mapstructure:"Email"`
	Location string `json:"location" mapstructure:"Location"`
	LinkedIn string `json:"linkedin" mapstructure:"LinkedIn"`
}

// ExperienceEntry keeps dates as the raw table strings. An empty or "present"
// end marks an ongoing engagement.
type ExperienceEntry struct {
	Company      string `json:"company" mapstructure:"Company"`
	Title        string `json:"title" mapstructure:"Title"`
	Start        string `json:"start" mapstructure:"Start Date"`
	End          string `json:"end" mapstructure:"End Date"`
	Technologies string `json:"technologies" mapstructure:"Technologies"`
}

type SalaryPreferences struct {
	PreferredRate float64 `json:"preferred_rate" mapstructure:"Preferred Rate"`
	MinimumRate   float64 `json:"minimum_rate" mapstructure:"Minimum Rate"`
	Currency      string  `json:"currency" mapstructure:"Currency"`
	Availability  float64 `json:"availability" mapstructure:"Availability"`
}

// Normalize fills structural defaults: a non-nil experience sequence and the
// currency fallback. Freshly built and freshly parsed profiles both pass
// through here.
func (p *Profile) Normalize() {
	if p.Experience == nil {
		p.Experience = []ExperienceEntry{}
	}
	if strings.TrimSpace(p.Salary.Currency) == "" {
		p.Salary.Currency = defaultCurrency
	}
}

// JSON renders the profile as the canonical compact document.
func (p *Profile) JSON() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}

	return string(data), nil
}

// ParseProfile decodes canonical JSON text into a Profile. A type mismatch in
// any field fails the parse as a whole; nothing is salvaged from bad input.
func ParseProfile(text string) (*Profile, error) {
	var p Profile
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, fmt.Errorf("parse profile json: %w", err)
	}

	p.Normalize()

	return &p, nil
}
