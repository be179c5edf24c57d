package applicant

// Tables names the base's tables. Deployments rename tables without touching
// code, so every lookup goes through this value.
type Tables struct {
	Applicants  string `mapstructure:"applicants"`
	Personal    string `mapstructure:"personal"`
	Experience  string `mapstructure:"experience"`
	Salary      string `mapstructure:"salary"`
	Shortlisted string `mapstructure:"shortlisted"`
}

// DefaultTables returns the stock table names.
func DefaultTables() Tables {
	return Tables{
		Applicants:  "Applicants",
		Personal:    "Personal Details",
		Experience:  "Work Experience",
		Salary:      "Salary Preferences",
		Shortlisted: "Shortlisted Leads",
	}
}
