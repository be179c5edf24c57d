package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hireloop/shortlister/internal/applicant"
	"github.com/hireloop/shortlister/internal/shortlist"
)

const (
	app = "shortlister"
)

type Config struct {
	Airtable  *AirtableConfig    `mapstructure:"airtable"`
	Gemini    *GeminiConfig      `mapstructure:"gemini"`
	Tables    applicant.Tables   `mapstructure:"tables"`
	Shortlist shortlist.Criteria `mapstructure:"shortlist"`
	LogFile   string             `mapstructure:"log-file"`
}

type AirtableConfig struct {
	BaseID     string  `mapstructure:"base-id"`
	Token      string  `mapstructure:"token"`
	TokenFile  string  `mapstructure:"token-file"`
	RateLimit  float64 `mapstructure:"rate-limit"`
	MaxRetries int     `mapstructure:"max-retries"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "shortlister reconciles applicant tables with canonical JSON profiles and screens the candidates",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	bindings := map[string]string{
		"airtable.base-id":    "AIRTABLE_BASE_ID",
		"airtable.token":      "AIRTABLE_TOKEN",
		"airtable.token-file": "AIRTABLE_TOKEN_FILE",
		"gemini.api-key":      "GEMINI_API_KEY",
		"gemini.api-key-file": "GEMINI_API_KEY_FILE",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is shortlister.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("airtable.rate-limit", 2)
	viper.SetDefault("airtable.max-retries", 3)

	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("gemini.max-retries", 3)
	viper.SetDefault("gemini.max-log-length", 200)

	tables := applicant.DefaultTables()
	viper.SetDefault("tables.applicants", tables.Applicants)
	viper.SetDefault("tables.personal", tables.Personal)
	viper.SetDefault("tables.experience", tables.Experience)
	viper.SetDefault("tables.salary", tables.Salary)
	viper.SetDefault("tables.shortlisted", tables.Shortlisted)

	criteria := shortlist.DefaultCriteria()
	viper.SetDefault("shortlist.min-experience-years", criteria.MinExperienceYears)
	viper.SetDefault("shortlist.max-hourly-rate", criteria.MaxHourlyRate)
	viper.SetDefault("shortlist.min-availability-hours", criteria.MinAvailabilityHours)
	viper.SetDefault("shortlist.tier1-companies", criteria.Tier1Companies)
	viper.SetDefault("shortlist.qualified-locations", criteria.QualifiedLocations)
}

func initConfig() {
	// Config matters only for the commands that talk to the remote services.
	if runCmd.CalledAs() == "" && processCmd.CalledAs() == "" && statsCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Defaults and environment bindings cover a missing file; a file parsed
	// with an error still aborts.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c == nil {
		return errors.New("config is required")
	}

	if c.Airtable == nil || strings.TrimSpace(c.Airtable.BaseID) == "" {
		return errors.New("airtable base id is required (set airtable.base-id or AIRTABLE_BASE_ID)")
	}
	if c.Airtable.MaxRetries < 1 {
		return errors.New("airtable.max-retries must be at least 1")
	}
	if c.Airtable.RateLimit <= 0 {
		return errors.New("airtable.rate-limit must be positive")
	}

	if c.Gemini == nil {
		return errors.New("gemini configuration is required")
	}
	if c.Gemini.MaxRetries < 1 {
		return errors.New("gemini.max-retries must be at least 1")
	}

	if c.Shortlist.MaxHourlyRate <= 0 {
		return errors.New("shortlist.max-hourly-rate must be positive")
	}
	if c.Shortlist.MinExperienceYears < 0 || c.Shortlist.MinAvailabilityHours < 0 {
		return errors.New("shortlist thresholds must not be negative")
	}
	if len(c.Shortlist.QualifiedLocations) == 0 {
		return errors.New("shortlist.qualified-locations must not be empty, no applicant could qualify")
	}

	for name, table := range map[string]string{
		"tables.applicants":  c.Tables.Applicants,
		"tables.personal":    c.Tables.Personal,
		"tables.experience":  c.Tables.Experience,
		"tables.salary":      c.Tables.Salary,
		"tables.shortlisted": c.Tables.Shortlisted,
	} {
		if strings.TrimSpace(table) == "" {
			return errors.New(name + " must not be empty")
		}
	}

	return nil
}
