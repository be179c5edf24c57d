package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hireloop/shortlister/internal/ai"
	"github.com/hireloop/shortlister/internal/ai/gemini"
	"github.com/hireloop/shortlister/internal/airtable"
	"github.com/hireloop/shortlister/internal/applicant"
	"github.com/hireloop/shortlister/internal/logger"
	"github.com/hireloop/shortlister/internal/pipeline"
	"github.com/hireloop/shortlister/internal/secrets"
	"github.com/hireloop/shortlister/internal/shortlist"
)

const (
	PromptCompress   = "Compress applicant data"
	PromptDecompress = "Decompress applicant data"
	PromptShortlist  = "Evaluate shortlist rules"
	PromptReview     = "Run AI review"
	PromptSuggest    = "Suggest profile enrichment"
	PromptProcess    = "Full processing for one applicant"
	PromptBatch      = "Process all applicants"
	PromptStats      = "Show system stats"
	PromptExport     = "Export profile to a file"
	PromptExit       = "Exit"
)

var errExit = errors.New("exit requested")

var menu = promptui.Select{
	Label: "Choose an action",
	Items: []string{
		PromptCompress, PromptDecompress, PromptShortlist, PromptReview, PromptSuggest,
		PromptProcess, PromptBatch, PromptStats, PromptExport, PromptExit,
	},
	Size: 10,
}

var applicantPrompt = promptui.Prompt{
	Label: "Applicant ID",
	Validate: func(input string) error {
		if strings.TrimSpace(input) == "" {
			return errors.New("applicant id must not be empty")
		}
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive shortlister menu",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// run drives the interactive menu loop.
func run(_ *cobra.Command) {
	ctx := context.Background()

	logger, processor := bootstrap(ctx)

	for {
		_, action, err := menu.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, processor, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			// A failed action returns to the menu; the session survives.
			logger.Error("action failed", zap.Error(err))
		}
	}
}

// bootstrap builds the logger and the fully wired processor, or exits.
func bootstrap(ctx context.Context) (*zap.Logger, *pipeline.Processor) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), viper.GetString("log-file"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the shortlister", zap.String("version", version))

	if err := config.validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	logger.Debug("configuration loaded",
		zap.String("airtable_base", config.Airtable.BaseID),
		zap.String("gemini_model", config.Gemini.Model),
		zap.String("applicants_table", config.Tables.Applicants),
	)

	processor, err := buildProcessor(ctx, config, logger)
	if err != nil {
		logger.Fatal("building processor", zap.Error(err))
	}

	return logger, processor
}

func buildProcessor(ctx context.Context, config *Config, logger *zap.Logger) (*pipeline.Processor, error) {
	token, err := secrets.Load(secrets.Source{
		Name:  "airtable token",
		Value: config.Airtable.Token,
		File:  config.Airtable.TokenFile,
		Env:   "AIRTABLE_TOKEN",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set airtable.token-file, airtable.token, or AIRTABLE_TOKEN)", err)
	}

	store := airtable.New(token, config.Airtable.BaseID, logger,
		airtable.WithRateLimit(config.Airtable.RateLimit),
		airtable.WithMaxRetries(config.Airtable.MaxRetries),
	)

	reviewer, err := newReviewer(ctx, config.Gemini, logger)
	if err != nil {
		return nil, err
	}

	transcoder := applicant.NewTranscoder(store, config.Tables, logger)
	evaluator := shortlist.NewEvaluator(config.Shortlist, logger)

	return pipeline.NewProcessor(store, transcoder, evaluator, reviewer, config.Tables, logger), nil
}

func newReviewer(ctx context.Context, cfg *GeminiConfig, logger *zap.Logger) (ai.Reviewer, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model)
	if err != nil {
		return nil, err
	}

	return gemini.NewReviewer(generator, cfg.MaxRetries, cfg.MaxLogLength, logger), nil
}

func handleAction(ctx context.Context, action string, processor *pipeline.Processor, logger *zap.Logger) error {
	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "exit requested from menu"))
		return errExit
	case PromptBatch:
		results, err := processor.ProcessAll(ctx)
		if err != nil {
			return err
		}
		printResults(results)
		return nil
	case PromptStats:
		return showStats(ctx, processor)
	}

	applicantID, err := askApplicantID()
	if err != nil {
		return err
	}

	switch action {
	case PromptCompress:
		if _, err := processor.Compress(ctx, applicantID); err != nil {
			return err
		}
		fmt.Printf("Data compressed for %s\n", applicantID)
	case PromptDecompress:
		if err := processor.Decompress(ctx, applicantID); err != nil {
			return err
		}
		fmt.Printf("Data decompressed for %s\n", applicantID)
	case PromptShortlist:
		decision, err := processor.Shortlist(ctx, applicantID)
		if err != nil {
			return err
		}
		fmt.Println(decision.Rationale)
	case PromptReview:
		review, err := processor.Review(ctx, applicantID)
		if err != nil {
			return err
		}
		fmt.Printf("Score %d/10: %s\n", review.Score, review.Summary)
	case PromptSuggest:
		enrichment, err := processor.Suggest(ctx, applicantID)
		if err != nil {
			return err
		}
		fmt.Printf("Suggested skills: %s\n", strings.Join(enrichment.Skills, ", "))
		fmt.Printf("Project types: %s\n", strings.Join(enrichment.ProjectTypes, ", "))
	case PromptProcess:
		outcome, err := processor.Process(ctx, applicantID)
		if err != nil {
			return err
		}
		printOutcome(applicantID, outcome)
	case PromptExport:
		path, err := processor.Export(ctx, applicantID)
		if err != nil {
			return err
		}
		fmt.Printf("Profile written to %s\n", path)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}

	return nil
}

func askApplicantID() (string, error) {
	applicantID, err := applicantPrompt.Run()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(applicantID), nil
}

func printResults(results pipeline.Results) {
	fmt.Println("Batch processing results:")
	fmt.Printf("  - Compressed: %d\n", results.Compressed)
	fmt.Printf("  - Shortlisted: %d\n", results.Shortlisted)
	fmt.Printf("  - Reviewed: %d\n", results.Reviewed)
	fmt.Printf("  - Errors: %d\n", results.Errors)
}

func printOutcome(applicantID string, outcome *pipeline.Outcome) {
	fmt.Printf("Full processing completed for %s\n", applicantID)
	fmt.Println("  - Data compressed: Success")
	fmt.Printf("  - Shortlist: %s\n", stepStatus(outcome.ShortlistErr))
	fmt.Printf("  - AI review: %s\n", stepStatus(outcome.ReviewErr))
	if outcome.Decision != nil {
		fmt.Printf("  - Verdict: %s\n", outcome.Decision.Rationale)
	}
	if outcome.Review != nil {
		fmt.Printf("  - Score: %d/10\n", outcome.Review.Score)
	}
}

func stepStatus(err error) string {
	if err != nil {
		return "Failed"
	}
	return "Success"
}

func showStats(ctx context.Context, processor *pipeline.Processor) error {
	stats, err := processor.CollectStats(ctx)
	if err != nil {
		return err
	}

	fmt.Println("System statistics:")
	fmt.Printf("  Applicants: %d\n", stats.Applicants)
	fmt.Printf("  Personal details rows: %d\n", stats.PersonalRows)
	fmt.Printf("  Work experience rows: %d\n", stats.ExperienceRows)
	fmt.Printf("  Salary preference rows: %d\n", stats.SalaryRows)
	fmt.Printf("  Shortlisted leads: %d\n", stats.ShortlistedLeads)
	fmt.Println("Processing status:")
	fmt.Printf("  - Compressed profile: %d/%d\n", stats.WithProfile, stats.Applicants)
	fmt.Printf("  - Shortlisted: %d/%d\n", stats.Shortlisted, stats.Applicants)
	fmt.Printf("  - Reviewed: %d/%d\n", stats.Reviewed, stats.Applicants)
	if stats.Scored > 0 {
		fmt.Printf("  - Average LLM score: %.1f/10\n", stats.AverageScore)
	}

	return nil
}
