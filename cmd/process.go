package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hireloop/shortlister/internal/logger"
)

var processCmd = &cobra.Command{
	Use:   "process [applicant-id ...]",
	Short: "Run the full pipeline for the given applicants, or every applicant with --all",
	Run: func(cmd *cobra.Command, args []string) {
		process(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().Bool("all", false, "process every applicant in the table")
}

func process(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	log, processor := bootstrap(ctx)

	all, _ := cmd.Flags().GetBool("all")
	if all {
		results, err := processor.ProcessAll(ctx)
		if err != nil {
			log.Fatal("batch processing failed", zap.Error(err))
		}
		printResults(results)
		return
	}

	if len(args) == 0 {
		log.Fatal("nothing to process", zap.String("hint", "pass applicant ids or use --all"))
	}

	for _, applicantID := range args {
		outcome, err := processor.Process(ctx, applicantID)
		if err != nil {
			logger.WithApplicant(log, applicantID).Error("processing failed", zap.Error(err))
			fmt.Printf("Processing failed for %s: %s\n", applicantID, err)
			continue
		}
		printOutcome(applicantID, outcome)
	}
}
