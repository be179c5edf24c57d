package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show table sizes and processing progress",
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()

		log, processor := bootstrap(ctx)

		if err := showStats(ctx, processor); err != nil {
			log.Fatal("collecting stats", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
