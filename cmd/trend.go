package cmd

import (
	"github.com/spf13/cobra"
)

// trendCmd represents the trend command
var trendCmd = &cobra.Command{
	Use:   "trend <session-id>",
	Short: "Show a session's mood trend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		trend, err := a.analyzer.Trend(ctx, args[0])
		if err != nil {
			return err
		}
		renderTrend(cmd.OutOrStdout(), trend)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trendCmd)
}
