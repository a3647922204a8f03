package cmd

import (
	"time"

	"github.com/iksnae/emotion-session/internal"
	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history <session-id>",
	Short: "Show a session's analyses",
	Long: `Show the recorded analyses of a session, newest first.

Use 'emotion-session sessions' to see available session IDs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		records, err := a.analyzer.History(ctx, args[0], historyLimit)
		if err != nil {
			return err
		}
		renderHistory(cmd.OutOrStdout(), args[0], records, time.Now())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", internal.DefaultHistoryLimit, "Maximum number of analyses to show")
}
