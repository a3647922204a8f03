package cmd

import (
	"time"

	"github.com/iksnae/emotion-session/internal"
	"github.com/spf13/cobra"
)

var sessionsLimit int

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"list"},
	Short:   "List recorded sessions",
	Long:    `List recorded sessions, most recently active first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		sessions, err := a.analyzer.Sessions(ctx, sessionsLimit)
		if err != nil {
			return err
		}
		renderSessions(cmd.OutOrStdout(), sessions, time.Now())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", internal.DefaultSessionsLimit, "Maximum number of sessions to show")
}
