package cmd

import (
	"fmt"

	"github.com/iksnae/emotion-session/internal"
	"github.com/spf13/cobra"
)

var deleteYes bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and all its analyses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]
		out := cmd.OutOrStdout()
		if !deleteYes {
			ok, err := prompts.Confirm(fmt.Sprintf("Delete session %s and all its analyses?", sessionID))
			if err != nil && !isInterrupt(err) {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			if !ok {
				internal.PrintInfo(out, "Aborted")
				return nil
			}
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.analyzer.DeleteSession(ctx, sessionID); err != nil {
			return err
		}
		internal.PrintSuccess(out, "Deleted session "+sessionID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")
}
