package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/iksnae/emotion-session/internal"
	"github.com/spf13/cobra"
)

var (
	chatSession string
	chatContext string
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat interactively and track the session's mood",
	Long: `Start an interactive session. Each line you type is analyzed and
answered, and the conversation so far is passed along so replies can
follow how your mood shifts.

Type /quit or an empty line to finish. The session trend is printed on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newClassifyingApp(ctx, appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		sessionID := chatSession
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("💬 Emotion session "+sessionID))
		fmt.Fprintln(out)

		var history []internal.ConversationTurn
		for {
			line, err := prompts.Line("You:", "Type /quit or leave empty to finish")
			if isInterrupt(err) {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			line = strings.TrimSpace(line)
			if line == "" || line == "/quit" {
				break
			}

			rec, err := a.analyzer.Analyze(ctx, internal.AnalyzeRequest{
				Text:      line,
				SessionID: sessionID,
				Context:   chatContext,
				History:   history,
			})
			switch {
			case errors.Is(err, internal.ErrInvalidInput):
				internal.PrintWarning(out, err.Error())
				continue
			case errors.Is(err, internal.ErrStoreWriteFailure):
				internal.PrintWarning(out, "analysis was not saved: "+err.Error())
			case err != nil:
				internal.PrintError(out, err.Error())
				continue
			}

			renderAnalysis(out, rec)
			fmt.Fprintln(out)
			history = appendExchange(history, line, rec.AdaptiveResponse)
		}

		if len(history) == 0 {
			return nil
		}
		trend, err := a.analyzer.Trend(ctx, sessionID)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		renderTrend(out, trend)
		return nil
	},
}

// appendExchange records one user line and the reply it got
func appendExchange(history []internal.ConversationTurn, line, reply string) []internal.ConversationTurn {
	return append(history,
		internal.ConversationTurn{Role: internal.RoleUser, Text: line},
		internal.ConversationTurn{Role: internal.RoleAssistant, Text: reply},
	)
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "Session ID to continue (default: new UUID)")
	chatCmd.Flags().StringVar(&chatContext, "context", "", "Conversation context, e.g. work or family")
}
