package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/iksnae/emotion-session/internal"
	"github.com/spf13/cobra"
)

var (
	analyzeSession string
	analyzeContext string
	analyzeJSON    bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <text...>",
	Short: "Analyze one utterance",
	Long: `Classify the sentiment of one utterance, derive its emotion and reply
with an adaptive response. The analysis is recorded in the session.

Without --session a new session id is generated.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newClassifyingApp(ctx, appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		sessionID := analyzeSession
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		var rec internal.AnalysisRecord
		err = internal.ShowProgress(ctx, "Analyzing...", func() error {
			var aerr error
			rec, aerr = a.analyzer.Analyze(ctx, internal.AnalyzeRequest{
				Text:      strings.Join(args, " "),
				SessionID: sessionID,
				Context:   analyzeContext,
			})
			return aerr
		})
		saveErr := errors.Is(err, internal.ErrStoreWriteFailure)
		if err != nil && !saveErr {
			return err
		}

		out := cmd.OutOrStdout()
		if analyzeJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if jerr := enc.Encode(rec); jerr != nil {
				return fmt.Errorf("failed to encode analysis: %w", jerr)
			}
		} else {
			renderAnalysis(out, rec)
		}
		if saveErr {
			return fmt.Errorf("analysis was not saved: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzeSession, "session", "s", "", "Session ID (default: new UUID)")
	analyzeCmd.Flags().StringVar(&analyzeContext, "context", "", "Conversation context, e.g. work or family")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the analysis record as JSON")
}
