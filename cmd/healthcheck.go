package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/iksnae/emotion-session/internal"
	"github.com/iksnae/emotion-session/internal/classifier"
	"github.com/iksnae/emotion-session/internal/store"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
	skipClassifier     bool
)

const probeText = "I am doing fine today"

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that the store and classifier are reachable",
	Long: `Check the health of emotion-session by verifying:
  • Configuration loading
  • Store connectivity
  • Classifier availability (one probe request)

This command is useful for debugging deployments, especially in CI/CD environments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		failed := 0

		fmt.Fprintln(out, sectionStyle.Render("🔍 Emotion Session Health Check"))
		fmt.Fprintln(out)

		// Step 1: Configuration
		fmt.Fprintln(out, infoStyle.Render("Step 1: Loading configuration..."))
		source := appConfig.Source()
		if source == "" {
			source = "defaults"
		}
		fmt.Fprintln(out, successStyle.Render("✅ Configuration loaded from "+source))
		if healthcheckVerbose {
			fmt.Fprintf(out, "   Store: %s\n", appConfig.Store.Backend)
			if appConfig.Store.Path != "" {
				fmt.Fprintf(out, "   Path: %s\n", appConfig.Store.Path)
			}
			fmt.Fprintf(out, "   Classifier: %s\n", appConfig.Classifier.Provider)
		}
		fmt.Fprintln(out)

		// Step 2: Store
		fmt.Fprintln(out, infoStyle.Render("Step 2: Checking store..."))
		if err := checkStore(ctx, out); err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Store check failed:"), err)
			failed++
		}
		fmt.Fprintln(out)

		// Step 3: Classifier
		fmt.Fprintln(out, infoStyle.Render("Step 3: Checking classifier..."))
		if skipClassifier {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Classifier check skipped"))
		} else if err := checkClassifier(ctx, out); err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Classifier check failed:"), err)
			failed++
		}
		fmt.Fprintln(out)

		if failed > 0 {
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ %d check(s) failed", failed)))
			return errors.New("healthcheck failed")
		}
		fmt.Fprintln(out, successStyle.Render("✅ All checks passed"))
		return nil
	},
}

func checkStore(ctx context.Context, out io.Writer) error {
	s, err := store.Open(ctx, appConfig.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	if p, ok := s.(store.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return err
		}
	}
	sessions, err := s.Sessions(ctx, internal.MaxSessionsLimit)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ %s store reachable", appConfig.Store.Backend)))
	if healthcheckVerbose {
		fmt.Fprintf(out, "   Sessions: %d\n", len(sessions))
	}
	return nil
}

func checkClassifier(ctx context.Context, out io.Writer) error {
	c, err := classifier.New(ctx, appConfig.Classifier)
	if err != nil {
		return err
	}
	probeCtx, cancel := context.WithTimeout(ctx, appConfig.Classifier.Timeout())
	defer cancel()

	res, err := c.Classify(probeCtx, probeText)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ %s classifier answered", c.Name())))
	if healthcheckVerbose {
		fmt.Fprintf(out, "   Probe: %q -> %s (%.2f)\n", probeText, res.Label, res.Confidence)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckVerbose, "details", "d", false, "Show detailed information")
	healthcheckCmd.Flags().BoolVar(&skipClassifier, "skip-classifier", false, "Do not probe the classifier")
}
