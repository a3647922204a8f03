package cmd

import (
	"fmt"

	"github.com/iksnae/emotion-session/internal"
	"github.com/iksnae/emotion-session/internal/export"
	"github.com/spf13/cobra"
)

var (
	format     string
	outputDir  string
	sessionIDs []string
	compress   bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to file",
	Long: `Export sessions with their trend and analyses to various formats
(jsonl, md, yaml, json). Files can be zstd-compressed with --compress.

Without --session the most recently active sessions are exported.
Use 'emotion-session sessions' to see available session IDs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		ids := sessionIDs
		if len(ids) == 0 {
			sessions, err := a.analyzer.Sessions(ctx, internal.MaxSessionsLimit)
			if err != nil {
				return err
			}
			for _, s := range sessions {
				ids = append(ids, s.SessionID)
			}
		}
		if len(ids) == 0 {
			internal.PrintInfo(cmd.OutOrStdout(), "No sessions to export")
			return nil
		}

		var written []string
		err = internal.ShowProgress(ctx, fmt.Sprintf("Exporting %d session(s) to %s", len(ids), outputDir), func() error {
			for _, id := range ids {
				records, err := a.analyzer.Records(ctx, id)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					return fmt.Errorf("session not found: %s (use 'emotion-session sessions' to see available sessions)", id)
				}
				path, err := export.WriteFile(exporter, export.NewSessionExport(id, records), outputDir, compress)
				if err != nil {
					return err
				}
				internal.LogDebug("Wrote %s", path)
				written = append(written, path)
			}
			return nil
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, path := range written {
			fmt.Fprintf(out, "  %s\n", dateStyle.Render(path))
		}
		internal.PrintSuccess(out, fmt.Sprintf("Export complete: %d session(s) exported to %s", len(written), outputDir))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringSliceVarP(&sessionIDs, "session", "s", nil, "Session ID to export (repeatable)")
	exportCmd.Flags().BoolVar(&compress, "compress", false, "Compress files with zstd")
}
