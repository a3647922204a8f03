package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/iksnae/emotion-session/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the emotion analysis HTTP API.

Endpoints:
  GET    /                        Service info
  GET    /health                  Liveness
  POST   /analyze                 Analyze one utterance
  GET    /history/{session_id}    Session history, newest first
  GET    /trends/{session_id}     Session mood trend
  GET    /sessions                Recently active sessions
  DELETE /sessions/{session_id}   Delete a session

The server stops gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newClassifyingApp(ctx, appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		addr := appConfig.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := server.New(a.analyzer, server.WithVersion(version))
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8000)")
}
