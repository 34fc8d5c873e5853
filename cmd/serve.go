package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bodyfit-ai/bodyfit/internal/analysis"
	"github.com/bodyfit-ai/bodyfit/internal/content"
	"github.com/bodyfit-ai/bodyfit/internal/handlers"
	"github.com/bodyfit-ai/bodyfit/internal/preview"
	"github.com/bodyfit-ai/bodyfit/internal/session"
	"github.com/bodyfit-ai/bodyfit/internal/storage"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the BodyFit web app",
		Long: `Starts the BodyFit AI web interface on the specified port.

Visitors can read about the service on the landing page, upload a photo
on the upload page and receive simulated measurements with size
recommendations.`,
		Example: `  # Start server on default port 8888
  bodyfit serve

  # Start server on custom port with a faster simulated analysis
  BODYFIT_ANALYSIS_DELAY=500ms bodyfit serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			catalog, err := content.Load(cfg.ContentPath)
			if err != nil {
				return err
			}

			previews := preview.New(preview.DefaultTTL)
			analyzer := analysis.NewMockAnalyzer(cfg.AnalysisDelay)
			store := storage.New(cfg.SessionTTL, func(id string) *session.Session {
				return session.New(id, analyzer, previews)
			})

			handler, err := handlers.New(cfg, catalog, store, previews)
			if err != nil {
				return err
			}

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				slog.Info("BodyFit interface available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				// Wait for Ctrl+C or a failed listener
				<-ctx.Done()
				slog.Info("Shutting down server...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				err := server.Shutdown(shutdownCtx)

				// closing the sessions also ends their event streams
				store.Flush()
				if err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			})

			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}
