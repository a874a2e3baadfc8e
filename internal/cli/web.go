package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/smefin/finhealth/internal/webui"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the local browser dashboard",
		Long: `Starts a local web server with the upload form, results pages, and
history list. The dashboard talks to the same backend and history file
as the other commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = app.Cfg.WebAddr
			}

			handler := webui.NewServer(
				app.Loader,
				app.Client,
				app.Store,
				webui.Config{Lang: app.Cfg.Lang},
				app.Logger,
			)

			srv := &http.Server{
				Addr:         addr,
				Handler:      handler,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 3 * time.Minute, // submissions block on the backend's scoring pipeline
				IdleTimeout:  120 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				app.Logger.Info("dashboard listening", "addr", srv.Addr, "backend", app.Cfg.APIBaseURL)
				fmt.Fprintf(cmd.OutOrStdout(), "Dashboard running at http://%s\n", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Block until the command context is cancelled (Ctrl-C) or the
			// server dies unexpectedly.
			select {
			case <-cmd.Context().Done():
				app.Logger.Info("shutdown signal received")
			case err := <-serverErr:
				return fmt.Errorf("dashboard server: %w", err)
			}

			// Give in-flight requests a moment to finish.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("dashboard shutdown: %w", err)
			}

			app.Logger.Info("shutdown complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from FINHEALTH_WEB_ADDR)")
	return cmd
}
