// Package cli defines the cobra command surface for the finhealth binary.
// Commands are thin: they parse flags, call the gateway / loader / store,
// and hand the data to the renderers in render.go. No command talks to the
// network directly.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/smefin/finhealth/internal/config"
	"github.com/smefin/finhealth/internal/gateway"
	"github.com/smefin/finhealth/internal/history"
	"github.com/smefin/finhealth/internal/results"
)

// App bundles the shared dependencies commands need. Constructed once in
// main and handed to NewRootCmd.
type App struct {
	Cfg    *config.Config
	Client *gateway.Client
	Store  history.Store
	Loader *results.Loader
	Logger *slog.Logger
}

// NewRootCmd builds the full command tree.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "finhealth",
		Short: "Client for the SME financial-health assessment service",
		Long: `finhealth submits bookkeeping exports to the SME financial-health
assessment service, renders the returned scores and reports in the
terminal, and keeps a local history of past assessments.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newHealthCmd(app),
		newSubmitCmd(app),
		newShowCmd(app),
		newHistoryCmd(app),
		newWebCmd(app),
	)
	return root
}

// ─── health ───────────────────────────────────────────────────────────────────

func newHealthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the assessment backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := app.Client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("backend unreachable at %s: %w", app.Cfg.APIBaseURL, err)
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

// printJSON writes v as indented JSON, the shared --json output path.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
