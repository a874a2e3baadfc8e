package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <assessment-id>",
		Short: "Fetch an assessment and render its results",
		Long: `Fetches the assessment record plus its report and AI narrative. A
missing report or narrative is shown as absent rather than failing the
whole view. Viewed assessments are recorded into local history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := app.Loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), set)
			}
			renderResultSet(cmd.OutOrStdout(), set)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result set as JSON")
	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously created or viewed assessments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if clear {
				if err := app.Store.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
				return nil
			}
			renderHistory(cmd.OutOrStdout(), app.Store.Read())
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "remove all local history")
	return cmd
}
