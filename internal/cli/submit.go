package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smefin/finhealth/internal/gateway"
)

func newSubmitCmd(app *App) *cobra.Command {
	var (
		company     string
		industry    string
		lang        string
		mapAI       bool
		ai          bool
		geminiModel string
		asJSON      bool
	)
	filePaths := map[string]*string{}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Upload documents and run a new assessment",
		Long: `Uploads the given bookkeeping exports and blocks until the backend has
scored them. Sales and expenses files are required; the others improve
the analysis when provided.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if lang == "" {
				lang = app.Cfg.Lang
			}
			params := gateway.CreateParams{
				Company:     company,
				Industry:    industry,
				Lang:        lang,
				MapAI:       mapAI,
				AI:          ai,
				GeminiModel: geminiModel,
			}
			for _, field := range []string{
				gateway.FileSales, gateway.FileExpenses, gateway.FileAR,
				gateway.FileAP, gateway.FileLoans, gateway.FileInventory, gateway.FileTax,
			} {
				if path := *filePaths[field]; path != "" {
					params.Files = append(params.Files, gateway.FileUpload{Field: field, Path: path})
				}
			}

			// The backend accepts partial uploads, but an assessment without
			// sales and expenses is not worth a round trip.
			if company == "" || industry == "" {
				return errors.New("--company and --industry are required")
			}
			if *filePaths[gateway.FileSales] == "" || *filePaths[gateway.FileExpenses] == "" {
				return errors.New("--sales and --expenses files are required")
			}

			assessment, err := app.Loader.Submit(cmd.Context(), params)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), assessment)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Assessment created: %s\n\n", assessment.ID)
			renderScores(out, assessment.Result.Scores)
			fmt.Fprintf(out, "\nRun `finhealth show %s` for the full report.\n", assessment.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "company name (required)")
	cmd.Flags().StringVar(&industry, "industry", "", "industry, e.g. retail or services (required)")
	cmd.Flags().StringVar(&lang, "lang", "", "report language (default from FINHEALTH_LANG)")
	cmd.Flags().BoolVar(&mapAI, "map-ai", false, "use AI-assisted column mapping")
	cmd.Flags().BoolVar(&ai, "ai", false, "generate the AI narrative")
	cmd.Flags().StringVar(&geminiModel, "gemini-model", "", "override the backend's AI model")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw assessment record as JSON")

	for _, field := range []string{
		gateway.FileSales, gateway.FileExpenses, gateway.FileAR,
		gateway.FileAP, gateway.FileLoans, gateway.FileInventory, gateway.FileTax,
	} {
		filePaths[field] = cmd.Flags().String(field, "", field+" file (csv/xlsx/pdf)")
	}

	return cmd
}
