package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest documents into knowledge bases",
	Long: `Ingests each file into its own knowledge base, named after the
file. Supported formats: Markdown, PDF, DOCX. Files are processed
independently; one failing file does not stop the rest.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	application, err := loadApp()
	if err != nil {
		return err
	}
	defer application.Close()

	results, fileErrs, err := application.Ingest.IngestFiles(cmd.Context(), args)
	if err != nil {
		return err
	}

	for _, result := range results {
		cmd.Printf("%s  %s  files=%d chunks=%d\n",
			result.KBID, result.VersionID, result.Files, result.Chunks)
	}

	failed := 0
	for i, fileErr := range fileErrs {
		if fileErr != nil {
			failed++
			cmd.PrintErrf("failed: %s: %v\n", args[i], fileErr)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}
