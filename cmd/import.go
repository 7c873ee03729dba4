package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import-questions",
	Short: "Load a csv or xlsx question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		creator, _ := cmd.Flags().GetString("creator")

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.services.ImportExport().ImportQuestions(cmd.Context(), f, filepath.Base(path), creator)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d of %d rows\n", summary.SuccessCount, summary.TotalRows)
		for _, rowErr := range summary.Errors {
			fmt.Fprintf(out, "  row %d %s: %s\n", rowErr.Row, rowErr.Field, rowErr.Message)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("file", "", "Path to the question bank file (.csv or .xlsx)")
	importCmd.Flags().String("creator", "cli", "Creator id recorded on imported questions")
	_ = importCmd.MarkFlagRequired("file")
}
