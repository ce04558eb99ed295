package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cmmoran/flaggen/pkg/action/generate"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
}

func NewGenerateCommand() *cobra.Command {
	// generateCmd represents the flaggen generate command
	var generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "generate flag types",
		Long:  "Generate feature flag types and editors for every flagkit declaration and record them in the manifest",
	}
	options := addOptionFlags(generateCmd)

	generateCmd.RunE = func(c *cobra.Command, args []string) error {
		opts, err := resolveOptions(c, options)
		if err != nil {
			return err
		}
		res, err := generate.Generate(c.Context(), opts)
		if res != nil {
			printDiagnostics(c, res.Diagnostics)
		}
		return err
	}
	return generateCmd
}
