package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmoran/flaggen/internal/diag"
	"github.com/cmmoran/flaggen/pkg/action/verify"
)

func init() {
	rootCmd.AddCommand(NewVerifyCommand())
}

func NewVerifyCommand() *cobra.Command {
	var showDiff bool

	// verifyCmd represents the flaggen verify command
	var verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "check generated files are current",
		Long:  "Regenerate in memory and fail when any generated file or manifest entry differs from what is on disk",
	}
	options := addOptionFlags(verifyCmd)
	verifyCmd.Flags().BoolVarP(&showDiff, "diff", "d", true, "print a diff for every outdated file")

	verifyCmd.RunE = func(c *cobra.Command, args []string) error {
		opts, err := resolveOptions(c, options)
		if err != nil {
			return err
		}
		stale, res, err := verify.Verify(c.Context(), opts)
		if res != nil {
			printDiagnostics(c, res.Diagnostics)
		}
		w := c.OutOrStdout()
		for _, s := range stale {
			_, _ = fmt.Fprintf(w, "%s: %s\n", s.Path, s.Reason)
			if showDiff && s.Diff != "" {
				_, _ = fmt.Fprintln(w, s.Diff)
			}
		}
		return err
	}
	return verifyCmd
}

func printDiagnostics(c *cobra.Command, diags diag.List) {
	if err := diags.Print(c.ErrOrStderr()); err != nil {
		logger.Warnw("cannot print diagnostics", "error", err)
	}
}
