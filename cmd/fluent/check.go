package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/fluent/pkg/syntax"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file> [file...]",
		Short: "Report syntax errors in FTL files",
		Long:  "check parses every file and prints each diagnostic with its position. The exit status is 1 when any diagnostic is reported.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	p, err := newPalette(cmd)
	if err != nil {
		return err
	}
	out := cmd.ErrOrStderr()

	total := 0
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		res, errs := syntax.Parse(string(src))
		for _, e := range errs {
			p.syntaxError(out, path, e)
		}
		total += len(errs)

		if len(errs) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d messages\n", path, len(res.Messages()))
		}
	}

	if total > 0 {
		fmt.Fprintf(out, "%s\n", p.err.Sprintf("%d diagnostics", total))
		return errDiagnostics
	}
	return nil
}
