package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/fluent/pkg/syntax"
)

func newFmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [flags] <file> [file...]",
		Short: "Rewrite FTL files in canonical form",
		Long:  "fmt prints the canonical serialization of each file. Unparseable entries are kept verbatim.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runFmt,
	}
	cmd.Flags().BoolP("write", "w", false, "write result to the source file instead of stdout")
	cmd.Flags().BoolP("list", "l", false, "list files whose formatting differs")
	return cmd
}

func runFmt(cmd *cobra.Command, args []string) error {
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return err
	}
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	p, err := newPalette(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		res, errs := syntax.Parse(string(src))
		for _, e := range errs {
			p.syntaxError(cmd.ErrOrStderr(), path, e)
		}

		formatted := syntax.Serialize(res)
		changed := formatted != string(src)

		switch {
		case list:
			if changed {
				fmt.Fprintln(out, path)
			}
		case write:
			if !changed {
				continue
			}
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
				return err
			}
		default:
			fmt.Fprint(out, formatted)
		}
	}
	return nil
}
