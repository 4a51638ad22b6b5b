// Command fluent checks, formats and serves Fluent (FTL) translations.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version can be overridden at build time via -ldflags.
var Version = "0.1.0-dev"

// errDiagnostics signals a non-zero exit after diagnostics were printed.
var errDiagnostics = errors.New("diagnostics reported")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fluent",
		Short:         "Fluent localization toolchain",
		Long:          "fluent validates, formats and resolves Fluent (FTL) translation files, and serves them over HTTP.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().String("env-file", ".env", "optional dotenv file")

	root.AddCommand(newCheckCmd(), newFmtCmd(), newFormatCmd(), newServeCmd())
	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, "fluent:", err)
		}
		cancel()
		os.Exit(1)
	}
}
