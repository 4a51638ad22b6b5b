package main

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/fluent/internal/config"
	"github.com/dmitrymomot/fluent/pkg/localization"
	"github.com/dmitrymomot/fluent/pkg/logger"
	"github.com/dmitrymomot/fluent/pkg/resource"
)

func newFormatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format [flags] <id> [id...]",
		Short: "Resolve messages through the locale fallback chain",
		Long: `format resolves message ids for the requested locales and prints the results.

Resources and locales come from the project manifest. Without a manifest,
--resource is required and locales are the directories under --dir.`,
		Example: `  fluent format -l pl -a count=3 emails
  fluent format --dir locales --resource main.ftl -l de-AT --attrs login`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFormat,
	}
	cmd.Flags().String("manifest", "", "project manifest (default $FLUENT_MANIFEST or fluent.yaml)")
	cmd.Flags().String("dir", "", "locale directory, overrides the manifest")
	cmd.Flags().StringSlice("resource", nil, "resource id, overrides the manifest (repeatable)")
	cmd.Flags().StringSliceP("locale", "l", nil, "requested locale, most preferred first (repeatable)")
	cmd.Flags().StringArrayP("arg", "a", nil, "message argument as name=value (repeatable)")
	cmd.Flags().Bool("attrs", false, "also print attributes")
	cmd.Flags().BoolP("verbose", "v", false, "log bundle loading")
	return cmd
}

type formatFlags struct {
	manifest  string
	dir       string
	resources []string
	locales   []string
	args      []string
	attrs     bool
	verbose   bool
}

func readFormatFlags(cmd *cobra.Command) (formatFlags, error) {
	var f formatFlags
	var err error
	flags := cmd.Flags()
	if f.manifest, err = flags.GetString("manifest"); err != nil {
		return f, err
	}
	if f.dir, err = flags.GetString("dir"); err != nil {
		return f, err
	}
	if f.resources, err = flags.GetStringSlice("resource"); err != nil {
		return f, err
	}
	if f.locales, err = flags.GetStringSlice("locale"); err != nil {
		return f, err
	}
	if f.args, err = flags.GetStringArray("arg"); err != nil {
		return f, err
	}
	if f.attrs, err = flags.GetBool("attrs"); err != nil {
		return f, err
	}
	if f.verbose, err = flags.GetBool("verbose"); err != nil {
		return f, err
	}
	return f, nil
}

func runFormat(cmd *cobra.Command, ids []string) error {
	flags, err := readFormatFlags(cmd)
	if err != nil {
		return err
	}
	p, err := newPalette(cmd)
	if err != nil {
		return err
	}
	args, err := parseArgs(flags.args)
	if err != nil {
		return err
	}

	level := slog.LevelError
	if flags.verbose {
		level = slog.LevelDebug
	}
	log := logger.NewText(cmd.ErrOrStderr(), level, logger.LocaleExtractor())

	m, err := resolveManifest(cmd, flags)
	if err != nil {
		return err
	}

	opts := append(m.Options(),
		localization.WithRequestedLocales(flags.locales...),
		localization.WithLogger(log),
	)
	l10n, err := localization.New(m.Resources, resource.NewFS(os.DirFS(m.Dir)), opts...)
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	keys := make([]localization.Key, len(ids))
	for i, id := range ids {
		keys[i] = localization.Key{ID: id, Args: args}
	}

	var results []localization.Translation
	if flags.attrs {
		results = l10n.FormatEntities(cmd.Context(), keys...)
	} else {
		results = l10n.FormatValues(cmd.Context(), keys...)
	}

	failed := false
	for _, tr := range results {
		switch {
		case tr.HasValue:
			fmt.Fprintf(out, "%s = %s\n", tr.ID, tr.Value)
		case len(tr.Attributes) > 0:
			fmt.Fprintf(out, "%s =\n", tr.ID)
		default:
			fmt.Fprintf(out, "%s\n", tr.ID)
		}
		for _, name := range slices.Sorted(maps.Keys(tr.Attributes)) {
			fmt.Fprintf(out, "    .%s = %s\n", name, tr.Attributes[name])
		}
		for _, e := range tr.Errors {
			p.diagnostic(errOut, tr.ID, e)
		}
		if len(tr.Errors) > 0 {
			failed = true
		}
	}

	if failed {
		return errDiagnostics
	}
	return nil
}

// resolveManifest loads the manifest and applies flag overrides. A missing
// manifest is tolerated when resources are given on the command line.
func resolveManifest(cmd *cobra.Command, flags formatFlags) (*config.Manifest, error) {
	path := flags.manifest
	if path == "" {
		envFile, err := cmd.Flags().GetString("env-file")
		if err != nil {
			return nil, err
		}
		cfg, err := config.Load(envFile)
		if err != nil {
			return nil, err
		}
		path = cfg.Manifest
	}

	m, err := config.LoadManifest(path)
	switch {
	case err == nil:
	case errors.Is(err, config.ErrManifestNotFound) && len(flags.resources) > 0 && flags.manifest == "":
		m = &config.Manifest{DefaultLocale: localization.DefaultLocale, Dir: "."}
	default:
		return nil, err
	}

	if flags.dir != "" {
		m.Dir = flags.dir
	}
	if len(flags.resources) > 0 {
		m.Resources = flags.resources
	}
	if len(m.Locales) == 0 {
		locales, err := resource.NewFS(os.DirFS(m.Dir)).Locales()
		if err != nil {
			return nil, err
		}
		for _, l := range locales {
			if _, err := language.Parse(l); err == nil {
				m.Locales = append(m.Locales, l)
			}
		}
		if !slices.Contains(m.Locales, m.DefaultLocale) {
			m.Locales = append(m.Locales, m.DefaultLocale)
		}
	}
	return m, nil
}

// parseArgs turns name=value pairs into message arguments. Numeric values
// become numbers.
func parseArgs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	args := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid argument %q, want name=value", pair)
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			args[name] = n
			continue
		}
		args[name] = value
	}
	return args, nil
}
