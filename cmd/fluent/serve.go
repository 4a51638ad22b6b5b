package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/fluent/internal/config"
	"github.com/dmitrymomot/fluent/internal/server"
	"github.com/dmitrymomot/fluent/pkg/localization"
	"github.com/dmitrymomot/fluent/pkg/logger"
	"github.com/dmitrymomot/fluent/pkg/resource"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve formatted messages over HTTP",
		Long: `serve exposes the project's messages as JSON:

  GET /v1/messages?id=hello&arg.name=Anna
  GET /healthz
  GET /readyz

Resources are read from the manifest directory, or from S3 when
FLUENT_S3_BUCKET is set, and cached in Redis when FLUENT_REDIS_URL is set
(in memory otherwise).`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("manifest", "", "project manifest (default $FLUENT_MANIFEST or fluent.yaml)")
	cmd.Flags().String("addr", "", "listen address (default $FLUENT_ADDR or :8080)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return err
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("manifest"); v != "" {
		cfg.Manifest = v
	}
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.Addr = v
	}

	log, flush := logger.NewWithSentry(cfg.Log, cfg.Sentry, logger.LocaleExtractor())
	defer flush()

	m, err := config.LoadManifest(cfg.Manifest)
	if err != nil {
		return err
	}

	var source resource.Fetcher
	if cfg.UseS3() {
		s3, err := resource.NewS3(cfg.S3)
		if err != nil {
			return err
		}
		source = s3
		log.Info("reading resources from S3", slog.String("bucket", cfg.S3.Bucket))
	} else {
		source = resource.NewFS(os.DirFS(m.Dir))
		log.Info("reading resources from disk", slog.String("dir", m.Dir))
	}

	var hooks []server.RunOption
	var checks []server.Option

	var store resource.Store
	if cfg.RedisURL != "" {
		client, err := resource.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		store = resource.NewRedisStore(client, resource.WithRedisTTL(cfg.CacheTTL))
		checks = append(checks, server.WithCheck("redis", resource.RedisHealthcheck(client)))
	} else {
		store = resource.NewMemoryStore(resource.WithMemoryTTL(cfg.CacheTTL))
	}
	hooks = append(hooks, server.WithShutdownHook(func(context.Context) error { return store.Close() }))

	fetcher := resource.NewCached(source, store,
		resource.WithTTL(cfg.CacheTTL),
		resource.WithCacheLogger(log),
	)

	l10n, err := localization.New(m.Resources, fetcher, append(m.Options(), localization.WithLogger(log))...)
	if err != nil {
		return err
	}
	if err := l10n.Preload(ctx); err != nil {
		return err
	}
	checks = append(checks,
		server.WithHandlerLogger(log),
		server.WithCheck("bundles", l10n.Preload),
	)

	return server.Run(ctx, server.NewHandler(l10n, checks...),
		append(hooks,
			server.WithAddress(cfg.Addr),
			server.WithShutdownTimeout(cfg.ShutdownTimeout),
			server.WithLogger(log),
		)...,
	)
}
