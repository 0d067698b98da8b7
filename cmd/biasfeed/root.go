package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"BiasFeed/internal/app"
	"BiasFeed/internal/config"
	"BiasFeed/internal/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
	storage    string
	user       string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "biasfeed",
		Short:         "Bias-aware news aggregation and story feed.",
		Long:          "biasfeed fetches, deduplicates, scores and ranks news articles and stories against a bias preference and a belief profile.",
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default $BIASFEED_CONFIG)")
	cmd.PersistentFlags().StringVarP(&opts.logLevel, "loglevel", "l", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.storage, "storage", "", "profile storage driver: sqlite or memory")
	cmd.PersistentFlags().StringVar(&opts.user, "user", "", "user id owning the profile")

	cmd.AddCommand(
		newSearchCmd(opts),
		newAggregateCmd(opts),
		newStoriesCmd(opts),
		newProfileCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

func (o *rootOptions) config() config.Config {
	var cfg config.Config
	if o.configPath != "" {
		cfg = config.LoadFrom(o.configPath)
	} else {
		cfg = config.Load()
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.storage != "" {
		cfg.Storage.Driver = o.storage
	}
	if o.user != "" {
		cfg.Feed.UserID = o.user
	}
	return cfg
}

func (o *rootOptions) open(ctx context.Context, cmd *cobra.Command) (*app.Application, error) {
	cfg := o.config()
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level)
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("start application: %w", err)
	}
	return application, nil
}
