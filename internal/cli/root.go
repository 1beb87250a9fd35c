package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kaedeh1ra/QR-Detector/internal/analyzer"
	"github.com/kaedeh1ra/QR-Detector/internal/banner"
	"github.com/kaedeh1ra/QR-Detector/internal/config"
	"github.com/kaedeh1ra/QR-Detector/internal/htmlscan"
	"github.com/kaedeh1ra/QR-Detector/internal/httpclient"
	"github.com/kaedeh1ra/QR-Detector/internal/logger"
	"github.com/kaedeh1ra/QR-Detector/internal/reputation"
	"github.com/kaedeh1ra/QR-Detector/internal/trace"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "qrdetector",
		Short:         "Check whether the content of a QR code is safe to open",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().String("config", "", "path to config file (yaml or json)")
	root.PersistentFlags().String("log-level", "", "override log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("no-banner", false, "do not print the banner")

	root.AddCommand(newAnalyzeCmd(), newBatchCmd(), newServeCmd(), newVersionCmd())
	return root
}

// Execute runs the CLI with a context cancelled on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "[-] Error: %v\n", err)
		return err
	}
	return nil
}

// app bundles what every subcommand needs.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	analyzer *analyzer.Analyzer
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.LogLevel = lvl
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	hcfg, err := httpclient.FromConfig(cfg.HTTP, log)
	if err != nil {
		return nil, err
	}
	client := httpclient.New(hcfg)

	classifier, err := reputation.New(client, cfg.Reputation.APIKey, cfg.Reputation.BaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("%w (set %s or reputation.api_key)", err, config.EnvAPIKey)
	}

	a := analyzer.New(
		trace.New(client, cfg.Resolver.MaxHops, log),
		classifier,
		htmlscan.NewTitleFetcher(client, cfg.Title.MaxBodyBytes, log),
		log,
	)
	return &app{cfg: cfg, logger: log, analyzer: a}, nil
}

func printBanner(cmd *cobra.Command, quiet bool) {
	if noBanner, _ := cmd.Flags().GetBool("no-banner"); noBanner || quiet {
		return
	}
	banner.PrintBanner(cmd.ErrOrStderr(), version)
}
