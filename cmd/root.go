package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tanq16/gribdl/internal/config"
	"github.com/tanq16/gribdl/internal/output"
	"github.com/tanq16/gribdl/internal/utils"
)

var (
	cfgFile    string
	outputDir  string
	workingDir string
	logFile    string
	logLevel   int
	debug      bool
	force      bool
	timeout    time.Duration
	userAgent  string
	proxyURL   string
	headers    []string
	workers    int
	mirrorURL  string
	awsProfile string
)

// Resolved once per invocation by setup.
var (
	settings  config.Config
	logger    = zerolog.Nop()
	logCloser io.Closer
)

var GribdlVersion = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "gribdl",
		Short:             "gribdl fetches NOAA precipitation GRIB files missing from a local directory",
		Version:           GribdlVersion,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				logCloser.Close()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&outputDir, "output-dir", "o", "", "Directory holding the local GRIB archive (required)")
	flags.StringVarP(&workingDir, "working-dir", "w", "", "Change to this directory before running")
	flags.BoolVar(&force, "force", false, "Download every remote file even if it exists locally")
	flags.StringVarP(&logFile, "log-file", "l", "", "Also write logs to this file (rotated at 5 MB)")
	flags.IntVarP(&logLevel, "log-level", "n", 2, "Log level 0-5 (trace, debug, info, warn, error, critical)")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging and dump resolved settings")
	flags.DurationVarP(&timeout, "timeout", "t", 0, "Per-request timeout (eg. 30s, 5m); 0 disables it")
	flags.StringVarP(&userAgent, "user-agent", "a", utils.ToolUserAgent, "User agent")
	flags.StringVar(&proxyURL, "proxy", "", "HTTP/HTTPS proxy URL (e.g., proxy.example.com:8080)")
	flags.StringArrayVarP(&headers, "header", "H", []string{}, "Custom headers (like 'X-Api-Key: abc'); can be specified multiple times")
	flags.IntVar(&workers, "workers", utils.MaxWorkers, fmt.Sprintf("Parallel downloads (1-%d)", utils.MaxWorkers))
	flags.StringVar(&mirrorURL, "mirror", "", "Also upload each download to s3://bucket/prefix")
	flags.StringVar(&awsProfile, "profile", "", "AWS profile for --mirror")
	flags.StringVar(&cfgFile, "config", "", "YAML file with defaults for these flags")

	root.AddCommand(newQPECmd())
	root.AddCommand(newQPFCmd())
	root.AddCommand(newHRRRCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newCleanCmd())
	return root
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		output.PrintError(err.Error())
		os.Exit(1)
	}
}

// setup merges the config file, GRIBDL_* variables and flags (in rising
// precedence), validates the output directory and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if cfg.WorkingDir != "" {
		dir, err := utils.ExpandPath(cfg.WorkingDir)
		if err != nil {
			return fmt.Errorf("working directory: %w", err)
		}
		if err := os.Chdir(dir); err != nil {
			return fmt.Errorf("working directory: %w", err)
		}
		cfg.WorkingDir = dir
	}
	if cfg.OutputDir == "" {
		return errors.New("an output directory is required (--output-dir or GRIBDL_OUTPUT_DIR)")
	}
	if cfg.OutputDir, err = utils.ExpandPath(cfg.OutputDir); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrOutputDir, err)
	}
	if err := utils.CheckOutputDir(cfg.OutputDir); err != nil {
		return err
	}
	if cfg.LogFile, err = utils.ExpandPath(cfg.LogFile); err != nil {
		return fmt.Errorf("log file: %w", err)
	}

	logger, logCloser, err = utils.NewLogger(utils.LogConfig{
		Level: cfg.LogLevel,
		Debug: debug,
		File:  cfg.LogFile,
	})
	if err != nil {
		return err
	}
	settings = cfg
	dumpSettings(cmd)
	return nil
}

func resolveSettings(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		path, err := utils.ExpandPath(cfgFile)
		if err != nil {
			return cfg, err
		}
		if cfg, err = config.LoadFromFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("working-dir") {
		cfg.WorkingDir = workingDir
	}
	if flags.Changed("force") {
		cfg.Force = force
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if flags.Changed("user-agent") || cfg.UserAgent == "" {
		cfg.UserAgent = userAgent
	}
	if flags.Changed("proxy") {
		cfg.Proxy = proxyURL
	}
	if flags.Changed("header") {
		cfg.Headers = headers
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("mirror") {
		cfg.Mirror = mirrorURL
	}
	if flags.Changed("profile") {
		cfg.Profile = awsProfile
	}
	return cfg, cfg.Validate()
}

func dumpSettings(cmd *cobra.Command) {
	if !debug {
		return
	}
	logger.Debug().Str("op", "cmd/root").Fields(map[string]any{
		"command":     cmd.Name(),
		"config":      cfgFile,
		"output_dir":  settings.OutputDir,
		"working_dir": settings.WorkingDir,
		"force":       settings.Force,
		"log_file":    settings.LogFile,
		"log_level":   settings.LogLevel,
		"timeout":     settings.Timeout.String(),
		"user_agent":  settings.UserAgent,
		"proxy":       settings.Proxy,
		"headers":     settings.Headers,
		"workers":     settings.Workers,
		"mirror":      settings.Mirror,
		"profile":     settings.Profile,
	}).Msg("Resolved settings")
}
