package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/snaptile/internal/config"
	"github.com/1broseidon/snaptile/internal/daemon"
	"github.com/1broseidon/snaptile/internal/logging"
	"github.com/1broseidon/snaptile/internal/platform"
	"github.com/1broseidon/snaptile/internal/report"
	"github.com/1broseidon/snaptile/internal/version"
)

// rootFlags holds the flags shared by the root command and its subcommands.
type rootFlags struct {
	configPath string
	threshold  int
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	runE := func(cmd *cobra.Command, _ []string) error {
		return runSnapper(cmd, flags)
	}

	root := &cobra.Command{
		Use:          "snaptile",
		Short:        "snaptile - snap window edges onto neighbouring windows",
		Long:         "snaptile watches for the end of window moves and resizes and snaps the\nmoved window's edge onto a nearby edge of another window.",
		Version:      version.GetVersion(),
		Args:         cobra.NoArgs,
		RunE:         runE,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file path (default: <user config dir>/snaptile/config.yaml)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "V", false, "enable verbose output")
	root.Flags().IntVarP(&flags.threshold, "threshold", "t", 0, "snap distance in pixels (overrides config)")

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the snapper in the foreground",
		Args:  cobra.NoArgs,
		RunE:  runE,
	}
	run.Flags().IntVarP(&flags.threshold, "threshold", "t", 0, "snap distance in pixels (overrides config)")

	root.AddCommand(
		run,
		newWindowsCmd(),
		newConfigCmd(flags),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "snaptile %s\n", version.GetFullVersion())
		},
	}
}

// loadConfig loads the config file named by --config, or the default file,
// and applies a --threshold override when the flag was given.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.LoadResult, error) {
	path := flags.configPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("threshold"); f != nil && f.Changed {
		res.Config.Threshold = flags.threshold
		if err := res.Config.Validate(); err != nil {
			return nil, fmt.Errorf("--threshold: %w", err)
		}
		res.Sources["threshold"] = config.Source{Kind: config.SourceFlag, Name: "--threshold"}
	}
	return res, nil
}

// newLogger builds the log file sink from cfg and mirrors records to stderr
// when verbose or attached to a terminal.
func newLogger(cfg *config.Config, verbose bool, stderr *os.File) (*logging.Logger, error) {
	lc := cfg.GetLoggingConfig()

	var console io.Writer
	if verbose || term.IsTerminal(int(stderr.Fd())) {
		console = stderr
	}

	log, err := logging.New(logging.Options{
		Level:     lc.Level,
		File:      lc.File,
		MaxSizeMB: lc.MaxSizeMB,
		MaxFiles:  lc.MaxFiles,
		Compress:  lc.Compress,
		Console:   console,
		Verbose:   verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

func runSnapper(cmd *cobra.Command, flags *rootFlags) error {
	res, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	cfg := res.Config

	log, err := newLogger(cfg, flags.verbose, os.Stderr)
	if err != nil {
		return err
	}
	defer log.Close()

	if res.File != "" {
		log.Debug("configuration loaded", "file", res.File)
	} else {
		log.Debug("no config file, using defaults")
	}
	if p := log.Path(); p != "" {
		log.Debug("logging to file", "path", p)
	}

	notify, err := report.Select(cfg.Notify)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	native, err := platform.Open(platform.Options{
		SettleDelay: time.Duration(cfg.SettleDelayMS) * time.Millisecond,
		Logger:      log.Logger,
	})
	if err != nil {
		err = fmt.Errorf("%w: %w", daemon.ErrSetup, err)
		report.WithLog(notify, log.Logger).Notify(report.LevelError, "snaptile", err.Error())
		return err
	}
	defer func() {
		if err := native.Close(); err != nil {
			log.Warn("failed to close window system connection", "error", err)
		}
	}()

	_, err = daemon.Run(ctx, native, daemon.Options{
		Threshold:       cfg.Threshold,
		IgnoreMinimized: cfg.IgnoreMinimized,
		IgnoreMaximized: cfg.IgnoreMaximized,
		DPIAwareness:    cfg.DPIAwareness,
		Logger:          log.Logger,
		Notify:          notify,
	})
	return err
}
