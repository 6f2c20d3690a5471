package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/fxed/internal/config"
	"github.com/oakwood-commons/fxed/internal/editor"
	"github.com/oakwood-commons/fxed/internal/ui"
	"github.com/oakwood-commons/fxed/pkg/filter"
	"github.com/oakwood-commons/fxed/pkg/logger"
	"github.com/oakwood-commons/fxed/pkg/options"
	"github.com/oakwood-commons/fxed/pkg/settings"
)

// ErrCancelled is returned when the user aborts the editor with ctrl+c.
var ErrCancelled = errors.New("editing cancelled")

var (
	configFile     string
	dataFile       string
	debounce       string
	logLevel       = newEnumValue("level", "", "debug", "info", "warn", "error")
	logFile        string
	noColor        bool
	startKeys      []string
	renderSnapshot bool
	output         = newEnumValue("format", settings.OutputText, settings.OutputText, settings.OutputCEL)
	snapshotWidth  int
	snapshotHeight int

	rootCtx      = context.Background()
	activeConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName,
	Short: "Build filter expressions from the keyboard",
	Long: `fxed edits a nested AND/OR filter expression from a single input line.
Pick a property, an operator and a value from the suggestion menu; arrows move
between conditions and backspace steps back or removes them. The finished
expression is printed as text or as CEL.`,
	Example: "\n  fxed\n  fxed --data customers.csv --output cel\n  fxed --snapshot --press 'sta<CR><CR><CR>'\n",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configFile, flagOverrides(cmd))
		if err != nil {
			return err
		}
		activeConfig = cfg

		run := settings.NewCliParams()
		run.MinLogLevel = cfg.LogLevel()
		run.ConfigFile = configFile
		run.DataFile = cfg.Data.File
		run.Output = output.String()
		run.Interactive = cmd == rootCmd && !renderSnapshot
		run.NoColor = cfg.Editor.NoColor

		lcfg := logger.Config{
			Level:      run.MinLogLevel,
			File:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			Writer:     cmd.ErrOrStderr(),
		}
		if run.Interactive && lcfg.File == "" {
			// The terminal belongs to the editor.
			lcfg.Writer = io.Discard
		}
		lgr := logger.Get(lcfg)
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
		rootCtx = settings.IntoContext(logger.WithLogger(context.Background(), lgr), run)
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runEditor(rootCtx, cmd.OutOrStdout())
	},
}

// flagOverrides applies the flags the user set on top of file and
// environment configuration.
func flagOverrides(cmd *cobra.Command) func(*config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	return func(cfg *config.Config) {
		if changed("data") {
			cfg.Data.File = dataFile
		}
		if changed("debounce") {
			cfg.Editor.Debounce = debounce
		}
		if changed("log-level") {
			cfg.Logging.Level = logLevel.String()
		}
		if changed("log-file") {
			cfg.Logging.File = logFile
		}
		if changed("no-color") {
			cfg.Editor.NoColor = noColor
		}
	}
}

func runEditor(ctx context.Context, out io.Writer) error {
	lgr := *logger.FromContext(ctx)
	run, ok := settings.FromContext(ctx)
	if !ok {
		run = settings.NewCliParams()
	}
	cfg := activeConfig

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	src, err := openSource(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	if src != nil {
		defer src.Close()
	}
	reg, err := buildRegistry(cfg, src)
	if err != nil {
		return err
	}
	d, err := cfg.DebounceDuration()
	if err != nil {
		return err
	}

	notifier := ui.NewNotifier()
	metrics := prometheus.NewRegistry()
	cache := options.New(ctx,
		options.WithDebounce(d),
		options.WithLogger(lgr),
		options.WithNotify(notifier.Notify),
		options.WithMetrics(metrics),
	)
	sess := editor.New(reg,
		editor.WithLogger(lgr),
		editor.WithCache(cache),
		editor.WithMaxOptions(cfg.Editor.MaxOptions),
	)
	defer sess.Close()

	opts := ui.RunOptions{
		Width:    snapshotWidth,
		Height:   snapshotHeight,
		Keys:     startKeys,
		NoColor:  run.NoColor,
		Notifier: notifier,
	}
	var res ui.Result
	if run.Interactive {
		res, err = ui.Run(sess, opts)
		if err != nil {
			return fmt.Errorf("editor: %w", err)
		}
	} else {
		var view string
		view, res = ui.Snapshot(sess, opts)
		fmt.Fprintln(out, view)
	}
	logCacheMetrics(lgr, metrics)

	if res.Cancelled {
		return ErrCancelled
	}
	return writeResult(out, res.Root, reg, run.Output)
}

func writeResult(out io.Writer, root *filter.Group, reg *filter.Registry, format string) error {
	switch format {
	case settings.OutputCEL:
		if err := filter.CheckCEL(root, reg); err != nil {
			return fmt.Errorf("expression does not type-check: %w", err)
		}
		_, err := fmt.Fprintln(out, filter.ToCEL(root, reg))
		return err
	default:
		_, err := fmt.Fprintln(out, root.String())
		return err
	}
}

func logCacheMetrics(lgr logr.Logger, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		lgr.Error(err, "failed to gather option cache metrics")
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			lgr.V(1).Info("option cache", "metric", mf.GetName(), "labels", strings.Join(labels, ","), "value", m.GetCounter().GetValue())
		}
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", "", "path to a YAML or TOML config file")
	rootCmd.PersistentFlags().StringVar(&dataFile, "data", "", "CSV, JSON or Parquet file whose columns back property values")
	rootCmd.PersistentFlags().Var(logLevel, "log-level", "log level: debug|info|warn|error (default from config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a rotating file")

	rootCmd.Flags().StringVar(&debounce, "debounce", "", "delay before fetching value suggestions, e.g. 300ms (default from config)")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.Flags().StringArrayVar(&startKeys, "press", nil, "Simulate keys on startup. Use <Key> for special keys (e.g. <CR>, <BS>, <Esc>, <Tab>, <Down>, <C-d>). Literal text types normally.")
	rootCmd.Flags().BoolVar(&renderSnapshot, "snapshot", false, "replay --press keys without a terminal, print the screen and the expression, and exit")
	rootCmd.Flags().VarP(output, "output", "o", "output format of the expression: text|cel")
	rootCmd.Flags().IntVar(&snapshotWidth, "width", 0, "screen width in columns (default: terminal width)")
	rootCmd.Flags().IntVar(&snapshotHeight, "height", 0, "screen height in rows (default: terminal height)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(propertiesCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
