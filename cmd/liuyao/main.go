package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"liuyao/internal/config"
	"liuyao/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	format     string
	timezone   string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "liuyao",
	Short: "Lunar calendar conversion and six-line hexagram casting",
	Long: `liuyao converts Gregorian dates to the Chinese lunisolar calendar, labels
them with their sexagenary (gan-zhi) names and casts I Ching hexagrams by time,
by numbers, by coin toss or from lines entered by hand.

Results are printed, never stored.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if format != "" {
			loaded.Output.Format = format
		}
		if timezone != "" {
			loaded.Calendar.Timezone = timezone
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = loaded

		// Initialize logger
		zcfg := zap.NewProductionConfig()
		if cfg.Logging.Format == "console" {
			zcfg.Encoding = "console"
		}
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		opts := cfg.Logging.Options()
		if verbose {
			opts.Level = "debug"
			opts.Base = logger
		}
		if err := logging.Initialize(opts); err != nil {
			return err
		}
		logging.Boot("%s %s", cfg.Name, cfg.Version)
		logging.BootDebug("config loaded from %s (format=%s, tz=%s)", path, cfg.Output.Format, cfg.Calendar.Timezone)
		logging.CLIDebug("running %s %v", cmd.CommandPath(), args)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.liuyao/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "Output format: text, yaml, json or markdown")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "", "IANA time zone for \"now\" (default from config)")

	rootCmd.AddCommand(lunarCmd)
	rootCmd.AddCommand(solarCmd)
	rootCmd.AddCommand(ganzhiCmd)
	rootCmd.AddCommand(castCmd)
	rootCmd.AddCommand(hexagramCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
