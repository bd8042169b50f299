package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"lessonlab/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lessonlab",
	Short: "lessonlab - lesson analytics and wiki census toolkit",
	Long: `lessonlab bundles three small analysis tools:

  beasts   crawl an alphabetical wiki category and tally pages per first letter
  overlap  compute how long pupil and tutor were both present in a lesson
  sum      add two integers through a strict type-checked call

Each command reads optional settings from lessonlab.yaml (see --config)
with LESSONLAB_* environment variables taking precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		zcfg := zap.NewProductionConfig()
		if level, perr := zapcore.ParseLevel(cfg.Logging.Level); perr == nil {
			zcfg.Level = zap.NewAtomicLevelAt(level)
		}
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "lessonlab.yaml", "path to config file")

	rootCmd.AddCommand(beastsCmd)
	rootCmd.AddCommand(overlapCmd)
	rootCmd.AddCommand(sumCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
